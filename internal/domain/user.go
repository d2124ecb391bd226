package domain

// User identifies an enrolled subject. The identifier is chosen by the caller
// at enrollment time and keys every face record held by the matching engine.
type User struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
}
