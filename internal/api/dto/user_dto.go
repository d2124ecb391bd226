package dto

import "time"

// UserResponse describes an authenticated subject.
type UserResponse struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// UserListResponse is returned by GET /users/.
type UserListResponse struct {
	Success    bool     `json:"success"`
	Users      []string `json:"users"`
	TotalCount int      `json:"total_count"`
}

// AuthEventResponse is one audit trail entry for GET /users/me/history/.
type AuthEventResponse struct {
	EventType  string    `json:"event_type"`
	Success    bool      `json:"success"`
	Similarity *float64  `json:"similarity,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// AuthEventListResponse is returned by GET /users/me/history/.
type AuthEventListResponse struct {
	Events     []AuthEventResponse `json:"events"`
	TotalCount int                 `json:"total_count"`
}
