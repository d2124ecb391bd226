package dto

// FaceRegistrationResponse is returned by POST /register/.
type FaceRegistrationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	FaceID  string `json:"face_id,omitempty"`
}

// FaceVerificationResponse is returned by POST /verify/.
type FaceVerificationResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message,omitempty"`
	UserID     string   `json:"user_id,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
	Token      string   `json:"token,omitempty"`
}
