package domain

import "time"

// EnrollmentResult reports the outcome of registering a face. A false Success
// with a Message is a rejection (typically no detectable face), not a fault.
type EnrollmentResult struct {
	Success    bool
	UserID     string
	FaceID     string
	Confidence float64
	Message    string
}

// VerificationResult reports the outcome of matching a probe image. Token is
// populated only when Success is true.
type VerificationResult struct {
	Success    bool
	UserID     string
	Similarity float64
	Token      string
	ExpiresAt  time.Time
	Message    string
}

// Rejected builds a failed verification result carrying a caller-facing reason.
func Rejected(message string) *VerificationResult {
	return &VerificationResult{Success: false, Message: message}
}
