package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventFaceEnrolled         EventType = "face_enrolled"
	EventFaceVerified         EventType = "face_verified"
	EventVerificationRejected EventType = "verification_rejected"
	EventUserDeleted          EventType = "user_deleted"
)

// Event represents an authentication event emitted by the orchestrators.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// FaceEnrolledPayload payload.
type FaceEnrolledPayload struct {
	FaceID     string  `json:"face_id"`
	Confidence float64 `json:"confidence"`
	Deduped    bool    `json:"deduped,omitempty"`
}

// FaceVerifiedPayload payload.
type FaceVerifiedPayload struct {
	Similarity float64   `json:"similarity"`
	Threshold  float64   `json:"threshold"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// VerificationRejectedPayload payload.
type VerificationRejectedPayload struct {
	Threshold float64 `json:"threshold"`
	Reason    string  `json:"reason"`
}

// UserDeletedPayload payload.
type UserDeletedPayload struct {
	DeletedFaceCount int `json:"deleted_face_count"`
}
