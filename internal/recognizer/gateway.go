package recognizer

import (
	"context"
	"errors"
	"fmt"
)

// Rejection sentinels. These are expected negative outcomes of a well-formed
// request and must never be wrapped in a GatewayError.
var (
	// ErrNoFaceDetected means the submitted image contains no detectable face.
	ErrNoFaceDetected = errors.New("no face detected in the image")
	// ErrNoMatch means no enrolled face cleared the similarity floor.
	ErrNoMatch = errors.New("no matching face found")
	// ErrSubjectNotFound means the subject has no face records to act on.
	ErrSubjectNotFound = errors.New("no faces found for subject")
)

// GatewayError marks an infrastructure failure of the matching engine:
// network trouble, a timeout, or an internal engine fault. Callers must treat
// it as a fault, not a rejection.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("matching gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// FaceRecord binds a subject to one indexed face.
type FaceRecord struct {
	UserID     string
	FaceID     string
	Confidence float64
}

// Match is the single best candidate returned by a search.
type Match struct {
	UserID     string
	FaceID     string
	Similarity float64
}

// Gateway is the contract with the external face matching engine. Every
// method returns either a payload, one of the rejection sentinels, or a
// *GatewayError.
type Gateway interface {
	// IndexFace enrolls the face found in image under userID.
	IndexFace(ctx context.Context, userID string, image []byte) (*FaceRecord, error)
	// SearchFace returns the best match at or above minSimilarity (0-100).
	SearchFace(ctx context.Context, image []byte, minSimilarity float64) (*Match, error)
	// DeleteSubject removes every face record for userID, returning the count.
	DeleteSubject(ctx context.Context, userID string) (int, error)
	// ListSubjects returns the distinct enrolled subject identifiers.
	ListSubjects(ctx context.Context) ([]string, error)
}

// IsRejection reports whether err is an expected negative outcome rather than
// an engine fault.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNoFaceDetected) ||
		errors.Is(err, ErrNoMatch) ||
		errors.Is(err, ErrSubjectNotFound)
}
