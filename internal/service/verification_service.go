package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/face-lock-service/internal/auth"
	"github.com/spec-kit/face-lock-service/internal/domain"
	"github.com/spec-kit/face-lock-service/internal/events"
	"github.com/spec-kit/face-lock-service/internal/recognizer"
	apperrors "github.com/spec-kit/face-lock-service/pkg/util"
)

// VerificationService matches a probe image against the enrolled faces and
// mints a session token on success.
//
// Outcomes fall in two classes that callers must keep apart: a rejection (no
// face, no match above threshold) comes back as a result with Success=false
// and a nil error, while a matching engine fault comes back as a non-nil
// GATEWAY_ERROR. A rejection is a normal answer, not a failure of the service.
type VerificationService struct {
	gateway          recognizer.Gateway
	tokens           *auth.TokenManager
	dispatcher       events.Dispatcher
	logger           *zap.Logger
	defaultThreshold float64
}

// NewVerificationService builds the service.
func NewVerificationService(gateway recognizer.Gateway, tokens *auth.TokenManager, dispatcher events.Dispatcher, logger *zap.Logger, defaultThreshold float64) *VerificationService {
	if defaultThreshold <= 0 {
		defaultThreshold = 90.0
	}
	return &VerificationService{
		gateway:          gateway,
		tokens:           tokens,
		dispatcher:       dispatcher,
		logger:           logger,
		defaultThreshold: defaultThreshold,
	}
}

// DefaultThreshold returns the similarity floor applied when the caller does
// not supply one.
func (s *VerificationService) DefaultThreshold() float64 {
	return s.defaultThreshold
}

// Verify matches image against the collection at the given similarity floor
// (0-100) and issues a session token for the matched subject. A negative
// threshold means "use the default"; zero is a valid explicit floor.
func (s *VerificationService) Verify(ctx context.Context, image []byte, threshold float64) (*domain.VerificationResult, error) {
	if threshold < 0 {
		threshold = s.defaultThreshold
	}

	match, err := s.gateway.SearchFace(ctx, image, threshold)
	if err != nil {
		if recognizer.IsRejection(err) {
			s.logger.Info("face verification rejected",
				zap.Float64("threshold", threshold),
				zap.String("reason", err.Error()))
			s.publishRejected(ctx, threshold, err.Error())
			return domain.Rejected(err.Error()), nil
		}

		s.logger.Error("face verification gateway failure",
			zap.Float64("threshold", threshold),
			zap.Error(err))
		return nil, apperrors.NewGatewayError(err)
	}

	token, expiresAt, err := s.tokens.GenerateToken(match.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("face verified",
		zap.String("user_id", match.UserID),
		zap.Float64("similarity", match.Similarity))
	s.publishVerified(ctx, match, threshold, expiresAt)

	return &domain.VerificationResult{
		Success:    true,
		UserID:     match.UserID,
		Similarity: match.Similarity,
		Token:      token,
		ExpiresAt:  expiresAt,
		Message:    "Face verified successfully",
	}, nil
}

// IsGatewayFailure reports whether err came from the matching engine rather
// than from the caller's input.
func IsGatewayFailure(err error) bool {
	var gatewayErr *recognizer.GatewayError
	if errors.As(err, &gatewayErr) {
		return true
	}
	domainErr := apperrors.ToDomainError(err)
	return domainErr != nil && domainErr.Code == "GATEWAY_ERROR"
}

func (s *VerificationService) publishVerified(ctx context.Context, match *recognizer.Match, threshold float64, expiresAt time.Time) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventFaceVerified,
		UserID:    match.UserID,
		Timestamp: time.Now(),
		Payload: events.FaceVerifiedPayload{
			Similarity: match.Similarity,
			Threshold:  threshold,
			ExpiresAt:  expiresAt,
		},
	})
}

func (s *VerificationService) publishRejected(ctx context.Context, threshold float64, reason string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventVerificationRejected,
		Timestamp: time.Now(),
		Payload: events.VerificationRejectedPayload{
			Threshold: threshold,
			Reason:    reason,
		},
	})
}
