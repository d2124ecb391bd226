package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/face-lock-service/internal/config"
	"github.com/spec-kit/face-lock-service/internal/domain"
	"github.com/spec-kit/face-lock-service/internal/events"
	"github.com/spec-kit/face-lock-service/internal/recognizer"
	"github.com/spec-kit/face-lock-service/internal/repository"
	apperrors "github.com/spec-kit/face-lock-service/pkg/util"
)

// EnrollmentService registers new faces with the matching engine. Repeated
// enrollment of the same subject accumulates face records, which strengthens
// future matches; the optional dedupe mode suppresses near-identical
// re-enrollments instead.
type EnrollmentService struct {
	gateway    recognizer.Gateway
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.EnrollmentConfig
}

// NewEnrollmentService builds the service.
func NewEnrollmentService(gateway recognizer.Gateway, profiles repository.ProfileRepository, dispatcher events.Dispatcher, logger *zap.Logger, cfg config.EnrollmentConfig) *EnrollmentService {
	return &EnrollmentService{
		gateway:    gateway,
		profiles:   profiles,
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// Enroll registers the face in image under userID. The optional profile
// fields are cached best-effort for later self lookups.
func (s *EnrollmentService) Enroll(ctx context.Context, user *domain.User, image []byte) (*domain.EnrollmentResult, error) {
	if s.cfg.Deduplicate {
		if result, ok := s.findExisting(ctx, user.UserID, image); ok {
			s.cacheProfile(ctx, user)
			return result, nil
		}
	}

	record, err := s.gateway.IndexFace(ctx, user.UserID, image)
	if err != nil {
		if recognizer.IsRejection(err) {
			s.logger.Warn("enrollment rejected",
				zap.String("user_id", user.UserID),
				zap.String("reason", err.Error()))
			return &domain.EnrollmentResult{Success: false, Message: err.Error()}, nil
		}

		s.logger.Error("enrollment gateway failure",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return nil, apperrors.NewGatewayError(err)
	}

	s.cacheProfile(ctx, user)
	s.publishEnrolled(ctx, record, false)

	s.logger.Info("enrolled face",
		zap.String("user_id", record.UserID),
		zap.String("face_id", record.FaceID))

	return &domain.EnrollmentResult{
		Success:    true,
		UserID:     record.UserID,
		FaceID:     record.FaceID,
		Confidence: record.Confidence,
		Message:    "User registered successfully",
	}, nil
}

// findExisting searches for a near-identical face already enrolled under the
// same subject. A hit short-circuits indexing to keep enrollment idempotent.
func (s *EnrollmentService) findExisting(ctx context.Context, userID string, image []byte) (*domain.EnrollmentResult, bool) {
	match, err := s.gateway.SearchFace(ctx, image, s.cfg.DedupeSimilarity)
	if err != nil || match.UserID != userID {
		return nil, false
	}

	s.logger.Info("duplicate enrollment suppressed",
		zap.String("user_id", userID),
		zap.String("face_id", match.FaceID),
		zap.Float64("similarity", match.Similarity))
	s.publishEnrolled(ctx, &recognizer.FaceRecord{
		UserID:     match.UserID,
		FaceID:     match.FaceID,
		Confidence: match.Similarity,
	}, true)

	return &domain.EnrollmentResult{
		Success:    true,
		UserID:     match.UserID,
		FaceID:     match.FaceID,
		Confidence: match.Similarity,
		Message:    "User already registered",
	}, true
}

func (s *EnrollmentService) cacheProfile(ctx context.Context, user *domain.User) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.Save(ctx, user); err != nil {
		s.logger.Warn("profile cache write failed",
			zap.String("user_id", user.UserID),
			zap.Error(err))
	}
}

func (s *EnrollmentService) publishEnrolled(ctx context.Context, record *recognizer.FaceRecord, deduped bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventFaceEnrolled,
		UserID:    record.UserID,
		Timestamp: time.Now(),
		Payload: events.FaceEnrolledPayload{
			FaceID:     record.FaceID,
			Confidence: record.Confidence,
			Deduped:    deduped,
		},
	})
}
