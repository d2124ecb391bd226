package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/face-lock-service/internal/domain"
	"github.com/spec-kit/face-lock-service/internal/events"
	"github.com/spec-kit/face-lock-service/internal/recognizer"
	"github.com/spec-kit/face-lock-service/internal/repository"
	apperrors "github.com/spec-kit/face-lock-service/pkg/util"
)

// DirectoryService answers questions about enrolled subjects and handles
// removal. The matching engine owns the face records; Redis only enriches
// the answers with cached profile fields.
type DirectoryService struct {
	gateway    recognizer.Gateway
	profiles   repository.ProfileRepository
	audit      repository.AuditRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDirectoryService builds the service. audit may be nil when the audit
// trail is disabled.
func NewDirectoryService(gateway recognizer.Gateway, profiles repository.ProfileRepository, audit repository.AuditRepository, dispatcher events.Dispatcher, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		gateway:    gateway,
		profiles:   profiles,
		audit:      audit,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ListUsers returns the distinct enrolled subject identifiers.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]string, error) {
	users, err := s.gateway.ListSubjects(ctx)
	if err != nil {
		s.logger.Error("list users gateway failure", zap.Error(err))
		return nil, apperrors.NewGatewayError(err)
	}
	return users, nil
}

// GetProfile resolves the subject's profile, falling back to the bare
// identifier when nothing is cached.
func (s *DirectoryService) GetProfile(ctx context.Context, userID string) *domain.User {
	if s.profiles != nil {
		user, err := s.profiles.Get(ctx, userID)
		if err == nil {
			return user
		}
		if !errors.Is(err, repository.ErrProfileNotFound) {
			s.logger.Warn("profile cache read failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}
	return &domain.User{UserID: userID}
}

// History returns the subject's recent authentication events, newest first.
// Empty when the audit trail is disabled.
func (s *DirectoryService) History(ctx context.Context, userID string, limit int) ([]repository.AuthEvent, error) {
	if s.audit == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, err := s.audit.ListByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error("audit history read failed",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}

// DeleteUser removes every face record for userID and drops the cached
// profile. Returns the number of deleted face records.
func (s *DirectoryService) DeleteUser(ctx context.Context, userID string) (int, error) {
	count, err := s.gateway.DeleteSubject(ctx, userID)
	if err != nil {
		if errors.Is(err, recognizer.ErrSubjectNotFound) {
			return 0, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		s.logger.Error("delete user gateway failure",
			zap.String("user_id", userID),
			zap.Error(err))
		return 0, apperrors.NewGatewayError(err)
	}

	if s.profiles != nil {
		if err := s.profiles.Delete(ctx, userID); err != nil {
			s.logger.Warn("profile cache delete failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	s.logger.Info("deleted user",
		zap.String("user_id", userID),
		zap.Int("face_count", count))
	s.publishDeleted(ctx, userID, count)
	return count, nil
}

func (s *DirectoryService) publishDeleted(ctx context.Context, userID string, count int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserDeleted,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   events.UserDeletedPayload{DeletedFaceCount: count},
	})
}
