package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/face-lock-service/internal/events"
	"github.com/spec-kit/face-lock-service/internal/repository"
)

// AuditService appends authentication events to the audit trail. Writes are
// best-effort: a failed append is logged and never blocks the request that
// produced the event.
type AuditService struct {
	audit      repository.AuditRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(audit repository.AuditRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		audit:      audit,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to the authentication events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil || a.audit == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventFaceEnrolled, a.handleEvent)
	a.dispatcher.Subscribe(events.EventFaceVerified, a.handleEvent)
	a.dispatcher.Subscribe(events.EventVerificationRejected, a.handleEvent)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.handleEvent)
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	row := &repository.AuthEvent{
		ID:        event.ID,
		EventType: string(event.Type),
		UserID:    event.UserID,
		Success:   event.Type != events.EventVerificationRejected,
	}

	switch payload := event.Payload.(type) {
	case events.FaceEnrolledPayload:
		row.Detail = payload.FaceID
		confidence := payload.Confidence
		row.Similarity = &confidence
	case events.FaceVerifiedPayload:
		similarity := payload.Similarity
		row.Similarity = &similarity
	case events.VerificationRejectedPayload:
		row.Detail = payload.Reason
	case events.UserDeletedPayload:
	}

	if err := a.audit.Append(ctx, row); err != nil {
		a.logger.Warn("audit append failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}
