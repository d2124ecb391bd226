package service

import (
	"context"

	"github.com/spec-kit/face-lock-service/internal/domain"
	"github.com/spec-kit/face-lock-service/internal/events"
	"github.com/spec-kit/face-lock-service/internal/recognizer"
	"github.com/spec-kit/face-lock-service/internal/repository"
)

// fakeGateway is a scriptable in-memory Gateway.
type fakeGateway struct {
	indexFunc  func(ctx context.Context, userID string, image []byte) (*recognizer.FaceRecord, error)
	searchFunc func(ctx context.Context, image []byte, minSimilarity float64) (*recognizer.Match, error)
	deleteFunc func(ctx context.Context, userID string) (int, error)
	listFunc   func(ctx context.Context) ([]string, error)

	indexCalls    int
	searchCalls   int
	deleteCalls   int
	lastThreshold float64
}

func (f *fakeGateway) IndexFace(ctx context.Context, userID string, image []byte) (*recognizer.FaceRecord, error) {
	f.indexCalls++
	return f.indexFunc(ctx, userID, image)
}

func (f *fakeGateway) SearchFace(ctx context.Context, image []byte, minSimilarity float64) (*recognizer.Match, error) {
	f.searchCalls++
	f.lastThreshold = minSimilarity
	return f.searchFunc(ctx, image, minSimilarity)
}

func (f *fakeGateway) DeleteSubject(ctx context.Context, userID string) (int, error) {
	f.deleteCalls++
	return f.deleteFunc(ctx, userID)
}

func (f *fakeGateway) ListSubjects(ctx context.Context) ([]string, error) {
	return f.listFunc(ctx)
}

// fakeProfiles is an in-memory ProfileRepository.
type fakeProfiles struct {
	saved   map[string]*domain.User
	deleted []string
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{saved: make(map[string]*domain.User)}
}

func (f *fakeProfiles) Save(_ context.Context, user *domain.User) error {
	f.saved[user.UserID] = user
	return nil
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (*domain.User, error) {
	user, ok := f.saved[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return user, nil
}

func (f *fakeProfiles) Delete(_ context.Context, userID string) error {
	f.deleted = append(f.deleted, userID)
	delete(f.saved, userID)
	return nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	result := make([]events.EventType, 0, len(d.published))
	for _, event := range d.published {
		result = append(result, event.Type)
	}
	return result
}
