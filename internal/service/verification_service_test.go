package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/face-lock-service/internal/auth"
	"github.com/spec-kit/face-lock-service/internal/events"
	"github.com/spec-kit/face-lock-service/internal/recognizer"
)

var sampleImage = []byte("sample-image-bytes")

func newVerificationService(gateway *fakeGateway, dispatcher *recordingDispatcher) (*VerificationService, *auth.TokenManager) {
	tm := auth.NewTokenManager("test-secret", 30)
	return NewVerificationService(gateway, tm, dispatcher, zap.NewNop(), 90.0), tm
}

func TestVerifyMatchIssuesToken(t *testing.T) {
	gateway := &fakeGateway{
		searchFunc: func(_ context.Context, _ []byte, _ float64) (*recognizer.Match, error) {
			return &recognizer.Match{UserID: "alice", FaceID: "face-1", Similarity: 97.5}, nil
		},
	}
	dispatcher := &recordingDispatcher{}
	svc, tm := newVerificationService(gateway, dispatcher)

	result, err := svc.Verify(context.Background(), sampleImage, 90.0)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "alice", result.UserID)
	assert.Equal(t, 97.5, result.Similarity)
	require.NotEmpty(t, result.Token)

	userID, err := tm.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)

	assert.Equal(t, []events.EventType{events.EventFaceVerified}, dispatcher.types())
}

func TestVerifyNoMatchIsRejectionNotError(t *testing.T) {
	gateway := &fakeGateway{
		searchFunc: func(_ context.Context, _ []byte, _ float64) (*recognizer.Match, error) {
			return nil, recognizer.ErrNoMatch
		},
	}
	dispatcher := &recordingDispatcher{}
	svc, _ := newVerificationService(gateway, dispatcher)

	result, err := svc.Verify(context.Background(), sampleImage, 90.0)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Token)
	assert.NotEmpty(t, result.Message)

	assert.Equal(t, []events.EventType{events.EventVerificationRejected}, dispatcher.types())
}

func TestVerifyNoFaceIsRejection(t *testing.T) {
	gateway := &fakeGateway{
		searchFunc: func(_ context.Context, _ []byte, _ float64) (*recognizer.Match, error) {
			return nil, recognizer.ErrNoFaceDetected
		},
	}
	svc, _ := newVerificationService(gateway, &recordingDispatcher{})

	result, err := svc.Verify(context.Background(), sampleImage, 90.0)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Token)
}

func TestVerifyGatewayFailureIsNotRejection(t *testing.T) {
	gateway := &fakeGateway{
		searchFunc: func(_ context.Context, _ []byte, _ float64) (*recognizer.Match, error) {
			return nil, &recognizer.GatewayError{Op: "search faces", Err: errors.New("timeout")}
		},
	}
	dispatcher := &recordingDispatcher{}
	svc, _ := newVerificationService(gateway, dispatcher)

	result, err := svc.Verify(context.Background(), sampleImage, 90.0)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsGatewayFailure(err))
	assert.Empty(t, dispatcher.published)
}

func TestVerifyAppliesDefaultThreshold(t *testing.T) {
	gateway := &fakeGateway{
		searchFunc: func(_ context.Context, _ []byte, _ float64) (*recognizer.Match, error) {
			return nil, recognizer.ErrNoMatch
		},
	}
	svc, _ := newVerificationService(gateway, &recordingDispatcher{})

	_, err := svc.Verify(context.Background(), sampleImage, -1)
	require.NoError(t, err)
	assert.Equal(t, 90.0, gateway.lastThreshold)
}

func TestVerifyHonorsExplicitZeroThreshold(t *testing.T) {
	gateway := &fakeGateway{
		searchFunc: func(_ context.Context, _ []byte, _ float64) (*recognizer.Match, error) {
			return nil, recognizer.ErrNoMatch
		},
	}
	svc, _ := newVerificationService(gateway, &recordingDispatcher{})

	_, err := svc.Verify(context.Background(), sampleImage, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, gateway.lastThreshold)
}

func TestVerifyPassesCallerThreshold(t *testing.T) {
	gateway := &fakeGateway{
		searchFunc: func(_ context.Context, _ []byte, _ float64) (*recognizer.Match, error) {
			return nil, recognizer.ErrNoMatch
		},
	}
	svc, _ := newVerificationService(gateway, &recordingDispatcher{})

	_, err := svc.Verify(context.Background(), sampleImage, 75.5)
	require.NoError(t, err)
	assert.Equal(t, 75.5, gateway.lastThreshold)
}
