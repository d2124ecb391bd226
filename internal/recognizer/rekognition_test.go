package recognizer

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
)

func TestClassifyNoFace(t *testing.T) {
	err := classify("search faces", &types.InvalidParameterException{})
	assert.ErrorIs(t, err, ErrNoFaceDetected)
}

func TestClassifyInfrastructureFailure(t *testing.T) {
	cause := errors.New("connection reset")
	err := classify("search faces", cause)

	var gatewayErr *GatewayError
	assert.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, "search faces", gatewayErr.Op)
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsRejection(err))
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(ErrNoFaceDetected))
	assert.True(t, IsRejection(ErrNoMatch))
	assert.True(t, IsRejection(ErrSubjectNotFound))
	assert.False(t, IsRejection(errors.New("boom")))
	assert.False(t, IsRejection(&GatewayError{Op: "search faces", Err: errors.New("timeout")}))
}
