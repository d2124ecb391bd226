package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/face-lock-service/internal/api/dto"
	"github.com/spec-kit/face-lock-service/internal/observability"
	"github.com/spec-kit/face-lock-service/internal/service"
	apperrors "github.com/spec-kit/face-lock-service/pkg/util"
)

// VerificationHandler exposes the face verification endpoint and the OAuth2
// compatibility stub.
type VerificationHandler struct {
	verification *service.VerificationService
	metrics      *observability.Metrics
}

// NewVerificationHandler constructs handler.
func NewVerificationHandler(verification *service.VerificationService, metrics *observability.Metrics) *VerificationHandler {
	return &VerificationHandler{verification: verification, metrics: metrics}
}

// Verify handles POST /verify/.
func (h *VerificationHandler) Verify(c *fiber.Ctx) error {
	image, err := readFormImage(c, "face_image")
	if err != nil {
		return err
	}

	threshold := h.verification.DefaultThreshold()
	if raw := c.FormValue("similarity_threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			return apperrors.NewValidationError("similarity_threshold must be between 0 and 100", nil)
		}
		threshold = parsed
	}

	result, err := h.verification.Verify(c.UserContext(), image, threshold)
	if err != nil {
		if service.IsGatewayFailure(err) {
			h.metrics.RecordError(c.Path(), c.Method(), "GATEWAY_ERROR")
			return c.JSON(dto.FaceVerificationResponse{
				Success: false,
				Message: "verification temporarily unavailable",
			})
		}
		return err
	}

	if !result.Success {
		return c.JSON(dto.FaceVerificationResponse{
			Success: false,
			Message: result.Message,
		})
	}

	similarity := result.Similarity
	return c.JSON(dto.FaceVerificationResponse{
		Success:    true,
		UserID:     result.UserID,
		Similarity: &similarity,
		Token:      result.Token,
		Message:    result.Message,
	})
}

// Token handles POST /token. Password grants are not supported; callers are
// pointed at the verification endpoint instead.
func (h *VerificationHandler) Token(c *fiber.Ctx) error {
	return apperrors.NewDomainError(
		"PASSWORD_AUTH_UNSUPPORTED",
		"This server uses facial recognition for authentication. Please use /verify/ endpoint.",
		http.StatusBadRequest,
		nil,
	)
}
