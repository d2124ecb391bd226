package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/face-lock-service/internal/api/dto"
	"github.com/spec-kit/face-lock-service/internal/domain"
	"github.com/spec-kit/face-lock-service/internal/observability"
	"github.com/spec-kit/face-lock-service/internal/service"
	apperrors "github.com/spec-kit/face-lock-service/pkg/util"
)

// EnrollmentHandler exposes the face registration endpoint.
type EnrollmentHandler struct {
	enrollment *service.EnrollmentService
	metrics    *observability.Metrics
}

// NewEnrollmentHandler constructs handler.
func NewEnrollmentHandler(enrollment *service.EnrollmentService, metrics *observability.Metrics) *EnrollmentHandler {
	return &EnrollmentHandler{enrollment: enrollment, metrics: metrics}
}

// Register handles POST /register/.
func (h *EnrollmentHandler) Register(c *fiber.Ctx) error {
	userID := c.FormValue("user_id")
	if userID == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}

	image, err := readFormImage(c, "face_image")
	if err != nil {
		return err
	}

	user := &domain.User{
		UserID:   userID,
		FullName: c.FormValue("full_name"),
		Email:    c.FormValue("email"),
	}

	result, err := h.enrollment.Enroll(c.UserContext(), user, image)
	if err != nil {
		// Engine faults keep the original response shape; the distinction
		// lives in logs and error counters, not in the payload.
		if service.IsGatewayFailure(err) {
			h.metrics.RecordError(c.Path(), c.Method(), "GATEWAY_ERROR")
			return c.JSON(dto.FaceRegistrationResponse{
				Success: false,
				Message: "registration temporarily unavailable",
			})
		}
		return err
	}

	if !result.Success {
		return c.JSON(dto.FaceRegistrationResponse{
			Success: false,
			Message: result.Message,
		})
	}

	return c.JSON(dto.FaceRegistrationResponse{
		Success: true,
		UserID:  result.UserID,
		FaceID:  result.FaceID,
		Message: result.Message,
	})
}

// readFormImage pulls the uploaded image bytes out of a multipart field.
func readFormImage(c *fiber.Ctx, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, apperrors.NewValidationError(field+" required", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("could not read "+field, nil)
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewValidationError("could not read "+field, nil)
	}
	if len(image) == 0 {
		return nil, apperrors.NewValidationError(field+" is empty", nil)
	}
	return image, nil
}
