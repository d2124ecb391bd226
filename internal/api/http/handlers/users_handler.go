package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/face-lock-service/internal/api/dto"
	"github.com/spec-kit/face-lock-service/internal/auth"
	"github.com/spec-kit/face-lock-service/internal/service"
	apperrors "github.com/spec-kit/face-lock-service/pkg/util"
)

// UsersHandler exposes the protected subject directory endpoints.
type UsersHandler struct {
	directory *service.DirectoryService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(directory *service.DirectoryService) *UsersHandler {
	return &UsersHandler{directory: directory}
}

// Me handles GET /users/me/.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	user := h.directory.GetProfile(c.UserContext(), principal.UserID)
	return c.JSON(dto.UserResponse{
		UserID:   user.UserID,
		FullName: user.FullName,
		Email:    user.Email,
	})
}

// History handles GET /users/me/history/. Entries come from the audit trail
// and are empty when it is disabled.
func (h *UsersHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	entries, err := h.directory.History(c.UserContext(), principal.UserID, c.QueryInt("limit"))
	if err != nil {
		return err
	}

	items := make([]dto.AuthEventResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuthEventResponse{
			EventType:  entry.EventType,
			Success:    entry.Success,
			Similarity: entry.Similarity,
			Detail:     entry.Detail,
			Timestamp:  entry.CreatedAt,
		})
	}

	return c.JSON(dto.AuthEventListResponse{
		Events:     items,
		TotalCount: len(items),
	})
}

// List handles GET /users/.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.directory.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(dto.UserListResponse{
		Success:    true,
		Users:      users,
		TotalCount: len(users),
	})
}

// Delete handles DELETE /users/:user_id/. Subjects may only delete their own
// face records; the ownership check happens here, before the matching engine
// is ever contacted.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	targetID := c.Params("user_id")
	if principal.UserID != targetID {
		return apperrors.NewForbidden("you can only delete your own user data")
	}

	count, err := h.directory.DeleteUser(c.UserContext(), targetID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":            fmt.Sprintf("User %s deleted successfully", targetID),
		"deleted_face_count": count,
	})
}
