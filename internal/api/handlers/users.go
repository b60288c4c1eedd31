package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"users-service/internal/api/dto"
	"users-service/internal/domain"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

// POST /users
func (h *Handler) CreateUser(c *gin.Context) {
	req, err := h.decodeBody(c, dto.ModeCreate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req.ToUser())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// GET /users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponses(users))
}

// GET /users/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// PATCH /users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	req, err := h.decodeBody(c, dto.ModeUpdate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DELETE /users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	user, err := h.userService.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// parseID не допускает тихого приведения: "abc", "1.5", "0" и "-3" отклоняются
func parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidIdentifier, raw)
	}
	return id, nil
}

func (h *Handler) decodeBody(c *gin.Context, mode dto.Mode) (*dto.UserRequest, error) {
	if c.ContentType() != gin.MIMEJSON {
		return nil, domain.ErrUnsupportedMediaType
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	payload, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", domain.ErrInvalidInput, err)
	}

	return dto.DecodeUserRequest(payload, mode)
}
