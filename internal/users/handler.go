package users

import (
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/shared/server/middleware"
	"resume-builder-backend/internal/shared/server/payload"
	"resume-builder-backend/internal/shared/server/respond"
)

const (
	msgCreated = "User created successfully"
	msgUpdated = "User already exists, but form updated"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/user", h.upsert)
	rg.GET("/user", h.list)
	rg.GET("/user/:id", h.get)
}

// Scalars are cast the way the document store casts them, so a numeric id
// or a "true" string is accepted.
type upsertRequest struct {
	UserID       payload.Text `json:"userId"`
	FilledForm   payload.Flag `json:"filledForm"`
	ProfileImage payload.Text `json:"profileImage"`
}

type upsertResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

func (h *Handler) upsert(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "service unavailable", "")
		return
	}
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.BadBody(c, err)
		return
	}
	c.Set(middleware.UserIDKey, req.UserID.String())

	user, created, err := h.Svc.Upsert(c.Request.Context(), UpsertInput{
		UserID:       req.UserID.String(),
		FilledForm:   req.FilledForm.Bool(),
		ProfileImage: req.ProfileImage.String(),
	})
	if err != nil {
		writeError(c, err, "Error creating user")
		return
	}

	msg := msgUpdated
	if created {
		msg = msgCreated
	}
	c.Set(middleware.OutcomeKey, outcome(created))
	respond.Upserted(c, created, upsertResponse{Message: msg, User: user})
}

func (h *Handler) get(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "service unavailable", "")
		return
	}
	userID := c.Param("id")
	c.Set(middleware.UserIDKey, userID)

	user, err := h.Svc.FetchByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "Error retrieving user")
		return
	}
	respond.OK(c, user)
}

func (h *Handler) list(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "service unavailable", "")
		return
	}
	out, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "Error retrieving users")
		return
	}
	respond.OK(c, out)
}

func writeError(c *gin.Context, err error, storeSummary string) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "UserId is required", "")
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "User not found", "")
	case errors.Is(err, ErrStore):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStore, storeSummary, StoreDetail(err))
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", storeSummary, err.Error())
	}
}

func outcome(created bool) string {
	if created {
		return "created"
	}
	return "updated"
}
