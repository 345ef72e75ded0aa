package userdetails

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/shared/server/middleware"
	"resume-builder-backend/internal/shared/server/payload"
	"resume-builder-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/user-details", h.upsert)
	rg.GET("/user-details/:id", h.get)
}

type upsertRequest struct {
	UserID     payload.Text    `json:"userId"`
	ResumeData json.RawMessage `json:"resumeData"`
}

type upsertResponse struct {
	Message     string      `json:"message"`
	UserDetails UserDetails `json:"userDetails"`
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

	rec, created, err := h.Svc.Upsert(c.Request.Context(), req.UserID.String(), req.ResumeData)
	if err != nil {
		writeError(c, err, "Error saving user details")
		return
	}

	msg := "User details updated successfully"
	if created {
		msg = "User details created successfully"
	}
	c.Set(middleware.OutcomeKey, outcome(created))
	respond.Upserted(c, created, upsertResponse{Message: msg, UserDetails: rec})
}

func (h *Handler) get(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "service unavailable", "")
		return
	}
	userID := c.Param("id")
	c.Set(middleware.UserIDKey, userID)

	rec, err := h.Svc.FetchByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "Error retrieving user details")
		return
	}
	respond.OK(c, rec)
}

func writeError(c *gin.Context, err error, storeSummary string) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "UserId is required", "")
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "User details not found", "")
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
