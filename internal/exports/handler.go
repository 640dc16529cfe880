package exports

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mealplan-backend/internal/sessions"
	"mealplan-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions/:id/exports", h.create)
	rg.GET("/sessions/:id/exports", h.list)
	rg.GET("/sessions/:id/exports/:exportId", h.download)
}

type exportResponse struct {
	ExportID  string    `json:"exportId"`
	FileName  string    `json:"fileName"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(e sessions.Export) exportResponse {
	return exportResponse{
		ExportID:  e.ID,
		FileName:  e.FileName,
		SizeBytes: e.SizeBytes,
		CreatedAt: e.CreatedAt,
	}
}

func (h *Handler) create(c *gin.Context) {
	id := c.Param("id")
	c.Set("sessionId", id)
	exp, err := h.Svc.Create(c.Request.Context(), id)
	if err != nil {
		sessions.WriteError(c, err, "failed to export plans")
		return
	}
	c.Set("exportId", exp.ID)
	respond.Created(c, toResponse(exp))
}

func (h *Handler) list(c *gin.Context) {
	id := c.Param("id")
	c.Set("sessionId", id)
	list, err := h.Svc.List(c.Request.Context(), id)
	if err != nil {
		sessions.WriteError(c, err, "failed to list exports")
		return
	}
	resp := make([]exportResponse, 0, len(list))
	for _, e := range list {
		resp = append(resp, toResponse(e))
	}
	respond.OK(c, resp)
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("id")
	c.Set("sessionId", id)
	c.Set("exportId", c.Param("exportId"))
	exp, rc, err := h.Svc.Open(c.Request.Context(), id, c.Param("exportId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
			return
		}
		sessions.WriteError(c, err, "failed to open export")
		return
	}
	defer rc.Close()

	respond.Attachment(c, exp.FileName, ContentType, exp.SizeBytes, rc)
}
