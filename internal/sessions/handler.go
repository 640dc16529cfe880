package sessions

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplan-backend/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.create)
	rg.GET("/sessions/:id", h.get)
	rg.DELETE("/sessions/:id", h.delete)
	rg.POST("/sessions/:id/menu", h.upload(h.Svc.LoadMenu))
	rg.POST("/sessions/:id/residents", h.upload(h.Svc.LoadResidents))
	rg.POST("/sessions/:id/standards", h.upload(h.Svc.LoadStandards))
	rg.POST("/sessions/:id/plans", h.run)
	rg.GET("/sessions/:id/plans", h.search)
}

func (h *Handler) create(c *gin.Context) {
	sess, err := h.Svc.Create(c.Request.Context())
	if err != nil {
		WriteError(c, err, "failed to create session")
		return
	}
	c.Set("sessionId", sess.ID)
	respond.Created(c, gin.H{
		"sessionId": sess.ID,
		"expiresAt": sess.ExpiresAt,
	})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("sessionId", id)
	sess, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err, "failed to fetch session")
		return
	}
	respond.OK(c, Describe(sess))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("sessionId", id)
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, err, "failed to delete session")
		return
	}
	respond.NoContent(c)
}

type loadFunc func(ctx context.Context, id string, r io.Reader) (int, error)

func (h *Handler) upload(load loadFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		c.Set("sessionId", id)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file too large", gin.H{"limitBytes": tooLarge.Limit})
				return
			}
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return
		}
		defer file.Close()

		rows, err := load(c.Request.Context(), id, file)
		if err != nil {
			WriteError(c, err, "failed to load table")
			return
		}
		respond.OK(c, gin.H{"rows": rows, "fileName": fileHeader.Filename})
	}
}

func (h *Handler) run(c *gin.Context) {
	id := c.Param("id")
	c.Set("sessionId", id)
	res, err := h.Svc.Run(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err, "failed to generate plans")
		return
	}
	respond.OK(c, gin.H{
		"summary": res.Summary,
		"reports": res.Reports,
	})
}

func (h *Handler) search(c *gin.Context) {
	id := c.Param("id")
	c.Set("sessionId", id)
	out, err := h.Svc.Search(c.Request.Context(), id, c.Query("ids"))
	if err != nil {
		WriteError(c, err, "failed to search plans")
		return
	}
	respond.OK(c, out)
}

// WriteError maps service errors onto the standard error body.
func WriteError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrPrecondition):
		respond.Error(c, http.StatusPreconditionFailed, "precondition_failed", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
