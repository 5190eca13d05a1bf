package ats

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const (
	formField      = "resumeFile"
	maxUploadBytes = 10 << 20
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the scoring route to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/ats-score", h.score)
}

func (h *Handler) score(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile(formField)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Resume file is required.", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read resume file", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read resume file", nil)
		return
	}

	out, err := h.Svc.Score(c.Request.Context(), middleware.UserIDFromContext(c), Upload{
		Data:     data,
		MimeType: fh.Header.Get("Content-Type"),
		FileName: fh.Filename,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrInvalidOutput):
			respond.Error(c, http.StatusBadGateway, "upstream_error", "scoring model returned an invalid result", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "An internal server error occurred.", nil)
		}
		return
	}
	respond.OK(c, out)
}
