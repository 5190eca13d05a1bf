package compile

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/compiler"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

const (
	maxRequestSize     = 5 << 20
	pdfDisposition     = `inline; filename="resume.pdf"`
	headerResumeID     = "X-Resume-Id"
	headerResumeTitle  = "X-Resume-Title"
	maxHeaderTitleSize = 256
	maxLoggedOutput    = 2000
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the compile and artifact routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/compile", h.Compile)
	rg.GET("/resumes/:id/artifact", h.artifact)
}

type compileRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
}

// failureBody is the compile endpoint's 500 response.
type failureBody struct {
	Error   string `json:"error"`
	Stderr  string `json:"stderr,omitempty"`
	Stdout  string `json:"stdout,omitempty"`
	Details string `json:"details,omitempty"`
	ID      string `json:"id,omitempty"`
}

// Compile handles POST /compile.
func (h *Handler) Compile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)

	var req compileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	out, err := h.Svc.Compile(c.Request.Context(), userID, Request{
		ID:    strings.TrimSpace(req.ID),
		Title: req.Title,
		Code:  req.Code,
	})
	if out.Resume.ID != "" {
		c.Set(middleware.ResumeIDKey, out.Resume.ID)
	}
	if err != nil {
		h.compileError(c, out, err)
		return
	}

	c.Set(middleware.CompileJobIDKey, out.Result.JobID)
	c.Set(middleware.CompileOutcome, "succeeded")
	c.Header(headerResumeID, out.Resume.ID)
	c.Header(headerResumeTitle, headerSafe(out.Resume.Title))
	c.Header("Content-Disposition", pdfDisposition)
	c.Data(http.StatusOK, compiler.ContentTypePDF, out.Result.PDF)
}

func (h *Handler) compileError(c *gin.Context, out Outcome, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "title and code are required", nil)
		return
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		return
	}

	body := failureBody{ID: out.Resume.ID}
	if cerr, ok := compiler.AsError(err); ok {
		c.Set(middleware.CompileOutcome, string(cerr.Kind))
		switch cerr.Kind {
		case compiler.KindUnavailable:
			body.Error = "LaTeX compiler unavailable"
		case compiler.KindNoArtifact:
			body.Error = "artifact not produced"
			body.Stdout = cerr.Stdout
			body.Stderr = cerr.Stderr
		default:
			body.Error = cerr.Message
			body.Stdout = cerr.Stdout
			body.Stderr = cerr.Stderr
		}
		if cerr.Err != nil {
			body.Details = cerr.Err.Error()
		}
	} else {
		c.Set(middleware.CompileOutcome, "not_started")
		body.Error = "failed to save resume"
		body.Details = err.Error()
	}

	telemetry.Error("compile.failed", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"user_id":    middleware.UserIDFromContext(c),
		"resume_id":  out.Resume.ID,
		"error":      err.Error(),
		"stderr":     telemetry.Truncate(body.Stderr, maxLoggedOutput),
		"stdout":     telemetry.Truncate(body.Stdout, maxLoggedOutput),
	})
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

func (h *Handler) artifact(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	rc, saved, err := h.Svc.Artifact(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthenticated):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		case errors.Is(err, resumes.ErrNotFound), errors.Is(err, ErrArtifactUnavailable):
			respond.Error(c, http.StatusNotFound, "not_found", "artifact not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load artifact", nil)
		}
		return
	}
	defer rc.Close()

	c.Set(middleware.ResumeIDKey, saved.ID)
	c.Header(headerResumeID, saved.ID)
	c.Header(headerResumeTitle, headerSafe(saved.Title))
	c.Header("Content-Type", compiler.ContentTypePDF)
	c.Header("Content-Disposition", pdfDisposition)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("artifact.stream_failed", map[string]any{"resume_id": saved.ID, "error": err.Error()})
	}
}

// headerSafe drops control characters so a title cannot break the header.
func headerSafe(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxHeaderTitleSize {
		cut := maxHeaderTitleSize
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
