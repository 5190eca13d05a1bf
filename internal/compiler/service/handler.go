// Package service exposes a Compiler over HTTP for the remote transport.
package service

import (
	"crypto/subtle"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/compiler"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/telemetry"
)

const (
	fileField     = "file"
	maxSourceSize = 5 << 20
)

// Handler serves POST /compile for remote compiler clients.
type Handler struct {
	compiler compiler.Compiler
	token    string
}

// NewHandler builds a Handler. A non-empty token is required as a bearer
// credential on every compile.
func NewHandler(c compiler.Compiler, token string) *Handler {
	return &Handler{compiler: c, token: strings.TrimSpace(token)}
}

// RegisterRoutes attaches the compile and health routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/compile", h.requireToken, h.Compile)
}

func (h *Handler) requireToken(c *gin.Context) {
	if h.token == "" {
		c.Next()
		return
	}
	got := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

// Compile compiles the uploaded document and streams back the PDF.
func (h *Handler) Compile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSourceSize+1<<20)
	fh, err := c.FormFile(fileField)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if fh.Size > maxSourceSize {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()
	source, err := io.ReadAll(f)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}

	res, err := h.compiler.Compile(c.Request.Context(), string(source))
	if err != nil {
		body := gin.H{"error": "LaTeX compilation failed"}
		if cerr, ok := compiler.AsError(err); ok {
			body["error"] = cerr.Message
			body["kind"] = string(cerr.Kind)
			body["stdout"] = cerr.Stdout
			body["stderr"] = cerr.Stderr
		} else {
			body["details"] = err.Error()
		}
		telemetry.Error("compiler_service.compile_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err.Error(),
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		return
	}

	c.Set(middleware.CompileJobIDKey, res.JobID)
	c.Data(http.StatusOK, compiler.ContentTypePDF, res.PDF)
}
