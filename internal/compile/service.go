// Package compile coordinates a compile request: persist the source, bind
// profile data into templated documents, run the compiler and archive the
// result.
package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"resume-builder/internal/compiler"
	"resume-builder/internal/latex/tmpl"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

const archiveTimeout = 15 * time.Second

var (
	// ErrUnauthenticated means the request carried no caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidInput means title or code is blank.
	ErrInvalidInput = errors.New("invalid input")
	// ErrArtifactUnavailable means no archived PDF exists for the resume.
	ErrArtifactUnavailable = errors.New("artifact unavailable")
)

// ResumeStore saves and loads the caller's resume sources.
type ResumeStore interface {
	Save(ctx context.Context, userID, id, title, content string) (resumes.Resume, error)
	Get(ctx context.Context, userID, id string) (resumes.Resume, error)
}

// ProfileLookup supplies template data for the caller. ok is false when no
// profile is available for any reason.
type ProfileLookup interface {
	TemplateContext(ctx context.Context, userID string) (data tmpl.Context, ok bool)
}

// Request is one compile submission.
type Request struct {
	ID    string
	Title string
	Code  string
}

// Outcome describes a compile. Resume is set whenever the source was saved,
// including when compilation then failed.
type Outcome struct {
	Resume    resumes.Resume
	Result    compiler.Result
	Templated bool
	Archived  bool
}

// Service runs compile requests.
type Service struct {
	Resumes  ResumeStore
	Profiles ProfileLookup
	Compiler compiler.Compiler
	// Store receives successful PDFs when Archive is set.
	Store   object.Store
	Archive bool
}

// Compile saves req for userID, renders it against the caller's profile when
// it contains directives, and compiles it. The saved record is kept even when
// compilation fails.
func (s *Service) Compile(ctx context.Context, userID string, req Request) (Outcome, error) {
	if strings.TrimSpace(userID) == "" {
		return Outcome{}, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Code) == "" {
		return Outcome{}, fmt.Errorf("%w: title and code are required", ErrInvalidInput)
	}

	saved, err := s.Resumes.Save(ctx, userID, req.ID, req.Title, req.Code)
	if err != nil {
		if errors.Is(err, resumes.ErrInvalidInput) {
			return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Outcome{}, err
	}
	out := Outcome{Resume: saved}

	source := req.Code
	if tmpl.HasDirectives(source) {
		source, out.Templated = s.render(ctx, userID, saved.ID, source)
	}

	metrics.IncCompileStarted()
	start := time.Now()
	res, err := s.Compiler.Compile(ctx, source)
	metrics.ObserveCompileDuration(time.Since(start))
	if err != nil {
		metrics.IncCompileFailed()
		return out, err
	}
	metrics.IncCompileSucceeded()
	out.Result = res
	out.Archived = s.archive(ctx, userID, saved.ID, res.PDF)
	return out, nil
}

// Artifact opens the last archived PDF of the caller's resume.
func (s *Service) Artifact(ctx context.Context, userID, resumeID string) (io.ReadCloser, resumes.Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, resumes.Resume{}, ErrUnauthenticated
	}
	saved, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return nil, resumes.Resume{}, err
	}
	if s.Store == nil {
		return nil, saved, ErrArtifactUnavailable
	}
	key, err := object.ArtifactKey(userID, saved.ID)
	if err != nil {
		return nil, saved, err
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, saved, ErrArtifactUnavailable
		}
		return nil, saved, err
	}
	return rc, saved, nil
}

func (s *Service) render(ctx context.Context, userID, resumeID, source string) (string, bool) {
	if s.Profiles == nil {
		return source, false
	}
	data, ok := s.Profiles.TemplateContext(ctx, userID)
	if !ok {
		telemetry.Info("compile.template_skipped", map[string]any{
			"user_id":   userID,
			"resume_id": resumeID,
			"reason":    "profile unavailable",
		})
		return source, false
	}
	return tmpl.Render(source, data), true
}

func (s *Service) archive(ctx context.Context, userID, resumeID string, pdf []byte) bool {
	if !s.Archive || s.Store == nil {
		return false
	}
	key, err := object.ArtifactKey(userID, resumeID)
	if err != nil {
		telemetry.Warn("compile.archive_failed", map[string]any{"resume_id": resumeID, "error": err.Error()})
		return false
	}
	putCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if _, err := s.Store.Put(putCtx, key, compiler.ContentTypePDF, bytes.NewReader(pdf)); err != nil {
		telemetry.Warn("compile.archive_failed", map[string]any{
			"resume_id": resumeID,
			"key":       key,
			"error":     err.Error(),
		})
		return false
	}
	return true
}
