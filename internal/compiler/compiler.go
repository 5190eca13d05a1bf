// Package compiler turns a LaTeX document into PDF bytes through an
// out-of-process toolchain, either a local subprocess or a remote compiler
// service. Every compile runs in its own working directory which is removed
// before Compile returns.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/shared/config"
)

const (
	// SourceName is the file the document is written to inside a job directory.
	SourceName = "resume.tex"
	// ArtifactName is the file the toolchain is expected to produce.
	ArtifactName = "resume.pdf"
	// ContentTypePDF is the media type of a successful result.
	ContentTypePDF = "application/pdf"

	defaultTimeout = 60 * time.Second
)

// Kind classifies compile failures.
type Kind string

const (
	// KindUnavailable means the toolchain could not be reached or started.
	KindUnavailable Kind = "unavailable"
	// KindFailed means the toolchain ran and reported failure.
	KindFailed Kind = "failed"
	// KindNoArtifact means the toolchain reported success without a PDF.
	KindNoArtifact Kind = "no_artifact"
)

// Error carries the toolchain's raw diagnostics.
type Error struct {
	Kind    Kind
	Message string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compile %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("compile %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError reports whether err is a *Error and returns it.
func AsError(err error) (*Error, bool) {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr, true
	}
	return nil, false
}

// Result is a successful compile.
type Result struct {
	JobID       string
	PDF         []byte
	ContentType string
	Stdout      string
	Stderr      string
	Duration    time.Duration
}

// Compiler compiles one LaTeX document. Implementations must be safe for
// concurrent use and must not leave anything behind in their work root.
type Compiler interface {
	Compile(ctx context.Context, source string) (Result, error)
}

// New builds the compiler selected by cfg.Mode.
func New(cfg config.Compiler) (Compiler, error) {
	switch cfg.Mode {
	case "remote":
		return NewRemote(cfg.URL, cfg.Token, cfg.WorkDir, cfg.Timeout)
	case "", "local":
		return NewLocal(cfg.Command, cfg.WorkDir, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown compiler mode %q", cfg.Mode)
	}
}

// detach keeps the compile running when the caller goes away while still
// bounding it by timeout.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
