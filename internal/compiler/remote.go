package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"resume-builder/internal/shared/telemetry"
)

const (
	remoteFileField = "file"
	maxArtifactSize = 32 << 20
)

// Remote sends documents to a compiler service over HTTP.
type Remote struct {
	endpoint string
	client   *http.Client
	workRoot string
	timeout  time.Duration
}

// NewRemote builds a client for the compiler service at baseURL. A non-empty
// token is sent as a bearer credential.
func NewRemote(baseURL, token, workRoot string, timeout time.Duration) (*Remote, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("compiler url is empty")
	}
	client := http.DefaultClient
	if strings.TrimSpace(token) != "" {
		client = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: strings.TrimSpace(token),
			TokenType:   "Bearer",
		}))
	}
	return &Remote{
		endpoint: baseURL + "/compile",
		client:   client,
		workRoot: workRoot,
		timeout:  timeout,
	}, nil
}

// WithHTTPClient replaces the transport, keeping the rest of the settings.
func (r *Remote) WithHTTPClient(client *http.Client) *Remote {
	cp := *r
	cp.client = client
	return &cp
}

// serviceError is the compiler service's failure body.
type serviceError struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Compile uploads source as the multipart field "file" and returns the PDF
// the service responds with.
func (r *Remote) Compile(ctx context.Context, source string) (Result, error) {
	start := time.Now()
	job, err := newJob(r.workRoot)
	if err != nil {
		return Result{}, &Error{Kind: KindUnavailable, Message: "could not allocate working directory", Err: err}
	}
	defer job.cleanup()

	if err := job.writeSource(source); err != nil {
		return Result{}, &Error{Kind: KindUnavailable, Message: "could not write document", Err: err}
	}

	body, contentType, err := multipartSource(job)
	if err != nil {
		return Result{}, &Error{Kind: KindUnavailable, Message: "could not encode document", Err: err}
	}

	reqCtx, cancel := detach(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return Result{}, &Error{Kind: KindUnavailable, Message: "invalid compiler url", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", ContentTypePDF)

	resp, err := r.client.Do(req)
	if err != nil {
		telemetry.Error("compile.remote_unreachable", map[string]any{
			"compile_job_id": job.ID,
			"endpoint":       r.endpoint,
			"error":          err.Error(),
		})
		return Result{}, &Error{Kind: KindUnavailable, Message: "LaTeX compiler service unavailable", Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactSize+1))
	if err != nil {
		return Result{}, &Error{Kind: KindUnavailable, Message: "could not read compiler response", Err: err}
	}
	if len(payload) > maxArtifactSize {
		return Result{}, &Error{
			Kind:    KindFailed,
			Message: "artifact too large",
			Err:     fmt.Errorf("compiler response exceeds %d bytes", maxArtifactSize),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cerr := &Error{
			Kind:    KindFailed,
			Message: "LaTeX compilation failed",
			Err:     fmt.Errorf("compiler service status %d", resp.StatusCode),
		}
		var svc serviceError
		if json.Unmarshal(payload, &svc) == nil {
			cerr.Kind = serviceKind(svc.Kind)
			cerr.Stdout = svc.Stdout
			cerr.Stderr = svc.Stderr
			if svc.Error != "" {
				cerr.Message = svc.Error
			}
		} else {
			cerr.Stderr = string(payload)
		}
		return Result{}, cerr
	}

	if len(payload) == 0 {
		return Result{}, &Error{Kind: KindNoArtifact, Message: "artifact not produced", Err: errEmptyArtifact}
	}

	return Result{
		JobID:       job.ID,
		PDF:         payload,
		ContentType: ContentTypePDF,
		Duration:    time.Since(start),
	}, nil
}

// serviceKind maps the failure kind reported by the compiler service.
func serviceKind(kind string) Kind {
	switch Kind(kind) {
	case KindUnavailable:
		return KindUnavailable
	case KindNoArtifact:
		return KindNoArtifact
	default:
		return KindFailed
	}
}

func multipartSource(job *Job) (io.Reader, string, error) {
	f, err := os.Open(job.SourcePath())
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(remoteFileField, SourceName)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
