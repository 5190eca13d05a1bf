package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"resume-builder/internal/shared/telemetry"
)

// Job is one compile's private working directory.
type Job struct {
	ID  string
	Dir string
}

func newJob(root string) (*Job, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create work root: %w", err)
	}
	id := uuid.NewString()
	dir := filepath.Join(root, id)
	// Mkdir fails if the directory exists, so two jobs never share one.
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}
	return &Job{ID: id, Dir: dir}, nil
}

// SourcePath is where the document is written.
func (j *Job) SourcePath() string { return filepath.Join(j.Dir, SourceName) }

// ArtifactPath is where the PDF is expected.
func (j *Job) ArtifactPath() string { return filepath.Join(j.Dir, ArtifactName) }

func (j *Job) writeSource(source string) error {
	if err := os.WriteFile(j.SourcePath(), []byte(source), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", SourceName, err)
	}
	return nil
}

// cleanup removes the job directory. Failures are logged and never returned.
func (j *Job) cleanup() {
	if err := os.RemoveAll(j.Dir); err != nil {
		telemetry.Warn("compile.cleanup_failed", map[string]any{
			"compile_job_id": j.ID,
			"dir":            j.Dir,
			"error":          err.Error(),
		})
	}
}
