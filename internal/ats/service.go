package ats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-builder/internal/extract"
	"resume-builder/internal/llm"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

var (
	// ErrInvalidInput is returned when the upload is missing, not a PDF or has no text.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidOutput is returned when the model reply does not match the score schema.
	ErrInvalidOutput = errors.New("invalid model output")
)

// SectionScores are the per-section scores, 0 to 100.
type SectionScores struct {
	SummaryOrObjective   float64 `json:"summary_or_objective"`
	Experience           float64 `json:"experience"`
	Skills               float64 `json:"skills"`
	Education            float64 `json:"education"`
	FormattingAndClarity float64 `json:"formatting_and_clarity"`
}

// Score is the scoring result returned to clients.
type Score struct {
	OverallScore           float64       `json:"overall_score"`
	SectionScores          SectionScores `json:"section_scores"`
	AnalysisSummary        string        `json:"analysis_summary"`
	ImprovementSuggestions []string      `json:"improvement_suggestions"`
}

// Extractor pulls plain text from an uploaded document.
type Extractor func(ctx context.Context, data []byte, mimeType, fileName string) (string, error)

// Service scores resumes with a language model.
type Service struct {
	LLM     llm.Client
	Extract Extractor
}

// NewService builds a Service that reads PDFs with the extract package.
func NewService(client llm.Client) *Service {
	return &Service{LLM: client, Extract: extract.TextFromBytes}
}

// Upload is an uploaded resume file.
type Upload struct {
	Data     []byte
	MimeType string
	FileName string
}

// Score extracts the upload's text and asks the model to score it.
func (s *Service) Score(ctx context.Context, userID string, up Upload) (Score, error) {
	score, err := s.score(ctx, up)
	if err != nil {
		metrics.IncATSFailed()
		telemetry.Warn("ats.score_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return Score{}, err
	}
	metrics.IncATSScored()
	telemetry.Info("ats.scored", map[string]any{
		"user_id":       userID,
		"overall_score": score.OverallScore,
	})
	return score, nil
}

func (s *Service) score(ctx context.Context, up Upload) (Score, error) {
	if len(up.Data) == 0 {
		return Score{}, fmt.Errorf("%w: resume file is required", ErrInvalidInput)
	}
	text, err := s.Extract(ctx, up.Data, up.MimeType, up.FileName)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) || errors.Is(err, extract.ErrNoText) {
			return Score{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Score{}, fmt.Errorf("extract resume text: %w", err)
	}

	raw, err := s.LLM.Complete(ctx, llm.ATSScorePrompt(text))
	if err != nil {
		return Score{}, fmt.Errorf("score resume: %w", err)
	}
	return parseScore(raw)
}

// parseScore strips markdown fences from raw, validates it against the
// score schema and decodes it.
func parseScore(raw string) (Score, error) {
	cleaned := []byte(stripCodeFences(raw))
	if !json.Valid(cleaned) {
		return Score{}, fmt.Errorf("%w: not valid JSON", ErrInvalidOutput)
	}
	if err := validateScore(cleaned); err != nil {
		return Score{}, err
	}
	var out Score
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return Score{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if out.ImprovementSuggestions == nil {
		out.ImprovementSuggestions = []string{}
	}
	return out, nil
}

func stripCodeFences(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}
