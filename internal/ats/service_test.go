package ats

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-builder/internal/extract"
)

const validScore = `{
  "overall_score": 78,
  "section_scores": {
    "summary_or_objective": 70,
    "experience": 82.5,
    "skills": 90,
    "education": 75,
    "formatting_and_clarity": 68
  },
  "analysis_summary": "Strong experience section.",
  "improvement_suggestions": ["Quantify impact in the summary."]
}`

type stubLLM struct {
	out    string
	err    error
	prompt string
}

func (s *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.out, s.err
}

func fakeExtract(text string, err error) Extractor {
	return func(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
		return text, err
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "plain", raw: validScore},
		{name: "fenced", raw: "```json\n" + validScore + "\n```"},
		{name: "bare fence", raw: "```\n" + validScore + "```"},
		{name: "not json", raw: "I think this resume is great", wantErr: true},
		{name: "missing field", raw: `{"overall_score": 50}`, wantErr: true},
		{name: "out of range", raw: strings.Replace(validScore, `"overall_score": 78`, `"overall_score": 140`, 1), wantErr: true},
		{name: "wrong type", raw: strings.Replace(validScore, `"skills": 90`, `"skills": "high"`, 1), wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScore(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOutput) {
					t.Fatalf("expected ErrInvalidOutput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseScore: %v", err)
			}
			if got.OverallScore != 78 || got.SectionScores.Experience != 82.5 {
				t.Fatalf("unexpected score %+v", got)
			}
			if len(got.ImprovementSuggestions) != 1 {
				t.Fatalf("unexpected suggestions %v", got.ImprovementSuggestions)
			}
		})
	}
}

func TestScoreSendsExtractedText(t *testing.T) {
	client := &stubLLM{out: validScore}
	svc := &Service{LLM: client, Extract: fakeExtract("Jane Doe, Go engineer", nil)}

	got, err := svc.Score(context.Background(), "user-1", Upload{Data: []byte("%PDF-"), FileName: "cv.pdf"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got.OverallScore != 78 {
		t.Fatalf("unexpected overall %v", got.OverallScore)
	}
	if !strings.Contains(client.prompt, "Jane Doe, Go engineer") {
		t.Fatalf("prompt missing resume text")
	}
}

func TestScoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		extract Extractor
		llm     *stubLLM
		want    error
	}{
		{name: "no data", data: nil, extract: fakeExtract("x", nil), llm: &stubLLM{out: validScore}, want: ErrInvalidInput},
		{name: "not a pdf", data: []byte("x"), extract: fakeExtract("", extract.ErrUnsupportedType), llm: &stubLLM{out: validScore}, want: ErrInvalidInput},
		{name: "empty pdf", data: []byte("x"), extract: fakeExtract("", extract.ErrNoText), llm: &stubLLM{out: validScore}, want: ErrInvalidInput},
		{name: "model garbage", data: []byte("x"), extract: fakeExtract("text", nil), llm: &stubLLM{out: "nope"}, want: ErrInvalidOutput},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{LLM: tt.llm, Extract: tt.extract}
			if _, err := svc.Score(context.Background(), "u", Upload{Data: tt.data}); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	svc := &Service{LLM: &stubLLM{err: errors.New("quota exceeded")}, Extract: fakeExtract("text", nil)}
	_, err := svc.Score(context.Background(), "u", Upload{Data: []byte("x")})
	if err == nil || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("expected plain upstream error, got %v", err)
	}
}
