package profiles

import (
	"fmt"
	"strings"
	"time"
)

// Input is the resume-info request body.
type Input struct {
	BasicInfo  BasicInfo         `json:"basicInfo"`
	Skills     []string          `json:"skills"`
	Projects   []ProjectInput    `json:"projects"`
	Experience []ExperienceInput `json:"experience"`
	Education  []EducationInput  `json:"education"`
}

// BasicInfo holds the scalar profile fields.
type BasicInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
	JobRole  string `json:"jobRole"`
}

type ProjectInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
}

type ExperienceInput struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type EducationInput struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Grade       string `json:"grade"`
	Description string `json:"description"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01"}

// ToProfile validates in and converts it to a Profile. Missing start dates
// default to now.
func (in Input) ToProfile(now time.Time) (Profile, error) {
	b := in.BasicInfo
	if strings.TrimSpace(b.Name) == "" {
		return Profile{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	p := Profile{
		Name:     strings.TrimSpace(b.Name),
		Email:    strings.TrimSpace(b.Email),
		Phone:    strings.TrimSpace(b.Phone),
		LinkedIn: strings.TrimSpace(b.LinkedIn),
		GitHub:   strings.TrimSpace(b.GitHub),
		Website:  strings.TrimSpace(b.Website),
		Summary:  strings.TrimSpace(b.Summary),
		JobRole:  strings.TrimSpace(b.JobRole),
	}
	for _, name := range in.Skills {
		if name = strings.TrimSpace(name); name != "" {
			p.Skills = append(p.Skills, Skill{Name: name})
		}
	}
	for _, pr := range in.Projects {
		p.Projects = append(p.Projects, Project{
			Title:        strings.TrimSpace(pr.Title),
			Description:  strings.TrimSpace(pr.Description),
			Technologies: strings.TrimSpace(pr.Technologies),
		})
	}
	for i, e := range in.Experience {
		start, end, err := parseRange(e.StartDate, e.EndDate, now)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: experience[%d]: %v", ErrInvalidInput, i, err)
		}
		p.Experiences = append(p.Experiences, Experience{
			Role:        strings.TrimSpace(e.Role),
			Company:     strings.TrimSpace(e.Company),
			StartDate:   start,
			EndDate:     end,
			Description: strings.TrimSpace(e.Description),
		})
	}
	for i, e := range in.Education {
		start, end, err := parseRange(e.StartDate, e.EndDate, now)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: education[%d]: %v", ErrInvalidInput, i, err)
		}
		p.Educations = append(p.Educations, Education{
			Degree:      strings.TrimSpace(e.Degree),
			Institution: strings.TrimSpace(e.Institution),
			StartDate:   start,
			EndDate:     end,
			Grade:       strings.TrimSpace(e.Grade),
			Description: strings.TrimSpace(e.Description),
		})
	}
	return p, nil
}

// parseRange defaults a missing start to now; a missing end means current.
func parseRange(startRaw, endRaw string, now time.Time) (time.Time, *time.Time, error) {
	start := now
	if strings.TrimSpace(startRaw) != "" {
		t, err := parseDate(startRaw)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("startDate: %w", err)
		}
		start = t
	}
	if strings.TrimSpace(endRaw) == "" {
		return start, nil, nil
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("endDate: %w", err)
	}
	return start, &end, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
