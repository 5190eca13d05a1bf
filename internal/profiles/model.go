package profiles

import "time"

// Profile is the structured resume data a user keeps for templated documents.
type Profile struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary,omitempty"`
	JobRole  string `json:"jobRole,omitempty"`

	Skills      []Skill      `json:"skills"`
	Projects    []Project    `json:"projects"`
	Experiences []Experience `json:"experiences"`
	Educations  []Education  `json:"educations"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Skill is a single named skill.
type Skill struct {
	Name string `json:"name"`
}

// Project is a portfolio entry.
type Project struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Technologies string `json:"technologies,omitempty"`
}

// Experience is a work history entry; a nil EndDate means current.
type Experience struct {
	Role        string     `json:"role"`
	Company     string     `json:"company"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Education is an education history entry.
type Education struct {
	Degree      string     `json:"degree"`
	Institution string     `json:"institution"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Grade       string     `json:"grade,omitempty"`
	Description string     `json:"description,omitempty"`
}
