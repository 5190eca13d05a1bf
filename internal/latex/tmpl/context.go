package tmpl

import (
	"time"

	"resume-builder/internal/latex"
)

// Context is the data bound into a templated document. Every user-supplied
// string is a latex.Text, so it is escaped exactly once when printed.
type Context struct {
	Name     latex.Text
	Email    latex.Text
	Phone    latex.Text
	LinkedIn latex.Text
	GitHub   latex.Text
	Website  latex.Text
	Summary  latex.Text
	JobRole  latex.Text

	Skills      []Skill
	Projects    []Project
	Experiences []Experience
	Educations  []Education
}

// Skill is a single named skill.
type Skill struct {
	Name latex.Text
}

// Project is a portfolio entry.
type Project struct {
	Title        latex.Text
	Description  latex.Text
	Technologies latex.Text
}

// Experience is a work history entry. A nil EndDate means the role is current.
type Experience struct {
	Role        latex.Text
	Company     latex.Text
	StartDate   time.Time
	EndDate     *time.Time
	Description latex.Text
}

// Education is an education history entry.
type Education struct {
	Degree      latex.Text
	Institution latex.Text
	StartDate   time.Time
	EndDate     *time.Time
	Grade       latex.Text
	Description latex.Text
}

// displayNamer is implemented by list items that join can render.
type displayNamer interface {
	DisplayName() latex.Text
}

func (s Skill) DisplayName() latex.Text      { return s.Name }
func (p Project) DisplayName() latex.Text    { return p.Title }
func (e Experience) DisplayName() latex.Text { return e.Role }
func (e Education) DisplayName() latex.Text  { return e.Degree }
