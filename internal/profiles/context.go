package profiles

import (
	"time"

	"resume-builder/internal/latex"
	"resume-builder/internal/latex/tmpl"
)

// TemplateContext snapshots the profile for document templating. Strings are
// wrapped as latex.Text so they escape exactly once on output.
func (p Profile) TemplateContext() tmpl.Context {
	ctx := tmpl.Context{
		Name:     latex.Text(p.Name),
		Email:    latex.Text(p.Email),
		Phone:    latex.Text(p.Phone),
		LinkedIn: latex.Text(p.LinkedIn),
		GitHub:   latex.Text(p.GitHub),
		Website:  latex.Text(p.Website),
		Summary:  latex.Text(p.Summary),
		JobRole:  latex.Text(p.JobRole),
	}
	for _, s := range p.Skills {
		ctx.Skills = append(ctx.Skills, tmpl.Skill{Name: latex.Text(s.Name)})
	}
	for _, pr := range p.Projects {
		ctx.Projects = append(ctx.Projects, tmpl.Project{
			Title:        latex.Text(pr.Title),
			Description:  latex.Text(pr.Description),
			Technologies: latex.Text(pr.Technologies),
		})
	}
	for _, e := range p.Experiences {
		ctx.Experiences = append(ctx.Experiences, tmpl.Experience{
			Role:        latex.Text(e.Role),
			Company:     latex.Text(e.Company),
			StartDate:   e.StartDate,
			EndDate:     copyTime(e.EndDate),
			Description: latex.Text(e.Description),
		})
	}
	for _, e := range p.Educations {
		ctx.Educations = append(ctx.Educations, tmpl.Education{
			Degree:      latex.Text(e.Degree),
			Institution: latex.Text(e.Institution),
			StartDate:   e.StartDate,
			EndDate:     copyTime(e.EndDate),
			Grade:       latex.Text(e.Grade),
			Description: latex.Text(e.Description),
		})
	}
	return ctx
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
