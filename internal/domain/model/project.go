package model

import (
	"strings"
	"time"
)

// SkillCategory is the backend's closed set of skill categories.
type SkillCategory string

const (
	SkillCategoryFront  SkillCategory = "FRONT"
	SkillCategoryBack   SkillCategory = "BACK"
	SkillCategoryDevOps SkillCategory = "DEVOPS"
	SkillCategoryTool   SkillCategory = "TOOL"
)

// Skill is a technology tag attached to projects and shown on the home page.
type Skill struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Category    SkillCategory `json:"category"`
	Proficiency int           `json:"proficiency"`
	IconClass   string        `json:"icon_class"`
}

// ProjectImage is one gallery image of a project.
type ProjectImage struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption"`
	IsFeature bool   `json:"is_feature"`
}

// Project is a portfolio project as served by the backend.
type Project struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	Tagline          string         `json:"tagline"`
	Description      string         `json:"description"`
	Skills           []Skill        `json:"skills"`
	Images           []ProjectImage `json:"images"`
	DemoLink         string         `json:"demo_link"`
	GitHubLink       string         `json:"github_link"`
	FeaturedImageURL string         `json:"featured_image_url"`
	Featured         bool           `json:"featured"`
	CreatedAt        time.Time      `json:"created_at"`
}

// CoverImage returns the featured image, then the first flagged gallery image,
// then placeholder.
func (p Project) CoverImage(placeholder string) string {
	if p.FeaturedImageURL != "" {
		return p.FeaturedImageURL
	}
	for _, img := range p.Images {
		if img.IsFeature && img.ImageURL != "" {
			return img.ImageURL
		}
	}
	return placeholder
}

// ProjectFilter is the category filter offered on the projects page.
type ProjectFilter string

const (
	ProjectFilterAll    ProjectFilter = "ALL"
	ProjectFilterWeb    ProjectFilter = "WEB"
	ProjectFilterDevOps ProjectFilter = "DEVOPS"
	ProjectFilterTools  ProjectFilter = "TOOLS"
)

// ProjectFilters lists the filters in display order.
var ProjectFilters = []ProjectFilter{
	ProjectFilterAll,
	ProjectFilterWeb,
	ProjectFilterDevOps,
	ProjectFilterTools,
}

// Label returns the button label for the filter.
func (f ProjectFilter) Label() string {
	switch f {
	case ProjectFilterWeb:
		return "Web / Full-Stack"
	case ProjectFilterDevOps:
		return "DevOps / Cloud"
	case ProjectFilterTools:
		return "Scripts & Tools"
	default:
		return "All Work"
	}
}

// ParseProjectFilter maps a query value onto a known filter, defaulting to ALL.
func ParseProjectFilter(s string) ProjectFilter {
	f := ProjectFilter(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ProjectFilters {
		if f == known {
			return f
		}
	}
	return ProjectFilterAll
}

var (
	devOpsSkillNames = []string{"DOCKER", "KUBERNETES", "AWS", "LINUX", "JENKINS"}
	webSkillNames    = []string{"REACT", "DJANGO", "PYTHON", "JS"}
)

// Matches reports whether the project belongs to the filter's category.
func (f ProjectFilter) Matches(p Project) bool {
	switch f {
	case ProjectFilterDevOps:
		return p.hasCategory(SkillCategoryDevOps) || p.hasSkillNamed(devOpsSkillNames)
	case ProjectFilterWeb:
		return p.hasCategory(SkillCategoryFront) || p.hasCategory(SkillCategoryBack) || p.hasSkillNamed(webSkillNames)
	case ProjectFilterTools:
		return p.hasCategory(SkillCategoryTool)
	default:
		return true
	}
}

// MatchesSearch reports whether query occurs in the title or tagline, ignoring case.
// An empty query matches everything.
func (p Project) MatchesSearch(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Tagline), q)
}

func (p Project) hasCategory(c SkillCategory) bool {
	for _, s := range p.Skills {
		if s.Category == c {
			return true
		}
	}
	return false
}

func (p Project) hasSkillNamed(names []string) bool {
	for _, s := range p.Skills {
		upper := strings.ToUpper(s.Name)
		for _, n := range names {
			if upper == n {
				return true
			}
		}
	}
	return false
}

// FilterProjects returns the projects that match both the filter and the search query,
// preserving order. The result is never nil.
func FilterProjects(projects []Project, filter ProjectFilter, query string) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.MatchesSearch(query) && filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
