// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

import "time"

// NavLink is one entry of the top navigation bar.
type NavLink struct {
	Label  string
	Path   string
	Active bool
}

// LayoutViewModel holds the data shared by every full page.
type LayoutViewModel struct {
	Title         string
	Nav           []NavLink
	Authenticated bool
	LiveCount     int
	CSRFToken     string
}

// Flash is a one-shot message shown above a form.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// SkillViewModel is a skill badge.
type SkillViewModel struct {
	Name     string
	IconURL  string // empty when no logo is known; render the fallback glyph
	Category string
}

// ProjectCardViewModel holds presentation-ready data for a project card.
type ProjectCardViewModel struct {
	Title      string
	Tagline    string
	CoverImage string
	DetailPath string
	DemoLink   string
	GitHubLink string
	Skills     []SkillViewModel
}

// FilterViewModel is one category filter button.
type FilterViewModel struct {
	Label  string
	Href   string
	Active bool
}

// ProjectsViewModel holds the projects list page.
type ProjectsViewModel struct {
	Errored  bool
	Projects []ProjectCardViewModel
	Filters  []FilterViewModel
	Query    string
	Filter   string
	Shown    int
	Total    int
	Latency  string
}

// RepoViewModel summarises the linked repository of a project.
type RepoViewModel struct {
	FullName   string
	URL        string
	Stars      int
	Forks      int
	OpenIssues int
	Language   string
	PushedAgo  string
}

// GalleryImageViewModel is one image of a project gallery.
type GalleryImageViewModel struct {
	URL     string
	Caption string
}

// ProjectDetailViewModel holds a single project page.
type ProjectDetailViewModel struct {
	ProjectCardViewModel
	DescriptionHTML string
	Gallery         []GalleryImageViewModel
	Repo            *RepoViewModel
}

// CertificateViewModel is one certification card.
type CertificateViewModel struct {
	Name          string
	Issuer        string
	DateIssued    string
	CredentialURL string
	ImageURL      string
}

// JourneyViewModel is one timeline entry.
type JourneyViewModel struct {
	Title       string
	Subtitle    string
	DateRange   string
	Description string
	Category    string
}

// AchievementViewModel is one achievement card.
type AchievementViewModel struct {
	Title       string
	Description string
	DateEarned  string
	Glyph       string
}

// HomeViewModel holds the landing page.
type HomeViewModel struct {
	Errored      bool
	HeroTitle    string
	AboutText    string
	Featured     []ProjectCardViewModel
	Skills       []SkillViewModel
	Certificates []CertificateViewModel
	Journey      []JourneyViewModel
	Achievements []AchievementViewModel
}

// CertificationsViewModel holds the certifications page.
type CertificationsViewModel struct {
	Errored      bool
	Certificates []CertificateViewModel
}

// AchievementsViewModel holds the achievements page.
type AchievementsViewModel struct {
	Errored      bool
	Achievements []AchievementViewModel
}

// BlogCardViewModel is one entry of the blog list.
type BlogCardViewModel struct {
	Title      string
	DetailPath string
	Excerpt    string
	CoverImage string
	Tags       []string
	Date       string
	ReadTime   int
}

// BlogListViewModel holds the blog list page.
type BlogListViewModel struct {
	Errored bool
	Posts   []BlogCardViewModel
}

// BlogPostViewModel holds a rendered post.
type BlogPostViewModel struct {
	BlogCardViewModel
	ContentHTML string
}

// ContactViewModel holds the contact form.
type ContactViewModel struct {
	Name      string
	Email     string
	Message   string
	State     string
	Flash     *Flash
	CSRFToken string
}

// ServiceViewModel is one subsystem row of the status page.
type ServiceViewModel struct {
	Name        string
	Status      string
	Operational bool
}

// StatusViewModel holds the system status page.
type StatusViewModel struct {
	Status      string
	Operational bool
	Latency     string
	Version     string
	Region      string
	Database    string
	Commit      string
	Services    []ServiceViewModel
}

// LoginViewModel holds the admin login form.
type LoginViewModel struct {
	Username  string
	Flash     *Flash
	CSRFToken string
}

// VisitorViewModel is one row of the visitor table.
type VisitorViewModel struct {
	IP        string
	Location  string
	Device    string
	Online    bool
	LastVisit string
	PageViews int
}

// PageShareViewModel is one row of the top pages chart.
type PageShareViewModel struct {
	Path    string
	Views   int
	Percent int
}

// DailyViewModel is one bar of the daily chart.
type DailyViewModel struct {
	Day     string
	Count   int
	Percent int
}

// VaultFileViewModel is one vault row.
type VaultFileViewModel struct {
	ID         int64
	Name       string
	URL        string
	Category   string
	Size       string
	UploadedAt string
	DeletePath string
}

// VaultViewModel holds the vault panel, rendered standalone for HTMX swaps.
type VaultViewModel struct {
	Errored    bool
	Files      []VaultFileViewModel
	Categories []string
	Flash      *Flash
	CSRFToken  string
}

// DashboardViewModel holds the admin dashboard.
type DashboardViewModel struct {
	Errored        bool
	TotalVisitors  int
	ActiveToday    int
	TotalPageviews int
	Daily          []DailyViewModel
	TopPages       []PageShareViewModel
	Visitors       []VisitorViewModel
	Vault          VaultViewModel
	Subject        string
	ExpiresAt      time.Time
	Persistent     bool
	CSRFToken      string
}

// ErrorViewModel holds an error page.
type ErrorViewModel struct {
	Status  int
	Heading string
	Message string
}
