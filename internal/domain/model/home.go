package model

// Certificate is an earned certification.
type Certificate struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Issuer        string `json:"issuer"`
	DateIssued    string `json:"date_issued"`
	CredentialURL string `json:"credential_url"`
	ImageURL      string `json:"image_url"`
}

// Journey is one entry of the education/work timeline.
type Journey struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	DateRange   string `json:"date_range"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Order       int    `json:"order"`
}

// Achievement is a highlighted accomplishment.
type Achievement struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DateEarned  string `json:"date_earned"`
	IconName    string `json:"icon_name"`
	Order       int    `json:"order"`
}

// HomeData is the backend's single-request aggregate for the landing page.
type HomeData struct {
	FeaturedProjects []Project     `json:"featured_projects"`
	Skills           []Skill       `json:"skills"`
	Certificates     []Certificate `json:"certificates"`
	Journey          []Journey     `json:"journey"`
	Achievements     []Achievement `json:"achievements"`
	HeroTitle        string        `json:"hero_title"`
	AboutText        string        `json:"about_text"`
}
