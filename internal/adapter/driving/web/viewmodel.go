package web

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	vm "github.com/ericfisherdev/folio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/domain/model"
)

const (
	excerptLength   = 100
	topVisitorCount = 5
	topPageCount    = 3
	dateLayout      = "Jan 2, 2006"
)

// navLinks lists the public navigation in display order.
var navLinks = []vm.NavLink{
	{Label: "Home", Path: "/"},
	{Label: "Projects", Path: "/projects"},
	{Label: "Blog", Path: "/blog"},
	{Label: "Certifications", Path: "/certifications"},
	{Label: "Achievements", Path: "/achievements"},
	{Label: "Contact", Path: "/contact"},
}

// toNav marks the link whose path is active.
func toNav(active string) []vm.NavLink {
	out := make([]vm.NavLink, len(navLinks))
	for i, l := range navLinks {
		l.Active = l.Path == active
		out[i] = l
	}
	return out
}

func toSkills(skills []model.Skill) []vm.SkillViewModel {
	out := make([]vm.SkillViewModel, 0, len(skills))
	for _, s := range skills {
		out = append(out, vm.SkillViewModel{
			Name:     s.Name,
			IconURL:  model.SkillIconURL(s.Name),
			Category: string(s.Category),
		})
	}
	return out
}

func toProjectCard(p model.Project, placeholder string) vm.ProjectCardViewModel {
	return vm.ProjectCardViewModel{
		Title:      p.Title,
		Tagline:    p.Tagline,
		CoverImage: p.CoverImage(placeholder),
		DetailPath: "/projects/" + url.PathEscape(p.Slug),
		DemoLink:   p.DemoLink,
		GitHubLink: p.GitHubLink,
		Skills:     toSkills(p.Skills),
	}
}

func toProjectCards(projects []model.Project, placeholder string) []vm.ProjectCardViewModel {
	out := make([]vm.ProjectCardViewModel, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectCard(p, placeholder))
	}
	return out
}

func toProjectsViewModel(page *application.ProjectsPage, placeholder string) vm.ProjectsViewModel {
	return vm.ProjectsViewModel{
		Projects: toProjectCards(page.Projects, placeholder),
		Filters:  toFilters(page.Filter, page.Query),
		Query:    page.Query,
		Filter:   string(page.Filter),
		Shown:    len(page.Projects),
		Total:    page.Total,
		Latency:  page.Latency,
	}
}

// toFilters builds the filter buttons, keeping the current search query.
func toFilters(current model.ProjectFilter, query string) []vm.FilterViewModel {
	out := make([]vm.FilterViewModel, 0, len(model.ProjectFilters))
	for _, f := range model.ProjectFilters {
		q := url.Values{}
		if f != model.ProjectFilterAll {
			q.Set("filter", string(f))
		}
		if query != "" {
			q.Set("q", query)
		}
		href := "/projects"
		if enc := q.Encode(); enc != "" {
			href += "?" + enc
		}
		out = append(out, vm.FilterViewModel{Label: f.Label(), Href: href, Active: f == current})
	}
	return out
}

func toProjectDetail(d *application.ProjectDetail, placeholder string, now time.Time) vm.ProjectDetailViewModel {
	out := vm.ProjectDetailViewModel{
		ProjectCardViewModel: toProjectCard(d.Project, placeholder),
		DescriptionHTML:      RenderMarkdown(d.Project.Description),
		Gallery:              []vm.GalleryImageViewModel{},
	}
	for _, img := range d.Project.Images {
		if img.ImageURL == "" {
			continue
		}
		out.Gallery = append(out.Gallery, vm.GalleryImageViewModel{URL: img.ImageURL, Caption: img.Caption})
	}
	if r := d.Repo; r != nil {
		out.Repo = &vm.RepoViewModel{
			FullName:   r.FullName,
			URL:        r.URL,
			Stars:      r.Stars,
			Forks:      r.Forks,
			OpenIssues: r.OpenIssues,
			Language:   r.Language,
			PushedAgo:  timeAgo(r.PushedAt, now),
		}
	}
	return out
}

func toCertificates(certs []model.Certificate) []vm.CertificateViewModel {
	out := make([]vm.CertificateViewModel, 0, len(certs))
	for _, c := range certs {
		out = append(out, vm.CertificateViewModel{
			Name:          c.Name,
			Issuer:        c.Issuer,
			DateIssued:    c.DateIssued,
			CredentialURL: c.CredentialURL,
			ImageURL:      c.ImageURL,
		})
	}
	return out
}

func toAchievements(items []model.Achievement) []vm.AchievementViewModel {
	out := make([]vm.AchievementViewModel, 0, len(items))
	for _, a := range items {
		out = append(out, vm.AchievementViewModel{
			Title:       a.Title,
			Description: a.Description,
			DateEarned:  a.DateEarned,
			Glyph:       model.ParseAchievementIcon(a.IconName).Glyph(),
		})
	}
	return out
}

func toHomeViewModel(h *model.HomeData, placeholder string) vm.HomeViewModel {
	out := vm.HomeViewModel{
		HeroTitle:    h.HeroTitle,
		AboutText:    h.AboutText,
		Featured:     toProjectCards(h.FeaturedProjects, placeholder),
		Skills:       toSkills(h.Skills),
		Certificates: toCertificates(h.Certificates),
		Achievements: toAchievements(h.Achievements),
		Journey:      make([]vm.JourneyViewModel, 0, len(h.Journey)),
	}
	if out.HeroTitle == "" {
		out.HeroTitle = "Building reliable software, end to end."
	}
	for _, j := range h.Journey {
		out.Journey = append(out.Journey, vm.JourneyViewModel{
			Title:       j.Title,
			Subtitle:    j.Subtitle,
			DateRange:   j.DateRange,
			Description: j.Description,
			Category:    j.Category,
		})
	}
	return out
}

func toBlogCard(p model.BlogPost) vm.BlogCardViewModel {
	card := vm.BlogCardViewModel{
		Title:      p.Title,
		DetailPath: "/blog/" + url.PathEscape(p.Slug),
		Excerpt:    p.Excerpt(excerptLength),
		CoverImage: p.CoverImageURL,
		Tags:       p.TagList(),
		ReadTime:   p.ReadTime,
	}
	if !p.CreatedAt.IsZero() {
		card.Date = p.CreatedAt.Format(dateLayout)
	}
	return card
}

func toBlogList(posts []model.BlogPost) vm.BlogListViewModel {
	out := vm.BlogListViewModel{Posts: make([]vm.BlogCardViewModel, 0, len(posts))}
	for _, p := range posts {
		out.Posts = append(out.Posts, toBlogCard(p))
	}
	return out
}

func toBlogPost(p *model.BlogPost) vm.BlogPostViewModel {
	return vm.BlogPostViewModel{
		BlogCardViewModel: toBlogCard(*p),
		ContentHTML:       RenderMarkdown(p.Content),
	}
}

func toStatusViewModel(s model.SystemStatus) vm.StatusViewModel {
	out := vm.StatusViewModel{
		Status:      s.Status,
		Operational: s.IsOperational(),
		Latency:     s.Latency,
		Version:     s.Version,
		Region:      s.Region,
		Database:    s.Database,
		Commit:      s.Commit,
		Services:    make([]vm.ServiceViewModel, 0, len(s.Services)),
	}
	for _, svc := range s.Services {
		out.Services = append(out.Services, vm.ServiceViewModel{
			Name:        svc.Name,
			Status:      svc.Status,
			Operational: svc.Status == model.StatusOperational,
		})
	}
	return out
}

func toDashboardViewModel(d *application.Dashboard, now time.Time) vm.DashboardViewModel {
	out := vm.DashboardViewModel{
		TotalVisitors:  d.Stats.Overview.TotalVisitors,
		ActiveToday:    d.Stats.Overview.ActiveToday,
		TotalPageviews: d.Stats.Overview.TotalPageviews,
		Daily:          toDaily(d.Stats.DailyStats),
		TopPages:       []vm.PageShareViewModel{},
		Visitors:       []vm.VisitorViewModel{},
	}
	for _, p := range d.TopPages(topPageCount) {
		out.TopPages = append(out.TopPages, vm.PageShareViewModel{Path: p.Path, Views: p.Views, Percent: p.Percent})
	}
	for _, v := range d.TopVisitors(topVisitorCount) {
		out.Visitors = append(out.Visitors, vm.VisitorViewModel{
			IP:        v.IP(),
			Location:  v.Location,
			Device:    v.Device(),
			Online:    v.IsOnline,
			LastVisit: timeAgo(v.LastVisit, now),
			PageViews: len(v.PageViews),
		})
	}
	return out
}

// toDaily scales each day against the busiest one.
func toDaily(days []model.DailyStat) []vm.DailyViewModel {
	peak := 0
	for _, d := range days {
		peak = max(peak, d.Count)
	}
	out := make([]vm.DailyViewModel, 0, len(days))
	for _, d := range days {
		day := vm.DailyViewModel{Day: d.Day, Count: d.Count}
		if peak > 0 {
			day.Percent = d.Count * 100 / peak
		}
		out = append(out, day)
	}
	return out
}

func toVaultViewModel(files []model.VaultFile, csrf string, flash *vm.Flash) vm.VaultViewModel {
	out := vm.VaultViewModel{
		Files:      make([]vm.VaultFileViewModel, 0, len(files)),
		Categories: vaultCategories(),
		Flash:      flash,
		CSRFToken:  csrf,
	}
	for _, f := range files {
		out.Files = append(out.Files, vm.VaultFileViewModel{
			ID:         f.ID,
			Name:       f.Name,
			URL:        f.FileURL,
			Category:   string(f.Category),
			Size:       f.Size,
			UploadedAt: formatDate(f.UploadedAt),
			DeletePath: "/admin/vault/" + strconv.FormatInt(f.ID, 10) + "/delete",
		})
	}
	return out
}

func vaultCategories() []string {
	return []string{
		string(model.VaultCategoryResume),
		string(model.VaultCategoryCertificate),
		string(model.VaultCategoryOther),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// timeAgo renders a coarse relative time such as "5m ago" or "3d ago".
func timeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format(dateLayout)
	}
}
