package model

import "strings"

// deviconBaseURL serves SVG logos keyed by normalised technology name.
const deviconBaseURL = "https://cdn.jsdelivr.net/gh/devicons/devicon/icons"

// deviconAliases maps normalised skill names whose devicon slug differs.
var deviconAliases = map[string]string{
	"c++":        "cplusplus",
	"c#":         "csharp",
	"html":       "html5",
	"css":        "css3",
	"aws":        "amazonwebservices",
	"js":         "javascript",
	"node":       "nodejs",
	"postgres":   "postgresql",
	"postgresql": "postgresql",
	"drf":        "django",
	"restapi":    "fastapi",
}

// SkillIconSlug normalises a skill name (lowercase, dots and whitespace removed)
// and applies the alias table.
func SkillIconSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, ".", "")
	slug = strings.Join(strings.Fields(slug), "")
	if alias, ok := deviconAliases[slug]; ok {
		return alias
	}
	return slug
}

// SkillIconURL returns the devicon logo URL for a skill name. An empty slug has
// no logo and returns "", which views render with the fallback glyph.
func SkillIconURL(name string) string {
	slug := SkillIconSlug(name)
	if slug == "" {
		return ""
	}
	return deviconBaseURL + "/" + slug + "/" + slug + "-original.svg"
}

// AchievementIcon is the closed set of icons an achievement may name.
type AchievementIcon string

const (
	AchievementIconTrophy    AchievementIcon = "Trophy"
	AchievementIconStar      AchievementIcon = "Star"
	AchievementIconCode      AchievementIcon = "Code"
	AchievementIconZap       AchievementIcon = "Zap"
	AchievementIconGitBranch AchievementIcon = "GitBranch"
)

// achievementGlyphs renders each icon as a text glyph.
var achievementGlyphs = map[AchievementIcon]string{
	AchievementIconTrophy:    "🏆",
	AchievementIconStar:      "⭐",
	AchievementIconCode:      "</>",
	AchievementIconZap:       "⚡",
	AchievementIconGitBranch: "⎇",
}

// ParseAchievementIcon maps a free-form icon name onto the closed set.
// Unknown names fall back to Trophy.
func ParseAchievementIcon(name string) AchievementIcon {
	for icon := range achievementGlyphs {
		if strings.EqualFold(string(icon), strings.TrimSpace(name)) {
			return icon
		}
	}
	return AchievementIconTrophy
}

// Glyph returns the text glyph for the icon.
func (i AchievementIcon) Glyph() string {
	if g, ok := achievementGlyphs[i]; ok {
		return g
	}
	return achievementGlyphs[AchievementIconTrophy]
}
