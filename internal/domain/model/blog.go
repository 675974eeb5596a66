package model

import (
	"strings"
	"time"
)

// BlogPost is a published article. Content is markdown.
type BlogPost struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	CoverImageURL string    `json:"cover_image_url"`
	Tags          string    `json:"tags"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	ReadTime      int       `json:"read_time"`
}

// TagList splits the comma-separated tags, dropping blanks.
func (p BlogPost) TagList() []string {
	tags := []string{}
	for _, t := range strings.Split(p.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Excerpt returns the first n runes of the content followed by an ellipsis.
func (p BlogPost) Excerpt(n int) string {
	r := []rune(p.Content)
	if len(r) <= n {
		return p.Content
	}
	return string(r[:n]) + "..."
}
