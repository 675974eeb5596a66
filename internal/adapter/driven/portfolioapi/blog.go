package portfolioapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// ListBlogPosts fetches the published posts.
func (c *Client) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	var posts listOf[model.BlogPost]
	if err := c.Get(ctx, "/blog/posts/", &posts); err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	return posts.items(), nil
}

// GetBlogPost fetches one post by slug.
func (c *Client) GetBlogPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := c.Get(ctx, "/blog/posts/"+url.PathEscape(slug)+"/", &post); err != nil {
		return nil, fmt.Errorf("fetching blog post %q: %w", slug, err)
	}
	return &post, nil
}
