package portfolioapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// GetHome fetches the home page aggregate.
func (c *Client) GetHome(ctx context.Context) (*model.HomeData, error) {
	var home model.HomeData
	if err := c.Get(ctx, "/home/", &home); err != nil {
		return nil, fmt.Errorf("fetching home: %w", err)
	}
	return &home, nil
}

// ListProjects fetches every published project.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects listOf[model.Project]
	if err := c.Get(ctx, "/projects/", &projects); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects.items(), nil
}

// GetProject fetches one project by slug.
func (c *Client) GetProject(ctx context.Context, slug string) (*model.Project, error) {
	var project model.Project
	if err := c.Get(ctx, "/projects/"+url.PathEscape(slug)+"/", &project); err != nil {
		return nil, fmt.Errorf("fetching project %q: %w", slug, err)
	}
	return &project, nil
}
