package portfolioapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// TrackVisitor records a page view on behalf of the visitor. The backend keys
// visitors by the first X-Forwarded-For hop, so the visitor's address is sent
// there. The outcome is ignored; failures are logged at debug level only.
func (c *Client) TrackVisitor(ctx context.Context, event model.TrackEvent) {
	req, err := jsonRequest(http.MethodPost, "/analytics/track/", event)
	if err == nil {
		if event.ClientIP != "" {
			req.header = http.Header{"X-Forwarded-For": {event.ClientIP}}
		}
		err = c.send(ctx, req, nil)
	}
	if err != nil {
		c.logger.Debug("visitor tracking failed", "path", event.Path, "error", err)
	}
}

// GetDashboardStats fetches the analytics aggregate. Requires a bearer token.
func (c *Client) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.Get(ctx, "/analytics/dashboard/", &stats); err != nil {
		return nil, fmt.Errorf("fetching dashboard stats: %w", err)
	}
	return &stats, nil
}

// ListVisitors fetches recent visitors. Requires a bearer token.
func (c *Client) ListVisitors(ctx context.Context) ([]model.Visitor, error) {
	var visitors model.VisitorList
	if err := c.Get(ctx, "/analytics/visitors/", &visitors); err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	if visitors == nil {
		return []model.Visitor{}, nil
	}
	return visitors, nil
}
