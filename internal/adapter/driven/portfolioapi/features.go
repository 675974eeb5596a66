package portfolioapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// ChatFallbackText is the canned reply used when the chat endpoint is unreachable.
const ChatFallbackText = "I seem to be having trouble connecting to the mainframe. Please try again later."

// SendContactMessage delivers a contact form submission.
func (c *Client) SendContactMessage(ctx context.Context, msg model.ContactMessage) error {
	if err := c.Post(ctx, "/contact/", msg, nil); err != nil {
		return fmt.Errorf("sending contact message: %w", err)
	}
	return nil
}

// SendChatQuery asks the assistant endpoint. Any failure yields the fallback reply.
func (c *Client) SendChatQuery(ctx context.Context, query string) model.ChatReply {
	var reply model.ChatReply
	err := c.Post(ctx, "/features/chat/", map[string]string{"query": query}, &reply)
	if err != nil || strings.TrimSpace(reply.Text) == "" {
		if err != nil {
			c.logger.Warn("chat query failed", "error", err)
		}
		return model.ChatReply{Text: ChatFallbackText}
	}
	return reply
}

// GetSystemStatus fetches the backend health report.
func (c *Client) GetSystemStatus(ctx context.Context) (*model.SystemStatus, error) {
	var status model.SystemStatus
	if err := c.Get(ctx, "/features/status/", &status); err != nil {
		return nil, fmt.Errorf("fetching system status: %w", err)
	}
	if status.Services == nil {
		status.Services = []model.ServiceStatus{}
	}
	return &status, nil
}
