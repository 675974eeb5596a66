// Package httphandler implements the JSON API driving adapter and the shared
// HTTP middleware.
package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/folio/internal/application"
)

// maxChatBody bounds the chat request body.
const maxChatBody = 4 << 10

// maxChatQuery bounds the question length in runes.
const maxChatQuery = 500

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	site    *application.SiteService
	counter *application.LiveCounter
	chatRL  *RateLimiter
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. chatRL may be
// nil to disable chat rate limiting.
func NewHandler(
	site *application.SiteService,
	counter *application.LiveCounter,
	chatRL *RateLimiter,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		site:    site,
		counter: counter,
		chatRL:  chatRL,
		logger:  logger,
	}
}

// RegisterAPIRoutes registers the JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/live", h.Live)

	var chat http.Handler = http.HandlerFunc(h.Chat)
	if h.chatRL != nil {
		chat = h.chatRL.Middleware(chat)
	}
	mux.Handle("POST /api/v1/chat", chat)
}

// Health reports that the process is serving. It does not call the backend
// and says nothing about the admin session.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Live returns the current live visitor count.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, LiveResponse{Count: h.counter.Count()})
}

// Chat forwards a question to the assistant. Backend failures yield the
// fallback reply with status 200.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBody)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if len([]rune(query)) > maxChatQuery {
		writeError(w, http.StatusBadRequest, "query is too long")
		return
	}

	reply := h.site.Chat(r.Context(), query)
	writeJSON(w, http.StatusOK, ChatResponse{Text: reply.Text, RelatedLink: reply.RelatedLink})
}
