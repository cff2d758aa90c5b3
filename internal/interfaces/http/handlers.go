package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	larkevent "github.com/larksuite/oapi-sdk-go/v3/event"

	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

// maxWebhookBody bounds the Lark event payload read into memory
const maxWebhookBody = 1 << 20

// HealthFunc reports overall health and a JSON-serialisable component breakdown
type HealthFunc func(ctx context.Context) (healthy bool, components interface{})

// EventHandler is satisfied by the Lark SDK event dispatcher
type EventHandler interface {
	Handle(ctx context.Context, req *larkevent.EventReq) *larkevent.EventResp
}

// StateReader looks up a user's conversation state
type StateReader interface {
	CurrentState(ctx context.Context, userID string) (conversation.State, error)
}

// Dependencies are the application pieces the handlers call into. Nil
// members disable the matching route behaviour.
type Dependencies struct {
	Health  HealthFunc
	Metrics http.Handler
	Webhook EventHandler
	States  StateReader
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps   Dependencies
	logger Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, logger Logger) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Components interface{} `json:"components,omitempty"`
}

// SessionStateResponse is the conversation state of one user
type SessionStateResponse struct {
	UserID string `json:"user_id"`
	State  string `json:"state"`
}

// HealthCheck reports 200 when healthy and 503 otherwise. A degraded store
// still counts as healthy; the component breakdown says so.
func (h *Handlers) HealthCheck(c *gin.Context) {
	healthy, components := true, interface{}(nil)
	if h.deps.Health != nil {
		healthy, components = h.deps.Health(c.Request.Context())
	}

	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}
	status := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}

// Metrics serves the Prometheus exposition
func (h *Handlers) Metrics(c *gin.Context) {
	if h.deps.Metrics == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.deps.Metrics.ServeHTTP(c.Writer, c.Request)
}

// HasWebhook reports whether an event handler is wired
func (h *Handlers) HasWebhook() bool {
	return h.deps.Webhook != nil
}

// LarkWebhook bridges the request into the SDK dispatcher, which handles the
// url_verification challenge, signature check and decryption
func (h *Handlers) LarkWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error("Failed to read webhook body", "error", err)
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid body"})
		return
	}

	resp := h.deps.Webhook.Handle(c.Request.Context(), &larkevent.EventReq{
		Header:     c.Request.Header,
		Body:       body,
		RequestURI: c.Request.RequestURI,
	})
	if resp == nil {
		c.Status(http.StatusOK)
		return
	}

	for key, values := range resp.Header {
		for _, value := range values {
			c.Writer.Header().Add(key, value)
		}
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	c.Status(status)
	if len(resp.Body) > 0 {
		_, _ = c.Writer.Write(resp.Body)
	}
}

// GetSessionState returns the conversation state of a user
func (h *Handlers) GetSessionState(c *gin.Context) {
	if h.deps.States == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "not available"})
		return
	}

	userID := c.Param("user_id")
	state, err := h.deps.States.CurrentState(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to read session state", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to read session"})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    SessionStateResponse{UserID: userID, State: state.String()},
	})
}
