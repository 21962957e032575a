package ginserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"bizbay/internal/app/dto"
	"bizbay/internal/app/events"
	"bizbay/internal/infra/backend"
)

const defaultMessageLimit = 50

// ChatHTTP exposes the conversation proxy endpoints.
type ChatHTTP interface {
	ListConversations(c *gin.Context)
	CreateConversation(c *gin.Context)
	GetConversation(c *gin.Context)
	UnreadCount(c *gin.Context)
	ListMessages(c *gin.Context)
	SendMessage(c *gin.Context)
}

// ChatHandler relays conversation traffic to the backend. It performs no
// ordering, sorting, or dedup of its own: ordering is whatever the backend
// returns, and a post-send refetch by the caller replaces push delivery.
type ChatHandler struct {
	Backend *backend.Client
	Events  *events.Publisher
	Logger  *slog.Logger
}

// ListConversations returns the caller's conversations unchanged. A non-array
// backend body is normalized to an empty array.
func (h ChatHandler) ListConversations(c *gin.Context) {
	token, ok := requireToken(c)
	if !ok {
		return
	}
	resp, err := h.Backend.Conversations(c.Request.Context(), token)
	if err != nil {
		relayFailure(c, h.Logger, err, "list conversations")
		return
	}
	if !resp.OK() {
		relay(c, resp)
		return
	}
	// a JSON null decodes into a nil slice without error; treat it like any
	// other non-array body
	var items dto.RawConversations
	if err := json.Unmarshal(resp.Body, &items); err != nil || items == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	relay(c, resp)
}

// CreateConversation forwards a find-or-create request. The backend owns
// idempotency per participant pair; the gateway must not assume distinct ids.
func (h ChatHandler) CreateConversation(c *gin.Context) {
	token, ok := requireToken(c)
	if !ok {
		return
	}
	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	req.SellerID = strings.TrimSpace(req.SellerID)
	if req.SellerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "sellerId is required"})
		return
	}
	req.ServiceID = strings.TrimSpace(req.ServiceID)

	resp, err := h.Backend.CreateConversation(c.Request.Context(), token, req)
	if err != nil {
		relayFailure(c, h.Logger, err, "create conversation")
		return
	}
	relay(c, resp)
}

// GetConversation relays a single conversation.
func (h ChatHandler) GetConversation(c *gin.Context) {
	token, ok := requireToken(c)
	if !ok {
		return
	}
	resp, err := h.Backend.Conversation(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		relayFailure(c, h.Logger, err, "get conversation")
		return
	}
	relay(c, resp)
}

// UnreadCount relays the navbar badge counter. A backend 404 means "no data
// yet" and is normalized to a zero count, never surfaced as an error.
func (h ChatHandler) UnreadCount(c *gin.Context) {
	token, ok := requireToken(c)
	if !ok {
		return
	}
	resp, err := h.Backend.UnreadCount(c.Request.Context(), token)
	if err != nil {
		relayFailure(c, h.Logger, err, "unread count")
		return
	}
	if resp.Status == http.StatusNotFound {
		c.JSON(http.StatusOK, dto.UnreadCount{Count: 0})
		return
	}
	relay(c, resp)
}

// ListMessages relays one cursor page. The cursor is backend-defined and
// passed through untouched.
func (h ChatHandler) ListMessages(c *gin.Context) {
	token, ok := requireToken(c)
	if !ok {
		return
	}
	limit := parsePositiveIntStrict(c.Query("limit"), defaultMessageLimit)
	cursor := c.Query("cursor")

	resp, err := h.Backend.Messages(c.Request.Context(), token, c.Param("id"), cursor, limit)
	if err != nil {
		relayFailure(c, h.Logger, err, "list messages")
		return
	}
	relay(c, resp)
}

// SendMessage trims and forwards new message content. Empty content after
// trimming is rejected before the backend is contacted.
func (h ChatHandler) SendMessage(c *gin.Context) {
	token, ok := requireToken(c)
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "content is required"})
		return
	}
	conversationID := c.Param("id")

	resp, err := h.Backend.SendMessage(c.Request.Context(), token, conversationID, req.Content)
	if err != nil {
		relayFailure(c, h.Logger, err, "send message")
		return
	}
	if resp.OK() {
		h.Events.Emit(c.Request.Context(), events.TopicChat, events.Event{
			Type:    events.TypeMessageSent,
			Subject: conversationID,
		})
	}
	relay(c, resp)
}

func parsePositiveIntStrict(raw string, def int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return def
	}
	return value
}

var _ ChatHTTP = (*ChatHandler)(nil)
