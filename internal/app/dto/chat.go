package dto

import (
	"encoding/json"
	"time"
)

// Participant is one of the two fixed members of a conversation.
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Location string `json:"location,omitempty"`
}

// ListingRef links a conversation to the service it was started from.
type ListingRef struct {
	ServiceID string            `json:"serviceId"`
	Category  string            `json:"category,omitempty"`
	Image     string            `json:"image,omitempty"`
	Titles    map[string]string `json:"titles,omitempty"`
}

// Conversation describes a two-participant thread as the backend returns it.
// Participants are fixed at creation; UnreadCount is relative to the viewer
// whose token made the request.
type Conversation struct {
	ID                 string        `json:"id"`
	Participants       []Participant `json:"participants"`
	Listing            *ListingRef   `json:"listing,omitempty"`
	LastMessageAt      time.Time     `json:"lastMessageAt,omitempty"`
	LastMessagePreview string        `json:"lastMessagePreview,omitempty"`
	UnreadCount        int           `json:"unreadCount"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt,omitempty"`
}

// Message is immutable once created; content is trimmed before persistence.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Content        string    `json:"content"`
	ReadBy         []string  `json:"readBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MessagePage is the backend's cursor page. The cursor is opaque: the gateway
// only hands it back, it never interprets it.
type MessagePage struct {
	Messages   []Message `json:"messages"`
	NextCursor string    `json:"nextCursor,omitempty"`
	HasMore    bool      `json:"hasMore"`
}

// UnreadCount aggregates unread messages across all conversations of a viewer.
type UnreadCount struct {
	Count int `json:"count"`
}

// CreateConversationRequest asks the backend to find or create the one
// conversation for this participant pair, optionally scoped by service.
type CreateConversationRequest struct {
	SellerID  string `json:"sellerId"`
	ServiceID string `json:"serviceId,omitempty"`
}

// SendMessageRequest carries already-trimmed content.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// RawConversations holds a relayed conversation collection without forcing a
// re-encode of the backend's payload.
type RawConversations []json.RawMessage
