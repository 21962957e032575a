package ginserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"bizbay/internal/app/dto"
	"bizbay/internal/app/events"
	"bizbay/internal/app/idempotency"
	"bizbay/internal/infra/backend"
)

// ServiceHTTP exposes listing submission and admin review endpoints.
type ServiceHTTP interface {
	CreateService(c *gin.Context)
	VerifyService(c *gin.Context)
}

// ServiceHandler relays sell-wizard submissions and admin verification. Unlike
// the chat routes it normalizes the backend's response into a stable
// {success, message/data} envelope for the wizard UI.
type ServiceHandler struct {
	Backend     *backend.Client
	Idempotency idempotency.Store
	Events      *events.Publisher
	Logger      *slog.Logger
}

type createServiceRequest struct {
	Token string          `json:"token"`
	Data  json.RawMessage `json:"data"`
}

// CreateService relays a create-listing call. The wizard may pass the token in
// the body; header and cookie resolution apply otherwise. An Idempotency-Key
// header replays the original normalized response instead of resubmitting.
func (h ServiceHandler) CreateService(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.CreateServiceResult{Success: false, Message: "invalid payload"})
		return
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = resolveToken(c)
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, dto.CreateServiceResult{Success: false, Message: "authentication required"})
		return
	}
	if len(req.Data) == 0 {
		c.JSON(http.StatusBadRequest, dto.CreateServiceResult{Success: false, Message: "data is required"})
		return
	}

	idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if idemKey != "" && h.Idempotency != nil {
		rec, found, err := h.Idempotency.Get(c.Request.Context(), idemKey)
		if err != nil && h.Logger != nil {
			h.Logger.Warn("idempotency lookup failed", "key", idemKey, "error", err)
		}
		if found {
			c.Data(rec.Status, jsonContentType, rec.Payload)
			return
		}
	}

	resp, err := h.Backend.CreateService(c.Request.Context(), token, req.Data)
	if err != nil {
		relayNormalizedFailure(c, h.Logger, err, "create service")
		return
	}

	status, result := normalizeServiceResponse(resp)
	if result.Success {
		h.Events.Emit(c.Request.Context(), events.TopicListings, events.Event{
			Type:    events.TypeServiceCreated,
			Subject: serviceIDFromPayload(resp.Body),
		})
	}

	if idemKey != "" && h.Idempotency != nil {
		if payload, err := json.Marshal(result); err == nil {
			saveErr := h.Idempotency.Save(c.Request.Context(), idempotency.Record{
				Key:        idemKey,
				Status:     status,
				Payload:    payload,
				OccurredAt: time.Now().UTC(),
			})
			if saveErr != nil && h.Logger != nil {
				h.Logger.Warn("idempotency save failed", "key", idemKey, "error", saveErr)
			}
		}
	}
	c.JSON(status, result)
}

// VerifyService relays an admin approve/reject decision for a listing.
func (h ServiceHandler) VerifyService(c *gin.Context) {
	token, ok := requireToken(c)
	if !ok {
		return
	}
	serviceID := strings.TrimSpace(c.Param("id"))
	var req dto.VerifyServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	resp, err := h.Backend.VerifyService(c.Request.Context(), token, serviceID, req)
	if err != nil {
		relayFailure(c, h.Logger, err, "verify service")
		return
	}
	if resp.OK() {
		h.Events.Emit(c.Request.Context(), events.TopicListings, events.Event{
			Type:    events.TypeServiceVerified,
			Subject: serviceID,
			Detail:  gin.H{"approved": req.Approved},
		})
	}
	relay(c, resp)
}

func normalizeServiceResponse(resp *backend.Response) (int, dto.CreateServiceResult) {
	if !resp.OK() {
		return resp.Status, dto.CreateServiceResult{
			Success: false,
			Message: resp.Message("create service failed"),
		}
	}
	var data any
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			data = nil
		}
	}
	return resp.Status, dto.CreateServiceResult{Success: true, Data: data}
}

func relayNormalizedFailure(c *gin.Context, logger *slog.Logger, err error, action string) {
	if logger != nil {
		logger.Error("backend call failed", "action", action, "error", err, "request_id", c.GetString("request_id"))
	}
	c.JSON(http.StatusBadGateway, dto.CreateServiceResult{Success: false, Message: "backend unavailable"})
}

func serviceIDFromPayload(body []byte) string {
	var payload struct {
		ID   string `json:"id"`
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.ID != "" {
		return payload.ID
	}
	return payload.Data.ID
}

var _ ServiceHTTP = (*ServiceHandler)(nil)
