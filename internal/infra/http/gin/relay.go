package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"bizbay/internal/infra/backend"
)

const jsonContentType = "application/json; charset=utf-8"

var emptyObject = []byte("{}")

// relay writes the backend's status and body unchanged. An empty upstream body
// becomes an empty JSON object so callers always receive valid JSON.
func relay(c *gin.Context, resp *backend.Response) {
	body := resp.Body
	if len(body) == 0 {
		body = emptyObject
	}
	c.Data(resp.Status, jsonContentType, body)
}

// relayFailure converts a transport-level backend failure into an empty JSON
// object with 502. The proxy route itself must never crash on upstream errors.
func relayFailure(c *gin.Context, logger *slog.Logger, err error, action string) {
	if logger != nil {
		logger.Error("backend call failed", "action", action, "error", err, "request_id", c.GetString("request_id"))
	}
	c.Data(http.StatusBadGateway, jsonContentType, emptyObject)
}
