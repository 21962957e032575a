package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bizbay/internal/infra/storage/s3"
)

// maxProofSize bounds revenue-proof uploads at 10 MiB.
const maxProofSize = 10 << 20

// UploadHTTP exposes the revenue-proof upload endpoint.
type UploadHTTP interface {
	UploadRevenueProof(c *gin.Context)
}

// UploadHandler streams revenue-proof documents to object storage and returns
// the public URL the sell wizard embeds in its submission payload.
type UploadHandler struct {
	Uploader s3.Uploader
	Logger   *slog.Logger
	// MaxSize overrides the upload size cap; zero means maxProofSize.
	MaxSize int64
}

func (h UploadHandler) UploadRevenueProof(c *gin.Context) {
	if _, ok := requireToken(c); !ok {
		return
	}
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "uploads unavailable"})
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file is required"})
		return
	}
	limit := h.MaxSize
	if limit <= 0 {
		limit = maxProofSize
	}
	if header.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "file too large"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cannot read file"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := "revenue-proofs/" + uuid.NewString() + ext
	url, err := h.Uploader.Upload(c.Request.Context(), key, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, s3.ErrUnsupportedType) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"message": "unsupported file type"})
			return
		}
		if h.Logger != nil {
			h.Logger.Error("revenue proof upload failed", "key", key, "error", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"message": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

var _ UploadHTTP = (*UploadHandler)(nil)
