package books

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelfscan/internal/auth"
	"shelfscan/internal/feed"
	"shelfscan/pkg/models"
)

// Covers are embedded as base64 data URIs, so bodies get big.
const maxBodyBytes = 50 << 20

// Handler is the /collection boundary: delegation to the gate and the
// store, error translation, nothing else.
type Handler struct {
	Store Store
	Gate  auth.Gate
	Hub   *feed.Hub
}

func NewHandler(store Store, gate auth.Gate, hub *feed.Hub) *Handler {
	return &Handler{Store: store, Gate: gate, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)

	gated := rg.Group("", h.Gate.RequireAdmin())
	gated.POST("", h.bulkCreate)
	gated.PUT("/:id", h.update)
	gated.DELETE("/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	recs, err := h.Store.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

// decodeBatch accepts a single record or an array of records, matching the
// client contract of the system this replaces.
func decodeBatch(r io.Reader) ([]models.BookRecord, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	var batch []models.BookRecord
	if err := json.Unmarshal(body, &batch); err == nil {
		return batch, nil
	}

	var one models.BookRecord
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, err
	}
	return []models.BookRecord{one}, nil
}

func (h *Handler) bulkCreate(c *gin.Context) {
	batch, err := decodeBatch(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(batch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty batch"})
		return
	}

	now := time.Now().UnixMilli()
	for i := range batch {
		batch[i].Normalize()
		if batch[i].ID == "" || batch[i].Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id and title are required"})
			return
		}
		if batch[i].AddedAt == 0 {
			batch[i].AddedAt = now
		}
	}

	n, err := h.Store.CreateMany(c.Request.Context(), batch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed, nothing was saved"})
		return
	}

	ids := make([]string, 0, len(batch))
	for _, b := range batch {
		ids = append(ids, b.ID)
	}
	h.Hub.Broadcast(feed.Created(ids))

	c.JSON(http.StatusOK, gin.H{"created": n})
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")

	var patch models.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	applied, err := h.Store.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.storeError(c, err)
		return
	}

	if applied {
		h.Hub.Broadcast(feed.Updated(id))
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")

	removed, err := h.Store.Delete(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}

	if removed {
		h.Hub.Broadcast(feed.Deleted(id))
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *Handler) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrWriteFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed, nothing was saved"})
	case errors.Is(err, ErrStoreUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
