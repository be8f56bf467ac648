package extract

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cover photos arrive as raw camera output.
const maxImageBytes = 20 << 20

type Handler struct {
	Pipeline *Pipeline
}

func NewHandler(p *Pipeline) *Handler {
	return &Handler{Pipeline: p}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.extract)
}

// extract accepts a multipart "image" file (or a raw image body) and
// returns unpersisted drafts. Extraction creates no durable state, so it is
// not gated.
func (h *Handler) extract(c *gin.Context) {
	image, mimeType, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image required"})
		return
	}

	drafts, usedFallback, err := h.Pipeline.Process(c.Request.Context(), image, mimeType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "extraction interrupted"})
		return
	}

	resp := gin.H{"books": drafts}
	if usedFallback {
		resp["warning"] = "text recognition unavailable, generated sample drafts"
	}
	c.JSON(http.StatusOK, resp)
}

func readImage(c *gin.Context) ([]byte, string, error) {
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()

		b, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
		if err != nil {
			return nil, "", err
		}
		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = http.DetectContentType(b)
		}
		return b, mimeType, nil
	}

	b, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImageBytes))
	if err != nil || len(b) == 0 {
		return nil, "", io.ErrUnexpectedEOF
	}
	mimeType := c.ContentType()
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(b)
	}
	return b, mimeType, nil
}
