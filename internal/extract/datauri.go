package extract

import "encoding/base64"

// DataURI embeds an image as a self-describing data URI so covers survive
// inside the books relation without a separate blob store.
func DataURI(mimeType string, payload []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}
