package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const visionBase = "https://vision.googleapis.com/v1/images:annotate"

// VisionClient calls the remote text-recognition service with a single
// TEXT_DETECTION request per image.
type VisionClient struct {
	Client   *http.Client
	APIKey   string
	Endpoint string // overridable for tests
}

func NewVisionClient(apiKey string, timeout time.Duration) *VisionClient {
	return &VisionClient{
		Client:   &http.Client{Timeout: timeout},
		APIKey:   apiKey,
		Endpoint: visionBase,
	}
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type annotateRequest struct {
	Requests []visionRequest `json:"requests"`
}

type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
	} `json:"responses"`
}

// DetectText returns the full recognized text blob, possibly empty. Any
// non-200 status or transport fault is an error; the pipeline turns those
// into the fallback path.
func (v *VisionClient) DetectText(ctx context.Context, image []byte) (string, error) {
	reqBody := annotateRequest{
		Requests: []visionRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []visionFeature{{Type: "TEXT_DETECTION"}},
		}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("vision: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint+"?key="+v.APIKey, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("vision: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("vision: status %d: %s", resp.StatusCode, string(body))
	}

	var out annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("vision: decode response: %w", err)
	}

	if len(out.Responses) == 0 {
		return "", nil
	}
	return out.Responses[0].FullTextAnnotation.Text, nil
}
