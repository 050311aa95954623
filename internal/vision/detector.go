// Package vision detects book spines in shelf photos via a hosted
// object-detection API.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://detect.roboflow.com"
	defaultModelID = "book-counter-rhspr/1"
	defaultTimeout = 30 * time.Second
)

// Prediction is a single detected object. X and Y are the center of the
// bounding box; corners are at (X±Width/2, Y±Height/2).
type Prediction struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// BoundingBox returns the corner coordinates (x0, y0, x1, y1) of the
// prediction's bounding box.
func (p Prediction) BoundingBox() (float64, float64, float64, float64) {
	return p.X - p.Width/2, p.Y - p.Height/2, p.X + p.Width/2, p.Y + p.Height/2
}

// DetectionResult is the inference API response for one image.
type DetectionResult struct {
	Predictions []Prediction `json:"predictions"`
}

// SpineCount returns the number of detected book spines.
func (r DetectionResult) SpineCount() int {
	return len(r.Predictions)
}

// DetectionError wraps failures from the detection backend.
type DetectionError struct {
	Message string
	Cause   error
}

func (e *DetectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("detection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("detection failed: %s", e.Message)
}

func (e *DetectionError) Unwrap() error {
	return e.Cause
}

// Detector calls a Roboflow-compatible hosted inference endpoint. Images are
// posted base64-encoded to {baseURL}/{modelID}?api_key=...
type Detector struct {
	baseURL    string
	modelID    string
	apiKey     string
	httpClient *http.Client
}

// DetectorOption customizes a Detector.
type DetectorOption func(*Detector)

// WithBaseURL overrides the inference endpoint, mainly for tests and
// self-hosted inference servers.
func WithBaseURL(baseURL string) DetectorOption {
	return func(d *Detector) { d.baseURL = baseURL }
}

// WithModelID selects a different detection model version.
func WithModelID(modelID string) DetectorOption {
	return func(d *Detector) { d.modelID = modelID }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(client *http.Client) DetectorOption {
	return func(d *Detector) { d.httpClient = client }
}

// NewDetector creates a Detector for the given API key.
func NewDetector(apiKey string, opts ...DetectorOption) (*Detector, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("detection API key is required")
	}

	d := &Detector{
		baseURL:    defaultBaseURL,
		modelID:    defaultModelID,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Detect runs spine detection on raw image bytes.
func (d *Detector) Detect(ctx context.Context, image []byte) (DetectionResult, error) {
	if len(image) == 0 {
		return DetectionResult{}, &DetectionError{Message: "image is empty"}
	}

	endpoint := fmt.Sprintf("%s/%s?api_key=%s", d.baseURL, d.modelID, url.QueryEscape(d.apiKey))
	body := base64.StdEncoding.EncodeToString(image)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(body))
	if err != nil {
		return DetectionResult{}, &DetectionError{Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return DetectionResult{}, &DetectionError{Message: "calling detection endpoint", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return DetectionResult{}, &DetectionError{
			Message: fmt.Sprintf("detection endpoint returned %d: %s", resp.StatusCode, string(payload)),
		}
	}

	var result DetectionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return DetectionResult{}, &DetectionError{Message: "decoding response", Cause: err}
	}

	return result, nil
}
