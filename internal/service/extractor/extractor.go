// Package extractor talks to the external face descriptor service. The
// service owns the heavy biometric work; this client only ships images,
// applies a deadline and translates failure reasons into typed errors so
// callers can refuse to touch attendance state on anything but a clean
// extraction.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/darkside779/attendance/internal/service/matcher"

	"github.com/pkg/errors"
)

// Detection failure reasons reported by the extraction service.
var (
	ErrNoFace        = errors.New("no face detected in image")
	ErrMultipleFaces = errors.New("multiple faces detected in image")
	ErrLowQuality    = errors.New("image quality too low")
	ErrUnavailable   = errors.New("face extraction service unavailable")
)

// Detection is the raw detection report for an image.
type Detection struct {
	FacesDetected int                `json:"faces_detected"`
	Descriptor    matcher.Descriptor `json:"descriptor"`
	Quality       float64            `json:"quality"`
}

type extractResponse struct {
	Status bool      `json:"status"`
	Reason string    `json:"reason"`
	Data   Detection `json:"data"`
}

type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Extract returns the descriptor for the single face in the image. Exactly
// one face must be present; everything else is a typed error. The call is
// bounded by the client timeout on top of whatever deadline ctx carries.
func (c *Client) Extract(ctx context.Context, image []byte, filename string) (Detection, error) {
	detection, err := c.call(ctx, "/extract", image, filename)
	if err != nil {
		return Detection{}, err
	}

	if len(detection.Descriptor) == 0 {
		return Detection{}, ErrNoFace
	}

	return detection, nil
}

// Detect reports how many faces the service found without requiring exactly
// one; used by the pre-enrollment validation endpoint. A typed reason error
// comes back together with the report so callers can tell the operator why
// the image is unusable.
func (c *Client) Detect(ctx context.Context, image []byte, filename string) (Detection, error) {
	detection, err := c.call(ctx, "/detect", image, filename)
	if err != nil && !errors.Is(err, ErrNoFace) && !errors.Is(err, ErrMultipleFaces) && !errors.Is(err, ErrLowQuality) {
		return Detection{}, err
	}

	return detection, err
}

func (c *Client) call(ctx context.Context, path string, image []byte, filename string) (Detection, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return Detection{}, errors.Wrap(err, "building multipart body")
	}
	if _, err = part.Write(image); err != nil {
		return Detection{}, errors.Wrap(err, "writing image to multipart body")
	}
	if err = writer.Close(); err != nil {
		return Detection{}, errors.Wrap(err, "closing multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return Detection{}, errors.Wrap(err, "building extractor request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		// A deadline hit is an extraction failure, never a reason to guess.
		return Detection{}, errors.Wrap(ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	resBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Detection{}, errors.Wrap(err, "reading extractor response")
	}

	var res extractResponse
	if err = json.Unmarshal(resBytes, &res); err != nil {
		return Detection{}, errors.Wrap(err, "decoding extractor response")
	}

	if resp.StatusCode != http.StatusOK || !res.Status {
		return res.Data, reasonError(res.Reason, resp.StatusCode)
	}

	return res.Data, nil
}

func reasonError(reason string, statusCode int) error {
	switch reason {
	case "NoFaceDetected":
		return ErrNoFace
	case "MultipleFacesDetected":
		return ErrMultipleFaces
	case "LowImageQuality":
		return ErrLowQuality
	}

	return errors.Wrap(ErrUnavailable, fmt.Sprintf("status code: %d and reason: %s", statusCode, reason))
}
