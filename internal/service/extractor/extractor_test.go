package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func newTestServer(t *testing.T, status int, body extractResponse) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("server: parsing multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("server: missing file part: %v", err)
		}

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestExtractSuccess(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, extractResponse{
		Status: true,
		Data: Detection{
			FacesDetected: 1,
			Descriptor:    []float64{0.1, 0.2, 0.3},
			Quality:       0.9,
		},
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	detection, err := client.Extract(context.Background(), []byte("img"), "probe.jpg")
	if err != nil {
		t.Fatalf("Extract() error = %v; want nil", err)
	}
	if len(detection.Descriptor) != 3 {
		t.Errorf("Extract() descriptor length = %d; want 3", len(detection.Descriptor))
	}
	if detection.FacesDetected != 1 {
		t.Errorf("Extract() faces detected = %d; want 1", detection.FacesDetected)
	}
}

func TestExtractFailureReasons(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		wantErr error
	}{
		{"no face", "NoFaceDetected", ErrNoFace},
		{"multiple faces", "MultipleFacesDetected", ErrMultipleFaces},
		{"low quality", "LowImageQuality", ErrLowQuality},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusBadRequest, extractResponse{
				Status: false,
				Reason: tc.reason,
			})
			defer srv.Close()

			client := NewClient(srv.URL, time.Second)

			_, err := client.Extract(context.Background(), []byte("img"), "probe.jpg")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Extract() error = %v; want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDetectKeepsReportWithReason(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest, extractResponse{
		Status: false,
		Reason: "MultipleFacesDetected",
		Data: Detection{
			FacesDetected: 2,
			Quality:       0.8,
		},
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	detection, err := client.Detect(context.Background(), []byte("img"), "probe.jpg")
	if !errors.Is(err, ErrMultipleFaces) {
		t.Fatalf("Detect() error = %v; want %v", err, ErrMultipleFaces)
	}
	if detection.FacesDetected != 2 {
		t.Errorf("Detect() faces detected = %d; want 2", detection.FacesDetected)
	}
	if detection.Quality != 0.8 {
		t.Errorf("Detect() quality = %v; want 0.8", detection.Quality)
	}
}

func TestDetectCleanImage(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, extractResponse{
		Status: true,
		Data: Detection{
			FacesDetected: 1,
			Quality:       0.95,
		},
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	detection, err := client.Detect(context.Background(), []byte("img"), "probe.jpg")
	if err != nil {
		t.Fatalf("Detect() error = %v; want nil", err)
	}
	if detection.FacesDetected != 1 {
		t.Errorf("Detect() faces detected = %d; want 1", detection.FacesDetected)
	}
}

func TestExtractTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond)

	_, err := client.Extract(context.Background(), []byte("img"), "probe.jpg")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Extract() error = %v; want %v on timeout", err, ErrUnavailable)
	}
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}

	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"not an image", []byte("definitely not an image"), ErrInvalidImage},
		{"too small", nil, ErrLowQuality},
		{"acceptable", nil, nil},
		{"too large", nil, ErrLowQuality},
	}

	tests[1].data = encodePNG(t, 100, 100)
	tests[2].data = encodePNG(t, 400, 300)
	tests[3].data = encodePNG(t, 2400, 2400)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImage(tc.data)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateImage() error = %v; want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateImage() error = %v; want %v", err, tc.wantErr)
			}
		})
	}
}
