package face

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/repository/postgres/face"
	"github.com/darkside779/attendance/internal/service/extractor"
)

type fakeFace struct {
	enrollCalls int
	lastRequest face.EnrollRequest
}

func (f *fakeFace) Enroll(ctx context.Context, request face.EnrollRequest) (face.EnrollResponse, error) {
	f.enrollCalls++
	f.lastRequest = request
	return face.EnrollResponse{ID: 1, EmployeeID: *request.EmployeeID}, nil
}

func (f *fakeFace) RegistrationStatus(ctx context.Context) (face.RegistrationStatusResponse, error) {
	return face.RegistrationStatusResponse{}, nil
}

type fakeExtractor struct {
	detection extractor.Detection
	err       error
}

func (f *fakeExtractor) Extract(ctx context.Context, image []byte, filename string) (extractor.Detection, error) {
	return f.detection, f.err
}

func (f *fakeExtractor) Detect(ctx context.Context, image []byte, filename string) (extractor.Detection, error) {
	return f.detection, f.err
}

func enrollBody(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("employee_id", "7"); err != nil {
		t.Fatalf("writing employee_id field: %v", err)
	}

	// The file part carries application/octet-stream, so the review photo
	// save is refused while the image bytes themselves stay valid.
	part, err := writer.CreateFormFile("file", "face.png")
	if err != nil {
		t.Fatalf("creating file part: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	img.Set(10, 10, color.White)
	if err := png.Encode(part, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart body: %v", err)
	}

	return &body, writer.FormDataContentType()
}

func TestEnrollSucceedsWhenPhotoSaveFails(t *testing.T) {
	repo := &fakeFace{}
	ext := &fakeExtractor{detection: extractor.Detection{
		FacesDetected: 1,
		Descriptor:    []float64{0.1, 0.2, 0.3},
	}}

	app := web.NewApp()
	controller := NewController(repo, ext)
	app.Post("/face/enroll", controller.Enroll)

	body, contentType := enrollBody(t)
	req := httptest.NewRequest(http.MethodPost, "/face/enroll", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if repo.enrollCalls != 1 {
		t.Errorf("enroll calls = %d, want 1", repo.enrollCalls)
	}

	var response struct {
		Status bool `json:"status"`
		Data   struct {
			ID         int `json:"id"`
			EmployeeID int `json:"employee_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !response.Status {
		t.Error("status = false, want true")
	}
	if response.Data.EmployeeID != 7 {
		t.Errorf("employee id = %d, want 7", response.Data.EmployeeID)
	}
	if len(repo.lastRequest.Descriptor) != 3 {
		t.Errorf("stored descriptor length = %d, want 3", len(repo.lastRequest.Descriptor))
	}
}

func TestDetectReportsReasonInline(t *testing.T) {
	repo := &fakeFace{}
	ext := &fakeExtractor{
		detection: extractor.Detection{FacesDetected: 2, Quality: 0.8},
		err:       extractor.ErrMultipleFaces,
	}

	app := web.NewApp()
	controller := NewController(repo, ext)
	app.Post("/face/detect", controller.Detect)

	body, contentType := enrollBody(t)
	req := httptest.NewRequest(http.MethodPost, "/face/detect", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var response struct {
		Status bool `json:"status"`
		Data   struct {
			Valid         bool    `json:"valid"`
			Reason        string  `json:"reason"`
			FacesDetected int     `json:"faces_detected"`
			Quality       float64 `json:"quality"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response.Data.Valid {
		t.Error("valid = true, want false")
	}
	if response.Data.Reason != "MultipleFacesDetected" {
		t.Errorf("reason = %q, want %q", response.Data.Reason, "MultipleFacesDetected")
	}
	if response.Data.FacesDetected != 2 {
		t.Errorf("faces detected = %d, want 2", response.Data.FacesDetected)
	}
}
