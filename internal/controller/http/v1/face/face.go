package face

import (
	"io"
	"net/http"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/repository/postgres/face"
	"github.com/darkside779/attendance/internal/service"
	"github.com/darkside779/attendance/internal/service/extractor"

	"github.com/pkg/errors"
)

type Controller struct {
	face      Face
	extractor Extractor
}

func NewController(f Face, ext Extractor) *Controller {
	return &Controller{face: f, extractor: ext}
}

// Enroll registers one more face image for an employee. The descriptor is
// extracted from the uploaded photo and added to the employee's set; the
// photo itself is kept under statics/enrollments for review.
func (uc Controller) Enroll(c *web.Context) error {
	var request face.EnrollRequest

	if err := c.BindFunc(&request, "EmployeeID"); err != nil {
		return c.RespondError(err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.New("image file is required"), http.StatusBadRequest))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "opening upload"), http.StatusBadRequest))
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "reading upload"), http.StatusBadRequest))
	}

	if err := extractor.ValidateImage(image); err != nil {
		return c.RespondError(web.NewCodedError(err, http.StatusBadRequest, "InvalidImage"))
	}

	detection, err := uc.extractor.Extract(c.Ctx, image, fileHeader.Filename)
	if err != nil {
		return c.RespondError(extractionError(err))
	}
	request.Descriptor = detection.Descriptor

	response, err := uc.face.Enroll(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	// The review photo is best effort; the descriptor is already stored.
	service.Upload(fileHeader, "enrollments")

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// Detect reports how many faces the extractor sees without enrolling
// anything, so operators can pre-check a photo.
func (uc Controller) Detect(c *web.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.New("image file is required"), http.StatusBadRequest))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "opening upload"), http.StatusBadRequest))
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "reading upload"), http.StatusBadRequest))
	}

	if err := extractor.ValidateImage(image); err != nil {
		return c.RespondError(web.NewCodedError(err, http.StatusBadRequest, "InvalidImage"))
	}

	detection, err := uc.extractor.Detect(c.Ctx, image, fileHeader.Filename)
	if err != nil && detectionReason(err) == "" {
		return c.RespondError(extractionError(err))
	}

	data := map[string]interface{}{
		"valid":          err == nil,
		"faces_detected": detection.FacesDetected,
		"quality":        detection.Quality,
	}
	if reason := detectionReason(err); reason != "" {
		data["reason"] = reason
	}

	return c.Respond(map[string]interface{}{
		"data":   data,
		"status": true,
	}, http.StatusOK)
}

// detectionReason names the typed image problems the pre-check can report
// inline; anything else is a transport or service fault.
func detectionReason(err error) string {
	switch {
	case errors.Is(err, extractor.ErrNoFace):
		return "NoFaceDetected"
	case errors.Is(err, extractor.ErrMultipleFaces):
		return "MultipleFacesDetected"
	case errors.Is(err, extractor.ErrLowQuality):
		return "LowImageQuality"
	}

	return ""
}

// GetRegistrationStatus reports enrollment progress across active employees.
func (uc Controller) GetRegistrationStatus(c *web.Context) error {
	response, err := uc.face.RegistrationStatus(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func extractionError(err error) error {
	switch {
	case errors.Is(err, extractor.ErrNoFace):
		return web.NewCodedError(err, http.StatusBadRequest, "NoFaceDetected")
	case errors.Is(err, extractor.ErrMultipleFaces):
		return web.NewCodedError(err, http.StatusBadRequest, "MultipleFacesDetected")
	case errors.Is(err, extractor.ErrLowQuality):
		return web.NewCodedError(err, http.StatusBadRequest, "LowImageQuality")
	case errors.Is(err, extractor.ErrUnavailable):
		return web.NewRequestError(err, http.StatusServiceUnavailable)
	}

	return err
}
