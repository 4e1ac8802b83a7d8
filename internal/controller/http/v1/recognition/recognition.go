// Package recognition exposes the kiosk camera endpoints. They are
// unauthenticated: the kiosk terminal proves identity with the face image
// itself, not with a session.
package recognition

import (
	"io"
	"net/http"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/service"
	"github.com/darkside779/attendance/internal/service/recognition"

	"github.com/pkg/errors"
)

type Controller struct {
	recognizer Recognizer
}

func NewController(recognizer Recognizer) *Controller {
	return &Controller{recognizer: recognizer}
}

func (uc Controller) CheckIn(c *web.Context) error {
	return uc.record(c, recognition.ActionCheckIn)
}

func (uc Controller) CheckOut(c *web.Context) error {
	return uc.record(c, recognition.ActionCheckOut)
}

// Recognize identifies the person in the frame without recording anything,
// used by the kiosk preview overlay.
func (uc Controller) Recognize(c *web.Context) error {
	image, filename, err := readFrame(c)
	if err != nil {
		return c.RespondError(err)
	}

	outcome, err := uc.recognizer.Recognize(c.Ctx, image, filename)
	if err != nil {
		return c.RespondError(err)
	}

	return respondOutcome(c, outcome)
}

func (uc Controller) record(c *web.Context, action recognition.Action) error {
	image, filename, err := readFrame(c)
	if err != nil {
		return c.RespondError(err)
	}

	outcome, err := uc.recognizer.RecordAttendance(c.Ctx, action, image, filename)
	if err != nil {
		return c.RespondError(err)
	}

	if outcome.Kind == recognition.KindSuccess {
		if fileHeader, err := c.FormFile("file"); err == nil {
			// Snapshot storage is best effort; the transition is already
			// committed.
			service.Upload(fileHeader, "snapshots")
		}
	}

	return respondOutcome(c, outcome)
}

func readFrame(c *web.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", web.NewRequestError(errors.New("image file is required"), http.StatusBadRequest)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", web.NewRequestError(errors.Wrap(err, "opening upload"), http.StatusBadRequest)
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return nil, "", web.NewRequestError(errors.Wrap(err, "reading upload"), http.StatusBadRequest)
	}

	return image, fileHeader.Filename, nil
}

func respondOutcome(c *web.Context, outcome recognition.Outcome) error {
	status := http.StatusOK
	switch outcome.Kind {
	case recognition.KindRejected:
		status = http.StatusBadRequest
	case recognition.KindUnrecognized:
		status = http.StatusNotFound
	case recognition.KindConflict:
		status = http.StatusConflict
	}

	return c.Respond(map[string]interface{}{
		"data":   outcome,
		"status": outcome.Kind == recognition.KindSuccess,
	}, status)
}
