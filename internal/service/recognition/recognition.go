// Package recognition orchestrates the camera flow: extract a descriptor
// from the submitted frame, match it against enrolled employees, then run
// the requested attendance transition.
package recognition

import (
	"context"
	"time"

	"github.com/darkside779/attendance/internal/entity"
	"github.com/darkside779/attendance/internal/service/extractor"
	"github.com/darkside779/attendance/internal/service/ledger"
	"github.com/darkside779/attendance/internal/service/matcher"

	"github.com/pkg/errors"
)

// Action selects the attendance transition a recognition attempt drives.
type Action string

const (
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
)

// Outcome kinds. Exactly one applies to every attempt.
type Kind string

const (
	// KindSuccess means the face matched and the transition was recorded.
	KindSuccess Kind = "success"
	// KindRejected means the image itself was unusable.
	KindRejected Kind = "rejected"
	// KindUnrecognized means a usable face matched no enrolled employee.
	KindUnrecognized Kind = "unrecognized"
	// KindConflict means the employee was identified but the transition
	// violated the attendance state machine.
	KindConflict Kind = "conflict"
)

// Machine-readable reason codes carried by non-success outcomes.
const (
	CodeNoFace           = "NoFaceDetected"
	CodeMultipleFaces    = "MultipleFacesDetected"
	CodeLowQuality       = "LowImageQuality"
	CodeInvalidImage     = "InvalidImage"
	CodeUnrecognized     = "Unrecognized"
	CodeAlreadyCheckedIn = "AlreadyCheckedIn"
	CodeNotCheckedIn     = "NotCheckedIn"
	CodeInvalidOrdering  = "InvalidOrdering"
)

// Outcome is the single result type of a recognition attempt. Kind decides
// which fields are meaningful: Employee and Confidence are set for Success
// and Conflict, Record only for Success, Code and Reason only for the
// non-success kinds.
type Outcome struct {
	Kind       Kind               `json:"kind"`
	Code       string             `json:"code,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	Employee   *entity.Employee   `json:"employee,omitempty"`
	Confidence float64            `json:"confidence,omitempty"`
	Record     *entity.Attendance `json:"record,omitempty"`
}

// Extractor turns an image into a face descriptor.
type Extractor interface {
	Extract(ctx context.Context, image []byte, filename string) (extractor.Detection, error)
}

// Registry serves the enrolled descriptor pool.
type Registry interface {
	AllDescriptors(ctx context.Context) ([]matcher.Candidate, error)
}

// Ledger runs attendance transitions.
type Ledger interface {
	CheckIn(ctx context.Context, employeeID int, ts time.Time) (entity.Attendance, error)
	CheckOut(ctx context.Context, employeeID int, ts time.Time) (entity.Attendance, error)
}

// Employees loads employee details for successful matches.
type Employees interface {
	GetByID(ctx context.Context, id int) (*entity.Employee, error)
}

type Service struct {
	extractor Extractor
	registry  Registry
	ledger    Ledger
	employees Employees
	threshold float64
	now       func() time.Time
}

func New(ext Extractor, registry Registry, l Ledger, employees Employees, threshold float64) *Service {
	return &Service{
		extractor: ext,
		registry:  registry,
		ledger:    l,
		employees: employees,
		threshold: threshold,
		now:       time.Now,
	}
}

// RecordAttendance runs the full flow for one camera frame. Business
// failures come back inside the Outcome; the error return is reserved for
// system faults such as the extractor or database being unreachable.
func (s *Service) RecordAttendance(ctx context.Context, action Action, image []byte, filename string) (Outcome, error) {
	match, outcome, err := s.identify(ctx, image, filename)
	if err != nil || outcome.Kind != KindSuccess {
		return outcome, err
	}

	employee := outcome.Employee

	var record entity.Attendance
	switch action {
	case ActionCheckOut:
		record, err = s.ledger.CheckOut(ctx, match.EmployeeID, s.now())
	default:
		record, err = s.ledger.CheckIn(ctx, match.EmployeeID, s.now())
	}
	if err != nil {
		if code, reason, ok := conflictCode(err); ok {
			return Outcome{
				Kind:       KindConflict,
				Code:       code,
				Reason:     reason,
				Employee:   employee,
				Confidence: outcome.Confidence,
			}, nil
		}
		return Outcome{}, errors.Wrap(err, "recording attendance")
	}

	outcome.Record = &record
	return outcome, nil
}

// Recognize identifies the employee without touching the ledger. Used by
// the camera preview endpoint.
func (s *Service) Recognize(ctx context.Context, image []byte, filename string) (Outcome, error) {
	_, outcome, err := s.identify(ctx, image, filename)
	return outcome, err
}

func (s *Service) identify(ctx context.Context, image []byte, filename string) (matcher.Result, Outcome, error) {
	if err := extractor.ValidateImage(image); err != nil {
		return matcher.Result{}, rejected(CodeInvalidImage, err.Error()), nil
	}

	detection, err := s.extractor.Extract(ctx, image, filename)
	if err != nil {
		if code, reason, ok := rejectionCode(err); ok {
			return matcher.Result{}, rejected(code, reason), nil
		}
		return matcher.Result{}, Outcome{}, errors.Wrap(err, "extracting descriptor")
	}

	pool, err := s.registry.AllDescriptors(ctx)
	if err != nil {
		return matcher.Result{}, Outcome{}, errors.Wrap(err, "loading descriptor pool")
	}

	match := matcher.Match(detection.Descriptor, pool, s.threshold)
	if !match.Matched {
		return match, Outcome{
			Kind:   KindUnrecognized,
			Code:   CodeUnrecognized,
			Reason: "face does not match any enrolled employee",
		}, nil
	}

	employee, err := s.employees.GetByID(ctx, match.EmployeeID)
	if err != nil {
		return match, Outcome{}, errors.Wrap(err, "loading matched employee")
	}

	return match, Outcome{
		Kind:       KindSuccess,
		Employee:   employee,
		Confidence: match.Confidence,
	}, nil
}

func rejected(code, reason string) Outcome {
	return Outcome{Kind: KindRejected, Code: code, Reason: reason}
}

func rejectionCode(err error) (code, reason string, ok bool) {
	switch {
	case errors.Is(err, extractor.ErrNoFace):
		return CodeNoFace, "no face detected in the image", true
	case errors.Is(err, extractor.ErrMultipleFaces):
		return CodeMultipleFaces, "more than one face detected", true
	case errors.Is(err, extractor.ErrLowQuality):
		return CodeLowQuality, "image quality too low for recognition", true
	}
	return "", "", false
}

func conflictCode(err error) (code, reason string, ok bool) {
	switch {
	case errors.Is(err, ledger.ErrAlreadyCheckedIn):
		return CodeAlreadyCheckedIn, "employee already checked in today", true
	case errors.Is(err, ledger.ErrNotCheckedIn):
		return CodeNotCheckedIn, "employee has not checked in today", true
	case errors.Is(err, ledger.ErrInvalidOrdering):
		return CodeInvalidOrdering, "check-out would precede check-in", true
	}
	return "", "", false
}
