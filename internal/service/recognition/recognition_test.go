package recognition

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/darkside779/attendance/internal/entity"
	"github.com/darkside779/attendance/internal/service/extractor"
	"github.com/darkside779/attendance/internal/service/ledger"
	"github.com/darkside779/attendance/internal/service/matcher"
)

type fakeExtractor struct {
	detection extractor.Detection
	err       error
	calls     int
}

func (f *fakeExtractor) Extract(ctx context.Context, image []byte, filename string) (extractor.Detection, error) {
	f.calls++
	return f.detection, f.err
}

type fakeRegistry struct {
	pool []matcher.Candidate
}

func (f *fakeRegistry) AllDescriptors(ctx context.Context) ([]matcher.Candidate, error) {
	return f.pool, nil
}

type fakeLedger struct {
	record    entity.Attendance
	err       error
	checkIns  int
	checkOuts int
}

func (f *fakeLedger) CheckIn(ctx context.Context, employeeID int, ts time.Time) (entity.Attendance, error) {
	f.checkIns++
	return f.record, f.err
}

func (f *fakeLedger) CheckOut(ctx context.Context, employeeID int, ts time.Time) (entity.Attendance, error) {
	f.checkOuts++
	return f.record, f.err
}

type fakeEmployees struct {
	byID map[int]*entity.Employee
}

func (f *fakeEmployees) GetByID(ctx context.Context, id int) (*entity.Employee, error) {
	return f.byID[id], nil
}

func validFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding frame: %v", err)
	}
	return buf.Bytes()
}

func testEmployee(id int) *entity.Employee {
	name := "Test Employee"
	return &entity.Employee{BasicEntity: entity.BasicEntity{ID: id}, FullName: &name}
}

func newService(ext *fakeExtractor, pool []matcher.Candidate, l *fakeLedger) *Service {
	employees := &fakeEmployees{byID: map[int]*entity.Employee{
		1: testEmployee(1),
		7: testEmployee(7),
	}}
	return New(ext, &fakeRegistry{pool: pool}, l, employees, 0.6)
}

func TestRecordAttendanceSuccess(t *testing.T) {
	ext := &fakeExtractor{detection: extractor.Detection{
		FacesDetected: 1,
		Descriptor:    matcher.Descriptor{0.1, 0.2, 0.3},
	}}
	l := &fakeLedger{record: entity.Attendance{ID: 5, EmployeeID: 7, Status: entity.StatusCheckedIn}}
	pool := []matcher.Candidate{
		{EmployeeID: 1, Descriptor: matcher.Descriptor{0.9, 0.9, 0.9}},
		{EmployeeID: 7, Descriptor: matcher.Descriptor{0.1, 0.2, 0.3}},
	}
	s := newService(ext, pool, l)

	outcome, err := s.RecordAttendance(context.Background(), ActionCheckIn, validFrame(t), "frame.png")
	if err != nil {
		t.Fatalf("record attendance: %v", err)
	}
	if outcome.Kind != KindSuccess {
		t.Fatalf("kind = %q, want success (code %s)", outcome.Kind, outcome.Code)
	}
	if outcome.Employee == nil || outcome.Employee.ID != 7 {
		t.Errorf("matched employee = %+v, want id 7", outcome.Employee)
	}
	if outcome.Confidence != 100 {
		t.Errorf("confidence = %v, want 100 for exact match", outcome.Confidence)
	}
	if outcome.Record == nil || outcome.Record.ID != 5 {
		t.Errorf("record = %+v, want the ledger row", outcome.Record)
	}
	if l.checkIns != 1 || l.checkOuts != 0 {
		t.Errorf("ledger calls = %d in / %d out, want 1/0", l.checkIns, l.checkOuts)
	}
}

func TestRecordAttendanceRejectedImage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no face", extractor.ErrNoFace, CodeNoFace},
		{"multiple faces", extractor.ErrMultipleFaces, CodeMultipleFaces},
		{"low quality", extractor.ErrLowQuality, CodeLowQuality},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ext := &fakeExtractor{err: tc.err}
			l := &fakeLedger{}
			s := newService(ext, nil, l)

			outcome, err := s.RecordAttendance(context.Background(), ActionCheckIn, validFrame(t), "frame.png")
			if err != nil {
				t.Fatalf("record attendance: %v", err)
			}
			if outcome.Kind != KindRejected {
				t.Errorf("kind = %q, want rejected", outcome.Kind)
			}
			if outcome.Code != tc.code {
				t.Errorf("code = %q, want %q", outcome.Code, tc.code)
			}
			if l.checkIns != 0 && l.checkOuts != 0 {
				t.Error("rejected image reached the ledger")
			}
		})
	}
}

func TestRecordAttendanceInvalidImageSkipsExtractor(t *testing.T) {
	ext := &fakeExtractor{}
	l := &fakeLedger{}
	s := newService(ext, nil, l)

	outcome, err := s.RecordAttendance(context.Background(), ActionCheckIn, []byte("not an image"), "frame.png")
	if err != nil {
		t.Fatalf("record attendance: %v", err)
	}
	if outcome.Kind != KindRejected || outcome.Code != CodeInvalidImage {
		t.Errorf("outcome = %+v, want rejected/InvalidImage", outcome)
	}
	if ext.calls != 0 {
		t.Error("invalid image was still sent to the extractor")
	}
}

func TestRecordAttendanceEmptyPool(t *testing.T) {
	ext := &fakeExtractor{detection: extractor.Detection{
		FacesDetected: 1,
		Descriptor:    matcher.Descriptor{0.1, 0.2, 0.3},
	}}
	l := &fakeLedger{}
	s := newService(ext, nil, l)

	outcome, err := s.RecordAttendance(context.Background(), ActionCheckIn, validFrame(t), "frame.png")
	if err != nil {
		t.Fatalf("record attendance: %v", err)
	}
	if outcome.Kind != KindUnrecognized || outcome.Code != CodeUnrecognized {
		t.Errorf("outcome = %+v, want unrecognized", outcome)
	}
	if l.checkIns != 0 {
		t.Error("unrecognized face reached the ledger")
	}
}

func TestRecordAttendanceConflict(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		err    error
		code   string
	}{
		{"double check-in", ActionCheckIn, ledger.ErrAlreadyCheckedIn, CodeAlreadyCheckedIn},
		{"check-out first", ActionCheckOut, ledger.ErrNotCheckedIn, CodeNotCheckedIn},
		{"ordering", ActionCheckOut, ledger.ErrInvalidOrdering, CodeInvalidOrdering},
	}
	pool := []matcher.Candidate{{EmployeeID: 7, Descriptor: matcher.Descriptor{0.1, 0.2, 0.3}}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ext := &fakeExtractor{detection: extractor.Detection{
				FacesDetected: 1,
				Descriptor:    matcher.Descriptor{0.1, 0.2, 0.3},
			}}
			l := &fakeLedger{err: tc.err}
			s := newService(ext, pool, l)

			outcome, err := s.RecordAttendance(context.Background(), tc.action, validFrame(t), "frame.png")
			if err != nil {
				t.Fatalf("record attendance: %v", err)
			}
			if outcome.Kind != KindConflict {
				t.Errorf("kind = %q, want conflict", outcome.Kind)
			}
			if outcome.Code != tc.code {
				t.Errorf("code = %q, want %q", outcome.Code, tc.code)
			}
			if outcome.Employee == nil || outcome.Employee.ID != 7 {
				t.Error("conflict outcome should still identify the employee")
			}
			if outcome.Record != nil {
				t.Error("conflict outcome must not carry a record")
			}
		})
	}
}

func TestRecognizeDoesNotTouchLedger(t *testing.T) {
	ext := &fakeExtractor{detection: extractor.Detection{
		FacesDetected: 1,
		Descriptor:    matcher.Descriptor{0.1, 0.2, 0.3},
	}}
	l := &fakeLedger{}
	pool := []matcher.Candidate{{EmployeeID: 1, Descriptor: matcher.Descriptor{0.1, 0.2, 0.3}}}
	s := newService(ext, pool, l)

	outcome, err := s.Recognize(context.Background(), validFrame(t), "frame.png")
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if outcome.Kind != KindSuccess {
		t.Fatalf("kind = %q, want success", outcome.Kind)
	}
	if l.checkIns != 0 || l.checkOuts != 0 {
		t.Error("preview recognition reached the ledger")
	}
}
