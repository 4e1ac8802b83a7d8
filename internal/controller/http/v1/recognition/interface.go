package recognition

import (
	"context"

	"github.com/darkside779/attendance/internal/service/recognition"
)

type Recognizer interface {
	RecordAttendance(ctx context.Context, action recognition.Action, image []byte, filename string) (recognition.Outcome, error)
	Recognize(ctx context.Context, image []byte, filename string) (recognition.Outcome, error)
}
