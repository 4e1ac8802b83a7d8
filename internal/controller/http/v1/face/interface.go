package face

import (
	"context"

	"github.com/darkside779/attendance/internal/repository/postgres/face"
	"github.com/darkside779/attendance/internal/service/extractor"
)

type Face interface {
	Enroll(ctx context.Context, request face.EnrollRequest) (face.EnrollResponse, error)
	RegistrationStatus(ctx context.Context) (face.RegistrationStatusResponse, error)
}

type Extractor interface {
	Extract(ctx context.Context, image []byte, filename string) (extractor.Detection, error)
	Detect(ctx context.Context, image []byte, filename string) (extractor.Detection, error)
}
