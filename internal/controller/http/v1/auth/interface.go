package auth

import (
	"context"

	"github.com/darkside779/attendance/internal/entity"
)

type User interface {
	GetByUsername(ctx context.Context, username string) (entity.User, error)
}
