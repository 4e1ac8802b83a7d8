package attendance

import (
	"testing"

	"github.com/darkside779/attendance/internal/service/ledger"

	"github.com/pkg/errors"
)

type fakeServerError struct {
	code string
}

func (e fakeServerError) Error() string {
	return "duplicate key value violates unique constraint"
}

func (e fakeServerError) Field(field byte) string {
	if field == 'C' {
		return e.code
	}
	return ""
}

func TestTranslateInsertError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"unique violation becomes already checked in", fakeServerError{code: "23505"}, ledger.ErrAlreadyCheckedIn},
		{"wrapped unique violation becomes already checked in", errors.Wrap(fakeServerError{code: "23505"}, "exec"), ledger.ErrAlreadyCheckedIn},
		{"foreign key violation passes through", fakeServerError{code: "23503"}, fakeServerError{code: "23503"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := translateInsertError(tc.err)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("translateInsertError() = %v; want nil", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Errorf("translateInsertError() = %v; want %v", got, tc.want)
			}
		})
	}
}
