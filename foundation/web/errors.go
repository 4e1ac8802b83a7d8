package web

// Error is the error carrier handlers and repositories pass back to the
// controller layer. Status drives the HTTP response code, Fields carries
// per-field validation messages, Code is a machine readable reason.
type Error struct {
	Err    error
	Status int
	Code   string
	Fields map[string]string
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// NewRequestError wraps a business error with the status the client
// should observe.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

// NewCodedError is like NewRequestError but also attaches a reason code
// ("AlreadyCheckedIn", "NoFaceDetected", ...) clients can branch on.
func NewCodedError(err error, status int, code string) error {
	return &Error{Err: err, Status: status, Code: code}
}

// IsRequestError reports whether err is a trusted *Error.
func IsRequestError(err error) bool {
	_, ok := err.(*Error)
	return ok
}
