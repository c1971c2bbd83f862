package model

// Envelope status tags.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Error codes carried in the failure envelope. These are machine-readable
// and stable; human wording belongs to the client.
const (
	ErrInvalidParams       = "invalidParams"
	ErrUnknownCall         = "unknownCall"
	ErrDBCallFailed        = "dbCallFailed"
	ErrInvalidSession      = "invalidSession"
	ErrUserNotFound        = "userNotFound"
	ErrUserCreateFailed    = "userCreateFailed"
	ErrUserUpdateFailed    = "userUpdateFailed"
	ErrPasswordInsecure    = "passwordInsecure"
	ErrIncorrectPassword   = "incorrectPassword"
	ErrIncorrectTotpCode   = "incorrectTotpCode"
	ErrTotpUpdateFailed    = "totpUpdateFailed"
	ErrInternalServerError = "internalServerError"
)

// Result is the uniform envelope returned by every endpoint: exactly one of
// the success and failed shapes. Construct it with Success/Failure so the
// exclusivity invariant holds; on failure Data carries structured diagnostic
// detail (for example an InvalidList), on success it carries the rows.
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Success returns a success envelope. A nil row slice is replaced with an
// empty one so clients always see an array.
func Success(data any) Result {
	if rows, ok := data.([]Row); ok && rows == nil {
		data = []Row{}
	}
	return Result{Status: StatusSuccess, Data: data}
}

// Failure returns a failure envelope with an error code and optional detail.
func Failure(code string, data any) Result {
	return Result{Status: StatusFailed, Error: code, Data: data}
}

// OK reports whether the envelope carries a success tag.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// Rows returns the success payload as a row slice, or nil if the envelope is
// a failure or carries a different payload shape.
func (r Result) Rows() []Row {
	if !r.OK() {
		return nil
	}
	rows, _ := r.Data.([]Row)
	return rows
}
