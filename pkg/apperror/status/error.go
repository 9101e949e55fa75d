package status

// ErrorCode is a numeric code to classify API errors in a stable way
type ErrorCode int

// Reserved ranges by domain:
//   0-999:     client/validation errors
//   1000-1999: internal errors
//   2000-2999: search backend errors

const (
	BadRequestBase    ErrorCode = 0
	InternalErrorBase ErrorCode = 1000
	SearchErrorBase   ErrorCode = 2000
)

// Client/validation errors start at 0
const (
	SearchInvalidRequest ErrorCode = BadRequestBase + iota // 0
	SearchMissingParams                                    // 1
	SearchInvalidFilter                                    // 2
)

// Internal errors start at 1000
const (
	InternalError        ErrorCode = InternalErrorBase + iota // 1000
	DatabaseUnavailable                                       // 1001
	HydrationFailed                                           // 1002
)

// Search backend errors start at 2000
const (
	SearchBackendDown     ErrorCode = SearchErrorBase + iota // 2000
	SearchBackendDisabled                                    // 2001
	SearchBackendTimeout                                     // 2002
)

// CodedError represents an error with an associated ErrorCode
type CodedError interface {
	error
	ErrorCode() ErrorCode
}

type codedError struct {
	code ErrorCode
	err  error
}

func (e codedError) Error() string        { return e.err.Error() }
func (e codedError) Unwrap() error        { return e.err }
func (e codedError) ErrorCode() ErrorCode { return e.code }

// New creates a new CodedError with the given code and underlying error
func New(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return codedError{code: code, err: err}
}
