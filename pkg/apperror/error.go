package apperror

// AppError is a coded application error that can ride extra payload data.
type AppError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *AppError) Error() string { return e.Message }

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func (e *AppError) WithData(data any) *AppError {
	e.Data = data
	return e
}
