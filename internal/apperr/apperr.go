package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind категория ошибки, определяет HTTP статус и поведение вызывающего кода
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidRequest
	KindConflict
)

// Сентинелы для errors.Is
var (
	ErrInternal       = errors.New("internal error")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflict")
)

// Error доменная ошибка с человекочитаемым сообщением и меткой подсистемы
type Error struct {
	Kind    Kind
	Label   string
	Message string
	Cause   error
	Fields  map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Label, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Label, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is позволяет сравнивать с сентинелами по категории
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindForbidden:
		return ErrForbidden
	case KindInvalidRequest:
		return ErrInvalidRequest
	case KindConflict:
		return ErrConflict
	default:
		return ErrInternal
	}
}

// With добавляет контекст к ошибке
func (e *Error) With(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

func newError(kind Kind, label, message string, cause error) *Error {
	return &Error{Kind: kind, Label: label, Message: message, Cause: cause}
}

func NotFound(label, message string) *Error {
	return newError(KindNotFound, label, message, nil)
}

func Forbidden(label, message string) *Error {
	return newError(KindForbidden, label, message, nil)
}

func InvalidRequest(label, message string) *Error {
	return newError(KindInvalidRequest, label, message, nil)
}

func Conflict(label, message string, cause error) *Error {
	return newError(KindConflict, label, message, cause)
}

func Internal(label, message string, cause error) *Error {
	return newError(KindInternal, label, message, cause)
}

// HTTPStatus возвращает HTTP статус для ошибки
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает сообщение для пользователя и метку.
// Для неизвестных ошибок детали не раскрываются.
func Message(err error) (message, label string) {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message, appErr.Label
	}
	if appErr != nil {
		return "Something went wrong", appErr.Label
	}
	return "Something went wrong", "Unknown"
}
