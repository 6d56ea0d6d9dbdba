package errx

import (
	"fmt"
	"net/http"
)

// ============================================================================
// Error Types
// ============================================================================

// Type clasifica los errores del sistema
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeBusiness      Type = "BUSINESS"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

// Error es el error estándar de la aplicación
type Error struct {
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"status"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail agrega un detalle al error (fluent)
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithMessage reemplaza el mensaje por defecto del código
func (e *Error) WithMessage(message string) *Error {
	e.Message = message
	return e
}

// WithCause adjunta el error subyacente
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// ============================================================================
// Registry - cada módulo registra sus propios códigos de error
// ============================================================================

// ErrorCode identifica un error registrado
type ErrorCode string

type registration struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry agrupa los códigos de error de un módulo bajo un prefijo
type Registry struct {
	prefix string
	codes  map[ErrorCode]registration
}

// NewRegistry crea un registro de errores para un módulo
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[ErrorCode]registration),
	}
}

// Register registra un código de error con su tipo, status HTTP y mensaje por defecto
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) ErrorCode {
	full := ErrorCode(r.prefix + "_" + code)
	r.codes[full] = registration{
		errType:    errType,
		httpStatus: httpStatus,
		message:    message,
	}
	return full
}

// New crea una nueva instancia del error registrado
func (r *Registry) New(code ErrorCode) *Error {
	reg, ok := r.codes[code]
	if !ok {
		return &Error{
			Code:       string(code),
			Type:       TypeInternal,
			Message:    "unregistered error code",
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	return &Error{
		Code:       string(code),
		Type:       reg.errType,
		Message:    reg.message,
		HTTPStatus: reg.httpStatus,
	}
}

// NewWithMessage crea el error registrado con un mensaje específico
func (r *Registry) NewWithMessage(code ErrorCode, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}

// ============================================================================
// Helpers
// ============================================================================

// Wrap envuelve un error externo en un *Error
func Wrap(err error, message string, errType Type) *Error {
	return &Error{
		Code:       string(errType) + "_ERROR",
		Type:       errType,
		Message:    message,
		HTTPStatus: httpStatusFor(errType),
		Err:        err,
	}
}

// New crea un error sin registro (para errores puntuales)
func New(message string, errType Type) *Error {
	return &Error{
		Code:       string(errType) + "_ERROR",
		Type:       errType,
		Message:    message,
		HTTPStatus: httpStatusFor(errType),
	}
}

// IsType verifica si un error es un *Error del tipo dado
func IsType(err error, errType Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == errType
	}
	return false
}

// AsError extrae el *Error si lo es
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}

func httpStatusFor(errType Type) int {
	switch errType {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
