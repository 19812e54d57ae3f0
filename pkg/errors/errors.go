package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	// CodeTransport marks a network-level failure: the upstream API was
	// unreachable or the connection broke before a response arrived.
	CodeTransport Code = "TRANSPORT_ERROR"
	// CodeValidation marks a field-keyed validation failure, either raised
	// locally before a request fires or reported by the upstream API.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeUpstream marks a generic server-reported failure carrying a message.
	CodeUpstream     Code = "UPSTREAM_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal     Code = "INTERNAL_ERROR"
)

type Metadata struct {
	HTTPStatus int
	// PublicMessage is the localized fallback shown when an error carries no
	// server-provided message.
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeTransport: {
		HTTPStatus:     http.StatusBadGateway,
		PublicMessage:  "Terjadi kesalahan koneksi atau server tidak merespons.",
		DetailsAllowed: false,
	},
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "Validasi gagal. Periksa kembali isian Anda.",
		DetailsAllowed: true,
	},
	CodeUpstream: {
		HTTPStatus:     http.StatusBadGateway,
		PublicMessage:  "Terjadi kesalahan sistem.",
		DetailsAllowed: false,
	},
	CodeUnauthorized: {
		HTTPStatus:     http.StatusUnauthorized,
		PublicMessage:  "Sesi Anda telah berakhir. Silakan login kembali.",
		DetailsAllowed: false,
	},
	CodeForbidden: {
		HTTPStatus:     http.StatusForbidden,
		PublicMessage:  "Anda tidak memiliki akses ke halaman ini.",
		DetailsAllowed: false,
	},
	CodeNotFound: {
		HTTPStatus:     http.StatusNotFound,
		PublicMessage:  "Data tidak ditemukan.",
		DetailsAllowed: false,
	},
	CodeRateLimit: {
		HTTPStatus:     http.StatusTooManyRequests,
		PublicMessage:  "Terlalu banyak percobaan. Silakan coba lagi nanti.",
		DetailsAllowed: false,
	},
	CodeInternal: {
		HTTPStatus:     http.StatusInternalServerError,
		PublicMessage:  "Terjadi kesalahan sistem.",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the taxonomy code for any error, defaulting to internal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// UserMessage resolves the string shown to the user: the structured server
// message when one was carried, else the localized default for the code.
func UserMessage(err error) string {
	typed := As(err)
	if typed == nil {
		return MetadataFor(CodeInternal).PublicMessage
	}
	meta := MetadataFor(typed.Code())
	switch typed.Code() {
	case CodeValidation, CodeUpstream, CodeUnauthorized, CodeNotFound, CodeForbidden, CodeRateLimit:
		if m := typed.Message(); m != "" {
			return m
		}
	}
	return meta.PublicMessage
}

// FieldErrors extracts per-field validation messages when present.
func FieldErrors(err error) map[string]string {
	typed := As(err)
	if typed == nil || typed.Code() != CodeValidation {
		return nil
	}
	if fields, ok := typed.Details().(map[string]string); ok {
		return fields
	}
	return nil
}
