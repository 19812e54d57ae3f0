package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeTransport, http.StatusBadGateway},
		{CodeValidation, http.StatusBadRequest},
		{CodeUpstream, http.StatusBadGateway},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := MetadataFor(tt.code).HTTPStatus; got != tt.status {
			t.Fatalf("%s: expected status %d, got %d", tt.code, tt.status, got)
		}
	}

	if got := MetadataFor(Code("bogus")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to internal, got %d", got)
	}
}

func TestUserMessagePrefersServerMessage(t *testing.T) {
	err := New(CodeUpstream, "Email sudah terdaftar.")
	if got := UserMessage(err); got != "Email sudah terdaftar." {
		t.Fatalf("expected server message, got %q", got)
	}

	// A transport failure never exposes its raw cause.
	wrapped := Wrap(CodeTransport, fmt.Errorf("dial tcp: refused"), "")
	if got := UserMessage(wrapped); got != MetadataFor(CodeTransport).PublicMessage {
		t.Fatalf("expected localized fallback, got %q", got)
	}

	if got := UserMessage(stdErrors.New("plain")); got != MetadataFor(CodeInternal).PublicMessage {
		t.Fatalf("untyped error should use internal fallback, got %q", got)
	}
}

func TestAsUnwrapsThroughChain(t *testing.T) {
	inner := New(CodeUnauthorized, "token kedaluwarsa")
	outer := fmt.Errorf("resolving session: %w", inner)

	typed := As(outer)
	if typed == nil || typed.Code() != CodeUnauthorized {
		t.Fatalf("expected unauthorized through wrap chain, got %v", typed)
	}
	if CodeOf(outer) != CodeUnauthorized {
		t.Fatalf("CodeOf should follow the chain")
	}
}

func TestFieldErrors(t *testing.T) {
	err := New(CodeValidation, "validasi gagal").WithDetails(map[string]string{"email": "wajib diisi"})
	fields := FieldErrors(err)
	if fields["email"] != "wajib diisi" {
		t.Fatalf("expected field detail, got %v", fields)
	}
	if FieldErrors(New(CodeUpstream, "x")) != nil {
		t.Fatal("non-validation errors carry no field map")
	}
}
