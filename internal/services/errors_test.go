package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pilotcast/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "audio", "concat", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"audio", "concat", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestTypedErrorsCarryMarkers(t *testing.T) {
	toolErr := &services.ToolError{Tool: "ffmpeg", Output: "Invalid argument", Err: errors.New("exit status 1")}
	if !errors.Is(toolErr, services.ErrExternalTool) {
		t.Fatalf("expected tool error to match ErrExternalTool")
	}
	if !strings.Contains(toolErr.Error(), "Invalid argument") {
		t.Fatalf("expected diagnostics in message, got %q", toolErr.Error())
	}

	httpErr := fmt.Errorf("synthesize: %w", &services.HTTPError{Provider: "elevenlabs", Status: 401, Body: "bad key"})
	if !errors.Is(httpErr, services.ErrNetwork) {
		t.Fatalf("expected http error to match ErrNetwork")
	}
	var typed *services.HTTPError
	if !errors.As(httpErr, &typed) || typed.Status != 401 || typed.Body != "bad key" {
		t.Fatalf("expected status and body to survive wrapping, got %+v", typed)
	}
}

func TestCategoryMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrValidation, "script", "parse", "no lines", nil), "validation"},
		{services.Wrap(services.ErrConfiguration, "speech", "", "missing voice", nil), "configuration"},
		{services.Wrap(services.ErrIntegrity, "speech", "", "empty audio", nil), "integrity"},
		{errors.New("plain"), "unknown"},
	}
	for _, tc := range cases {
		if got := services.Category(tc.err); got != tc.want {
			t.Fatalf("Category(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
	if services.Hint(errors.New("plain")) == "" {
		t.Fatal("expected default hint")
	}
}
