package errors

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"config error", "P101", "Invalid port", CategoryConfig},
		{"cli error", "P121", "Cannot read input", CategoryCLI},
		{"server error", "P140", "Server failed", CategoryServer},
		{"unknown code", "P999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "flag %q is required", "url")
	if err.Message != `flag "url" is required` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != `flag "url" is required` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorStringAndUnwrap(t *testing.T) {
	err := New("P100").Wrap(fs.ErrNotExist)
	if got, want := err.Error(), "P100: Invalid configuration file: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "P100") != nil {
		t.Error("FromError(nil) should be nil")
	}
	coded := New("P101")
	if FromError(coded, "P100") != coded {
		t.Error("FromError should keep existing coded errors")
	}
	wrapped := FromError(stderrors.New("boom"), "P140")
	if wrapped.Code != "P140" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("P101").
		WithDetail("server.port is 70000").
		WithSuggestion("Use a port between 1 and 65535")
	out := err.Format()

	for _, want := range []string{
		"ERROR P101: Invalid port",
		"  server.port is 70000",
		"  Hint: Use a port between 1 and 65535",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("colors should be disabled")
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, New("P121"))
	if !strings.Contains(buf.String(), "ERROR P121: Cannot read input") {
		t.Errorf("coded output = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("plain output = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line too long: %q", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should give no lines")
	}
}
