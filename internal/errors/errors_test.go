package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
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
		{
			name:    "config error",
			code:    "E100",
			wantMsg: "Configuration file could not be parsed",
			wantCat: CategoryConfig,
		},
		{
			name:    "protocol error",
			code:    "E200",
			wantMsg: "Invalid message",
			wantCat: CategoryProtocol,
		},
		{
			name:    "cli error",
			code:    "E300",
			wantMsg: "Invalid argument",
			wantCat: CategoryCLI,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
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
	err := Newf(CategoryCLI, "flag %q is invalid", "-o")
	if err.Message != `flag "-o" is invalid` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "" {
		t.Errorf("Code = %q, want empty", err.Code)
	}
	if err.Error() != `flag "-o" is invalid` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	err := New("E101").Wrap(io.ErrUnexpectedEOF)
	want := "E101: Invalid configuration value: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnwrapAndIs(t *testing.T) {
	err := New("E103").Wrap(io.EOF)
	wrapped := fmt.Errorf("loading: %w", err)

	if !Is(wrapped, io.EOF) {
		t.Error("expected Is(wrapped, io.EOF)")
	}
	if !Is(wrapped, New("E103")) {
		t.Error("expected code match through the chain")
	}
	if Is(wrapped, New("E100")) {
		t.Error("different codes must not match")
	}
	if !HasCode(wrapped, "E103") {
		t.Error("HasCode = false")
	}
	if HasCode(io.EOF, "E103") {
		t.Error("HasCode on plain error = true")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E200")
	if got := FromError(fmt.Errorf("ctx: %w", orig), "E100"); got != orig {
		t.Error("FromError should return the existing *Error")
	}

	got := FromError(io.EOF, "E100")
	if got.Code != "E100" || got.Wrapped != io.EOF {
		t.Errorf("FromError = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer func() { colorEnabled = true }()

	err := New("E101").
		WithDetailf("log.level %q is not one of debug, info, warn, error", "loud").
		WithSuggestion(`Set "log": {"level": "info"}`).
		Wrap(io.EOF)

	out := err.Format()
	for _, want := range []string{
		"ERROR E101: Invalid configuration value",
		`log.level "loud" is not one of debug, info, warn, error`,
		"Cause: EOF",
		`Hint: Set "log": {"level": "info"}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() contains color codes while disabled")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("E201").WithSuggestion("send path").Wrap(io.EOF)
	data, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("Marshal: %v", mErr)
	}

	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["code"] != "E201" || got["category"] != "validation" || got["cause"] != "EOF" || got["suggestion"] != "send path" {
		t.Errorf("json = %s", data)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer func() { colorEnabled = true }()

	var buf bytes.Buffer
	PrintError(&buf, New("E300"))
	if !strings.Contains(buf.String(), "ERROR E300: Invalid argument") {
		t.Errorf("PrintError = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, io.EOF)
	if buf.String() != "ERROR: EOF\n" {
		t.Errorf("PrintError(plain) = %q", buf.String())
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
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %q", codes)
		}
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s incomplete: %+v", code, tmpl)
		}
	}
}
