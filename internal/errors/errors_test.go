package errors

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New("E141")
	if err.Code != "E141" {
		t.Errorf("code = %q", err.Code)
	}
	if err.Category != CategoryCLI {
		t.Errorf("category = %q", err.Category)
	}
	if err.Message == "" || err.DocURL == "" {
		t.Errorf("template not applied: %+v", err)
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Code != "E999" {
		t.Errorf("code = %q", err.Code)
	}
	if err.Message != "Unknown error" {
		t.Errorf("message = %q", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	if got := New("E060").Error(); !strings.HasPrefix(got, "E060: ") {
		t.Errorf("Error() = %q", got)
	}
	uncoded := Newf(CategorySession, "session %s gone", "abc")
	if uncoded.Error() != "session abc gone" {
		t.Errorf("Error() = %q", uncoded.Error())
	}
}

func TestUnwrapSupportsErrorsIs(t *testing.T) {
	base := stderrors.New("disk full")
	err := New("E081").Wrap(base)

	if !stderrors.Is(err, base) {
		t.Error("errors.Is failed through UnisonError")
	}

	var ue *UnisonError
	if !stderrors.As(error(err), &ue) || ue.Code != "E081" {
		t.Error("errors.As failed")
	}
}

func TestFromErrorPassesThrough(t *testing.T) {
	orig := New("E120")
	if got := FromError(orig, "E121"); got != orig {
		t.Error("FromError rewrapped a UnisonError")
	}
	if FromError(nil, "E121") != nil {
		t.Error("FromError(nil) should be nil")
	}
	wrapped := FromError(stderrors.New("boom"), "E121")
	if wrapped.Code != "E121" || wrapped.Wrapped == nil {
		t.Errorf("wrapped = %+v", wrapped)
	}
}

func TestBuilderChain(t *testing.T) {
	err := Newf(CategoryConfig, "bad value").
		WithDetail("the port must be numeric").
		WithSuggestion("use --port 8080")

	if err.Detail != "the port must be numeric" || err.Suggestion != "use --port 8080" {
		t.Errorf("builders not applied: %+v", err)
	}
}

func TestFormatContainsParts(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E141").Wrap(stderrors.New("stat unison.json: no such file"))
	out := err.Format()

	for _, want := range []string{"E141", err.Message, err.Suggestion, err.DocURL, "Caused by:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E062")
	if got := err.FormatCompact(); got != "E062: "+err.Message {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFormatJSONIsValid(t *testing.T) {
	err := New("E063").WithDetail(`client says "v0"`)
	var decoded map[string]any
	if jsonErr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jsonErr != nil {
		t.Fatalf("invalid JSON: %v\n%s", jsonErr, err.FormatJSON())
	}
	if decoded["code"] != "E063" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["category"] != string(CategoryProtocol) {
		t.Errorf("category = %v", decoded["category"])
	}
}

func TestRegisterAndLookup(t *testing.T) {
	Register("X001", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	defer delete(registry, "X001")

	tmpl, ok := GetTemplate("X001")
	if !ok || tmpl.Message != "custom" {
		t.Errorf("template = %+v ok=%v", tmpl, ok)
	}

	found := false
	for _, code := range GetAllCodes() {
		if code == "X001" {
			found = true
		}
	}
	if !found {
		t.Error("registered code missing from GetAllCodes")
	}
}
