package validation

import (
	"net/http"
	"testing"

	"github.com/skillsenselab/identity-service/errors"
)

func TestValidator_NoErrors(t *testing.T) {
	v := New().Required("title", "ok").MaxLength("title", "ok", 10)
	if v.HasErrors() {
		t.Error("expected no errors")
	}
	if err := v.Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"present", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New().Required("field", tt.value)
			if v.HasErrors() != tt.want {
				t.Errorf("Required(%q): HasErrors = %v, want %v", tt.value, v.HasErrors(), tt.want)
			}
		})
	}
}

func TestValidator_Lengths(t *testing.T) {
	v := New().
		MaxLength("title", "toolong", 3).
		MinLength("password", "ab", 8).
		MaxItems("tags", 11, 10).
		EachMaxLength("tags", []string{"ok", "waytoolong"}, 5)
	if len(v.errors) != 4 {
		t.Errorf("expected 4 errors, got %d: %v", len(v.errors), v.errors)
	}
}

func TestValidator_Validate_BuildsAppError(t *testing.T) {
	err := New().Required("title", "").Required("content", "").Validate()
	if err == nil {
		t.Fatal("expected AppError")
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}
	fields, ok := err.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("expected []FieldError details, got %T", err.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(fields))
	}
}

func TestStruct_Valid(t *testing.T) {
	type req struct {
		Title string `json:"title" validate:"required,max=10"`
	}
	if err := Struct(&req{Title: "ok"}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestStruct_FieldErrors(t *testing.T) {
	type req struct {
		Title   string `json:"title" validate:"required"`
		Content string `json:"content" validate:"max=5"`
	}
	err := Struct(&req{Content: "too long for five"})
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", appErr.HTTPStatus)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", appErr.Details["fields"])
	}
	if fields[0].Field != "title" {
		t.Errorf("first field = %q, want title (json tag name)", fields[0].Field)
	}
}
