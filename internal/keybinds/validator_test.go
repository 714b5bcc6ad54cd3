package keybinds

import (
	"strings"
	"testing"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator()

	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
	if v.reservedKeys["ctrl+c"] != ActionQuitForce {
		t.Error("Expected ctrl+c to be reserved for quit_force")
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "conflict error",
			err:      ValidationError{Type: "conflict", Context: ContextNormal, Key: "q", Message: "bound to both quit and generate"},
			expected: "[conflict] q in context 'normal': bound to both quit and generate",
		},
		{
			name:     "invalid error",
			err:      ValidationError{Type: "invalid", Context: ContextGlobal, Key: "", Message: "empty key"},
			expected: "[invalid]  in context 'global': empty key",
		},
		{
			name:     "warning",
			err:      ValidationError{Type: "warning", Context: ContextEdit, Key: "ctrl+g", Message: "shadows global binding"},
			expected: "[warning] ctrl+g in context 'edit': shadows global binding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationResult_String(t *testing.T) {
	tests := []struct {
		name     string
		result   *ValidationResult
		contains []string
	}{
		{
			name:     "no issues",
			result:   &ValidationResult{},
			contains: []string{"No issues found"},
		},
		{
			name: "errors and warnings",
			result: &ValidationResult{
				Errors:   []ValidationError{{Type: "conflict", Context: ContextNormal, Key: "q", Message: "duplicate"}},
				Warnings: []ValidationError{{Type: "warning", Context: ContextEdit, Key: "tab", Message: "shadows"}},
			},
			contains: []string{"Errors (1)", "Warnings (1)", "conflict", "edit", "tab"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.result.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("String() output missing %q, got:\n%s", want, got)
				}
			}
		})
	}
}

func TestValidateRegistry_DefaultsAreClean(t *testing.T) {
	result := NewValidator().ValidateRegistry(NewDefaultRegistry())

	if result.HasErrors() || result.HasWarnings() {
		t.Errorf("default bindings should validate cleanly:\n%s", result.String())
	}
}

func TestValidateRegistry(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(r *Registry)
		wantErrors   int
		wantWarnings int
	}{
		{
			name: "unknown action",
			setup: func(r *Registry) {
				r.Register(ContextNormal, "x", Action("explode"))
			},
			wantErrors: 1,
		},
		{
			name: "printable key in edit",
			setup: func(r *Registry) {
				r.Register(ContextEdit, "g", ActionGenerate)
			},
			wantErrors: 1,
		},
		{
			name: "reserved key rebound",
			setup: func(r *Registry) {
				r.Register(ContextGlobal, "ctrl+c", ActionCopyImage)
			},
			wantWarnings: 1,
		},
		{
			name: "shadowing global",
			setup: func(r *Registry) {
				r.Register(ContextGlobal, "ctrl+g", ActionGenerate)
				r.Register(ContextNormal, "ctrl+g", ActionDownload)
			},
			wantWarnings: 1,
		},
		{
			name: "same action in context and global is fine",
			setup: func(r *Registry) {
				r.Register(ContextGlobal, "ctrl+g", ActionGenerate)
				r.Register(ContextEdit, "ctrl+g", ActionGenerate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			tt.setup(r)

			result := NewValidator().ValidateRegistry(r)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("errors = %d, want %d:\n%s", len(result.Errors), tt.wantErrors, result.String())
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d:\n%s", len(result.Warnings), tt.wantWarnings, result.String())
			}
		})
	}
}

func TestValidateConfig_Conflicts(t *testing.T) {
	config := &Config{
		Version: "1.0",
		Normal: map[string]string{
			"generate": "g,x",
			"download": "x",
		},
	}

	conflicts := FindConflicts(config)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d: %v", len(conflicts), conflicts)
	}
	if !strings.Contains(conflicts[0], "x") {
		t.Errorf("conflict should mention key x: %s", conflicts[0])
	}
}

func TestValidateConfig_UnknownAction(t *testing.T) {
	config := &Config{Normal: map[string]string{"launch": "l"}}

	result := NewValidator().ValidateConfig(config)
	if !result.HasErrors() {
		t.Error("unknown action should be rejected")
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"g", false},
		{"ctrl+g", false},
		{"shift+tab", false},
		{"", true},
		{"ctrl+", true},
		{"alt+", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAction(t *testing.T) {
	if err := ValidateAction("generate"); err != nil {
		t.Errorf("generate should be valid: %v", err)
	}
	if err := ValidateAction(""); err == nil {
		t.Error("empty action should be invalid")
	}
	if err := ValidateAction("execute"); err == nil {
		t.Error("unknown action should be invalid")
	}
}
