package errors

import (
	"testing"
)

func TestValidateSelector(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"tag", "div", false},
		{"id", "#tooltip", false},
		{"class", ".popper__arrow", false},
		{"attribute", "[x-arrow]", false},
		{"attribute value", "[data-role=arrow]", false},
		{"compound", "div.popper[x-placement]", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"descendant combinator", "div span", true},
		{"child combinator", "div>span", true},
		{"selector list", "a,b", true},
		{"unbalanced open", "[x-arrow", true},
		{"unbalanced close", "x-arrow]", true},
		{"control char", "div\x01", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSelector(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSelector(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSelector) {
				t.Errorf("ValidateSelector(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidSelector)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "scenes/tooltip.toml", false},
		{"absolute", "/tmp/out.png", false},

		{"empty", "", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"toml", "scene.toml", false},
		{"upper case", "SCENE.YAML", false},
		{"yml", "scene.yml", false},
		{"unsupported", "scene.xml", true},
		{"no extension", "scene", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtension(tt.input, ".toml", ".yaml", ".yml", ".json")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExtension(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
