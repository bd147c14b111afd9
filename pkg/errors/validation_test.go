package errors

import (
	"testing"
)

func TestValidateSourceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "ccn2", false},
		{"valid with dash", "human-mtg", false},
		{"valid with underscore", "cross_taxonomy", false},
		{"valid with dot", "v1.2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal ..", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourceName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourceName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "CCN202301", false},
		{"valid underscore", "_taxonomy", false},
		{"valid mixed", "human_mtg_v2", false},

		{"empty", "", true},
		{"leading digit", "1table", true},
		{"injection", "t; DROP TABLE x", true},
		{"quote", "t'x", true},
		{"space", "my table", true},
		{"too long", "a" + string(make([]byte, 200)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTableName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.org/nomenclature.tsv", false},
		{"http", "http://localhost:8080/n.tsv", false},
		{"empty", "", true},
		{"ftp", "ftp://example.org/x", true},
		{"file", "file:///etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
