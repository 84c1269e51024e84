package core

import (
	"reflect"
	"testing"
)

func TestNormalizePreferences(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "case and whitespace duplicates collapse",
			input: []string{"x", "X", " x "},
			want:  []string{"x"},
		},
		{
			name:  "order preserved",
			input: []string{"Machine Learning", "Physics", "machine   learning"},
			want:  []string{"Machine Learning", "Physics"},
		},
		{
			name:  "empty entries dropped",
			input: []string{"", "  ", "AI"},
			want:  []string{"AI"},
		},
		{
			name:  "inner whitespace collapsed",
			input: []string{"job \t opportunities"},
			want:  []string{"job opportunities"},
		},
		{
			name:  "unicode case folding",
			input: []string{"École", "ÉCOLE", "école"},
			want:  []string{"École"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePreferences(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizePreferences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFoldText(t *testing.T) {
	if got := FoldText("  Hello\tWORLD "); got != "hello world" {
		t.Errorf("FoldText() = %q, want %q", got, "hello world")
	}
	// Full-width letters are NFKC normalized before folding.
	if got := FoldText("ＡＩ"); got != "ai" {
		t.Errorf("FoldText() = %q, want %q", got, "ai")
	}
}
