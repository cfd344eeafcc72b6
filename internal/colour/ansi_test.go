package colour

import (
	"math"
	"strings"
	"testing"
)

func TestContrastRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b RGB
		want float64
	}{
		{name: "black on white", a: black, b: white, want: 21},
		{name: "order independent", a: white, b: black, want: 21},
		{name: "same colour", a: RGB{R: 120, G: 30, B: 200}, b: RGB{R: 120, G: 30, B: 200}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContrastRatio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ContrastRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadableText(t *testing.T) {
	tests := []struct {
		bg   RGB
		want RGB
	}{
		{bg: white, want: black},
		{bg: black, want: white},
		{bg: RGB{R: 250, G: 230, B: 200}, want: black},
		{bg: RGB{R: 20, G: 40, B: 180}, want: white},
	}
	for _, tt := range tests {
		if got := ReadableText(tt.bg); got != tt.want {
			t.Errorf("ReadableText(%s) = %s, want %s", tt.bg.Hex(), got.Hex(), tt.want.Hex())
		}
	}
}

func TestColourPreview(t *testing.T) {
	got := ColourPreview(RGB{R: 1, G: 2, B: 3}, 0)
	want := "\033[48;2;1;2;3m" + strings.Repeat(" ", defaultWidth) + "\033[0m"
	if got != want {
		t.Errorf("ColourPreview() = %q, want %q", got, want)
	}
}

func TestColourPreviewWithText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		wantText string
	}{
		{name: "centred", text: "ab", width: 6, wantText: "  ab  "},
		{name: "truncated", text: "abcdef", width: 3, wantText: "abc"},
		{name: "exact", text: "abc", width: 3, wantText: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColourPreviewWithText(white, tt.text, tt.width)
			if !strings.Contains(got, "\033[38;2;0;0;0m"+tt.wantText+"\033[0m") {
				t.Errorf("ColourPreviewWithText() = %q, want text %q in black", got, tt.wantText)
			}
		})
	}
}
