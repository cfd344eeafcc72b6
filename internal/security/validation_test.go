package security

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		allowPrivate bool
		wantErr      bool
	}{
		{name: "https", url: "https://example.com/a.png"},
		{name: "http", url: "http://example.com/a.png"},
		{name: "empty", url: "", wantErr: true},
		{name: "ftp", url: "ftp://example.com/a.png", wantErr: true},
		{name: "no host", url: "https:///a.png", wantErr: true},
		{name: "localhost", url: "http://localhost/a.png", wantErr: true},
		{name: "private", url: "http://172.20.1.1/a.png", wantErr: true},
		{name: "private allowed", url: "http://192.168.1.4/a.png", allowPrivate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageURL(tt.url, tt.allowPrivate)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestLimitedReader(t *testing.T) {
	data, err := io.ReadAll(NewLimitedReader(strings.NewReader("abcdef"), 6))
	if err != nil {
		t.Fatalf("read at limit failed: %v", err)
	}
	if string(data) != "abcdef" {
		t.Errorf("read %q", data)
	}

	_, err = io.ReadAll(NewLimitedReader(strings.NewReader("abcdefg"), 6))
	if !errors.Is(err, ErrSizeLimit) {
		t.Errorf("read over limit error = %v, want ErrSizeLimit", err)
	}
}
