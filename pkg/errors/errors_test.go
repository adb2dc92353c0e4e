package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidImage, "not a PNG: %s", "art.jpg")
	want := "INVALID_IMAGE: not a PNG: art.jpg"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "upload failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if got := err.Error(); got != "NETWORK_ERROR: upload failed: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(ErrCodeEntryNotFound, "no entry for %q", "cavallo-spettrale")

	if !Is(err, ErrCodeEntryNotFound) {
		t.Error("Is() should match the error's own code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is() should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNetwork) {
		t.Error("Is() should not match plain errors")
	}
}

func TestIsMatchesWrappedCode(t *testing.T) {
	inner := New(ErrCodeRateLimited, "slow down")
	outer := fmt.Errorf("step 3: %w", inner)

	if !Is(outer, ErrCodeRateLimited) {
		t.Error("Is() should unwrap standard wrapping")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeUpload, "boom")); got != ErrCodeUpload {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeUpload)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidSlug, "slug too short")
	if got := UserMessage(err); got != "slug too short" {
		t.Errorf("UserMessage() = %q", got)
	}
	plain := stderrors.New("raw message")
	if got := UserMessage(plain); got != "raw message" {
		t.Errorf("UserMessage() on plain error = %q", got)
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug    string
		wantErr bool
	}{
		{"cavallo-spettrale", false},
		{"farfalla-cosmica-2", false},
		{"abc", false},
		{"", true},
		{"ab", true},
		{"Cavallo", true},
		{"cavallo--spettrale", true},
		{"-cavallo", true},
		{"cavallo-", true},
		{"cavallo spettrale", true},
		{"cavallo_spettrale", true},
	}

	for _, tt := range tests {
		err := ValidateSlug(tt.slug)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSlug(%q) error = %v, wantErr %v", tt.slug, err, tt.wantErr)
		}
	}
}

func TestValidateAssetPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"artifacts/cavallo/cavallo_front_light.png", false},
		{"upscaled/art.png", false},
		{"", true},
		{"../etc/passwd", true},
		{"art\x00.png", true},
	}

	for _, tt := range tests {
		err := ValidateAssetPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAssetPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://i.ibb.co/abc/cavallo.png", false},
		{"http://localhost:8000/cavallo.png", false},
		{"ftp://example.com/x.png", true},
		{"not a url", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
