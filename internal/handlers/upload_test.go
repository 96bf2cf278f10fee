package handlers

import (
	"strings"
	"testing"
)

func TestValidateImageUploadAcceptsWhitelistedTypes(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		wantExt     string
	}{
		{"photo.jpg", "image/jpeg", ".jpg"},
		{"photo.JPEG", "image/jpeg", ".jpeg"},
		{"logo.png", "image/png", ".png"},
		{"anim.gif", "image/gif", ".gif"},
		{"no-mime.png", "", ".png"},
	}
	for _, tt := range tests {
		ext, err := validateImageUpload(tt.filename, tt.contentType, 1024)
		if err != nil {
			t.Errorf("validateImageUpload(%q, %q): unexpected error %v", tt.filename, tt.contentType, err)
			continue
		}
		if ext != tt.wantExt {
			t.Errorf("validateImageUpload(%q): ext=%q, want %q", tt.filename, ext, tt.wantExt)
		}
	}
}

func TestValidateImageUploadRejections(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
	}{
		{"no extension", "photo", "image/jpeg", 1024},
		{"bad extension", "script.exe", "image/jpeg", 1024},
		{"mime mismatch", "photo.png", "image/jpeg", 1024},
		{"too large", "photo.jpg", "image/jpeg", maxImageSize + 1},
	}
	for _, tt := range tests {
		if _, err := validateImageUpload(tt.filename, tt.contentType, tt.size); err == nil {
			t.Errorf("%s: expected error, got none", tt.name)
		}
	}
}

func TestRandomImageNameKeepsExtension(t *testing.T) {
	name, err := randomImageName(".png")
	if err != nil {
		t.Fatalf("randomImageName returned error: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("expected .png suffix, got %q", name)
	}
	// 12 random bytes hex encoded plus the extension.
	if len(name) != 24+len(".png") {
		t.Fatalf("unexpected name length %d: %q", len(name), name)
	}

	other, err := randomImageName(".png")
	if err != nil {
		t.Fatalf("randomImageName returned error: %v", err)
	}
	if name == other {
		t.Fatal("expected distinct names on consecutive calls")
	}
}

func TestSafeDeleteUploadRefusesEscapingPaths(t *testing.T) {
	tests := []string{
		"/etc/passwd",
		"../secrets.txt",
		"/images/../main.go",
		"uploads/file.png",
	}
	for _, p := range tests {
		if err := safeDeleteUpload(p); err == nil {
			t.Errorf("safeDeleteUpload(%q): expected refusal", p)
		}
	}
}

func TestSafeDeleteUploadIgnoresMissingFiles(t *testing.T) {
	if err := safeDeleteUpload("/images/product/does-not-exist.png"); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if err := safeDeleteUpload(""); err != nil {
		t.Fatalf("expected empty path to be a no-op, got %v", err)
	}
}
