package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const publicRootDir = "public"

// maxImageSize caps uploads at 1MB.
const maxImageSize = 1 << 20

var allowedImageExtensions = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// validateImageUpload checks extension and declared MIME type against the
// image whitelist and enforces the size cap.
func validateImageUpload(filename, contentType string, size int64) (string, error) {
	extension := strings.ToLower(filepath.Ext(filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	expectedMIME, ok := allowedImageExtensions[extension]
	if !ok {
		return "", fmt.Errorf("only images are allowed (jpeg, jpg, png, gif)")
	}
	if contentType != "" && contentType != expectedMIME {
		return "", fmt.Errorf("only images are allowed (jpeg, jpg, png, gif)")
	}
	if size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 1MB)")
	}
	return extension, nil
}

// randomImageName builds a collision-resistant filename keeping the
// original extension.
func randomImageName(extension string) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf) + extension, nil
}

// saveImage stores an uploaded image under the type-specific directory
// (product, category or user) and returns the public path to persist.
func saveImage(file *multipart.FileHeader, uploadType string) (string, error) {
	extension, err := validateImageUpload(file.Filename, file.Header.Get("Content-Type"), file.Size)
	if err != nil {
		return "", err
	}

	filename, err := randomImageName(extension)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(publicRootDir, "images", uploadType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create directory %s: %v", dir, err)
		return "", err
	}

	fullPath := filepath.Join(dir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to save file %s: %v", fullPath, err)
		return "", err
	}

	return "/" + filepath.ToSlash(filepath.Join("images", uploadType, filename)), nil
}

// safeDeleteUpload removes a stored image, refusing any path that escapes
// the public images tree.
func safeDeleteUpload(relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "images/") {
		return fmt.Errorf("refusing to delete non-image path: %s", relPath)
	}

	fullPath := filepath.Join(publicRootDir, filepath.FromSlash(cleanRel))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
