// Package validate checks and normalizes every externally supplied parameter
// before any filesystem or network I/O happens. All checks for a field run in
// one place; the first failure aborts the whole request.
package validate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxImageBytes is the hard cap on image size, enforced both at the path
// level (file size) and the buffer level (bytes actually read).
const MaxImageBytes = 50 << 20 // 50 MiB

const (
	minPromptLen = 3
	maxPromptLen = 1000
	maxModelLen  = 100
)

// Sentinel errors. Callers match with errors.Is; messages carry the detail.
var (
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrInvalidModel      = errors.New("invalid model format")
	ErrFileNotFound      = errors.New("file not found")
	ErrNotAFile          = errors.New("not a file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrPromptTooShort    = errors.New("prompt too short")
	ErrPromptTooLong     = errors.New("prompt too long")
	ErrUnsafePrompt      = errors.New("prompt contains potentially unsafe content")
	ErrInvalidImage      = errors.New("invalid image data")
)

// supportedExtensions is wider than the signature set below: TIFF is accepted
// by extension but has no magic-number check, so a .tiff whose bytes don't
// match another signature fails the buffer check. Intentional, do not
// reconcile the two sets.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
}

// Magic-number prefixes, checked against the start of the buffer. The WEBP
// entry only matches the outer RIFF container, not the "WEBP" fourCC at
// offset 8.
var magicNumbers = [][]byte{
	{0xFF, 0xD8, 0xFF},       // JPEG
	{0x89, 0x50, 0x4E, 0x47}, // PNG
	{0x52, 0x49, 0x46, 0x46}, // WEBP (RIFF)
	{0x42, 0x4D},             // BMP
}

// Model names must fit one of the shapes seen in the wild:
// gemini-<token>, <vendor>/<model>, <vendor>/<model>:<tag>, or a bare token.
var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^gemini-[\w.-]+$`),
	regexp.MustCompile(`^[\w.-]+/[\w.-]+$`),
	regexp.MustCompile(`^[\w.-]+/[\w.-]+:[\w.-]+$`),
	regexp.MustCompile(`^[\w.-]+$`),
}

// unsafePatterns guard against prompt text being echoed into an HTML-rendering
// surface. Substring-level defense, not a sanitizer.
var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script\b`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)data:text/html`),
}

// Provider checks an explicit provider name. Empty is valid — selection is
// then deferred to the resolver's auto-detection.
func Provider(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if name != "openrouter" && name != "gemini" {
		return "", fmt.Errorf("%w: %q (must be \"openrouter\" or \"gemini\")", ErrInvalidProvider, name)
	}
	return name, nil
}

// Model checks an explicit model name. Empty is valid — the resolver applies
// its defaults.
func Model(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if len(name) > maxModelLen {
		return "", fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidModel, name, maxModelLen)
	}
	for _, p := range modelPatterns {
		if p.MatchString(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidModel, name)
}

// ImagePath resolves the path to an absolute one and checks existence, type,
// size, and extension. It does not read the file — that happens later, and
// the bytes get their own check.
func ImagePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, abs)
		}
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotAFile, abs)
	}
	if info.Size() > MaxImageBytes {
		return "", fmt.Errorf("%w: %s is %d bytes (max %d)", ErrFileTooLarge, abs, info.Size(), MaxImageBytes)
	}

	ext := strings.ToLower(filepath.Ext(abs))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("%w: %q (supported: .jpg, .jpeg, .png, .webp, .bmp, .tiff)", ErrUnsupportedFormat, ext)
	}

	return abs, nil
}

// Prompt trims the text and checks length bounds and unsafe content.
// Returns the trimmed prompt.
func Prompt(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minPromptLen {
		return "", fmt.Errorf("%w: need at least %d characters", ErrPromptTooShort, minPromptLen)
	}
	if len(trimmed) > maxPromptLen {
		return "", fmt.Errorf("%w: %d characters (max %d)", ErrPromptTooLong, len(trimmed), maxPromptLen)
	}
	for _, p := range unsafePatterns {
		if p.MatchString(trimmed) {
			return "", ErrUnsafePrompt
		}
	}
	return trimmed, nil
}

// ImageBuffer reports whether the bytes look like a supported image: non-empty,
// within the size cap, and starting with a known magic number. It never
// errors — callers treat false as a hard ErrInvalidImage failure, distinct
// from the extension check on the path.
func ImageBuffer(data []byte) bool {
	if len(data) == 0 || len(data) > MaxImageBytes {
		return false
	}
	for _, magic := range magicNumbers {
		if bytes.HasPrefix(data, magic) {
			return true
		}
	}
	return false
}

// MimeType maps a validated image path to the mime type sent to providers.
// Only PNG is distinguished; every other supported extension is sent as JPEG.
func MimeType(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}
