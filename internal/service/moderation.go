package service

import (
	"path/filepath"
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

// allowed upload formats. text/plain is accepted as a fallback MIME for
// markdown files, which browsers often mislabel.
var allowedExtensions = map[string]string{
	".pdf":      "application/pdf",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
}

var allowedMIMETypes = map[string]struct{}{
	"application/pdf": {},
	"text/markdown":   {},
	"text/plain":      {},
	"text/x-markdown": {},
}

// executable and script extensions rejected regardless of the declared MIME.
var dangerousExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".com": {}, ".scr": {}, ".msi": {},
	".dll": {}, ".sh": {}, ".bash": {}, ".ps1": {}, ".js": {}, ".vbs": {},
	".jar": {}, ".app": {}, ".php": {},
}

const forbiddenNameChars = `<>:"|?*`

// ValidateUpload applies the moderation checks that do not need the graph:
// size, filename safety, and format allow-listing. The duplicate-upload
// window is checked separately because it needs a store lookup.
func ValidateUpload(fileName, declaredMIME string, size, maxBytes int64) error {
	if size <= 0 {
		return domain.ErrEmptyFile
	}
	if maxBytes > 0 && size > maxBytes {
		return domain.ErrFileTooLarge
	}

	name := strings.TrimSpace(fileName)
	if name == "" || strings.HasPrefix(name, ".") {
		return domain.ErrDangerousFileName
	}
	if strings.ContainsAny(name, forbiddenNameChars) ||
		strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) {
		return domain.ErrDangerousFileName
	}

	ext := strings.ToLower(filepath.Ext(name))
	if _, dangerous := dangerousExtensions[ext]; dangerous {
		return domain.ErrDangerousFileName
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return domain.ErrFileTypeNotAllowed
	}

	if declaredMIME != "" {
		mime := strings.ToLower(strings.TrimSpace(declaredMIME))
		if idx := strings.Index(mime, ";"); idx >= 0 {
			mime = strings.TrimSpace(mime[:idx])
		}
		if _, ok := allowedMIMETypes[mime]; !ok && mime != "application/octet-stream" {
			return domain.ErrFileTypeNotAllowed
		}
	}

	return nil
}

// isPDF reports whether the filename points to a PDF.
func isPDF(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}
