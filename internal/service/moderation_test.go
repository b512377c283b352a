package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

func TestValidateUpload_AllowedFormats(t *testing.T) {
	const maxBytes = 10 * 1024 * 1024

	cases := []struct {
		fileName string
		mime     string
	}{
		{"report.pdf", "application/pdf"},
		{"notes.md", "text/markdown"},
		{"notes.markdown", "text/x-markdown"},
		{"plain.txt", "text/plain"},
		{"browser-labeled.md", "application/octet-stream"},
		{"no-mime.pdf", ""},
		{"charset.txt", "text/plain; charset=utf-8"},
	}

	for _, tc := range cases {
		assert.NoError(t, ValidateUpload(tc.fileName, tc.mime, 100, maxBytes), tc.fileName)
	}
}

func TestValidateUpload_DangerousExtensionRegardlessOfMIME(t *testing.T) {
	// A benign declared MIME does not rescue an executable extension.
	for _, name := range []string{"setup.exe", "run.sh", "macro.js", "installer.msi", "tool.ps1"} {
		err := ValidateUpload(name, "text/plain", 100, 0)
		assert.ErrorIs(t, err, domain.ErrDangerousFileName, name)
	}
}

func TestValidateUpload_DisallowedTypes(t *testing.T) {
	assert.ErrorIs(t, ValidateUpload("image.png", "image/png", 100, 0), domain.ErrFileTypeNotAllowed)
	assert.ErrorIs(t, ValidateUpload("doc.docx", "", 100, 0), domain.ErrFileTypeNotAllowed)
	assert.ErrorIs(t, ValidateUpload("notes.md", "image/png", 100, 0), domain.ErrFileTypeNotAllowed)
}

func TestValidateUpload_FileNameSafety(t *testing.T) {
	cases := []string{
		".hidden.md",
		"../escape.md",
		"dir/inside.md",
		`back\slash.md`,
		`pipe|name.md`,
		`quest?.md`,
		"",
	}

	for _, name := range cases {
		err := ValidateUpload(name, "text/markdown", 100, 0)
		assert.ErrorIs(t, err, domain.ErrDangerousFileName, name)
	}
}

func TestValidateUpload_Size(t *testing.T) {
	assert.ErrorIs(t, ValidateUpload("a.md", "", 0, 100), domain.ErrEmptyFile)
	assert.ErrorIs(t, ValidateUpload("a.md", "", 101, 100), domain.ErrFileTooLarge)
	assert.NoError(t, ValidateUpload("a.md", "", 100, 100))
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("file.pdf"))
	assert.True(t, isPDF("FILE.PDF"))
	assert.False(t, isPDF("file.md"))
}
