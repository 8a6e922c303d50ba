package services

import (
	"strings"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

// supportedExtensions are the file types the provider can produce a text
// representation for. Matching is a raw, case-sensitive suffix check on
// the file name, exactly as the provider's own tooling does it.
var supportedExtensions = []string{
	".doc", ".docx", ".pdf", ".txt", ".html", ".md", ".json", ".xml",
	".ppt", ".pptx", ".key",
	".xls", ".xlsx", ".csv",
}

// IsSupportedFile reports whether the file name ends with one of the
// supported text-bearing extensions.
func IsSupportedFile(name string) bool {
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// SelectSupported filters descriptors down to supported text-bearing
// files, preserving input order. Pure; applying it twice equals
// applying it once.
func SelectSupported(files []domain.FileDescriptor) []domain.FileDescriptor {
	selected := make([]domain.FileDescriptor, 0, len(files))
	for _, f := range files {
		if IsSupportedFile(f.Name) {
			selected = append(selected, f)
		}
	}
	return selected
}
