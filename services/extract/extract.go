// Package extract pulls raw text out of uploaded resume PDFs.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/yshmodi/eiregate/services"
)

// MaxUploadBytes is the resume upload size limit (5 MiB)
const MaxUploadBytes = 5 * 1024 * 1024

// ValidateUpload enforces the upload constraints before any parsing happens
func ValidateUpload(filename string, size int64) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return services.ErrNotPDF
	}
	if size > MaxUploadBytes {
		return services.ErrFileTooLarge
	}
	return nil
}

// Text extracts the plain text of every page, joined with blank lines.
// PDFs with no readable text are a validation error, not an empty success.
func Text(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", services.NewDomainError(services.ErrorTypeValidation, "could not read PDF",
			fmt.Errorf("unreadable PDF: %w", err))
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	raw := strings.Join(pages, "\n\n")
	if strings.TrimSpace(raw) == "" {
		return "", services.ErrEmptyText
	}
	return raw, nil
}
