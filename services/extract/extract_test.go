package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yshmodi/eiregate/services"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  error
	}{
		{"valid pdf", "resume.pdf", 1024, nil},
		{"uppercase extension", "RESUME.PDF", 1024, nil},
		{"at size limit", "resume.pdf", MaxUploadBytes, nil},
		{"not a pdf", "resume.docx", 1024, services.ErrNotPDF},
		{"no extension", "resume", 1024, services.ErrNotPDF},
		{"too large", "resume.pdf", MaxUploadBytes + 1, services.ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestText_GarbageInput(t *testing.T) {
	_, err := Text([]byte("this is not a pdf"))
	assert.True(t, services.IsValidationError(err))
}

func TestText_EmptyInput(t *testing.T) {
	_, err := Text(nil)
	assert.True(t, services.IsValidationError(err))
}
