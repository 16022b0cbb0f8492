package app

import (
	"errors"
	"fmt"
	"testing"

	"pdf-stamper/internal/export"
	"pdf-stamper/internal/pdf"
)

func TestTranslatorLanguages(t *testing.T) {
	en := NewTranslator("en")
	if got := en.T("labelPage"); got != "Page" {
		t.Errorf("en labelPage = %q", got)
	}

	de := NewTranslator("de")
	if got := de.T("labelPage"); got != "Seite" {
		t.Errorf("de labelPage = %q", got)
	}

	// Unknown languages fall back to English, unknown IDs stay visible.
	fr := NewTranslator("fr")
	if got := fr.T("labelPage"); got != "Page" {
		t.Errorf("fr labelPage = %q, want the English fallback", got)
	}
	if got := en.T("noSuchMessage"); got != "noSuchMessage" {
		t.Errorf("unknown ID resolved to %q", got)
	}
}

func TestMessageKey(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidPDFType, "errorInvalidPdf"},
		{pdf.ErrInvalidPDF, "errorInvalidPdf"},
		{ErrInvalidImageType, "errorInvalidImageType"},
		{ErrImageProcessing, "errorImageProcessing"},
		{ErrMissingInputs, "errorMissingInputs"},
		{ErrUnsupportedImageType, "errorUnsupportedImageType"},
		{export.ErrUnsupportedImageType, "errorUnsupportedImageType"},
		{ErrMergeFailed, "errorMergeFailed"},
		{errors.New("anything else"), "errorMergeFailed"},
	}
	for _, tt := range tests {
		if got := MessageKey(tt.err); got != tt.want {
			t.Errorf("MessageKey(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMessageKeySeesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrMissingInputs)
	if got := MessageKey(wrapped); got != "errorMissingInputs" {
		t.Errorf("MessageKey(wrapped) = %q", got)
	}
}

func TestEveryMessageKeyHasBothTranslations(t *testing.T) {
	ids := []string{
		"errorInvalidPdf", "errorInvalidImageType", "errorImageProcessing",
		"errorMissingInputs", "errorUnsupportedImageType", "errorMergeFailed",
	}
	for _, lang := range []string{"en", "de"} {
		tr := NewTranslator(lang)
		for _, id := range ids {
			if got := tr.T(id); got == id {
				t.Errorf("%s catalog is missing %q", lang, id)
			}
		}
	}
}
