package app

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Translator resolves message IDs to localized strings with an English
// fallback for missing translations.
type Translator struct {
	localizer *i18n.Localizer
}

// NewTranslator builds a translator for the given BCP 47 language tag.
func NewTranslator(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	addEnglish(bundle)
	addGerman(bundle)
	return &Translator{localizer: i18n.NewLocalizer(bundle, lang, "en")}
}

// T returns the translation for the given message ID. If the ID is unknown
// in every language the ID itself comes back, so a missing entry is visible
// instead of silent.
func (t *Translator) T(id string) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

func addEnglish(bundle *i18n.Bundle) {
	bundle.AddMessages(language.English,
		&i18n.Message{ID: "appTitle", Other: "PDF Stamper"},
		&i18n.Message{ID: "labelDropPdf", Other: "Drop a PDF here or click to choose one"},
		&i18n.Message{ID: "labelDropImage", Other: "Drop an image here or click to choose one"},
		&i18n.Message{ID: "labelMerge", Other: "Merge & save"},
		&i18n.Message{ID: "labelReset", Other: "Reset position"},
		&i18n.Message{ID: "labelPage", Other: "Page"},
		&i18n.Message{ID: "labelPrevPage", Other: "Previous page"},
		&i18n.Message{ID: "labelNextPage", Other: "Next page"},
		&i18n.Message{ID: "labelRemoveBackground", Other: "Remove white background"},
		&i18n.Message{ID: "labelDarkTheme", Other: "Dark theme"},
		&i18n.Message{ID: "labelLanguage", Other: "Language"},
		&i18n.Message{ID: "statusProcessing", Other: "Processing..."},
		&i18n.Message{ID: "statusExported", Other: "Merged document saved"},
		&i18n.Message{ID: "errorInvalidPdf", Other: "The dropped file is not a valid PDF."},
		&i18n.Message{ID: "errorInvalidImageType", Other: "The dropped file is not an image."},
		&i18n.Message{ID: "errorImageProcessing", Other: "The image could not be processed."},
		&i18n.Message{ID: "errorMissingInputs", Other: "Load a PDF and an image before merging."},
		&i18n.Message{ID: "errorUnsupportedImageType", Other: "Only PNG and JPEG images can be merged."},
		&i18n.Message{ID: "errorMergeFailed", Other: "Merging the document failed."},
	)
}

func addGerman(bundle *i18n.Bundle) {
	bundle.AddMessages(language.German,
		&i18n.Message{ID: "appTitle", Other: "PDF Stamper"},
		&i18n.Message{ID: "labelDropPdf", Other: "PDF hier ablegen oder zum Auswählen klicken"},
		&i18n.Message{ID: "labelDropImage", Other: "Bild hier ablegen oder zum Auswählen klicken"},
		&i18n.Message{ID: "labelMerge", Other: "Zusammenführen & speichern"},
		&i18n.Message{ID: "labelReset", Other: "Position zurücksetzen"},
		&i18n.Message{ID: "labelPage", Other: "Seite"},
		&i18n.Message{ID: "labelPrevPage", Other: "Vorherige Seite"},
		&i18n.Message{ID: "labelNextPage", Other: "Nächste Seite"},
		&i18n.Message{ID: "labelRemoveBackground", Other: "Weißen Hintergrund entfernen"},
		&i18n.Message{ID: "labelDarkTheme", Other: "Dunkles Design"},
		&i18n.Message{ID: "labelLanguage", Other: "Sprache"},
		&i18n.Message{ID: "statusProcessing", Other: "Wird verarbeitet..."},
		&i18n.Message{ID: "statusExported", Other: "Dokument gespeichert"},
		&i18n.Message{ID: "errorInvalidPdf", Other: "Die abgelegte Datei ist kein gültiges PDF."},
		&i18n.Message{ID: "errorInvalidImageType", Other: "Die abgelegte Datei ist kein Bild."},
		&i18n.Message{ID: "errorImageProcessing", Other: "Das Bild konnte nicht verarbeitet werden."},
		&i18n.Message{ID: "errorMissingInputs", Other: "Vor dem Zusammenführen ein PDF und ein Bild laden."},
		&i18n.Message{ID: "errorUnsupportedImageType", Other: "Nur PNG- und JPEG-Bilder können eingefügt werden."},
		&i18n.Message{ID: "errorMergeFailed", Other: "Das Zusammenführen ist fehlgeschlagen."},
	)
}
