package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/writer"

	"pdf-stamper/internal/export"
	"pdf-stamper/internal/overlay"
	"pdf-stamper/pkg/geometry"
)

func letterPDF(t *testing.T, pages int) []byte {
	t.Helper()
	b := builder.NewBuilder()
	for i := 0; i < pages; i++ {
		b.NewPage(612, 792).
			DrawText("page content", 72, 720, builder.TextOptions{FontSize: 12}).
			Finish()
	}
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("building test document: %v", err)
	}
	var buf bytes.Buffer
	if err := writer.NewWriter().Write(context.Background(), doc, &buf, writer.Config{}); err != nil {
		t.Fatalf("serializing test document: %v", err)
	}
	return buf.Bytes()
}

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func loadedSession(t *testing.T, pages int) *Session {
	t.Helper()
	s := NewSession()
	if err := s.LoadDocument(context.Background(), "test.pdf", "application/pdf", letterPDF(t, pages)); err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	return s
}

func TestLoadDocumentRejectsWrongType(t *testing.T) {
	s := NewSession()
	var errEvents int
	s.On(EventError, func(interface{}) { errEvents++ })

	err := s.LoadDocument(context.Background(), "photo.png", "image/png", []byte("whatever"))
	if !errors.Is(err, ErrInvalidPDFType) {
		t.Fatalf("err = %v, want ErrInvalidPDFType", err)
	}
	if s.Document() != nil {
		t.Error("a document was installed despite the rejection")
	}
	if !errors.Is(s.Err(), ErrInvalidPDFType) {
		t.Errorf("Err = %v, want ErrInvalidPDFType", s.Err())
	}
	if errEvents != 1 {
		t.Errorf("EventError fired %d times, want 1", errEvents)
	}
}

func TestLoadDocumentKeepsPreviousOnFailure(t *testing.T) {
	s := loadedSession(t, 3)
	s.SetPage(2)

	err := s.LoadDocument(context.Background(), "broken.pdf", "application/pdf", []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected an error for unparseable bytes")
	}
	if s.Document() == nil || s.PageCount() != 3 {
		t.Error("previous document was lost on a failed load")
	}
	if s.PageIndex() != 2 {
		t.Errorf("page index changed to %d on a failed load", s.PageIndex())
	}
}

func TestLoadDocumentResetsPageAndError(t *testing.T) {
	s := loadedSession(t, 3)
	s.SetPage(3)
	s.fail(errors.New("stale error"))

	if err := s.LoadDocument(context.Background(), "next.pdf", "application/pdf", letterPDF(t, 1)); err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if s.PageIndex() != 1 {
		t.Errorf("PageIndex = %d after a fresh load, want 1", s.PageIndex())
	}
	if s.Err() != nil {
		t.Errorf("Err = %v after a successful load, want nil", s.Err())
	}
}

func TestSetImageRejectsNonImage(t *testing.T) {
	s := NewSession()
	err := s.SetImage("notes.txt", "text/plain", []byte("hello"))
	if !errors.Is(err, ErrInvalidImageType) {
		t.Fatalf("err = %v, want ErrInvalidImageType", err)
	}
	if s.Preview() != nil {
		t.Error("a preview was installed despite the rejection")
	}
}

func TestSetImageKeepsPreviousOnFailure(t *testing.T) {
	s := NewSession()
	if err := s.SetImage("logo.png", "image/png", solidPNG(t, color.NRGBA{R: 200, A: 255})); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	prev := s.Preview()

	if err := s.SetImage("broken.png", "image/png", []byte("not a png")); err == nil {
		t.Fatal("expected an error for undecodable bytes")
	}
	if s.Preview() != prev {
		t.Error("previous image was lost on a failed load")
	}
}

func TestSetImageResetsOverlay(t *testing.T) {
	s := NewSession()
	s.CommitOverlay(geometry.NewRect(300, 200, 80, 60))

	if err := s.SetImage("logo.png", "image/png", solidPNG(t, color.NRGBA{B: 255, A: 255})); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	if diff := cmp.Diff(overlay.Default(), s.Overlay()); diff != "" {
		t.Errorf("overlay not reset to defaults (-want +got):\n%s", diff)
	}
}

func TestSetImageBackgroundRemoval(t *testing.T) {
	s := NewSession()
	s.SetRemoveBackground(true)

	if err := s.SetImage("white.png", "image/png", solidPNG(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255})); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	preview := s.Preview()
	if preview == nil {
		t.Fatal("no preview installed")
	}
	_, _, _, a := preview.At(0, 0).RGBA()
	if a != 0 {
		t.Errorf("white background pixel kept alpha %d, want 0", a)
	}
}

func TestPageNavigationClamps(t *testing.T) {
	s := loadedSession(t, 3)

	if s.PrevPage() {
		t.Error("PrevPage moved before the first page")
	}
	if !s.NextPage() || s.PageIndex() != 2 {
		t.Errorf("NextPage landed on %d, want 2", s.PageIndex())
	}
	s.NextPage()
	if s.NextPage() {
		t.Error("NextPage moved past the last page")
	}
	if s.PageIndex() != 3 {
		t.Errorf("PageIndex = %d, want 3", s.PageIndex())
	}
	if s.SetPage(99) {
		t.Error("SetPage(99) reported a change while already on the last page")
	}
}

func TestPageNavigationWithoutDocument(t *testing.T) {
	s := NewSession()
	if s.NextPage() || s.PrevPage() || s.SetPage(1) {
		t.Error("navigation reported a change without a document")
	}
	if s.PageIndex() != 0 || s.PageCount() != 0 {
		t.Errorf("PageIndex/PageCount = %d/%d without a document", s.PageIndex(), s.PageCount())
	}
}

func TestRenderPageUpdatesViewport(t *testing.T) {
	s := loadedSession(t, 1)
	var rendered int
	s.On(EventPageRendered, func(interface{}) { rendered++ })

	res, applied, err := s.RenderPage(300)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if !applied {
		t.Fatal("render was not applied")
	}
	if got := s.Viewport(); got != res.Viewport {
		t.Errorf("Viewport = %+v, want %+v", got, res.Viewport)
	}
	if s.Raster() == nil {
		t.Error("no raster stored")
	}
	if rendered != 1 {
		t.Errorf("EventPageRendered fired %d times, want 1", rendered)
	}
}

func TestExportMissingInputs(t *testing.T) {
	noDoc := NewSession()
	if err := noDoc.SetImage("logo.png", "image/png", solidPNG(t, color.NRGBA{R: 200, A: 255})); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	if _, _, err := noDoc.Export(context.Background()); !errors.Is(err, ErrMissingInputs) {
		t.Errorf("export without document: err = %v, want ErrMissingInputs", err)
	}

	noImage := loadedSession(t, 1)
	if _, _, err := noImage.Export(context.Background()); !errors.Is(err, ErrMissingInputs) {
		t.Errorf("export without image: err = %v, want ErrMissingInputs", err)
	}
}

func TestExportProducesMergedDocument(t *testing.T) {
	s := loadedSession(t, 1)
	if err := s.SetImage("logo.png", "image/png", solidPNG(t, color.NRGBA{G: 255, A: 255})); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	if _, _, err := s.RenderPage(300); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	var exported string
	s.On(EventExported, func(data interface{}) { exported, _ = data.(string) })

	out, name, err := s.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(out) == 0 {
		t.Error("export produced no bytes")
	}
	if name != "merged-test.pdf" {
		t.Errorf("name = %q, want merged-test.pdf", name)
	}
	if exported != name {
		t.Errorf("EventExported carried %q, want %q", exported, name)
	}
	if s.Err() != nil {
		t.Errorf("Err = %v after a successful export", s.Err())
	}
}

func TestGifPreviewsButDoesNotMerge(t *testing.T) {
	s := loadedSession(t, 1)
	if _, _, err := s.RenderPage(300); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	img := image.NewPaletted(image.Rect(0, 0, 4, 4), []color.Color{
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
	})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test gif: %v", err)
	}

	if err := s.SetImage("anim.gif", "image/gif", buf.Bytes()); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	if s.Preview() == nil {
		t.Fatal("no preview for an accepted gif")
	}

	if _, _, err := s.Export(context.Background()); !errors.Is(err, export.ErrUnsupportedImageType) {
		t.Errorf("err = %v, want ErrUnsupportedImageType", err)
	}
}

func TestErrorSlotHoldsOnlyLatest(t *testing.T) {
	s := NewSession()

	s.LoadDocument(context.Background(), "a.txt", "text/plain", nil)
	s.SetImage("b.txt", "text/plain", nil)

	if !errors.Is(s.Err(), ErrInvalidImageType) {
		t.Errorf("Err = %v, want the most recent failure", s.Err())
	}

	s.ClearError()
	if s.Err() != nil {
		t.Errorf("Err = %v after ClearError", s.Err())
	}
}

func TestCommitOverlayNotifiesInOrder(t *testing.T) {
	s := NewSession()
	var got []geometry.Rect
	s.On(EventOverlayCommitted, func(data interface{}) {
		if box, ok := data.(geometry.Rect); ok {
			got = append(got, box)
		}
	})

	first := geometry.NewRect(10, 10, 60, 50)
	second := geometry.NewRect(20, 30, 70, 55)
	s.CommitOverlay(first)
	s.CommitOverlay(second)

	if diff := cmp.Diff([]geometry.Rect{first, second}, got); diff != "" {
		t.Errorf("commit notifications (-want +got):\n%s", diff)
	}
	if s.Overlay() != second {
		t.Errorf("Overlay = %+v, want %+v", s.Overlay(), second)
	}
}
