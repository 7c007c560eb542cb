package folio

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
)

// testPNG returns an encoded 2x3 image.
func testPNG() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 3))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestCoverFromMeta(t *testing.T) {
	b := openArchive(t, baseEntries())

	cover, err := b.Cover()
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}

	if cover.Path != "OEBPS/cover.png" {
		t.Errorf("Path = %q, want %q", cover.Path, "OEBPS/cover.png")
	}
	if cover.MediaType != "image/png" {
		t.Errorf("MediaType = %q, want %q", cover.MediaType, "image/png")
	}
	if len(cover.Data) == 0 {
		t.Error("Data is empty")
	}
	if cover.Width != 2 || cover.Height != 3 {
		t.Errorf("dimensions = %dx%d, want 2x3", cover.Width, cover.Height)
	}
}

func TestCoverFromProperty(t *testing.T) {
	// No cover meta entry; the cover-image property drives resolution.
	opf3 := strings.Replace(testOPF3,
		`<item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>`,
		`<item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="img1" href="cover.png" media-type="image/png" properties="cover-image"/>`, 1)
	entries := replaceEntry(epub3Entries(), "OEBPS/content.opf", []byte(opf3))
	b := openArchive(t, entries)

	cover, err := b.Cover()
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if cover.Path != "OEBPS/cover.png" {
		t.Errorf("Path = %q, want %q", cover.Path, "OEBPS/cover.png")
	}
}

func TestCoverHeuristic(t *testing.T) {
	// Neither a meta entry nor a property: an image item named like a cover
	// is the last resort.
	opf := strings.Replace(testOPF, `<meta name="cover" content="cover-img"/>`, "", 1)
	opf = strings.Replace(opf,
		`<item id="cover-img" href="cover.png" media-type="image/png"/>`,
		`<item id="img1" href="cover.png" media-type="image/png"/>`, 1)
	entries := replaceEntry(baseEntries(), "OEBPS/content.opf", []byte(opf))
	b := openArchive(t, entries)

	cover, err := b.Cover()
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if cover.Path != "OEBPS/cover.png" {
		t.Errorf("Path = %q, want %q", cover.Path, "OEBPS/cover.png")
	}
}

func TestCoverMissing(t *testing.T) {
	opf := strings.Replace(testOPF, `<meta name="cover" content="cover-img"/>`, "", 1)
	opf = strings.Replace(opf,
		`<item id="cover-img" href="cover.png" media-type="image/png"/>`,
		`<item id="img1" href="decoration.png" media-type="image/png"/>`, 1)
	entries := replaceEntry(baseEntries(), "OEBPS/content.opf", []byte(opf))
	b := openArchive(t, entries)

	if _, err := b.Cover(); !errors.Is(err, ErrNoCover) {
		t.Errorf("Cover = %v, want ErrNoCover", err)
	}
}

func TestSetCoverID(t *testing.T) {
	b := openArchive(t, baseEntries())

	if got := b.CoverID(); got != "cover-img" {
		t.Fatalf("CoverID = %q, want %q", got, "cover-img")
	}

	if err := b.SetCoverID(""); err != nil {
		t.Fatalf("SetCoverID: %v", err)
	}
	if got := b.CoverID(); got != "" {
		t.Errorf("CoverID after delete = %q, want empty", got)
	}

	if err := b.SetCoverID("ch1"); err != nil {
		t.Fatalf("SetCoverID: %v", err)
	}
	if got := b.CoverID(); got != "ch1" {
		t.Errorf("CoverID = %q, want %q", got, "ch1")
	}
}
