package folio

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/opf"
)

// Archive-level errors.
var (
	// ErrContainerUnreadable indicates the archive cannot be opened or a
	// required entry (container.xml, the package document) is missing.
	ErrContainerUnreadable = errors.New("folio: container unreadable")

	// ErrFileNotFound indicates the requested entry does not exist in the
	// archive.
	ErrFileNotFound = errors.New("folio: file not found in archive")
)

// expectedMimetype is the required content of the mimetype entry.
const expectedMimetype = "application/epub+zip"

// maxEntrySize caps the decompressed size of a single archive entry, a
// guard against zip bombs.
const maxEntrySize int64 = 256 * 1024 * 1024

// Book is an open EPUB archive.
//
// The package document, spine, and table of contents are parsed lazily on
// first use and cached for the lifetime of the handle. Metadata reads and
// writes go through the live package document; the cached spine and TOC are
// never invalidated by metadata writes.
//
// A Book is not safe for concurrent use by multiple goroutines.
type Book struct {
	zip     *zip.Reader
	entries map[string]*zip.File
	closer  io.Closer // non-nil only when created via Open

	pkg      *opf.Package
	toc      *model.Toc
	tocErr   error
	tocDone  bool
	chapters []Chapter
	warnings []string
}

// Open opens the EPUB file at the given path. The caller must call Close
// when done.
func Open(filePath string) (*Book, error) {
	zrc, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContainerUnreadable, err)
	}

	b, err := initBook(&zrc.Reader, zrc)
	if err != nil {
		zrc.Close()
		return nil, err
	}
	return b, nil
}

// NewReader opens an EPUB from an io.ReaderAt with the given size. The
// caller owns the lifetime of r; Close only releases internal state.
func NewReader(r io.ReaderAt, size int64) (*Book, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContainerUnreadable, err)
	}
	return initBook(zr, nil)
}

// initBook indexes the archive, validates the mimetype entry, and rejects
// DRM-protected books. The package document itself is parsed lazily.
func initBook(zr *zip.Reader, closer io.Closer) (*Book, error) {
	b := &Book{
		zip:     zr,
		closer:  closer,
		entries: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		if _, exists := b.entries[f.Name]; !exists {
			b.entries[f.Name] = f
		}
	}

	b.validateMimetype()

	if err := b.checkDRM(); err != nil {
		return nil, err
	}

	return b, nil
}

// validateMimetype records a warning when the mimetype entry is missing,
// misplaced, or carries the wrong content. Real-world books get this wrong
// often enough that it is not fatal.
func (b *Book) validateMimetype() {
	if len(b.zip.File) == 0 || b.zip.File[0].Name != "mimetype" {
		b.warnings = append(b.warnings, "first archive entry is not \"mimetype\"")
		return
	}
	data, err := b.readEntry(b.zip.File[0])
	if err != nil {
		b.warnings = append(b.warnings, fmt.Sprintf("cannot read mimetype entry: %v", err))
		return
	}
	if strings.TrimSpace(string(data)) != expectedMimetype {
		b.warnings = append(b.warnings, fmt.Sprintf("unexpected mimetype: %q", string(data)))
	}
}

// Close releases resources held by the Book. When the Book was created via
// Open, Close closes the underlying file. Close is idempotent.
func (b *Book) Close() error {
	if b.closer != nil {
		err := b.closer.Close()
		b.closer = nil
		return err
	}
	return nil
}

// Warnings returns the non-fatal irregularities noticed so far.
func (b *Book) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

// Package returns the parsed package document, loading it on first use.
func (b *Book) Package() (*opf.Package, error) {
	if b.pkg != nil {
		return b.pkg, nil
	}

	opfPath, err := b.rootfilePath()
	if err != nil {
		return nil, err
	}

	data, err := b.ReadFile(opfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: package document %q: %v", ErrContainerUnreadable, opfPath, err)
	}

	pkg, err := opf.Parse(data, opfPath)
	if err != nil {
		return nil, err
	}

	b.pkg = pkg
	return pkg, nil
}

// Spine returns the reading order, building it on first use.
func (b *Book) Spine() (*model.Spine, error) {
	pkg, err := b.Package()
	if err != nil {
		return nil, err
	}
	return pkg.Spine()
}

// ReadFile reads an archive entry by its archive-relative path.
func (b *Book) ReadFile(name string) ([]byte, error) {
	f, ok := b.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return b.readEntry(f)
}

// readItem reads a file referenced by a package-document-relative href.
func (b *Book) readItem(href string) ([]byte, error) {
	pkg, err := b.Package()
	if err != nil {
		return nil, err
	}
	return b.ReadFile(pkg.Resolve(href))
}

// readEntry reads a single archive entry, enforcing the entry size cap and
// rejecting paths that escape the archive root.
func (b *Book) readEntry(f *zip.File) ([]byte, error) {
	if !safePath(f.Name) {
		return nil, fmt.Errorf("folio: unsafe archive entry path: %s", f.Name)
	}
	if f.UncompressedSize64 > uint64(maxEntrySize) {
		return nil, fmt.Errorf("folio: archive entry %s too large: %d bytes", f.Name, f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("folio: open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("folio: read archive entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > maxEntrySize {
		return nil, fmt.Errorf("folio: archive entry %s exceeds size limit", f.Name)
	}
	return data, nil
}

// safePath reports whether p stays inside the archive root.
func safePath(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") {
		return false
	}
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

// Save writes the archive to w with the current in-memory package document
// replacing the original entry. The mimetype entry is written first and
// uncompressed; all other entries are carried over unchanged.
//
// Save does not modify the source archive; write to a new destination and
// swap files afterwards.
func (b *Book) Save(w io.Writer) error {
	pkg, err := b.Package()
	if err != nil {
		return err
	}
	opfBytes, err := pkg.Bytes()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("folio: write mimetype: %w", err)
	}
	if _, err := mt.Write([]byte(expectedMimetype)); err != nil {
		return fmt.Errorf("folio: write mimetype: %w", err)
	}

	for _, f := range b.zip.File {
		if f.Name == "mimetype" {
			continue
		}

		data := opfBytes
		if f.Name != pkg.Path() {
			if data, err = b.readEntry(f); err != nil {
				return err
			}
		}

		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("folio: write archive entry %s: %w", f.Name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("folio: write archive entry %s: %w", f.Name, err)
		}
	}

	return zw.Close()
}
