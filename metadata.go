package folio

import (
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/opf"
)

// IdentifierKind selects which identifier scheme spellings a query matches.
type IdentifierKind = opf.IdentifierKind

// Identifier kinds, re-exported for callers that never touch the opf
// package directly.
const (
	IdentifierUUID = opf.IdentifierUUID
	IdentifierISBN = opf.IdentifierISBN
	IdentifierURI  = opf.IdentifierURI
)

// pkgString reads a metadata scalar, swallowing package-load errors into an
// empty result. Metadata reads are best-effort by design; callers that need
// the underlying error use Package directly.
func (b *Book) pkgString(read func(*opf.Package) string) string {
	pkg, err := b.Package()
	if err != nil {
		return ""
	}
	return read(pkg)
}

// pkgWrite applies a metadata mutation to the package document.
func (b *Book) pkgWrite(write func(*opf.Package) error) error {
	pkg, err := b.Package()
	if err != nil {
		return err
	}
	return write(pkg)
}

// Title returns the book's title, or "" when absent.
func (b *Book) Title() string { return b.pkgString((*opf.Package).Title) }

// SetTitle replaces the book's title. An empty value deletes it.
func (b *Book) SetTitle(v string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetTitle(v) })
}

// Language returns the book's language code, or "" when absent.
func (b *Book) Language() string { return b.pkgString((*opf.Package).Language) }

// SetLanguage replaces the book's language code. An empty value deletes it.
func (b *Book) SetLanguage(v string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetLanguage(v) })
}

// Publisher returns the book's publisher, or "" when absent.
func (b *Book) Publisher() string { return b.pkgString((*opf.Package).Publisher) }

// SetPublisher replaces the book's publisher. An empty value deletes it.
func (b *Book) SetPublisher(v string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetPublisher(v) })
}

// Rights returns the book's rights statement, or "" when absent.
func (b *Book) Rights() string { return b.pkgString((*opf.Package).Rights) }

// SetRights replaces the book's rights statement. An empty value deletes it.
func (b *Book) SetRights(v string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetRights(v) })
}

// Description returns the book's description, or "" when absent.
func (b *Book) Description() string { return b.pkgString((*opf.Package).Description) }

// SetDescription replaces the book's description. An empty value deletes it.
func (b *Book) SetDescription(v string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetDescription(v) })
}

// Date returns the book's publication date string, or "" when absent.
func (b *Book) Date() string { return b.pkgString((*opf.Package).Date) }

// SetDate replaces the book's publication date string. An empty value
// deletes it.
func (b *Book) SetDate(v string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetDate(v) })
}

// Identifier returns the first identifier of the given kind, or "" when the
// book declares none.
func (b *Book) Identifier(kind IdentifierKind) string {
	return b.pkgString(func(p *opf.Package) string { return p.Identifier(kind) })
}

// SetIdentifier replaces the identifier of the given kind. An empty value
// deletes it.
func (b *Book) SetIdentifier(kind IdentifierKind, value string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetIdentifier(kind, value) })
}

// Identifiers returns every declared identifier with its scheme in the
// original spelling.
func (b *Book) Identifiers() []model.Identifier {
	pkg, err := b.Package()
	if err != nil {
		return nil
	}
	return pkg.Identifiers()
}

// EnsureUUID returns the book's UUID identifier, generating and storing a
// fresh one when the book has none.
func (b *Book) EnsureUUID() (string, error) {
	pkg, err := b.Package()
	if err != nil {
		return "", err
	}
	return pkg.EnsureUUID()
}

// Authors returns the book's authors in document order.
func (b *Book) Authors() []model.Author {
	pkg, err := b.Package()
	if err != nil {
		return nil
	}
	return pkg.Authors()
}

// SetAuthors replaces the book's author list. An empty list deletes every
// creator entry.
func (b *Book) SetAuthors(authors []model.Author) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetAuthors(authors) })
}

// Subjects returns the book's subject values in document order, duplicates
// preserved.
func (b *Book) Subjects() []string {
	pkg, err := b.Package()
	if err != nil {
		return nil
	}
	return pkg.Subjects()
}

// SetSubjects replaces the book's subject list, order and duplicates
// preserved. An empty list deletes every subject entry.
func (b *Book) SetSubjects(subjects []string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetSubjects(subjects) })
}

// SetSubjectsText splits a comma-separated subject list and stores the
// trimmed values.
func (b *Book) SetSubjectsText(s string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetSubjectsText(s) })
}

// Version returns the package version, defaulting to "2.0".
func (b *Book) Version() string { return b.pkgString((*opf.Package).Version) }
