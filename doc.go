// Package folio reads and edits EPUB publications: the ZIP container, the
// package document (metadata, manifest, spine, guide), the navigation
// document (table of contents), and the XHTML content documents.
//
// Basic usage:
//
//	book, err := folio.Open("book.epub")
//	if err != nil {
//	    // handle error
//	}
//	defer book.Close()
//
//	title := book.Title()
//	toc, _ := book.Toc()
//	text, _ := book.Fragment(0, fragment.Options{})
//
// Content extraction is built around bounded fragments: any spine document
// can be reduced to plain text or a limited markup subset between two
// element identifiers, see the fragment package.
//
// Metadata accessors write through to the package document; Save persists
// the edited archive:
//
//	_ = book.SetTitle("New Title")
//	f, _ := os.Create("edited.epub")
//	_ = book.Save(f)
//
// A Book is not safe for concurrent use by multiple goroutines. Metadata
// writes re-serialize and re-parse the package document before returning,
// so they must not be interleaved with reads on the same handle.
package folio
