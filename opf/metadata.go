package opf

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/tsawler/folio/model"
)

// dcNS is the Dublin Core namespace used by package metadata elements.
const dcNS = "http://purl.org/dc/elements/1.1/"

// IdentifierKind is a logical identifier scheme. Scheme attributes in the
// wild use several spellings per kind; queries accept all of them.
type IdentifierKind int

const (
	// IdentifierUUID matches schemes UUID, uuid, URN, and urn.
	IdentifierUUID IdentifierKind = iota

	// IdentifierISBN matches schemes ISBN and isbn.
	IdentifierISBN

	// IdentifierURI matches schemes URI and uri.
	IdentifierURI
)

// schemes returns the recognized scheme spellings for the kind. Lowercase
// and uppercase variants are accepted implicitly by the query layer.
func (k IdentifierKind) schemes() []string {
	switch k {
	case IdentifierUUID:
		return []string{"UUID", "URN"}
	case IdentifierISBN:
		return []string{"ISBN"}
	case IdentifierURI:
		return []string{"URI"}
	}
	return nil
}

// canonical returns the spelling used when writing a fresh identifier node.
func (k IdentifierKind) canonical() string {
	if s := k.schemes(); len(s) > 0 {
		return s[0]
	}
	return ""
}

// Title returns the dc:title text, or "" when absent.
func (p *Package) Title() string { return p.readScalar("title", "") }

// SetTitle replaces the dc:title text. An empty value deletes the element.
func (p *Package) SetTitle(v string) error { return p.writeScalar("title", v, "", "") }

// Language returns the dc:language text, or "" when absent.
func (p *Package) Language() string { return p.readScalar("language", "") }

// SetLanguage replaces the dc:language text. An empty value deletes the
// element.
func (p *Package) SetLanguage(v string) error { return p.writeScalar("language", v, "", "") }

// Publisher returns the dc:publisher text, or "" when absent.
func (p *Package) Publisher() string { return p.readScalar("publisher", "") }

// SetPublisher replaces the dc:publisher text. An empty value deletes the
// element.
func (p *Package) SetPublisher(v string) error { return p.writeScalar("publisher", v, "", "") }

// Rights returns the dc:rights text, or "" when absent.
func (p *Package) Rights() string { return p.readScalar("rights", "") }

// SetRights replaces the dc:rights text. An empty value deletes the element.
func (p *Package) SetRights(v string) error { return p.writeScalar("rights", v, "", "") }

// Description returns the dc:description text, or "" when absent.
func (p *Package) Description() string { return p.readScalar("description", "") }

// SetDescription replaces the dc:description text. An empty value deletes
// the element.
func (p *Package) SetDescription(v string) error { return p.writeScalar("description", v, "", "") }

// Date returns the dc:date text, or "" when absent.
func (p *Package) Date() string { return p.readScalar("date", "") }

// SetDate replaces the dc:date text. An empty value deletes the element.
func (p *Package) SetDate(v string) error { return p.writeScalar("date", v, "", "") }

// Identifier returns the first identifier matching the kind's recognized
// scheme spellings, or "" when none exists.
func (p *Package) Identifier(kind IdentifierKind) string {
	return p.readScalar("identifier", "scheme", kind.schemes()...)
}

// SetIdentifier replaces the identifier for the given kind. An empty value
// deletes it. A fresh node is written with the kind's canonical scheme
// spelling but remains readable under any recognized spelling.
func (p *Package) SetIdentifier(kind IdentifierKind, value string) error {
	return p.writeScalar("identifier", value, "scheme", kind.canonical(), kind.schemes()...)
}

// Identifiers returns every dc:identifier entry with its declared scheme in
// the original spelling.
func (p *Package) Identifiers() []model.Identifier {
	var out []model.Identifier
	for _, el := range p.queryMeta("identifier", "", nil) {
		out = append(out, model.Identifier{
			Value:  strings.TrimSpace(el.Text()),
			Scheme: el.SelectAttrValue("scheme", ""),
		})
	}
	return out
}

// EnsureUUID returns the package's UUID identifier, generating and storing a
// fresh one when the package has none.
func (p *Package) EnsureUUID() (string, error) {
	if v := p.Identifier(IdentifierUUID); v != "" {
		return v, nil
	}
	v := uuid.NewString()
	if err := p.SetIdentifier(IdentifierUUID, v); err != nil {
		return "", err
	}
	return v, nil
}

// Authors returns the dc:creator entries with the author role, falling back
// to all creators when none carries a role marker. Order follows the
// document.
func (p *Package) Authors() []model.Author {
	els := p.queryMeta("creator", "role", []string{"aut"})
	if len(els) == 0 {
		els = p.queryMeta("creator", "", nil)
	}
	var out []model.Author
	for _, el := range els {
		out = append(out, model.Author{
			Name:   strings.TrimSpace(el.Text()),
			FileAs: el.SelectAttrValue("file-as", ""),
		})
	}
	return out
}

// SetAuthors replaces all dc:creator entries. Each author is written with
// the aut role marker and its file-as sort key. An empty list deletes every
// creator entry.
func (p *Package) SetAuthors(authors []model.Author) error {
	for _, el := range p.queryMeta("creator", "", nil) {
		el.Parent().RemoveChild(el)
	}
	if len(authors) > 0 {
		meta := p.metadataRoot(true)
		p.ensureDCDecl(meta)
		for _, a := range authors {
			el := meta.CreateElement("dc:creator")
			el.CreateAttr("opf:role", "aut")
			if a.FileAs != "" {
				el.CreateAttr("opf:file-as", a.FileAs)
			}
			el.SetText(a.Name)
		}
	}
	return p.reload()
}

// Subjects returns the dc:subject values in document order, duplicates
// preserved.
func (p *Package) Subjects() []string {
	var out []string
	for _, el := range p.queryMeta("subject", "", nil) {
		out = append(out, strings.TrimSpace(el.Text()))
	}
	return out
}

// SetSubjects replaces all dc:subject entries with the given values, order
// and duplicates preserved. An empty list deletes every subject entry.
func (p *Package) SetSubjects(subjects []string) error {
	for _, el := range p.queryMeta("subject", "", nil) {
		el.Parent().RemoveChild(el)
	}
	if len(subjects) > 0 {
		meta := p.metadataRoot(true)
		p.ensureDCDecl(meta)
		for _, s := range subjects {
			meta.CreateElement("dc:subject").SetText(s)
		}
	}
	return p.reload()
}

// SetSubjectsText splits a comma-separated subject list and stores the
// trimmed values, preserving order and duplicates.
func (p *Package) SetSubjectsText(s string) error {
	var subjects []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			subjects = append(subjects, part)
		}
	}
	return p.SetSubjects(subjects)
}

// CoverID returns the manifest identifier the cover meta entry points at, or
// "" when the package declares no cover.
func (p *Package) CoverID() string {
	for _, el := range p.queryMeta("meta", "name", []string{"cover"}) {
		if id := el.SelectAttrValue("content", ""); id != "" {
			return id
		}
	}
	return ""
}

// SetCoverID points the cover meta entry at the given manifest identifier,
// creating the entry when absent. An empty id deletes the entry.
func (p *Package) SetCoverID(id string) error {
	els := p.queryMeta("meta", "name", []string{"cover"})

	switch {
	case id == "":
		for _, el := range els {
			el.Parent().RemoveChild(el)
		}
	case len(els) > 0:
		els[0].CreateAttr("content", id)
		for _, el := range els[1:] {
			el.Parent().RemoveChild(el)
		}
	default:
		meta := p.metadataRoot(true)
		el := meta.CreateElement("meta")
		el.CreateAttr("name", "cover")
		el.CreateAttr("content", id)
	}

	return p.reload()
}

// readScalar returns the trimmed, entity-decoded text of the first metadata
// element matching tag (and, when attr is set, one of the accepted attribute
// values). Absence yields "", not an error.
func (p *Package) readScalar(tag, attr string, accept ...string) string {
	els := p.queryMeta(tag, attr, accept)
	if len(els) == 0 {
		return ""
	}
	return strings.TrimSpace(els[0].Text())
}

// writeScalar updates the metadata element matching tag/attr. Exactly one
// match has its text replaced, or is deleted when value is empty. Zero or
// multiple matches are all deleted and, for a non-empty value, one fresh
// element is created under the metadata root carrying attr=attrValue.
func (p *Package) writeScalar(tag, value, attr, attrValue string, accept ...string) error {
	els := p.queryMeta(tag, attr, accept)

	if len(els) == 1 && value != "" {
		els[0].SetText(value)
		return p.reload()
	}

	for _, el := range els {
		el.Parent().RemoveChild(el)
	}

	if value != "" {
		meta := p.metadataRoot(true)
		p.ensureDCDecl(meta)
		el := meta.CreateElement("dc:" + tag)
		if attr != "" {
			el.CreateAttr("opf:"+attr, attrValue)
		}
		el.SetText(value)
	}

	return p.reload()
}

// queryMeta returns the metadata children whose local tag name equals tag.
// When attr is non-empty, only elements carrying that attribute (matched by
// local name) with a value in accept are returned; each accepted value also
// matches in its all-lowercase and all-uppercase spelling, approximating
// case-insensitive matching.
func (p *Package) queryMeta(tag, attr string, accept []string) []*etree.Element {
	meta := p.metadataRoot(false)
	if meta == nil {
		return nil
	}

	var out []*etree.Element
	for _, el := range meta.ChildElements() {
		if el.Tag != tag {
			continue
		}
		if attr != "" {
			a := el.SelectAttr(attr)
			if a == nil || !acceptsValue(a.Value, accept) {
				continue
			}
		}
		out = append(out, el)
	}
	return out
}

// acceptsValue reports whether v equals one of the accepted values or its
// all-lowercase or all-uppercase form.
func acceptsValue(v string, accept []string) bool {
	for _, want := range accept {
		if v == want || v == strings.ToLower(want) || v == strings.ToUpper(want) {
			return true
		}
	}
	return false
}

// metadataRoot returns the metadata section element, optionally creating it
// as the first child of the package root.
func (p *Package) metadataRoot(create bool) *etree.Element {
	root := p.doc.Root()
	if meta := root.SelectElement("metadata"); meta != nil {
		return meta
	}
	if !create {
		return nil
	}
	meta := etree.NewElement("metadata")
	root.InsertChildAt(0, meta)
	return meta
}

// ensureDCDecl makes sure the dc namespace prefix used by created elements
// is declared on the metadata root.
func (p *Package) ensureDCDecl(meta *etree.Element) {
	if p.doc.Root().SelectAttr("xmlns:dc") != nil || meta.SelectAttr("xmlns:dc") != nil {
		return
	}
	meta.CreateAttr("xmlns:dc", dcNS)
}
