package folio

import (
	"encoding/xml"
	"errors"
)

// ErrDRMProtected indicates the book's content is encrypted and cannot be
// read.
var ErrDRMProtected = errors.New("folio: DRM-protected content cannot be read")

// Font obfuscation algorithms, which are not DRM: the content itself stays
// readable.
var fontObfuscationAlgorithms = map[string]bool{
	"http://www.idpf.org/2008/embedding": true,
	"http://ns.adobe.com/pdf/enc#RC":     true,
}

// encryptionXML models META-INF/encryption.xml.
type encryptionXML struct {
	XMLName       xml.Name        `xml:"encryption"`
	EncryptedData []encryptedData `xml:"EncryptedData"`
}

type encryptedData struct {
	EncryptionMethod encryptionMethod `xml:"EncryptionMethod"`
}

type encryptionMethod struct {
	Algorithm string `xml:"Algorithm,attr"`
}

// checkDRM rejects books whose content documents are encrypted. An Adobe
// rights file is always a rejection; an encryption manifest is parsed to
// distinguish content encryption from font obfuscation, which only earns a
// warning.
func (b *Book) checkDRM() error {
	if _, ok := b.entries["META-INF/rights.xml"]; ok {
		return ErrDRMProtected
	}

	f, ok := b.entries["META-INF/encryption.xml"]
	if !ok {
		return nil
	}

	data, err := b.readEntry(f)
	if err != nil {
		// Unreadable encryption manifest: assume the worst.
		return ErrDRMProtected
	}

	var enc encryptionXML
	if err := xml.Unmarshal(data, &enc); err != nil {
		return ErrDRMProtected
	}

	obfuscatedFonts := false
	for _, ed := range enc.EncryptedData {
		if !fontObfuscationAlgorithms[ed.EncryptionMethod.Algorithm] {
			return ErrDRMProtected
		}
		obfuscatedFonts = true
	}
	if obfuscatedFonts {
		b.warnings = append(b.warnings, "font obfuscation detected; obfuscated fonts may not render correctly")
	}

	return nil
}
