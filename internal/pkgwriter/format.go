package pkgwriter

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ErrSerialization reports an intermediate tree that could not be marshalled or re-parsed.
var ErrSerialization = errors.New("xml serialization failed")

// IndentSpaces is the indentation width of every document written by this package.
const IndentSpaces = 2

// FormatXML re-parses an XML buffer and re-emits it with two-space indentation,
// a fresh XML declaration and exactly one trailing newline. Whitespace-only text
// between elements is discarded, so formatting an already formatted buffer is a no-op.
// That includes whitespace-only element text: <name>  </name> comes out as <name/>.
func FormatXML(content []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrSerialization)
	}

	// The declaration is rewritten below; drop whatever the input carried.
	var decls []etree.Token
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			decls = append(decls, tok)
		}
	}
	for _, tok := range decls {
		doc.RemoveChild(tok)
	}

	doc.Indent(IndentSpaces)

	var body bytes.Buffer
	if _, err := doc.WriteTo(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	out := make([]byte, 0, len(xml.Header)+body.Len()+1)
	out = append(out, xml.Header...)
	out = append(out, bytes.TrimSpace(body.Bytes())...)
	return append(out, '\n'), nil
}
