// Package packagexml reads package.xml documents into descriptor.Package values.
//
// Parsing is a single forward pass over XML tokens. Every bit of scanner state
// (open elements, directory nesting, the changelog flag, running indices of
// repeated children) lives in a parseContext owned by one Parse call, so
// concurrent parses never share state.
package packagexml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
)

// ParseError reports a document that could not be turned into a valid
// descriptor: malformed markup (Line > 0) or a structurally invalid result.
type ParseError struct {
	Source  string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Errorf(messages.ParseInvalidFmt, e.Source, e.Err).Error()
	}
	return fmt.Sprintf(messages.ParseErrorFmt, e.Message, e.Line)
}

// Unwrap exposes the validation failure, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// ParseFile reads and parses the package.xml at path.
func ParseFile(path string) (*descriptor.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ParseReadFailedFmt, path, err)
	}
	return Parse(data, path)
}

// Parse scans data and returns a validated descriptor. source names the
// document in error messages.
func Parse(data []byte, source string) (*descriptor.Package, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = charsetReader

	ctx := newParseContext()
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, markupError(source, dec, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			ctx.open(t.Name.Local, attributes(t.Attr))
		case xml.EndElement:
			ctx.close(t.Name.Local)
		case xml.CharData:
			ctx.text.Write(t)
		}
	}
	if !sawRoot {
		line, _ := dec.InputPos()
		return nil, &ParseError{Source: source, Line: line, Message: "no root element"}
	}

	pkg := ctx.finish()
	if err := pkg.Validate(); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	return pkg, nil
}

func markupError(source string, dec *xml.Decoder, err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Source: source, Line: syntaxErr.Line, Message: syntaxErr.Msg}
	}
	line, _ := dec.InputPos()
	return &ParseError{Source: source, Line: line, Message: err.Error()}
}

func attributes(attrs []xml.Attr) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		out[attr.Name.Local] = attr.Value
	}
	return out
}

// charsetReader decodes documents that declare a non-UTF-8 encoding; older
// package files commonly declare ISO-8859-1.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "us-ascii") {
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return nil, fmt.Errorf(messages.ParseUnsupportedCharset, label)
	}
	return enc.NewDecoder().Reader(input), nil
}
