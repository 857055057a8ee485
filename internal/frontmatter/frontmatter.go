package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a `---` block that never closes.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// ErrInvalidYAML indicates the front matter block is not a YAML mapping.
var ErrInvalidYAML = errors.New("front matter is not valid YAML")

// Fields is the decoded front matter mapping.
type Fields map[string]any

// String returns the trimmed value of key when it is a non-empty string.
// Non-string values are treated as absent.
func (f Fields) String(key string) (string, bool) {
	v, ok := f[key].(string)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

var utf8BOM = []byte("\ufeff")

// Document is a content file split into its front matter and body.
type Document struct {
	Raw    []byte // front matter bytes without delimiters
	Fields Fields
	Body   []byte
	Had    bool // a front matter block was present
}

// Split separates YAML front matter (`---` delimited) from the Markdown body.
//
// If the content does not start with a delimiter line, had is false and body is
// the full input. Both LF and CRLF line endings are accepted, and a leading
// UTF-8 byte order mark is dropped.
func Split(content []byte) (raw []byte, body []byte, had bool, err error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closing := []byte(nl + "---")
	for from := start; ; {
		idx := bytes.Index(content[from:], closing)
		if idx < 0 {
			return nil, nil, false, ErrMissingClosingDelimiter
		}
		end := from + idx + len(nl)
		rest := content[from+idx+len(closing):]
		switch {
		case len(rest) == 0:
			return content[start:end], rest, true, nil
		case bytes.HasPrefix(rest, []byte(nl)):
			return content[start:end], rest[len(nl):], true, nil
		}
		// "---" followed by more text on the same line is not a delimiter.
		from = end
	}
}

// ParseYAML decodes raw front matter into Fields. Empty input yields an empty map.
func ParseYAML(raw []byte) (Fields, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Fields{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return Fields(fields), nil
}

// Parse splits and decodes content without ever failing.
//
// An unclosed block makes the whole content the body with no fields. Invalid YAML
// keeps the body after the block and yields no fields. In both cases the returned
// error describes the problem so callers can log it; the Document is always usable.
func Parse(content []byte) (Document, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Document{Fields: Fields{}, Body: content}, err
	}
	doc := Document{Raw: raw, Body: body, Had: had, Fields: Fields{}}
	if !had {
		return doc, nil
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return doc, err
	}
	doc.Fields = fields
	return doc, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
