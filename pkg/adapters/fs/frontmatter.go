package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrUnterminatedFrontMatter is returned when a document opens a front-matter
// block but never closes it.
var ErrUnterminatedFrontMatter = errors.New("frontmatter started but no closing delimiter found")

// Metadata holds the key-value pairs of a document's front matter.
type Metadata map[string]any

// String returns the value under key as a string.
// Scalars (numbers, booleans) are formatted; missing, null, empty and
// non-scalar values report false.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case uint64:
		s = strconv.FormatUint(t, 10)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", false
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// Document is a parsed source document: front matter plus body text.
type Document struct {
	Metadata Metadata
	Body     string
}

// ParseFrontMatter reads a Markdown document with an optional YAML header
// delimited by "---" lines. Documents without a header have empty metadata
// and the whole input as body.
func ParseFrontMatter(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	doc := Document{Metadata: make(Metadata)}

	rest, ok := cutDelimiterLine(data)
	if !ok {
		doc.Body = string(data)
		return doc, nil
	}

	header, body, found := splitAtClosingDelimiter(rest)
	if !found {
		return Document{}, ErrUnterminatedFrontMatter
	}

	if err := yaml.Unmarshal(header, &doc.Metadata); err != nil {
		return Document{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if doc.Metadata == nil {
		doc.Metadata = make(Metadata)
	}
	doc.Body = string(body)
	return doc, nil
}

// cutDelimiterLine strips a leading "---" line and reports whether it was there.
func cutDelimiterLine(data []byte) ([]byte, bool) {
	for _, prefix := range [][]byte{[]byte("---\n"), []byte("---\r\n")} {
		if bytes.HasPrefix(data, prefix) {
			return data[len(prefix):], true
		}
	}
	return data, false
}

// splitAtClosingDelimiter finds the first line that is exactly "---".
func splitAtClosingDelimiter(data []byte) (header, body []byte, found bool) {
	offset := 0
	for offset <= len(data) {
		end := bytes.IndexByte(data[offset:], '\n')
		var line []byte
		next := len(data) + 1
		if end < 0 {
			line = data[offset:]
		} else {
			line = data[offset : offset+end]
			next = offset + end + 1
		}
		if string(bytes.TrimRight(line, "\r")) == "---" {
			if next > len(data) {
				return data[:offset], nil, true
			}
			return data[:offset], data[next:], true
		}
		offset = next
	}
	return nil, nil, false
}
