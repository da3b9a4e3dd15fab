// Package core holds the catalog domain: entries, the catalog itself and the
// service that answers list, read and add requests against it.
package core

import (
	"fmt"
	"strings"
)

// Entry is the unit of storage of the catalog.
// It represents a named, described piece of text identified by an ID.
type Entry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// NewEntry builds an Entry, trimming whitespace at the edges of the content.
// Compiled documents go through it; runtime additions keep content verbatim.
func NewEntry(id, title, description, content string) Entry {
	return Entry{
		ID:          id,
		Title:       title,
		Description: description,
		Content:     strings.TrimSpace(content),
	}
}

// Validate reports ErrInvalidInput if a required field is empty.
// Content made only of whitespace counts as empty.
func (e Entry) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidInput)
	case e.Title == "":
		return fmt.Errorf("%w: missing title", ErrInvalidInput)
	case strings.TrimSpace(e.Content) == "":
		return fmt.Errorf("%w: missing content", ErrInvalidInput)
	}
	return nil
}

// Summary is the listing projection of an Entry. Content is omitted.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Summary returns the listing projection of the entry.
func (e Entry) Summary() Summary {
	return Summary{ID: e.ID, Title: e.Title, Description: e.Description}
}

// Catalog is the ordered collection of all entries.
// Order is discovery or insertion order. IDs are unique.
type Catalog struct {
	Entries []Entry `json:"prompts"`
}

// Len returns the number of entries.
func (c Catalog) Len() int {
	return len(c.Entries)
}

// Find returns the entry whose ID matches exactly.
func (c Catalog) Find(id string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Contains reports whether an entry with the given ID exists.
func (c Catalog) Contains(id string) bool {
	_, ok := c.Find(id)
	return ok
}

// Append returns a new catalog with e added last.
// The receiver is left untouched.
func (c Catalog) Append(e Entry) Catalog {
	entries := make([]Entry, 0, len(c.Entries)+1)
	entries = append(entries, c.Entries...)
	entries = append(entries, e)
	return Catalog{Entries: entries}
}

// Summaries projects every entry to its listing view.
func (c Catalog) Summaries() []Summary {
	out := make([]Summary, 0, len(c.Entries))
	for _, e := range c.Entries {
		out = append(out, e.Summary())
	}
	return out
}
