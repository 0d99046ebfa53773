// Package entry holds the blog-entry domain model: entries, their composite
// keys, front matter, and search criteria.
package entry

import (
	"fmt"
	"strings"
	"time"
)

// Tag labels an entry, optionally with a version (for example "Go" "1.25").
type Tag struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Category is one element of an entry's ordered category path.
type Category struct {
	Name string `json:"name"`
}

// TagAndCount pairs a tag with the number of entries carrying it.
type TagAndCount struct {
	Tag
	Count int `json:"count"`
}

// FrontMatter is the metadata block at the top of an entry's markdown source.
type FrontMatter struct {
	Title      string     `json:"title"`
	Summary    string     `json:"summary,omitempty"`
	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
}

// Author is a name plus an optional timestamp. A zero Date means unset.
type Author struct {
	Name string    `json:"name"`
	Date time.Time `json:"date,omitzero"`
}

// WithDate returns a copy of the author with the given date.
func (a Author) WithDate(date time.Time) Author {
	return Author{Name: a.Name, Date: date}
}

// Entry is a single blog entry. Content may be empty in list projections.
type Entry struct {
	EntryKey
	FrontMatter FrontMatter `json:"frontMatter"`
	Content     string      `json:"content,omitempty"`
	Created     Author      `json:"created"`
	Updated     Author      `json:"updated"`
}

// ToCursor yields the pagination cursor for this entry: its last-modified
// timestamp, or nil when unset.
func (e Entry) ToCursor() *time.Time {
	if e.Updated.Date.IsZero() {
		return nil
	}
	d := e.Updated.Date
	return &d
}

// FormatID renders the entry's ID in its canonical zero-padded form.
func (e Entry) FormatID() string {
	return FormatID(e.EntryID)
}

// ToMarkdown renders the entry back to its markdown source form.
func (e Entry) ToMarkdown() string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %s\n", e.FrontMatter.Title)
	if e.FrontMatter.Summary != "" {
		fmt.Fprintf(&sb, "summary: %s\n", e.FrontMatter.Summary)
	}
	fmt.Fprintf(&sb, "tags: %s\n", quotedNames(tagNames(e.FrontMatter.Tags)))
	fmt.Fprintf(&sb, "categories: %s\n", quotedNames(categoryNames(e.FrontMatter.Categories)))
	if !e.Created.Date.IsZero() {
		fmt.Fprintf(&sb, "date: %s\n", e.Created.Date.UTC().Format(time.RFC3339))
	}
	if !e.Updated.Date.IsZero() {
		fmt.Fprintf(&sb, "updated: %s\n", e.Updated.Date.UTC().Format(time.RFC3339))
	}
	sb.WriteString("---\n\n")
	sb.WriteString(e.Content)
	sb.WriteString("\n")
	return sb.String()
}

func tagNames(tags []Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

func categoryNames(categories []Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

func quotedNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// SearchCriteria narrows a paginated entry listing. All fields are optional.
type SearchCriteria struct {
	Query      string
	Tag        string
	Categories []string
}
