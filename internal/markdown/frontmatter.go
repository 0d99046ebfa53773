// Package markdown parses entry source files: a YAML front matter block
// between --- fences followed by the markdown body.
package markdown

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"blog-api/internal/entry"
)

// ErrNoFrontMatter is returned when the source has no front matter block.
var ErrNoFrontMatter = errors.New("no front matter block")

const fence = "---"

// frontMatterDoc mirrors the YAML shape of the front matter block. Tags may
// be plain strings or name/version mappings.
type frontMatterDoc struct {
	Title      string     `yaml:"title"`
	Summary    string     `yaml:"summary"`
	Tags       []yamlTag  `yaml:"tags"`
	Categories []string   `yaml:"categories"`
	Date       *time.Time `yaml:"date"`
	Updated    *time.Time `yaml:"updated"`
}

type yamlTag struct {
	Name    string
	Version string
}

func (t *yamlTag) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&t.Name)
	case yaml.MappingNode:
		var m struct {
			Name    string `yaml:"name"`
			Version string `yaml:"version"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		t.Name, t.Version = m.Name, m.Version
		return nil
	}
	return fmt.Errorf("unexpected tag node kind %d", value.Kind)
}

// ParseEntry parses markdown source into an entry. Dates present in the
// front matter override the dates of the given authors; the author names are
// kept either way.
func ParseEntry(key entry.EntryKey, source string, created, updated entry.Author) (entry.Entry, error) {
	doc, body, err := split(source)
	if err != nil {
		return entry.Entry{}, err
	}

	var fm frontMatterDoc
	if err := yaml.Unmarshal([]byte(doc), &fm); err != nil {
		return entry.Entry{}, fmt.Errorf("decode front matter: %w", err)
	}
	if fm.Title == "" {
		return entry.Entry{}, errors.New("front matter has no title")
	}

	tags := make([]entry.Tag, len(fm.Tags))
	for i, t := range fm.Tags {
		tags[i] = entry.Tag{Name: t.Name, Version: t.Version}
	}
	categories := make([]entry.Category, len(fm.Categories))
	for i, c := range fm.Categories {
		categories[i] = entry.Category{Name: c}
	}

	if fm.Date != nil {
		created = created.WithDate(*fm.Date)
	}
	if fm.Updated != nil {
		updated = updated.WithDate(*fm.Updated)
	}

	return entry.Entry{
		EntryKey: key,
		FrontMatter: entry.FrontMatter{
			Title:      fm.Title,
			Summary:    fm.Summary,
			Categories: categories,
			Tags:       tags,
		},
		Content: strings.TrimLeft(body, "\n"),
		Created: created,
		Updated: updated,
	}, nil
}

// split separates the front matter block from the body.
func split(source string) (frontMatter, body string, err error) {
	rest, ok := strings.CutPrefix(source, fence+"\n")
	if !ok {
		if rest, ok = strings.CutPrefix(source, fence+"\r\n"); !ok {
			return "", "", ErrNoFrontMatter
		}
	}
	for _, closing := range []string{"\n" + fence + "\n", "\n" + fence + "\r\n"} {
		if idx := strings.Index(rest, closing); idx >= 0 {
			return rest[:idx], rest[idx+len(closing):], nil
		}
	}
	// Front matter may close at the very end of the source.
	if trimmed, ok := strings.CutSuffix(rest, "\n"+fence); ok {
		return trimmed, "", nil
	}
	return "", "", ErrNoFrontMatter
}
