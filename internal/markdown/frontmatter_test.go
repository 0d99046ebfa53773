package markdown

import (
	"errors"
	"testing"
	"time"

	"blog-api/internal/entry"
)

const sampleSource = `---
title: Learning SQL Indexing
summary: Notes on token tables
tags: ["sql", "indexing"]
categories: ["dev", "db"]
date: 2024-03-01T10:00:00Z
updated: 2024-03-05T12:30:00Z
---

# Heading

Body text here.
`

func TestParseEntry(t *testing.T) {
	key := entry.NewEntryKey(42, "")
	created := entry.Author{Name: "alice"}
	updated := entry.Author{Name: "bob"}

	e, err := ParseEntry(key, sampleSource, created, updated)
	if err != nil {
		t.Fatalf("ParseEntry() error = %v", err)
	}

	if e.EntryID != 42 {
		t.Errorf("EntryID = %d, want 42", e.EntryID)
	}
	if e.FrontMatter.Title != "Learning SQL Indexing" {
		t.Errorf("Title = %q", e.FrontMatter.Title)
	}
	if e.FrontMatter.Summary != "Notes on token tables" {
		t.Errorf("Summary = %q", e.FrontMatter.Summary)
	}
	if len(e.FrontMatter.Tags) != 2 || e.FrontMatter.Tags[0].Name != "sql" {
		t.Errorf("Tags = %+v", e.FrontMatter.Tags)
	}
	if len(e.FrontMatter.Categories) != 2 || e.FrontMatter.Categories[1].Name != "db" {
		t.Errorf("Categories = %+v", e.FrontMatter.Categories)
	}
	wantCreated := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !e.Created.Date.Equal(wantCreated) {
		t.Errorf("Created.Date = %v, want %v", e.Created.Date, wantCreated)
	}
	if e.Created.Name != "alice" || e.Updated.Name != "bob" {
		t.Errorf("author names not preserved: %+v / %+v", e.Created, e.Updated)
	}
	if e.Content == "" || e.Content[0] != '#' {
		t.Errorf("Content = %q, want body starting at heading", e.Content)
	}
}

func TestParseEntry_versionedTags(t *testing.T) {
	source := `---
title: Release Notes
tags:
  - name: go
    version: "1.25"
  - sqlite
categories: ["dev"]
---

body
`
	e, err := ParseEntry(entry.NewEntryKey(1, ""), source, entry.Author{Name: "a"}, entry.Author{Name: "a"})
	if err != nil {
		t.Fatalf("ParseEntry() error = %v", err)
	}
	if e.FrontMatter.Tags[0].Name != "go" || e.FrontMatter.Tags[0].Version != "1.25" {
		t.Errorf("versioned tag = %+v", e.FrontMatter.Tags[0])
	}
	if e.FrontMatter.Tags[1].Name != "sqlite" || e.FrontMatter.Tags[1].Version != "" {
		t.Errorf("plain tag = %+v", e.FrontMatter.Tags[1])
	}
}

func TestParseEntry_datesFallBackToAuthors(t *testing.T) {
	source := "---\ntitle: No Dates\n---\n\nbody\n"
	created := entry.Author{Name: "a", Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}

	e, err := ParseEntry(entry.NewEntryKey(1, ""), source, created, created)
	if err != nil {
		t.Fatalf("ParseEntry() error = %v", err)
	}
	if !e.Created.Date.Equal(created.Date) {
		t.Errorf("Created.Date = %v, want author date", e.Created.Date)
	}
}

func TestParseEntry_noFrontMatter(t *testing.T) {
	_, err := ParseEntry(entry.NewEntryKey(1, ""), "# just markdown\n", entry.Author{}, entry.Author{})
	if !errors.Is(err, ErrNoFrontMatter) {
		t.Errorf("error = %v, want ErrNoFrontMatter", err)
	}
}

func TestParseEntry_roundTripThroughToMarkdown(t *testing.T) {
	e, err := ParseEntry(entry.NewEntryKey(7, ""), sampleSource, entry.Author{Name: "a"}, entry.Author{Name: "a"})
	if err != nil {
		t.Fatalf("ParseEntry() error = %v", err)
	}
	again, err := ParseEntry(entry.NewEntryKey(7, ""), e.ToMarkdown(), entry.Author{Name: "a"}, entry.Author{Name: "a"})
	if err != nil {
		t.Fatalf("ParseEntry(ToMarkdown()) error = %v", err)
	}
	if again.FrontMatter.Title != e.FrontMatter.Title {
		t.Errorf("title lost in round trip: %q", again.FrontMatter.Title)
	}
	if len(again.FrontMatter.Tags) != len(e.FrontMatter.Tags) {
		t.Errorf("tags lost in round trip: %+v", again.FrontMatter.Tags)
	}
	if !again.Updated.Date.Equal(e.Updated.Date) {
		t.Errorf("updated date lost in round trip: %v", again.Updated.Date)
	}
}
