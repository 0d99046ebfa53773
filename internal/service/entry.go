package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"blog-api/internal/entry"
	"blog-api/internal/pagination"
	"blog-api/internal/storage"
)

const (
	// DefaultPageSize is used when a listing request does not specify one.
	DefaultPageSize = 30
	// MaxPageSize caps a client-supplied page size.
	MaxPageSize = 100

	maxSaveAttempts = 4
	retryBaseDelay  = 100 * time.Millisecond
	retryJitter     = 10 * time.Millisecond
)

// EntryService implements the blog-entry use cases on top of an EntryStore.
// Writes that lose to concurrent writers are retried with exponential backoff
// before giving up with ErrConflict.
type EntryService struct {
	store  storage.EntryStore
	logger *slog.Logger

	// backoff returns the delay before the given retry attempt.
	// Overridable in tests.
	backoff func(attempt int) time.Duration
}

func NewEntryService(store storage.EntryStore, logger *slog.Logger) *EntryService {
	return &EntryService{
		store:   store,
		logger:  logger,
		backoff: retryBackoff,
	}
}

// retryBackoff doubles the base delay per attempt and adds a small jitter so
// colliding writers do not retry in lockstep.
func retryBackoff(attempt int) time.Duration {
	delay := retryBaseDelay << (attempt - 1)
	return delay + time.Duration(rand.Int63n(int64(2*retryJitter))) - retryJitter
}

// GetEntry loads one entry with its content.
func (s *EntryService) GetEntry(ctx context.Context, key entry.EntryKey) (entry.Entry, error) {
	e, err := s.store.FindByID(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return entry.Entry{}, fmt.Errorf("entry %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return entry.Entry{}, WrapError(err, "get entry")
	}
	return e, nil
}

// GetEntries loads the given entries without content.
func (s *EntryService) GetEntries(ctx context.Context, keys []entry.EntryKey) ([]entry.Entry, error) {
	entries, err := s.store.FindAll(ctx, keys)
	if errors.Is(err, storage.ErrMixedTenants) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err != nil {
		return nil, WrapError(err, "get entries")
	}
	return entries, nil
}

// ListEntries returns one page of the tenant's entries, newest first.
// A non-positive page size falls back to the default; oversized requests are
// clamped.
func (s *EntryService) ListEntries(ctx context.Context, tenantID string, criteria entry.SearchCriteria, cursor *time.Time, pageSize int) (pagination.CursorPage[entry.Entry, time.Time], error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	page, err := s.store.FindOrderByUpdated(ctx, tenantID, criteria,
		pagination.CursorPageRequest[time.Time]{Cursor: cursor, PageSize: pageSize})
	if err != nil {
		return page, WrapError(err, "list entries")
	}
	return page, nil
}

// ListTags returns the tenant's tags with entry counts.
func (s *EntryService) ListTags(ctx context.Context, tenantID string) ([]entry.TagAndCount, error) {
	tags, err := s.store.FindAllTags(ctx, tenantID)
	if err != nil {
		return nil, WrapError(err, "list tags")
	}
	return tags, nil
}

// ListCategories returns the tenant's distinct category paths.
func (s *EntryService) ListCategories(ctx context.Context, tenantID string) ([][]entry.Category, error) {
	categories, err := s.store.FindAllCategories(ctx, tenantID)
	if err != nil {
		return nil, WrapError(err, "list categories")
	}
	return categories, nil
}

// SaveEntry validates and persists the entry, retrying on write conflicts.
func (s *EntryService) SaveEntry(ctx context.Context, e entry.Entry) (entry.Entry, error) {
	if strings.TrimSpace(e.FrontMatter.Title) == "" {
		return entry.Entry{}, &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if e.EntryID <= 0 {
		return entry.Entry{}, &ValidationError{Field: "entryId", Message: "must be positive"}
	}
	var saved entry.Entry
	err := s.withRetry(ctx, "save entry", e.EntryKey, func() error {
		var err error
		saved, err = s.store.Save(ctx, e)
		return err
	})
	if err != nil {
		return entry.Entry{}, err
	}
	return saved, nil
}

// NextEntryID reserves nothing; it just reports the next unused ID in the
// tenant. Concurrent creators may still collide and retry at save time.
func (s *EntryService) NextEntryID(ctx context.Context, tenantID string) (int64, error) {
	id, err := s.store.NextID(ctx, tenantID)
	if err != nil {
		return 0, WrapError(err, "next entry id")
	}
	return id, nil
}

// DeleteEntry removes the entry, retrying on write conflicts.
func (s *EntryService) DeleteEntry(ctx context.Context, key entry.EntryKey) error {
	err := s.withRetry(ctx, "delete entry", key, func() error {
		return s.store.DeleteByID(ctx, key)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("entry %s: %w", key, ErrNotFound)
	}
	return err
}

// DeleteEntryTokens drops the entry's search index rows.
func (s *EntryService) DeleteEntryTokens(ctx context.Context, key entry.EntryKey) error {
	err := s.withRetry(ctx, "delete entry tokens", key, func() error {
		return s.store.DeleteTokens(ctx, key)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("entry %s: %w", key, ErrNotFound)
	}
	return err
}

// RebuildEntryTokens re-derives the entry's search index from its content.
func (s *EntryService) RebuildEntryTokens(ctx context.Context, key entry.EntryKey) error {
	err := s.withRetry(ctx, "rebuild entry tokens", key, func() error {
		return s.store.RebuildTokens(ctx, key)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("entry %s: %w", key, ErrNotFound)
	}
	return err
}

// withRetry runs fn, retrying write conflicts up to maxSaveAttempts times.
// Non-conflict errors propagate immediately.
func (s *EntryService) withRetry(ctx context.Context, op string, key entry.EntryKey, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !storage.IsConflict(err) {
			return err
		}
		if attempt == maxSaveAttempts {
			break
		}
		delay := s.backoff(attempt)
		s.logger.WarnContext(ctx, "retrying after write conflict",
			slog.String("op", op),
			slog.String("entry", key.String()),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s %s failed after %d attempts: %w", op, key, maxSaveAttempts, ErrConflict)
}
