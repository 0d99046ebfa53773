package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"blog-api/internal/contextutil"
	"blog-api/internal/entry"
	"blog-api/internal/markdown"
	"blog-api/internal/service"
)

// maxEntryBodySize caps the accepted markdown payload.
const maxEntryBodySize = 4 << 20

// EntryHandler handles the blog-entry HTTP endpoints. The same handler
// serves both the default tenant routes and the /tenants/{tenantId} mirrors;
// the tenant is read from the route.
type EntryHandler struct {
	entries  *service.EntryService
	renderer goldmark.Markdown
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entries *service.EntryService) *EntryHandler {
	return &EntryHandler{
		entries: entries,
		renderer: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Strikethrough,
				extension.Linkify,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithHardWraps(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// entryPage is the JSON shape of one listing page.
type entryPage struct {
	Content     []entry.Entry `json:"content"`
	Size        int           `json:"size"`
	HasPrevious bool          `json:"hasPrevious"`
	HasNext     bool          `json:"hasNext"`
	NextCursor  *time.Time    `json:"nextCursor,omitempty"`
}

// List handles GET /entries.
// Supported query parameters: query, tag, categories (comma separated),
// cursor (RFC3339) and size.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	criteria := entry.SearchCriteria{
		Query: r.URL.Query().Get("query"),
		Tag:   r.URL.Query().Get("tag"),
	}
	if raw := r.URL.Query().Get("categories"); raw != "" {
		criteria.Categories = strings.Split(raw, ",")
	}

	var cursor *time.Time
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid cursor")
			return
		}
		cursor = &parsed
	}
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid size")
			return
		}
		size = parsed
	}

	page, err := h.entries.ListEntries(ctx, tenantID(r), criteria, cursor, size)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list entries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, entryPage{
		Content:     page.Content,
		Size:        page.PageSize,
		HasPrevious: page.HasPrevious,
		HasNext:     page.HasNext,
		NextCursor:  page.NextCursor(),
	})
}

// Get handles GET /entries/{entryId}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, ok := h.entryKey(w, r)
	if !ok {
		return
	}
	e, err := h.entries.GetEntry(r.Context(), key)
	if err != nil {
		h.handleServiceError(w, r, err, "failed to get entry")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// GetMarkdown handles GET /entries/{entryId}.md, returning the entry in its
// markdown source form.
func (h *EntryHandler) GetMarkdown(w http.ResponseWriter, r *http.Request) {
	key, ok := h.entryKey(w, r)
	if !ok {
		return
	}
	e, err := h.entries.GetEntry(r.Context(), key)
	if err != nil {
		h.handleServiceError(w, r, err, "failed to get entry")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, e.ToMarkdown())
}

// GetHTML handles GET /entries/{entryId}.html, rendering the entry content.
func (h *EntryHandler) GetHTML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	key, ok := h.entryKey(w, r)
	if !ok {
		return
	}
	e, err := h.entries.GetEntry(ctx, key)
	if err != nil {
		h.handleServiceError(w, r, err, "failed to get entry")
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.Convert([]byte(e.Content), &buf); err != nil {
		logger.ErrorContext(ctx, "failed to render entry", "entry", key.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render entry")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Put handles PUT /entries/{entryId}: the body is the entry's markdown
// source, front matter included.
func (h *EntryHandler) Put(w http.ResponseWriter, r *http.Request) {
	key, ok := h.entryKey(w, r)
	if !ok {
		return
	}
	h.saveFromMarkdown(w, r, key)
}

// Post handles POST /entries: like Put, but the entry ID is assigned.
func (h *EntryHandler) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := h.entries.NextEntryID(ctx, tenantID(r))
	if err != nil {
		h.handleServiceError(w, r, err, "failed to assign entry id")
		return
	}
	h.saveFromMarkdown(w, r, entry.NewEntryKey(id, tenantID(r)))
}

func (h *EntryHandler) saveFromMarkdown(w http.ResponseWriter, r *http.Request, key entry.EntryKey) {
	ctx := r.Context()
	source, err := io.ReadAll(io.LimitReader(r.Body, maxEntryBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	author := entry.Author{Name: r.Header.Get("X-Author")}
	e, err := markdown.ParseEntry(key, string(source), author, author)
	if errors.Is(err, markdown.ErrNoFrontMatter) {
		writeError(w, http.StatusBadRequest, "markdown body must start with a front matter block")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.entries.SaveEntry(ctx, e)
	if err != nil {
		h.handleServiceError(w, r, err, "failed to save entry")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// Delete handles DELETE /entries/{entryId}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := h.entryKey(w, r)
	if !ok {
		return
	}
	if err := h.entries.DeleteEntry(r.Context(), key); err != nil {
		h.handleServiceError(w, r, err, "failed to delete entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tags handles GET /tags.
func (h *EntryHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.entries.ListTags(r.Context(), tenantID(r))
	if err != nil {
		h.handleServiceError(w, r, err, "failed to list tags")
		return
	}
	if tags == nil {
		tags = []entry.TagAndCount{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// Categories handles GET /categories.
func (h *EntryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.entries.ListCategories(r.Context(), tenantID(r))
	if err != nil {
		h.handleServiceError(w, r, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = [][]entry.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// DeleteTokens handles DELETE /admin/entries/{entryId}/tokens: it drops the
// entry's search index rows without touching the entry.
func (h *EntryHandler) DeleteTokens(w http.ResponseWriter, r *http.Request) {
	key, ok := h.entryKey(w, r)
	if !ok {
		return
	}
	if err := h.entries.DeleteEntryTokens(r.Context(), key); err != nil {
		h.handleServiceError(w, r, err, "failed to delete entry tokens")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RebuildTokens handles POST /admin/entries/{entryId}/tokens: it re-derives
// the entry's search index from its stored content.
func (h *EntryHandler) RebuildTokens(w http.ResponseWriter, r *http.Request) {
	key, ok := h.entryKey(w, r)
	if !ok {
		return
	}
	if err := h.entries.RebuildEntryTokens(r.Context(), key); err != nil {
		h.handleServiceError(w, r, err, "failed to rebuild entry tokens")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntryHandler) entryKey(w http.ResponseWriter, r *http.Request) (entry.EntryKey, bool) {
	raw := chi.URLParam(r, "entryId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return entry.EntryKey{}, false
	}
	return entry.NewEntryKey(id, tenantID(r)), true
}

// tenantID resolves the tenant from the route, defaulting for the unprefixed
// routes.
func tenantID(r *http.Request) string {
	if tenant := chi.URLParam(r, "tenantId"); tenant != "" {
		return tenant
	}
	return entry.DefaultTenantID
}

func (h *EntryHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "entry not found")
	case errors.Is(err, service.ErrConflict):
		logger.WarnContext(ctx, msg, "error", err)
		writeError(w, http.StatusConflict, "entry is being modified concurrently, retry later")
	default:
		logger.ErrorContext(ctx, msg, "error", err)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
