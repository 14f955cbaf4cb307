package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quoteme/config"
	"quoteme/dedup"
	"quoteme/types"
)

func (s *Server) registerAdminRoutes(r *gin.Engine) {
	g := r.Group("/admin", s.requireClaims(), s.requireAdmin())
	g.POST("/quotes", s.handleCreateQuote)
	g.PUT("/quotes/:id", s.handleUpdateQuote)
	g.DELETE("/quotes/:id", s.handleDeleteQuote)
	g.GET("/quotes", s.handleListQuotes)
	g.GET("/search", s.handleSearchQuotes)
	g.GET("/tags", s.handleGetTags)
	g.POST("/tags", s.handleAddTag)
	g.PUT("/tags/:tag", s.handleUpdateTag)
	g.DELETE("/tags/unused", s.handleCleanupUnusedTags)
	g.DELETE("/tags/:tag", s.handleDeleteTag)
	g.POST("/check-duplicate", s.handleCheckDuplicate)
	g.POST("/save-custom-image", s.handleSaveCustomImage)
	g.GET("/subscriptions", s.handleListSubscriptions)
}

type quoteRequest struct {
	Quote  string   `json:"quote"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

// validate mirrors the long-standing admin UI error strings.
func (q *quoteRequest) validate() []string {
	var errs []string
	if strings.TrimSpace(q.Quote) == "" {
		errs = append(errs, "'quote' is required and cannot be empty")
	}
	if strings.TrimSpace(q.Author) == "" {
		errs = append(errs, "'author' is required and cannot be empty")
	}
	for _, tag := range q.Tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, "All tags must be non-empty strings")
			break
		}
	}
	return errs
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// capDuplicates trims the match list for responses; counts elsewhere in the
// payload still reflect the full total.
func capDuplicates(matches []dedup.Match) []dedup.Match {
	if len(matches) > config.MaxReportedDuplicates {
		return matches[:config.MaxReportedDuplicates]
	}
	return matches
}

// handleCreateQuote blocks creation when the duplicate scan finds matches. A
// failed scan is deliberately not a blocker: admins must be able to add
// quotes while the table is misbehaving.
func (s *Server) handleCreateQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": errs})
		return
	}

	quoteText := strings.TrimSpace(req.Quote)
	author := strings.TrimSpace(req.Author)

	duplicates, err := s.detector.FindDuplicates(c.Request.Context(), quoteText, author)
	if err != nil {
		log.Warn("duplicate check failed, continuing with creation", "err", err)
		duplicates = nil
	}
	if len(duplicates) > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":           "Duplicate quote detected",
			"message":         fmt.Sprintf("Found %d similar quote(s)", len(duplicates)),
			"is_duplicate":    true,
			"duplicate_count": len(duplicates),
			"duplicates":      capDuplicates(duplicates),
		})
		return
	}

	now := nowStamp()
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	quote := &types.Quote{
		ID:        uuid.NewString(),
		Quote:     quoteText,
		Author:    author,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: username(c),
	}

	if err := s.store.PutQuote(c.Request.Context(), quote); err != nil {
		log.Error("failed to create quote", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := s.store.MergeTagsMetadata(c.Request.Context(), quote.Tags); err != nil {
		// Metadata is a convenience cache; creation already succeeded.
		log.Warn("failed to update tags metadata", "err", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Quote created successfully",
		"quote":   quote,
	})
}

func (s *Server) handleUpdateQuote(c *gin.Context) {
	id := c.Param("id")

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": errs})
		return
	}

	existing, err := s.store.GetQuote(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to load quote", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}

	now := nowStamp()
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	updated := &types.Quote{
		ID:        id,
		Quote:     strings.TrimSpace(req.Quote),
		Author:    strings.TrimSpace(req.Author),
		Tags:      tags,
		ImageURL:  existing.ImageURL,
		CreatedAt: existing.CreatedAt,
		CreatedBy: existing.CreatedBy,
		UpdatedAt: now,
		UpdatedBy: username(c),
	}
	if updated.CreatedAt == "" {
		updated.CreatedAt = now
	}
	if updated.CreatedBy == "" {
		updated.CreatedBy = "unknown"
	}

	if err := s.store.PutQuote(c.Request.Context(), updated); err != nil {
		log.Error("failed to update quote", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := s.store.MergeTagsMetadata(c.Request.Context(), updated.Tags); err != nil {
		log.Warn("failed to update tags metadata", "err", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote updated successfully",
		"quote":   updated,
	})
}

func (s *Server) handleDeleteQuote(c *gin.Context) {
	id := c.Param("id")

	existing, err := s.store.GetQuote(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to load quote", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}

	if err := s.store.DeleteQuote(c.Request.Context(), id); err != nil {
		log.Error("failed to delete quote", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Quote deleted successfully",
		"deleted_quote_id": id,
	})
}

var validSortFields = map[string]bool{
	"quote":      true,
	"author":     true,
	"created_at": true,
	"updated_at": true,
}

func listParams(c *gin.Context) (limit int, sortBy, sortOrder string, ok bool) {
	limit = config.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit > config.MaxListLimit {
		limit = config.MaxListLimit
	}
	if limit < 1 {
		limit = 1
	}

	sortBy = c.DefaultQuery("sort_by", "created_at")
	sortOrder = c.DefaultQuery("sort_order", "desc")

	if !validSortFields[sortBy] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Invalid sort field",
			"valid_fields": []string{"quote", "author", "created_at", "updated_at"},
		})
		return 0, "", "", false
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Invalid sort order",
			"valid_orders": []string{"asc", "desc"},
		})
		return 0, "", "", false
	}
	return limit, sortBy, sortOrder, true
}

func sortQuotes(quotes []types.Quote, sortBy, sortOrder string) {
	desc := sortOrder == "desc"
	key := func(q types.Quote) string {
		switch sortBy {
		case "quote":
			return strings.ToLower(q.Quote)
		case "author":
			return strings.ToLower(q.Author)
		case "updated_at":
			return q.UpdatedAt
		default:
			return q.CreatedAt
		}
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		if desc {
			return key(quotes[i]) > key(quotes[j])
		}
		return key(quotes[i]) < key(quotes[j])
	})
}

// paginationKey is the cursor handed back to the admin UI. The next request
// echoes it verbatim as last_key to resume past the cited quote.
func paginationKey(last types.Quote, sortBy, sortOrder string) string {
	key, _ := json.Marshal(gin.H{
		"id":         last.ID,
		"sort_by":    sortBy,
		"sort_order": sortOrder,
	})
	return string(key)
}

// applyCursor resumes a sorted listing just past the quote a previous page
// ended on. A cursor that fails to parse, carries different sort parameters,
// or names a quote that has since been deleted restarts from the top.
func applyCursor(c *gin.Context, quotes []types.Quote, sortBy, sortOrder string) []types.Quote {
	raw := c.Query("last_key")
	if raw == "" {
		return quotes
	}

	var cursor struct {
		ID        string `json:"id"`
		SortBy    string `json:"sort_by"`
		SortOrder string `json:"sort_order"`
	}
	if err := json.Unmarshal([]byte(raw), &cursor); err != nil {
		log.Warn("ignoring malformed pagination key", "err", err)
		return quotes
	}
	if cursor.SortBy != sortBy || cursor.SortOrder != sortOrder {
		return quotes
	}

	for i, q := range quotes {
		if q.ID == cursor.ID {
			return quotes[i+1:]
		}
	}
	return quotes
}

func (s *Server) handleListQuotes(c *gin.Context) {
	limit, sortBy, sortOrder, ok := listParams(c)
	if !ok {
		return
	}

	quotes, err := s.store.AllQuotes(c.Request.Context())
	if err != nil {
		log.Error("failed to list quotes", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sortQuotes(quotes, sortBy, sortOrder)

	total := len(quotes)
	rest := applyCursor(c, quotes, sortBy, sortOrder)
	page := rest
	if len(page) > limit {
		page = page[:limit]
	}
	hasMore := len(rest) > limit

	var lastKey string
	if hasMore && len(page) > 0 {
		lastKey = paginationKey(page[len(page)-1], sortBy, sortOrder)
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes":      page,
		"total_count": total,
		"count":       len(page),
		"has_more":    hasMore,
		"last_key":    lastKey,
	})
}

func matchesQuery(q types.Quote, query string) bool {
	if strings.Contains(strings.ToLower(q.Quote), query) {
		return true
	}
	if strings.Contains(strings.ToLower(q.Author), query) {
		return true
	}
	for _, tag := range q.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func (s *Server) handleSearchQuotes(c *gin.Context) {
	query := strings.ToLower(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	limit, sortBy, sortOrder, ok := listParams(c)
	if !ok {
		return
	}

	quotes, err := s.store.AllQuotes(c.Request.Context())
	if err != nil {
		log.Error("failed to search quotes", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	matches := make([]types.Quote, 0)
	for _, q := range quotes {
		if matchesQuery(q, query) {
			matches = append(matches, q)
		}
	}

	sortQuotes(matches, sortBy, sortOrder)

	total := len(matches)
	rest := applyCursor(c, matches, sortBy, sortOrder)
	page := rest
	if len(page) > limit {
		page = page[:limit]
	}
	hasMore := len(rest) > limit

	var lastKey string
	if hasMore && len(page) > 0 {
		lastKey = paginationKey(page[len(page)-1], sortBy, sortOrder)
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes":   page,
		"total":    total,
		"has_more": hasMore,
		"last_key": lastKey,
	})
}

type tagInfo struct {
	Name string `json:"name"`
	// Tag duplicates Name for older admin UI builds.
	Tag        string `json:"tag"`
	QuoteCount int    `json:"quote_count"`
}

func (s *Server) handleGetTags(c *gin.Context) {
	names, err := s.store.ListTagNames(c.Request.Context())
	if err != nil {
		log.Error("failed to list tags", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	quotes, err := s.store.AllQuotes(c.Request.Context())
	if err != nil {
		log.Error("failed to count tag usage", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	counts := make(map[string]int, len(names))
	for _, name := range names {
		counts[name] = 0
	}
	for _, q := range quotes {
		for _, tag := range q.Tags {
			if _, tracked := counts[tag]; tracked {
				counts[tag]++
			}
		}
	}

	tags := make([]tagInfo, 0, len(names))
	for _, name := range names {
		tags = append(tags, tagInfo{Name: name, Tag: name, QuoteCount: counts[name]})
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags, "count": len(tags)})
}

func (s *Server) handleAddTag(c *gin.Context) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	newTag := strings.TrimSpace(req.Tag)
	if newTag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag name is required"})
		return
	}

	exists, err := s.store.TagExists(c.Request.Context(), newTag)
	if err != nil {
		log.Error("failed to check tag", "tag", newTag, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Tag '%s' already exists", newTag)})
		return
	}

	if err := s.store.PutTagRecord(c.Request.Context(), newTag); err != nil {
		log.Error("failed to add tag", "tag", newTag, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := s.store.MergeTagsMetadata(c.Request.Context(), []string{newTag}); err != nil {
		log.Warn("failed to update tags metadata", "err", err)
	}

	allTags, err := s.store.ListTagNames(c.Request.Context())
	if err != nil {
		log.Warn("failed to reload tag list", "err", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  fmt.Sprintf("Successfully added tag '%s'", newTag),
		"tag":      newTag,
		"all_tags": allTags,
	})
}

func (s *Server) handleUpdateTag(c *gin.Context) {
	oldTag, err := url.QueryUnescape(c.Param("tag"))
	if err != nil || oldTag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag name is required in path"})
		return
	}

	var req struct {
		Tag string `json:"tag"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}
	newTag := strings.TrimSpace(req.Tag)
	if newTag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New tag name is required"})
		return
	}
	if newTag == oldTag {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New tag name must be different from old tag name"})
		return
	}

	ctx := c.Request.Context()
	oldExists, err := s.store.TagExists(ctx, oldTag)
	if err != nil {
		log.Error("failed to check tag", "tag", oldTag, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !oldExists {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Tag '%s' not found", oldTag)})
		return
	}

	newExists, err := s.store.TagExists(ctx, newTag)
	if err != nil {
		log.Error("failed to check tag", "tag", newTag, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if newExists {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Tag '%s' already exists", newTag)})
		return
	}

	if err := s.store.PutTagRecord(ctx, newTag); err != nil {
		log.Error("failed to create renamed tag", "tag", newTag, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := s.store.DeleteTagRecord(ctx, oldTag); err != nil {
		log.Error("failed to remove old tag", "tag", oldTag, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Rewrite every quote carrying the old tag.
	quotes, err := s.store.AllQuotes(ctx)
	if err != nil {
		log.Error("failed to load quotes for tag rename", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := nowStamp()
	quotesUpdated := 0
	for i := range quotes {
		q := quotes[i]
		changed := false
		for j, tag := range q.Tags {
			if tag == oldTag {
				q.Tags[j] = newTag
				changed = true
			}
		}
		if !changed {
			continue
		}
		q.UpdatedAt = now
		if err := s.store.PutQuote(ctx, &q); err != nil {
			log.Error("failed to rewrite quote during tag rename", "id", q.ID, "err", err)
			continue
		}
		quotesUpdated++
	}

	allTags := s.renameInMetadata(ctx, oldTag, newTag)

	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("Successfully updated tag '%s' to '%s'", oldTag, newTag),
		"old_tag":        oldTag,
		"new_tag":        newTag,
		"quotes_updated": quotesUpdated,
		"all_tags":       allTags,
	})
}

// renameInMetadata swaps a tag name inside the metadata row, best effort.
func (s *Server) renameInMetadata(ctx context.Context, oldTag, newTag string) []string {
	tags, err := s.store.TagsMetadata(ctx)
	if err != nil {
		log.Warn("failed to load tags metadata", "err", err)
		return nil
	}

	updated := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == oldTag {
			continue
		}
		updated = append(updated, tag)
	}
	updated = append(updated, newTag)
	sort.Strings(updated)

	if err := s.store.PutTagsMetadata(ctx, updated); err != nil {
		log.Warn("failed to store tags metadata", "err", err)
	}
	return updated
}

func (s *Server) handleCleanupUnusedTags(c *gin.Context) {
	ctx := c.Request.Context()

	allTags, err := s.store.ListTagNames(ctx)
	if err != nil {
		log.Error("failed to list tags", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	quotes, err := s.store.AllQuotes(ctx)
	if err != nil {
		log.Error("failed to load quotes", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	used := make(map[string]bool)
	for _, q := range quotes {
		for _, tag := range q.Tags {
			used[tag] = true
		}
	}

	var unused, remaining []string
	for _, tag := range allTags {
		if used[tag] {
			remaining = append(remaining, tag)
		} else {
			unused = append(unused, tag)
		}
	}
	sort.Strings(unused)
	sort.Strings(remaining)

	if len(unused) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":         "No unused tags found",
			"removed_tags":    []string{},
			"remaining_tags":  remaining,
			"count_removed":   0,
			"count_remaining": len(remaining),
		})
		return
	}

	removed := 0
	for _, tag := range unused {
		if err := s.store.DeleteTagRecord(ctx, tag); err != nil {
			log.Error("failed to delete unused tag", "tag", tag, "err", err)
			continue
		}
		removed++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         fmt.Sprintf("Successfully removed %d unused tags", removed),
		"removed_tags":    unused,
		"remaining_tags":  remaining,
		"count_removed":   removed,
		"count_remaining": len(remaining),
	})
}

func (s *Server) handleDeleteTag(c *gin.Context) {
	tag, err := url.QueryUnescape(c.Param("tag"))
	if err != nil || tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag name is required in path"})
		return
	}

	ctx := c.Request.Context()
	exists, err := s.store.TagExists(ctx, tag)
	if err != nil {
		log.Error("failed to check tag", "tag", tag, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Tag '%s' not found", tag)})
		return
	}

	quotes, err := s.store.AllQuotes(ctx)
	if err != nil {
		log.Error("failed to load quotes", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := nowStamp()
	quotesUpdated := 0
	for i := range quotes {
		q := quotes[i]
		kept := q.Tags[:0:0]
		for _, t := range q.Tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(q.Tags) {
			continue
		}
		q.Tags = kept
		q.UpdatedAt = now
		if err := s.store.PutQuote(ctx, &q); err != nil {
			log.Error("failed to rewrite quote during tag delete", "id", q.ID, "err", err)
			continue
		}
		quotesUpdated++
	}

	if err := s.store.DeleteTagRecord(ctx, tag); err != nil {
		log.Error("failed to delete tag record", "tag", tag, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to delete tag from tags table: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("Successfully deleted tag '%s'", tag),
		"deleted_tag":    tag,
		"quotes_updated": quotesUpdated,
	})
}

// handleCheckDuplicate is the explicit pre-flight check. Unlike creation it
// fails hard on scan errors: a wrong "no duplicates" answer here would be
// trusted.
func (s *Server) handleCheckDuplicate(c *gin.Context) {
	var req struct {
		Quote  string `json:"quote"`
		Author string `json:"author"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	quoteText := strings.TrimSpace(req.Quote)
	author := strings.TrimSpace(req.Author)
	if quoteText == "" || author == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quote and author are required"})
		return
	}

	duplicates, err := s.detector.FindDuplicates(c.Request.Context(), quoteText, author)
	if err != nil {
		log.Error("duplicate check failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check for duplicates"})
		return
	}

	if len(duplicates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"is_duplicate":    false,
			"duplicate_count": 0,
			"duplicates":      []gin.H{},
			"message":         "No duplicates found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_duplicate":    true,
		"duplicate_count": len(duplicates),
		"duplicates":      capDuplicates(duplicates),
		"message":         fmt.Sprintf("Found %d similar quote(s)", len(duplicates)),
	})
}

func (s *Server) handleSaveCustomImage(c *gin.Context) {
	var req struct {
		QuoteID  string `json:"quote_id"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}
	if req.QuoteID == "" || req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing quote_id or image_url"})
		return
	}

	if err := s.store.SetQuoteImage(c.Request.Context(), req.QuoteID, req.ImageURL); err != nil {
		log.Error("failed to save custom image", "id", req.QuoteID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save custom image URL: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Custom image URL saved successfully",
		"quote_id":  req.QuoteID,
		"image_url": req.ImageURL,
	})
}
