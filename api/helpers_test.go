package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"quoteme/config"
	"quoteme/dedup"
	"quoteme/export"
	"quoteme/pages"
	"quoteme/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore is an in-memory Store for controller tests. Errors can be forced
// per call site via the err fields.
type fakeStore struct {
	quotes map[string]*types.Quote
	tags   map[string]bool
	meta   []string
	subs   map[string]*types.Subscription

	quotesErr error
	scanErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quotes: make(map[string]*types.Quote),
		tags:   make(map[string]bool),
		subs:   make(map[string]*types.Subscription),
	}
}

func (f *fakeStore) GetQuote(_ context.Context, id string) (*types.Quote, error) {
	if f.quotesErr != nil {
		return nil, f.quotesErr
	}
	q, ok := f.quotes[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (f *fakeStore) PutQuote(_ context.Context, q *types.Quote) error {
	if f.quotesErr != nil {
		return f.quotesErr
	}
	cp := *q
	f.quotes[q.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteQuote(_ context.Context, id string) error {
	delete(f.quotes, id)
	return nil
}

func (f *fakeStore) SetQuoteImage(_ context.Context, id, imageURL string) error {
	if f.quotesErr != nil {
		return f.quotesErr
	}
	if q, ok := f.quotes[id]; ok {
		q.ImageURL = imageURL
	}
	return nil
}

func (f *fakeStore) AllQuotes(_ context.Context) ([]types.Quote, error) {
	if f.quotesErr != nil {
		return nil, f.quotesErr
	}
	out := make([]types.Quote, 0, len(f.quotes))
	for _, q := range f.quotes {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) TagsMetadata(_ context.Context) ([]string, error) {
	return append([]string(nil), f.meta...), nil
}

func (f *fakeStore) PutTagsMetadata(_ context.Context, tags []string) error {
	f.meta = append([]string(nil), tags...)
	return nil
}

func (f *fakeStore) MergeTagsMetadata(_ context.Context, newTags []string) error {
	seen := make(map[string]bool)
	for _, t := range f.meta {
		seen[t] = true
	}
	for _, t := range newTags {
		if !seen[t] {
			f.meta = append(f.meta, t)
			seen[t] = true
		}
	}
	sort.Strings(f.meta)
	return nil
}

func (f *fakeStore) ListTagNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(f.tags))
	for t := range f.tags {
		names = append(names, t)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeStore) TagExists(_ context.Context, tag string) (bool, error) {
	return f.tags[tag], nil
}

func (f *fakeStore) PutTagRecord(_ context.Context, tag string) error {
	f.tags[tag] = true
	return nil
}

func (f *fakeStore) DeleteTagRecord(_ context.Context, tag string) error {
	delete(f.tags, tag)
	return nil
}

func (f *fakeStore) GetSubscription(_ context.Context, email string) (*types.Subscription, error) {
	sub, ok := f.subs[email]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeStore) PutSubscription(_ context.Context, sub *types.Subscription) error {
	cp := *sub
	f.subs[sub.Email] = &cp
	return nil
}

func (f *fakeStore) DeleteSubscription(_ context.Context, email string) error {
	delete(f.subs, email)
	return nil
}

func (f *fakeStore) AllSubscriptions(_ context.Context) ([]types.Subscription, error) {
	out := make([]types.Subscription, 0, len(f.subs))
	for _, sub := range f.subs {
		out = append(out, *sub)
	}
	return out, nil
}

// storeScanner feeds the duplicate detector from the fake store in one page.
type storeScanner struct {
	store *fakeStore
	done  bool
}

func (s *storeScanner) Next(ctx context.Context) ([]types.Quote, bool, error) {
	if s.store.scanErr != nil {
		return nil, false, s.store.scanErr
	}
	if s.done {
		return nil, false, nil
	}
	s.done = true
	page, err := s.store.AllQuotes(ctx)
	return page, false, err
}

// fakeObjects records export uploads without talking to S3.
type fakeObjects struct {
	keys []string
}

func (f *fakeObjects) Put(_ context.Context, _, key string, body io.Reader, _, _ string) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeObjects) PresignGet(_ context.Context, _, key string, _ time.Duration, _ string) (string, error) {
	return "https://exports.example.com/" + key, nil
}

// fakeMailer and fakePusher capture test-delivery calls.
type fakeMailer struct {
	sentTo []string
	err    error
}

func (f *fakeMailer) SendDaily(_ context.Context, to string, _ types.Quote) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = append(f.sentTo, to)
	return nil
}

type fakePusher struct {
	sent int
	errs []string
}

func (f *fakePusher) SendTest(_ context.Context, tokens map[string]string, _ types.Quote) (int, []string) {
	if f.sent == 0 && len(f.errs) == 0 {
		return len(tokens), nil
	}
	return f.sent, f.errs
}

type testEnv struct {
	store   *fakeStore
	objects *fakeObjects
	mailer  *fakeMailer
	pusher  *fakePusher
	router  *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, nil)
}

// newTestEnvWith lets a test adjust the dependency set, e.g. to point the
// OAuth token endpoint at a local server.
func newTestEnvWith(t *testing.T, adjust func(*Deps)) *testEnv {
	t.Helper()

	store := newFakeStore()
	objects := &fakeObjects{}
	mailer := &fakeMailer{}
	pusher := &fakePusher{}

	detector := dedup.NewDetector(dedup.SourceFunc(func(context.Context) dedup.Scanner {
		return &storeScanner{store: store}
	}))

	cfg := &config.Config{
		WebAppURL:  "https://quote-me.example.com",
		AppScheme:  "quoteme://",
		CORSOrigin: "*",
	}

	deps := Deps{
		Store:    store,
		Detector: detector,
		Exporter: export.New(store, objects, "export-bucket"),
		Mailer:   mailer,
		Pusher:   pusher,
		Pages:    pages.NewRenderer(cfg.WebAppURL, cfg.AppScheme),
		Cfg:      cfg,
	}
	if adjust != nil {
		adjust(&deps)
	}
	srv := NewServer(deps)

	return &testEnv{
		store:   store,
		objects: objects,
		mailer:  mailer,
		pusher:  pusher,
		router:  srv.Router(),
	}
}

// unsignedToken builds a JWT-shaped token whose payload carries the given
// claims. The signature segment is junk; the service never verifies it.
func unsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	body := base64.RawURLEncoding.EncodeToString(payload)
	return header + "." + body + ".sig"
}

func adminToken(t *testing.T) string {
	return unsignedToken(t, map[string]any{
		"email":            "admin@example.com",
		"sub":              "admin-sub-12345678",
		"cognito:username": "admin",
		"cognito:groups":   []string{"Admins"},
	})
}

func userToken(t *testing.T) string {
	return unsignedToken(t, map[string]any{
		"email":            "user@example.com",
		"sub":              "user-sub-87654321",
		"cognito:username": "user",
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// seedQuote inserts a quote; creation stamps advance with insertion order.
func seedQuote(store *fakeStore, id, quote, author string, tags ...string) {
	if tags == nil {
		tags = []string{}
	}
	store.quotes[id] = &types.Quote{
		ID:        id,
		Quote:     quote,
		Author:    author,
		Tags:      tags,
		CreatedAt: fmt.Sprintf("2024-01-%02dT00:00:00Z", len(store.quotes)+1),
		CreatedBy: "seed",
	}
}
