// handler_test.go provides shared test infrastructure for handler tests:
// in-memory collaborators for unit tests, and real Postgres and Valkey
// connections for integration tests, which are skipped when unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"shutterflow/internal/cache"
	"shutterflow/internal/database"
	"shutterflow/internal/engine"
	"shutterflow/internal/mailer"
	"shutterflow/internal/models"
	"shutterflow/internal/session"
	"shutterflow/internal/storage"
	"shutterflow/internal/store"
)

// --- in-memory collaborators ---

type memTemplates struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.EmailTemplate
}

func newMemTemplates() *memTemplates {
	return &memTemplates{byID: make(map[uuid.UUID]models.EmailTemplate)}
}

func (m *memTemplates) List(pid uuid.UUID) ([]models.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.EmailTemplate
	for _, t := range m.byID {
		if t.PhotographerID == pid {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTemplates) FindByID(pid, id uuid.UUID) (*models.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok || t.PhotographerID != pid {
		return nil, nil
	}
	return &t, nil
}

func (m *memTemplates) FindBySlug(pid uuid.UUID, s string) (*models.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.byID {
		if t.PhotographerID == pid && t.Slug == s {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memTemplates) Create(t *models.EmailTemplate) (*models.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *t
	c.ID = uuid.New()
	c.Version = 1
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.byID[c.ID] = c
	return &c, nil
}

func (m *memTemplates) Update(t *models.EmailTemplate) (*models.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.byID[t.ID]
	if !ok || old.PhotographerID != t.PhotographerID {
		return nil, nil
	}
	c := *t
	c.Version = old.Version + 1
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now()
	m.byID[c.ID] = c
	return &c, nil
}

func (m *memTemplates) Delete(pid, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok || t.PhotographerID != pid {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

type memBranding struct {
	mu    sync.Mutex
	byPID map[uuid.UUID]models.Branding
}

func newMemBranding() *memBranding {
	return &memBranding{byPID: make(map[uuid.UUID]models.Branding)}
}

func (m *memBranding) FindByPhotographer(pid uuid.UUID) (*models.Branding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byPID[pid]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memBranding) Upsert(b *models.Branding) (*models.Branding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *b
	old, ok := m.byPID[b.PhotographerID]
	c.ID = old.ID
	if !ok {
		c.ID = uuid.New()
	}
	c.Version = old.Version + 1
	m.byPID[c.PhotographerID] = c
	return &c, nil
}

func (m *memBranding) SetAssetURL(pid uuid.UUID, kind store.AssetKind, url string) (*models.Branding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.byPID[pid]
	b.PhotographerID = pid
	if kind == store.AssetLogo {
		b.LogoURL = url
	} else {
		b.HeadshotURL = url
	}
	b.Version++
	m.byPID[pid] = b
	return &b, nil
}

// memDrafts round-trips drafts through JSON and checks revisions like the
// Valkey store does. afterGet, when set, runs after every successful Get.
type memDrafts struct {
	mu       sync.Mutex
	seq      int
	data     map[string][]byte
	afterGet func(id string)
}

func newMemDrafts() *memDrafts {
	return &memDrafts{data: make(map[string][]byte)}
}

func (m *memDrafts) Create(_ context.Context, d *session.Draft) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	d.ID = fmt.Sprintf("draft%d", m.seq)
	d.Revision = 1
	raw, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	m.data[d.ID] = raw
	return d.ID, nil
}

func (m *memDrafts) Get(_ context.Context, pid uuid.UUID, id string) (*session.Draft, error) {
	m.mu.Lock()
	d, err := m.load(id)
	m.mu.Unlock()
	if err != nil || d == nil || d.PhotographerID != pid {
		return nil, err
	}
	if m.afterGet != nil {
		m.afterGet(id)
	}
	return d, nil
}

func (m *memDrafts) load(id string) (*session.Draft, error) {
	raw, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	var d session.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *memDrafts) Update(_ context.Context, d *session.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.load(d.ID)
	if err != nil {
		return err
	}
	if stored == nil || stored.Revision != d.Revision {
		return session.ErrConflict
	}
	next := *d
	next.Revision++
	raw, err := json.Marshal(&next)
	if err != nil {
		return err
	}
	m.data[d.ID] = raw
	d.Revision = next.Revision
	return nil
}

func (m *memDrafts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type memSent struct {
	mu      sync.Mutex
	records []models.SentEmail
}

func (m *memSent) Create(e *models.SentEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.New()
	e.SentAt = time.Now()
	m.records = append([]models.SentEmail{*e}, m.records...)
	return nil
}

func (m *memSent) ListByPhotographer(pid uuid.UUID, limit int) ([]models.SentEmail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SentEmail
	for _, e := range m.records {
		if e.PhotographerID == pid && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

type memRenderCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemRenderCache() *memRenderCache {
	return &memRenderCache{data: make(map[string][]byte)}
}

func (m *memRenderCache) Get(_ context.Context, k cache.RenderKey) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[k.String()]
	return v, ok
}

func (m *memRenderCache) Set(_ context.Context, k cache.RenderKey, html []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[k.String()] = html
}

func (m *memRenderCache) InvalidateTemplate(_ context.Context, pid, tid uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if bytes.HasPrefix([]byte(k), []byte(fmt.Sprintf("render:%s:%s:", pid, tid))) {
			delete(m.data, k)
			n++
		}
	}
	return n
}

func (m *memRenderCache) InvalidateAll(context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.data)
	m.data = make(map[string][]byte)
	return n
}

type memAssets struct {
	mu      sync.Mutex
	puts    []string
	deleted []string
}

func (m *memAssets) PutAsset(_ context.Context, pid uuid.UUID, kind, contentType string, body io.Reader, size int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if contentType != "image/png" && contentType != "image/svg+xml" {
		return "", fmt.Errorf("put: %w", storage.ErrUnsupportedType)
	}
	url := fmt.Sprintf("https://cdn.test/branding/%s/%s-%d", pid, kind, len(m.puts))
	m.puts = append(m.puts, url)
	return url, nil
}

func (m *memAssets) DeleteURL(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	return nil
}

type memPublisher struct {
	mu        sync.Mutex
	published []uuid.UUID
	err       error
}

func (m *memPublisher) Publish(_ context.Context, pid uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, pid)
	return nil
}

type memCacheLog struct {
	mu      sync.Mutex
	entries []string
}

func (m *memCacheLog) Log(entityType string, id uuid.UUID, action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entityType+":"+action)
}

// captureSender records sent emails.
type captureSender struct {
	mu   sync.Mutex
	sent []mailer.SendEmailParams
	err  error
}

func (c *captureSender) SendEmail(_ context.Context, p mailer.SendEmailParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, p)
	return nil
}

// testEnv holds the API and its in-memory collaborators.
type testEnv struct {
	API          *API
	Router       chi.Router
	Photographer uuid.UUID
	Templates    *memTemplates
	Branding     *memBranding
	Drafts       *memDrafts
	Sent         *memSent
	RenderCache  *memRenderCache
	Assets       *memAssets
	Events       *memPublisher
	CacheLog     *memCacheLog
	Sender       *captureSender
	Engine       *engine.Engine
}

// newTestEnv creates an API over in-memory collaborators and mounts its
// handlers on a chi router with the production paths.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		Photographer: uuid.New(),
		Templates:    newMemTemplates(),
		Branding:     newMemBranding(),
		Drafts:       newMemDrafts(),
		Sent:         &memSent{},
		RenderCache:  newMemRenderCache(),
		Assets:       &memAssets{},
		Events:       &memPublisher{},
		CacheLog:     &memCacheLog{},
		Sender:       &captureSender{},
		Engine:       engine.New(),
	}

	svc := mailer.NewService(env.Sender, env.Engine, env.Templates, env.Branding, env.Sent)
	env.API = NewAPI(Deps{
		Templates:   env.Templates,
		Branding:    env.Branding,
		Sent:        env.Sent,
		Drafts:      env.Drafts,
		Engine:      env.Engine,
		Mailer:      svc,
		RenderCache: env.RenderCache,
		Assets:      env.Assets,
		Events:      env.Events,
		CacheLog:    env.CacheLog,
	})
	env.Router = mountAPI(env.API)
	return env
}

// mountAPI mirrors the production route table for handler tests.
func mountAPI(a *API) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/variables", Variables)
	r.Delete("/api/cache", a.FlushCache)
	r.Route("/api/photographers/{photographerID}", func(r chi.Router) {
		r.Get("/branding", a.GetBranding)
		r.Put("/branding", a.PutBranding)
		r.Post("/branding/assets/{kind}", a.UploadAsset)
		r.Get("/templates", a.ListTemplates)
		r.Post("/templates", a.CreateTemplate)
		r.Post("/templates/preview", a.PreviewDocument)
		r.Get("/templates/{id}", a.GetTemplate)
		r.Put("/templates/{id}", a.UpdateTemplate)
		r.Delete("/templates/{id}", a.DeleteTemplate)
		r.Get("/templates/{id}/render", a.RenderTemplate)
		r.Post("/templates/{id}/send", a.SendTemplate)
		r.Get("/sent", a.ListSent)
		r.Post("/drafts", a.CreateDraft)
		r.Get("/drafts/{draftID}", a.GetDraft)
		r.Delete("/drafts/{draftID}", a.DeleteDraft)
		r.Post("/drafts/{draftID}/blocks", a.AddBlock)
		r.Put("/drafts/{draftID}/blocks/order", a.ReorderBlocks)
		r.Put("/drafts/{draftID}/blocks/{blockID}", a.UpdateBlock)
		r.Delete("/drafts/{draftID}/blocks/{blockID}", a.DeleteBlock)
		r.Post("/drafts/{draftID}/blocks/{blockID}/variables", a.InsertVariable)
		r.Put("/drafts/{draftID}/settings", a.UpdateSettings)
		r.Get("/drafts/{draftID}/preview", a.PreviewDraft)
		r.Post("/drafts/{draftID}/save", a.SaveDraft)
	})
	return r
}

// do sends a request to the env's router. body is JSON-encoded unless it
// is nil or already an io.Reader.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		rdr = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// path prefixes p with the env photographer's API root.
func (e *testEnv) path(p string) string {
	return "/api/photographers/" + e.Photographer.String() + p
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- integration infrastructure ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "shutterflow")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "shutterflow")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"draft:*", "render:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})
	return client
}
