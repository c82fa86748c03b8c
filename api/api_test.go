package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/config"
	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"github.com/Kirah-Dev/honoriel-solucoes-site/services"
	"github.com/Kirah-Dev/honoriel-solucoes-site/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "senha-muito-segura"
	testRecipient     = "contato@honoriel.test"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:api_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type recordingMailer struct {
	sent []services.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg services.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testApp struct {
	router http.Handler
	gormDB *gorm.DB
	db     database.Database
	store  *storage.MemoryStore
	mailer *recordingMailer
}

func newTestApp(t *testing.T, opts ...func(*config.Settings)) *testApp {
	t.Helper()
	gormDB := setupTestDB(t)
	app := &testApp{
		gormDB: gormDB,
		db:     database.New(gormDB),
		store:  storage.NewMemoryStore(),
		mailer: &recordingMailer{},
	}

	settings := config.Settings{
		Port:           "0",
		Environment:    "development",
		SessionSecret:  "test-secret",
		SessionTTL:     time.Hour,
		UploadMaxBytes: 5 << 20,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	router, err := newRouter(Dependencies{
		Database: app.db,
		Store:    app.store,
		Notifier: services.NewNotifier(app.mailer, testRecipient),
		Settings: settings,
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	app.router = router
	return app
}

func (a *testApp) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (a *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, cookies...)
}

// login creates the admin account on first use and returns its session cookie.
func (a *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	if user, _ := a.db.UserRepo().FindByUsername(testAdminUser); user == nil {
		if _, err := services.NewAccountService(a.db).CreateAdmin(context.Background(), testAdminUser, testAdminPassword); err != nil {
			t.Fatalf("create admin: %v", err)
		}
	}

	rec := a.postForm("/login", url.Values{"username": {testAdminUser}, "password": {testAdminPassword}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d", rec.Code)
	}
	session := findCookie(rec, sessionCookieName)
	if session == nil || session.Value == "" {
		t.Fatal("login did not set a session cookie")
	}
	return session
}

// failUpdates makes every UPDATE on table abort.
func (a *testApp) failUpdates(t *testing.T, table string) {
	t.Helper()
	stmt := "CREATE TRIGGER fail_" + table + "_update BEFORE UPDATE ON " + table + " BEGIN SELECT RAISE(ABORT, 'update blocked'); END"
	if err := a.gormDB.Exec(stmt).Error; err != nil {
		t.Fatalf("create trigger: %v", err)
	}
}

type fileField struct {
	field, filename string
	content         []byte
}

func multipartRequest(t *testing.T, path string, fields url.Values, files ...fileField) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		part.Write(f.content)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// flashesOf decodes the flash messages a response left for the next page.
func flashesOf(rec *httptest.ResponseRecorder) []flashMessage {
	c := findCookie(rec, flashCookieName)
	if c == nil {
		return nil
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	return popFlashes(httptest.NewRecorder(), req)
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func assertFlash(t *testing.T, rec *httptest.ResponseRecorder, category, message string) {
	t.Helper()
	flashes := flashesOf(rec)
	if len(flashes) != 1 {
		t.Fatalf("flashes = %+v, want one", flashes)
	}
	if flashes[0].Category != category || flashes[0].Message != message {
		t.Fatalf("flash = %+v, want %s %q", flashes[0], category, message)
	}
}

func TestPublicPagesRender(t *testing.T) {
	app := newTestApp(t)

	pages := []string{
		"/", "/empresas", "/candidatos", "/servicos", "/sobre", "/blog", "/contato",
		"/politica-de-privacidade", "/termos-de-uso", "/termo-dos-parceiros", "/codigo-de-etica",
		"/login", "/cadastro-curriculo/",
	}
	for _, path := range pages {
		t.Run(path, func(t *testing.T) {
			rec := app.get(path)
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s = %d; body: %s", path, rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestBlogListToleratesHugePage(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/blog?page=9223372036854775807")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/nao-existe")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "não existe") {
		t.Error("404 page body missing message")
	}
}

func TestSubmissionPathWithoutSlashRedirects(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/cadastro-curriculo")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != submissionPath {
		t.Fatalf("status = %d Location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestStaticAssetsAreServed(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/static/js/main.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "setupRepeatedGroup") {
		t.Error("unexpected script body")
	}
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/sobre", nil)
	req.Header.Set("X-Request-ID", "2f1b6c1e-2f4e-4a43-9a86-1f2b7a3c9d10")
	rec := app.do(req)
	if got := rec.Header().Get("X-Request-ID"); got != "2f1b6c1e-2f4e-4a43-9a86-1f2b7a3c9d10" {
		t.Errorf("X-Request-ID = %q", got)
	}

	rec = app.get("/sobre")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing generated request id")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, func(s *config.Settings) { s.MetricsEnabled = true })

	app.get("/sobre")
	rec := app.get("/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("request counter not exported")
	}
}

func TestMetricsDisabledByDefault(t *testing.T) {
	app := newTestApp(t)

	if rec := app.get("/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
