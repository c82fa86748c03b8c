package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func (a *testApp) storeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := a.store.Save(context.Background(), name, strings.NewReader(content)); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
}

func TestResumeDownloadRequiresAdmin(t *testing.T) {
	app := newTestApp(t)
	const name = "cv_1_20240101120000_curriculo.pdf"
	app.storeFile(t, name, "%PDF-1.4 conteúdo")

	rec := app.get("/uploads/" + name)
	assertRedirect(t, rec, "/login?next=%2Fuploads%2F"+name)

	session := app.login(t)
	rec = app.get("/uploads/"+name, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "%PDF-1.4 conteúdo" {
		t.Errorf("body = %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") || !strings.Contains(cd, name) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q", cc)
	}

	rec = app.get("/uploads/view/"+name, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") {
		t.Errorf("view Content-Disposition = %q", cd)
	}
}

func TestPublicImagesAreServed(t *testing.T) {
	app := newTestApp(t)
	const name = "especialista_20240101120000_foto.png"
	app.storeFile(t, name, "png")

	rec := app.get("/uploads/view/" + name)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.HasPrefix(cc, "public") {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestUploadNotFound(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{
		"/uploads/post_20240101120000_sumiu.png",
		"/uploads/view/.env",
		"/uploads/..%2Fsegredo.txt",
	} {
		if rec := app.get(path); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, rec.Code)
		}
	}
}
