package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/bitjr/site/internal/db"
	"github.com/bitjr/site/internal/service"
	"github.com/bitjr/site/internal/store"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

type stubHTMLRender struct {
	last *stubHTMLInstance
}

type stubHTMLInstance struct {
	name string
	data interface{}
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.last = &stubHTMLInstance{name: name, data: data}
	return r.last
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func setupHandlerTest(t *testing.T) (*API, *store.JSONStore, *gin.Engine, *stubHTMLRender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docs, err := store.NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	api := NewAPI(docs, Options{UploadDir: t.TempDir(), Site: SiteInfo{Title: "Test Site"}})

	stub := &stubHTMLRender{}
	r := gin.New()
	r.HTMLRender = stub
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	return api, docs, r, stub
}

func TestShowHomeLimitsPostsAndEvents(t *testing.T) {
	api, docs, r, stub := setupHandlerTest(t)
	ctx := context.Background()

	posts := map[string]db.Post{}
	for i := 1; i <= 5; i++ {
		slug := fmt.Sprintf("post-%d", i)
		posts[slug] = db.Post{Title: slug, Date: fmt.Sprintf("2024-01-0%d", i)}
	}
	posts["hidden"] = db.Post{Title: "hidden", Date: "2030-01-01", Status: db.PostStatusDraft}
	if err := docs.Save(ctx, "posts", posts); err != nil {
		t.Fatalf("seed posts: %v", err)
	}
	events := make([]db.Event, 0, 6)
	for i := 1; i <= 6; i++ {
		events = append(events, db.Event{ID: fmt.Sprintf("ev-%d", i), Title: "event", Summary: "**bold**"})
	}
	if err := docs.Save(ctx, "events", events); err != nil {
		t.Fatalf("seed events: %v", err)
	}

	r.GET("/", api.ShowHome)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if stub.last == nil || stub.last.name != "home.html" {
		t.Fatalf("expected home.html to render, got %+v", stub.last)
	}
	data := stub.last.data.(gin.H)
	gotPosts := data["posts"].([]db.Post)
	if len(gotPosts) != homePostLimit || gotPosts[0].Slug != "post-5" {
		t.Fatalf("expected newest %d published posts, got %+v", homePostLimit, gotPosts)
	}
	gotEvents := data["events"].([]eventView)
	if len(gotEvents) != homeEventLimit {
		t.Fatalf("expected %d events, got %d", homeEventLimit, len(gotEvents))
	}
	if !strings.Contains(string(gotEvents[0].SummaryHTML), "<strong>bold</strong>") {
		t.Fatalf("expected rendered summary, got %q", gotEvents[0].SummaryHTML)
	}
	site := data["site"].(gin.H)
	if site["title"] != "Test Site" {
		t.Fatalf("expected site info injected, got %+v", site)
	}
}

func TestShowHomeServesAdminOnAdminHost(t *testing.T) {
	api, _, r, stub := setupHandlerTest(t)
	r.GET("/", api.ShowHome)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "admin.example.org"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if stub.last == nil || stub.last.name != "admin_index.html" {
		t.Fatalf("expected admin index on admin host, got %+v", stub.last)
	}
	if stub.last.data.(gin.H)["isAdminSubdomain"] != true {
		t.Fatalf("expected isAdminSubdomain flag")
	}
}

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: fmt.Errorf("%w: title: cannot be blank", service.ErrValidation), want: http.StatusBadRequest},
		{name: "post not found", err: service.ErrPostNotFound, want: http.StatusNotFound},
		{name: "event not found", err: fmt.Errorf("update: %w", service.ErrEventNotFound), want: http.StatusNotFound},
		{name: "other", err: errors.New("disk full"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)

			respondServiceError(c, tt.err, "missing")
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Fatalf("expected error body, got %s", w.Body.String())
			}
		})
	}
}

func TestFormFieldsKeepsRepeatedValues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=Ada&topic=a&topic=b"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	fields := formFields(c)
	if fields["name"] != "Ada" {
		t.Fatalf("expected single value as string, got %#v", fields["name"])
	}
	topics, ok := fields["topic"].([]string)
	if !ok || len(topics) != 2 || topics[1] != "b" {
		t.Fatalf("expected repeated values as list, got %#v", fields["topic"])
	}
}

func TestUploadContentImageRejectsNonImages(t *testing.T) {
	api, _, r, _ := setupHandlerTest(t)
	r.POST("/upload", api.UploadContentImage)

	tests := []struct {
		name        string
		contentType string
		data        []byte
	}{
		{name: "declared text", contentType: "text/plain", data: []byte("hello")},
		{name: "fake png", contentType: "image/png", data: []byte("not really a png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			header := textproto.MIMEHeader{}
			header.Set("Content-Disposition", `form-data; name="contentImage"; filename="x.png"`)
			header.Set("Content-Type", tt.contentType)
			part, err := writer.CreatePart(header)
			if err != nil {
				t.Fatalf("create part: %v", err)
			}
			part.Write(tt.data)
			writer.Close()

			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}

	entries, err := os.ReadDir(api.uploadDir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected nothing written to the upload dir, found %d entries", len(entries))
	}
}

func TestUploadContentImageRequiresFile(t *testing.T) {
	api, _, r, _ := setupHandlerTest(t)
	r.POST("/upload", api.UploadContentImage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a file, got %d", w.Code)
	}
}

func TestRestartServerWithoutShutdown(t *testing.T) {
	api, _, r, _ := setupHandlerTest(t)
	r.POST("/restart", api.RestartServer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/restart", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when no shutdown hook is set, got %d", w.Code)
	}
}

func TestHealthCheckReportsStoreFailure(t *testing.T) {
	api, docs, r, _ := setupHandlerTest(t)
	r.GET("/healthz", api.HealthCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if err := os.RemoveAll(docs.Dir()); err != nil {
		t.Fatalf("remove data dir: %v", err)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 once the store is gone, got %d", w.Code)
	}
}

func TestQRDataURL(t *testing.T) {
	got := string(qrDataURL("lightning:donate@example.org"))
	if !strings.HasPrefix(got, "data:image/png;base64,") || len(got) < 100 {
		t.Fatalf("unexpected data url %q", got)
	}
}
