package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cobbinma/portfolio/internal/auth"
	"github.com/cobbinma/portfolio/internal/catalog"
	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/server"
	"github.com/cobbinma/portfolio/internal/service"
)

// fakeService records the preview flag of the last call.
type fakeService struct {
	lastPreview bool
	panicOnHome bool
}

func (f *fakeService) HomePage(_ context.Context, preview bool) (*model.HomePage, error) {
	if f.panicOnHome {
		panic("boom")
	}
	f.lastPreview = preview
	name := "Matt"
	return &model.HomePage{FirstName: &name, Socials: []model.Social{}}, nil
}

func (f *fakeService) ProjectsPage(_ context.Context, preview bool) (*model.ProjectsPage, error) {
	f.lastPreview = preview
	return &model.ProjectsPage{Projects: []model.Project{}, Technologies: []model.Technology{}}, nil
}

func (f *fakeService) Projects(_ context.Context, q service.ProjectsQuery) (*catalog.Page, error) {
	f.lastPreview = q.Preview
	p := catalog.View(model.ProjectsPage{Projects: make([]model.Project, 7)}, nil, q.Page)
	return &p, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const secret = "open-sesame"

func previewDeps(t *testing.T, svc *fakeService) server.Deps {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("server-test-signing-key", time.Hour)
	require.NoError(t, err)
	return server.Deps{
		Portfolio: svc,
		Tokens:    tokens,
		Secrets:   auth.NewSecretVerifier(string(hash)),
	}
}

func TestRoutes(t *testing.T) {
	srv := server.New(server.Config{}, server.Deps{Portfolio: &fakeService{}}, discardLogger())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/home", http.StatusOK},
		{http.MethodGet, "/api/projects-page", http.StatusOK},
		{http.MethodGet, "/api/projects?page=2", http.StatusOK},
		{http.MethodGet, "/api/projects?page=two", http.StatusBadRequest},
		// A page far past the end is empty, not a recovered panic.
		{http.MethodGet, "/api/projects?page=4611686018427387905", http.StatusOK},
		{http.MethodPost, "/api/home", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
		// Preview is not configured, so its routes do not exist.
		{http.MethodGet, "/api/preview?secret=" + secret, http.StatusNotFound},
		{http.MethodPost, "/api/preview/exit", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestPreviewFlow(t *testing.T) {
	svc := &fakeService{}
	srv := server.New(server.Config{}, previewDeps(t, svc), discardLogger())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := ts.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	resp, err := client.Get(ts.URL + "/api/preview?secret=" + secret + "&redirect=/api/home")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.PreviewCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/home", nil)
	req.AddCookie(cookie)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, svc.lastPreview, "valid cookie should select preview content")

	resp, err = client.Get(ts.URL + "/api/projects")
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, svc.lastPreview, "no cookie reads published content")
}

func TestPreview_BadCookieIsIgnored(t *testing.T) {
	svc := &fakeService{}
	srv := server.New(server.Config{}, previewDeps(t, svc), discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/home", nil)
	req.AddCookie(&http.Cookie{Name: auth.PreviewCookie, Value: "not-a-jwt"})
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, svc.lastPreview)
}

func TestRecoverer(t *testing.T) {
	srv := server.New(server.Config{}, server.Deps{Portfolio: &fakeService{panicOnHome: true}}, discardLogger())

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/home", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestStart_ShutsDownAndClosesSources(t *testing.T) {
	closed := make(chan struct{})
	deps := server.Deps{
		Portfolio: &fakeService{},
		Close: func() error {
			close(closed)
			return errors.New("close errors are logged, not returned")
		},
	}
	srv := server.New(server.Config{Port: 0}, deps, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	select {
	case <-closed:
	default:
		t.Error("content sources were not closed")
	}
}
