package handlers_test

import (
	"Arquivista/internal/config"
	"Arquivista/internal/handlers"
	"Arquivista/internal/repo"
	"Arquivista/internal/service"
	"Arquivista/internal/storage"
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		AuthSecret:  "test-secret",
		AppEnv:      config.EnvDevelopment,
		UploadMaxMB: 1,
		SessionTTL:  time.Hour,
	}
}

// testApp поднимает приложение целиком: sqlite в памяти, временная папка загрузок.
type testApp struct {
	t       *testing.T
	srv     *httptest.Server
	handler *handlers.Handler
	storage *storage.Manager
	db      *gorm.DB
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWith(t, testConfig(), zap.NewNop().Sugar())
}

func newTestAppWith(t *testing.T, cfg *config.Config, logger *zap.SugaredLogger) *testApp {
	t.Helper()
	db := newTestDB(t)

	st, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)

	userService := service.NewUserService(repo.NewUserRepository(db))
	sessionService := service.NewSessionService(repo.NewSessionRepository(db), cfg.SessionTTL)
	fileService := service.NewFileService(st, repo.NewArchiveRepository(db), logger)

	h := handlers.NewHandler(userService, sessionService, fileService, logger, cfg)
	srv := httptest.NewServer(h.Router)
	t.Cleanup(srv.Close)

	return &testApp{t: t, srv: srv, handler: h, storage: st, db: db}
}

// newClient клиент со своей cookie-сессией; редиректы не выполняет,
// чтобы тесты видели 303 и Location.
func (a *testApp) newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type response struct {
	Status   int
	Location string
	Body     string
	Header   http.Header
}

func (a *testApp) do(c *http.Client, req *http.Request) response {
	a.t.Helper()
	resp, err := c.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return response{
		Status:   resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Body:     string(body),
		Header:   resp.Header,
	}
}

func (a *testApp) get(c *http.Client, path string) response {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.srv.URL+path, nil)
	require.NoError(a.t, err)
	return a.do(c, req)
}

func (a *testApp) postForm(c *http.Client, path string, form url.Values) response {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(c, req)
}

type upload struct {
	field, name, content string
}

func multipartBody(t *testing.T, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (a *testApp) upload(c *http.Client, files ...upload) response {
	a.t.Helper()
	body, contentType := multipartBody(a.t, files...)
	req, err := http.NewRequest(http.MethodPost, a.srv.URL+"/upload", body)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", contentType)
	return a.do(c, req)
}

// signUp регистрирует пользователя и входит под ним.
func (a *testApp) signUp(username, password string) *http.Client {
	a.t.Helper()
	c := a.newClient()
	creds := url.Values{"username": {username}, "password": {password}}

	res := a.postForm(c, "/register", creds)
	require.Equal(a.t, http.StatusSeeOther, res.Status)
	require.Equal(a.t, "/login", res.Location)

	res = a.postForm(c, "/login", creds)
	require.Equal(a.t, http.StatusSeeOther, res.Status)
	require.Equal(a.t, "/", res.Location)
	return c
}

func (a *testApp) authCookie(c *http.Client) *http.Cookie {
	a.t.Helper()
	u, err := url.Parse(a.srv.URL)
	require.NoError(a.t, err)
	for _, ck := range c.Jar.Cookies(u) {
		if ck.Name == "auth_token" {
			return ck
		}
	}
	return nil
}
