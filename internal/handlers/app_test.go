package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/staybnb/webserver/config"
	"github.com/staybnb/webserver/internal/auth"
	"github.com/staybnb/webserver/internal/logger"
	"github.com/staybnb/webserver/internal/services"
	"github.com/staybnb/webserver/internal/storage"
	"github.com/staybnb/webserver/internal/store"
	"github.com/staybnb/webserver/internal/uploads"
	"github.com/staybnb/webserver/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testMaxUpload = 1 << 20

type memUsers struct {
	mu    sync.Mutex
	users []types.User
}

func (m *memUsers) GetByID(_ context.Context, id int) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	user.ID = len(m.users) + 1
	user.CreatedAt = time.Now()
	m.users = append(m.users, user)
	return user, nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type memProperties struct {
	mu         sync.Mutex
	users      *memUsers
	properties []types.Property
}

func (m *memProperties) Create(ctx context.Context, p types.Property) (types.Property, error) {
	if _, err := m.users.GetByID(ctx, p.HostID); err != nil {
		return types.Property{}, store.ErrForeignKeyViolation
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = len(m.properties) + 1
	p.CreatedAt = time.Now()
	m.properties = append(m.properties, p)
	return p, nil
}

func (m *memProperties) ListByHost(_ context.Context, hostID int) ([]types.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.Property{}
	for _, p := range m.properties {
		if p.HostID == hostID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProperties) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.properties)
}

type testApp struct {
	server     *httptest.Server
	users      *memUsers
	properties *memProperties
	sessions   *auth.SessionManager
	uploadDir  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := &memUsers{}
	properties := &memProperties{users: users}
	uploadDir := t.TempDir()

	local, err := storage.NewLocalClient(uploadDir)
	require.NoError(t, err)
	objects := storage.NewStorage(local)

	sessions := auth.NewSessionManager(config.SessionConfig{Secret: "test-secret", TTL: time.Hour})
	views := MustRenderer()

	userService := services.NewUserService(users, auth.NewPasswordHasherWithCost(bcrypt.MinCost))
	propertyService := services.NewPropertyService(properties, uploads.NewUploader(objects, testMaxUpload))

	r := chi.NewRouter()
	r.Use(RequestLogger(logger.Nop()))
	r.Get("/", Home(views, sessions))
	r.Get("/healthz", Healthz)
	AuthRouter(r, userService, sessions, views)
	PropertyRouter(r, NewPropertyHandler(propertyService, userService, sessions, objects, views, testMaxUpload))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testApp{
		server:     srv,
		users:      users,
		properties: properties,
		sessions:   sessions,
		uploadDir:  uploadDir,
	}
}

// client returns a browser-like client with its own cookie jar that does
// not follow redirects.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type response struct {
	status   int
	location string
	header   http.Header
	body     string
}

func do(t *testing.T, c *http.Client, req *http.Request) response {
	t.Helper()
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		header:   resp.Header,
		body:     string(body),
	}
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(t, err)
	return do(t, c, req)
}

func (a *testApp) postForm(t *testing.T, c *http.Client, path string, values url.Values) response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, c, req)
}

type upload struct {
	filename string
	content  []byte
}

func (a *testApp) postMultipart(t *testing.T, c *http.Client, path string, values url.Values, file *upload) response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile(formFieldImage, file.filename)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return do(t, c, req)
}

func registrationValues(email, first, last string) url.Values {
	return url.Values{
		"email_address": {email},
		"first_name":    {first},
		"last_name":     {last},
		"password":      {"correct-horse"},
		"house_number":  {"221B"},
		"street_name":   {"Baker Street"},
		"country":       {"UK"},
		"post_code":     {"NW16XE"},
	}
}

func loginValues(email, password string) url.Values {
	return url.Values{"email_address": {email}, "password": {password}}
}

func listingValues(title, price string) url.Values {
	return url.Values{
		"title":           {title},
		"description":     {"A lovely place."},
		"location":        {"Edinburgh"},
		"price_per_night": {price},
	}
}

// signIn registers email and logs the client in.
func (a *testApp) signIn(t *testing.T, c *http.Client, email, first, last string) {
	t.Helper()
	resp := a.postForm(t, c, "/register", registrationValues(email, first, last))
	require.Equal(t, http.StatusSeeOther, resp.status, resp.body)
	resp = a.postForm(t, c, "/login", loginValues(email, "correct-horse"))
	require.Equal(t, http.StatusOK, resp.status, resp.body)
}
