package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"pigment_catalog/internal/config"
	"pigment_catalog/internal/domain"
	"pigment_catalog/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestApp builds the real router against an in-memory sqlite database
// and an in-process Redis, so tests drive the same middleware chains and
// handlers the server runs.
func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A :memory: sqlite database exists per connection; one connection
	// keeps every query on the same database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Pigment{}, &domain.SavedPigment{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		UploadDir:       t.TempDir(),
		SessionTTLHours: 1,
	}
	return NewRouter(db, rdb, cfg), db, cfg
}

// doGet performs a GET with optional session cookies
func doGet(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doPostForm performs a urlencoded form POST with optional session cookies
func doPostForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doPostMultipart performs a multipart form POST with optional file parts
func doPostMultipart(t *testing.T, r *gin.Engine, path string, fields map[string]string, files map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, filename := range files {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("png bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// sessionCookie pulls the session cookie out of a response
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == utils.SessionCookieName {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// registerUser registers a user over HTTP and returns its session cookie
func registerUser(t *testing.T, r *gin.Engine, username, email, password string) *http.Cookie {
	t.Helper()
	w := doPostForm(r, "/register", url.Values{
		"username":   {username},
		"email":      {email},
		"first_name": {"Test"},
		"last_name":  {"User"},
		"password":   {password},
		"confirm":    {password},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

// createAdmin provisions an admin directly in the database and logs it in
// over HTTP, returning the session cookie
func createAdmin(t *testing.T, r *gin.Engine, db *gorm.DB, username, password string) *http.Cookie {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	admin := domain.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Admin",
		LastName:     "User",
		PasswordHash: hash,
		IsAdmin:      true,
	}
	require.NoError(t, db.Create(&admin).Error)

	w := doPostForm(r, "/login", url.Values{"login": {username}, "password": {password}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

// seedPigment inserts a pigment row directly
func seedPigment(t *testing.T, db *gorm.DB, name string, position int) domain.Pigment {
	t.Helper()
	p := domain.Pigment{Name: name, Position: position}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// decodeBody unmarshals a JSON response body into dest
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}
