package api

import (
	"bitwise74/resource-api/db"
	"bitwise74/resource-api/security"
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.Memory()
	require.NoError(t, err)

	hasher := security.NewArgon2id()
	hasher.Memory = 1024
	hasher.Iterations = 1

	return New(conn, nil, Config{
		JWTSecret:     "test-secret",
		JWTTTL:        time.Hour,
		MaxUploadSize: 1 << 10,
		Hasher:        hasher,
	})
}

// do sends body as JSON (or raw when it's a *bytes.Buffer) and decodes the
// response into a map when there is one
func do(t *testing.T, a *API, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}

	return w, out
}

func register(t *testing.T, a *API, email string) string {
	t.Helper()

	w, body := do(t, a, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "secret1",
		"name":     "Tester",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, "Bearer", body["token_type"])

	return body["access_token"].(string)
}

func TestHeartbeat(t *testing.T) {
	a := newTestAPI(t)

	w, _ := do(t, a, http.MethodHead, "/api/heartbeat", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRegisterLoginAndProfile(t *testing.T) {
	a := newTestAPI(t)
	register(t, a, "jane@example.com")

	w, body := do(t, a, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "jane@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token := body["access_token"].(string)
	assert.NotEmpty(t, body["expires_at"])

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	w, body = do(t, a, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "Tester", body["name"])
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "password_hash")

	w, body = do(t, a, http.MethodPatch, "/api/users/me", token, gin.H{"name": "Jane"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane", body["name"])

	w, _ = do(t, a, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "jane@example.com",
		"password": "secret1",
		"username": "Other",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCookieAuthentication(t *testing.T) {
	a := newTestAPI(t)
	token := register(t, a, "jane@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginErrorsLookTheSame(t *testing.T) {
	a := newTestAPI(t)
	register(t, a, "jane@example.com")

	w1, unknown := do(t, a, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "secret1",
	})
	w2, wrong := do(t, a, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, w1.Code, w2.Code)

	delete(unknown, "requestID")
	delete(wrong, "requestID")
	assert.Equal(t, unknown, wrong)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)

	for _, path := range []string{"/api/resources", "/api/categories", "/api/tags", "/api/auth/me", "/api/resource-types"} {
		w, body := do(t, a, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.EqualValues(t, http.StatusUnauthorized, body["statusCode"], path)
		assert.NotEmpty(t, body["requestID"], path)
	}

	w, _ := do(t, a, http.MethodGet, "/api/resources", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidationErrorShape(t *testing.T) {
	a := newTestAPI(t)
	token := register(t, a, "jane@example.com")

	w, body := do(t, a, http.MethodPost, "/api/resources", token, gin.H{
		"type":    "note",
		"content": gin.H{"content": "hello"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation Error", body["error"])
	assert.Equal(t, "Validation Error", body["message"])

	fields := body["errors"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "title", fields[0].(map[string]any)["field"])

	w, body = do(t, a, http.MethodGet, "/api/resources?limit=500&sortOrder=up", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var names []string
	for _, f := range body["errors"].([]any) {
		names = append(names, f.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"limit", "sortOrder"}, names)

	w, _ = do(t, a, http.MethodGet, "/api/resources?isFavorite=yes", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResourceLifecycle(t *testing.T) {
	a := newTestAPI(t)
	token := register(t, a, "jane@example.com")

	w, category := do(t, a, http.MethodPost, "/api/categories", token, gin.H{"name": "Reading", "color": "#aabbcc"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, tag := do(t, a, http.MethodPost, "/api/tags", token, gin.H{"name": "  Go "})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "go", tag["name"])

	w, res := do(t, a, http.MethodPost, "/api/resources", token, gin.H{
		"title":      "Effective Go",
		"type":       "link",
		"content":    gin.H{"url": "https://go.dev/doc/effective_go"},
		"categoryId": category["id"],
		"tagIds":     []any{tag["id"], tag["id"]},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Reading", res["category"].(map[string]any)["name"])
	assert.Len(t, res["tags"], 1)
	assert.Equal(t, false, res["isFavorite"])

	id := res["id"].(string)

	w, fav := do(t, a, http.MethodPatch, "/api/resources/"+id+"/favorite", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, fav["isFavorite"])

	w, res = do(t, a, http.MethodPut, "/api/resources/"+id, token, gin.H{"categoryId": nil, "tagIds": []string{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, res["category"])
	assert.Empty(t, res["tags"])
	assert.Equal(t, true, res["isFavorite"])

	w, categories := do(t, a, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, categories["data"].([]any)[0].(map[string]any)["resourceCount"])

	w, _ = do(t, a, http.MethodDelete, "/api/resources/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, a, http.MethodGet, "/api/resources/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOtherUsersResourcesAreNotFound(t *testing.T) {
	a := newTestAPI(t)
	alice := register(t, a, "alice@example.com")
	bob := register(t, a, "bob@example.com")

	w, res := do(t, a, http.MethodPost, "/api/resources", alice, gin.H{
		"title":   "Private",
		"type":    "note",
		"content": gin.H{"content": "secret"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	id := res["id"].(string)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w, body := do(t, a, method, "/api/resources/"+id, bob, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
		assert.Equal(t, "Not Found", body["error"], method)
	}

	w, _ = do(t, a, http.MethodPatch, "/api/resources/"+id+"/favorite", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, page := do(t, a, http.MethodGet, "/api/resources", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, page["data"])
}

func TestResourceListPagination(t *testing.T) {
	a := newTestAPI(t)
	token := register(t, a, "jane@example.com")

	for i := range 5 {
		w, _ := do(t, a, http.MethodPost, "/api/resources", token, gin.H{
			"title":   fmt.Sprintf("note %d", i),
			"type":    "note",
			"content": gin.H{"content": "x"},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, page := do(t, a, http.MethodGet, "/api/resources?page=3&limit=2&sortBy=title&sortOrder=asc", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := page["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "note 4", data[0].(map[string]any)["title"])

	pagination := page["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pagination["page"])
	assert.EqualValues(t, 2, pagination["limit"])
	assert.EqualValues(t, 5, pagination["total"])
	assert.EqualValues(t, 3, pagination["totalPages"])
}

func TestResourceTypes(t *testing.T) {
	a := newTestAPI(t)
	token := register(t, a, "jane@example.com")

	w, body := do(t, a, http.MethodGet, "/api/resource-types", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 5)

	// Served from the cache the second time
	w, again := do(t, a, http.MethodGet, "/api/resource-types", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, again)
}

func upload(t *testing.T, a *API, token, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

func TestFileUploadAndDownload(t *testing.T) {
	a := newTestAPI(t)
	token := register(t, a, "jane@example.com")

	w := upload(t, a, token, "notes.txt", []byte("hello world"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var meta map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, "notes.txt", meta["filename"])
	assert.EqualValues(t, 11, meta["size"])
	assert.Equal(t, "/api/files/"+meta["id"].(string), meta["url"])

	w = upload(t, a, token, "copy.txt", []byte("hello world"))
	require.Equal(t, http.StatusCreated, w.Code)

	var dup map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dup))
	assert.Equal(t, meta["id"], dup["id"])

	w, _ = do(t, a, http.MethodGet, "/api/files/"+meta["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello world", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename=notes.txt`)

	w, _ = do(t, a, http.MethodDelete, "/api/files/"+meta["id"].(string), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, a, http.MethodGet, "/api/files/"+meta["id"].(string)+"/meta", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileUploadLimits(t *testing.T) {
	a := newTestAPI(t)
	token := register(t, a, "jane@example.com")

	w := upload(t, a, token, "big.bin", bytes.Repeat([]byte{1}, 2<<10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = upload(t, a, token, "empty.txt", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, a, http.MethodPost, "/api/files", token, gin.H{"file": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
