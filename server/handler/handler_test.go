package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsenselab/identity-service/auth"
	"github.com/skillsenselab/identity-service/auth/password"
	"github.com/skillsenselab/identity-service/auth/token"
	"github.com/skillsenselab/identity-service/logger"
	"github.com/skillsenselab/identity-service/post"
	"github.com/skillsenselab/identity-service/server/handler"
	"github.com/skillsenselab/identity-service/user"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewDefault("test")
	tokens, err := token.NewService(token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("token.NewService: %v", err)
	}
	hasher := password.NewBcryptHasher(password.WithCost(bcrypt.MinCost))
	authsvc := auth.NewService(user.NewMemoryStore(), hasher, tokens, log)
	posts := post.NewService(post.NewMemoryStore(), log)

	engine := gin.New()
	handler.RegisterRoutes(engine, authsvc, posts, "identity-service-test")
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, rr, &body)
	return body.Error.Message
}

func signup(t *testing.T, engine *gin.Engine, email, pw string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, engine, "POST", "/auth/signup", map[string]string{
		"email": email, "password": pw,
	}, nil)
}

func login(t *testing.T, engine *gin.Engine, email, pw string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, engine, "POST", "/auth/login", map[string]string{
		"email": email, "password": pw,
	}, nil)
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// ---------------------------------------------------------------------------
// Auth flow
// ---------------------------------------------------------------------------

func TestSignupLoginMe_Flow(t *testing.T) {
	engine := newTestEngine(t)

	rr := signup(t, engine, "User@Example.com", "secret123")
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		PasswordHash string `json:"password_hash"`
	}
	decode(t, rr, &created)
	if created.Email != "user@example.com" {
		t.Errorf("signup email = %q, want lowercased", created.Email)
	}
	if created.ID == "" {
		t.Error("signup response missing id")
	}
	if created.PasswordHash != "" {
		t.Error("signup response must not carry the password hash")
	}

	rr = login(t, engine, "user@example.com", "secret123")
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	decode(t, rr, &pair)
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("login response missing tokens")
	}
	if pair.ExpiresIn != 900 {
		t.Errorf("expires_in = %d, want 900", pair.ExpiresIn)
	}

	rr = doJSON(t, engine, "GET", "/auth/me", nil, authHeader(pair.AccessToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	decode(t, rr, &me)
	if me.ID != created.ID || me.Email != "user@example.com" {
		t.Errorf("me = %+v, want id %s", me, created.ID)
	}
}

func TestSignup_DuplicateEmailCaseInsensitive(t *testing.T) {
	engine := newTestEngine(t)

	if rr := signup(t, engine, "A@b.com", "secret123"); rr.Code != http.StatusCreated {
		t.Fatalf("first signup: expected 201, got %d", rr.Code)
	}
	rr := signup(t, engine, "a@B.com", "other-password")
	if rr.Code != http.StatusConflict {
		t.Fatalf("second signup: expected 409, got %d", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Email already exists" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestSignup_MissingFields(t *testing.T) {
	engine := newTestEngine(t)

	cases := []map[string]string{
		{},
		{"email": "a@b.com"},
		{"password": "secret123"},
	}
	for i, body := range cases {
		rr := doJSON(t, engine, "POST", "/auth/signup", body, nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, rr.Code)
		}
		if msg := errorMessage(t, rr); msg != "Email and password are required" {
			t.Errorf("case %d: unexpected message: %s", i, msg)
		}
	}
}

func TestLogin_UniformInvalidCredentials(t *testing.T) {
	engine := newTestEngine(t)
	signup(t, engine, "real@example.com", "correct-password")

	wrongPW := login(t, engine, "real@example.com", "wrong-password")
	noAccount := login(t, engine, "ghost@example.com", "whatever")

	if wrongPW.Code != http.StatusUnauthorized || noAccount.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPW.Code, noAccount.Code)
	}
	if wrongPW.Body.String() != noAccount.Body.String() {
		t.Errorf("bodies differ: %s vs %s", wrongPW.Body.String(), noAccount.Body.String())
	}
	if msg := errorMessage(t, wrongPW); msg != "Invalid credentials" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestRefresh_Flow(t *testing.T) {
	engine := newTestEngine(t)
	signup(t, engine, "r@example.com", "secret123")

	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decode(t, login(t, engine, "r@example.com", "secret123"), &pair)

	rr := doJSON(t, engine, "POST", "/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var refreshed struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	decode(t, rr, &refreshed)
	if refreshed.AccessToken == "" {
		t.Fatal("refresh response missing access token")
	}
	if refreshed.RefreshToken != "" {
		t.Error("refresh must not rotate the refresh token")
	}
	if refreshed.ExpiresIn != 900 {
		t.Errorf("expires_in = %d, want 900", refreshed.ExpiresIn)
	}

	// The refreshed access token passes the gate.
	me := doJSON(t, engine, "GET", "/auth/me", nil, authHeader(refreshed.AccessToken))
	if me.Code != http.StatusOK {
		t.Fatalf("me with refreshed token: expected 200, got %d", me.Code)
	}
}

func TestRefresh_Errors(t *testing.T) {
	engine := newTestEngine(t)

	rr := doJSON(t, engine, "POST", "/auth/refresh", map[string]string{}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing token: expected 400, got %d", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Refresh token is required" {
		t.Errorf("unexpected message: %s", msg)
	}

	rr = doJSON(t, engine, "POST", "/auth/refresh", map[string]string{
		"refresh_token": "garbage",
	}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Invalid refresh token" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestMe_NoToken(t *testing.T) {
	engine := newTestEngine(t)

	rr := doJSON(t, engine, "GET", "/auth/me", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Access token required" {
		t.Errorf("unexpected message: %s", msg)
	}
}

// ---------------------------------------------------------------------------
// Posts
// ---------------------------------------------------------------------------

func loginToken(t *testing.T, engine *gin.Engine, email string) string {
	t.Helper()
	if rr := signup(t, engine, email, "secret123"); rr.Code != http.StatusCreated {
		t.Fatalf("signup %s: got %d", email, rr.Code)
	}
	var pair struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, login(t, engine, email, "secret123"), &pair)
	return pair.AccessToken
}

func TestPosts_CRUD(t *testing.T) {
	engine := newTestEngine(t)
	tok := loginToken(t, engine, "author@example.com")

	rr := doJSON(t, engine, "POST", "/api/posts", map[string]any{
		"title":   "First post",
		"content": "Hello world",
		"tags":    []string{"go", "intro"},
	}, authHeader(tok))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID     string   `json:"id"`
		UserID string   `json:"user_id"`
		Title  string   `json:"title"`
		Tags   []string `json:"tags"`
	}
	decode(t, rr, &created)
	if created.ID == "" || created.UserID == "" {
		t.Fatalf("create response incomplete: %+v", created)
	}

	rr = doJSON(t, engine, "GET", "/api/posts/"+created.ID, nil, authHeader(tok))
	if rr.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rr.Code)
	}

	rr = doJSON(t, engine, "PUT", "/api/posts/"+created.ID, map[string]any{
		"title":   "Updated title",
		"content": "Updated content",
		"tags":    []string{"go"},
	}, authHeader(tok))
	if rr.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var updated struct {
		Title string `json:"title"`
	}
	decode(t, rr, &updated)
	if updated.Title != "Updated title" {
		t.Errorf("update title = %q", updated.Title)
	}

	rr = doJSON(t, engine, "DELETE", "/api/posts/"+created.ID, nil, authHeader(tok))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rr.Code)
	}

	rr = doJSON(t, engine, "GET", "/api/posts/"+created.ID, nil, authHeader(tok))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rr.Code)
	}
}

func TestPosts_OwnershipEnforced(t *testing.T) {
	engine := newTestEngine(t)
	ownerTok := loginToken(t, engine, "owner@example.com")
	otherTok := loginToken(t, engine, "other@example.com")

	rr := doJSON(t, engine, "POST", "/api/posts", map[string]any{
		"title": "Mine", "content": "body",
	}, authHeader(ownerTok))
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rr, &created)

	rr = doJSON(t, engine, "PUT", "/api/posts/"+created.ID, map[string]any{
		"title": "Hijacked", "content": "body",
	}, authHeader(otherTok))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("update by non-owner: expected 403, got %d", rr.Code)
	}

	rr = doJSON(t, engine, "DELETE", "/api/posts/"+created.ID, nil, authHeader(otherTok))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("delete by non-owner: expected 403, got %d", rr.Code)
	}
}

func TestPosts_ListFilters(t *testing.T) {
	engine := newTestEngine(t)
	tok := loginToken(t, engine, "lister@example.com")

	for i := 0; i < 5; i++ {
		body := map[string]any{
			"title":   fmt.Sprintf("Post %d", i),
			"content": "generic content",
		}
		if i%2 == 0 {
			body["tags"] = []string{"even"}
		}
		if rr := doJSON(t, engine, "POST", "/api/posts", body, authHeader(tok)); rr.Code != http.StatusCreated {
			t.Fatalf("create %d: got %d", i, rr.Code)
		}
	}

	var page struct {
		Posts []struct {
			Title string `json:"title"`
		} `json:"posts"`
		Total  int `json:"total"`
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}

	rr := doJSON(t, engine, "GET", "/api/posts?limit=2&offset=1", nil, authHeader(tok))
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}
	decode(t, rr, &page)
	if page.Total != 5 || len(page.Posts) != 2 {
		t.Errorf("pagination: total=%d len=%d, want 5/2", page.Total, len(page.Posts))
	}

	rr = doJSON(t, engine, "GET", "/api/posts?tags=even", nil, authHeader(tok))
	decode(t, rr, &page)
	if page.Total != 3 {
		t.Errorf("tag filter: total=%d, want 3", page.Total)
	}

	rr = doJSON(t, engine, "GET", "/api/posts?search=post+3", nil, authHeader(tok))
	decode(t, rr, &page)
	if page.Total != 1 {
		t.Errorf("search: total=%d, want 1", page.Total)
	}

	rr = doJSON(t, engine, "GET", "/api/posts?limit=abc", nil, authHeader(tok))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad limit: expected 400, got %d", rr.Code)
	}
}

func TestPosts_CreateValidation(t *testing.T) {
	engine := newTestEngine(t)
	tok := loginToken(t, engine, "strict@example.com")

	rr := doJSON(t, engine, "POST", "/api/posts", map[string]any{
		"content": "no title",
	}, authHeader(tok))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing title: expected 400, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, engine, "POST", "/api/posts", map[string]any{
		"title":   strings.Repeat("x", 201),
		"content": "body",
	}, authHeader(tok))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("long title: expected 400, got %d", rr.Code)
	}
}

func TestPosts_RequireAuth(t *testing.T) {
	engine := newTestEngine(t)

	rr := doJSON(t, engine, "GET", "/api/posts", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// Operational endpoints
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	engine := newTestEngine(t)

	rr := doJSON(t, engine, "GET", "/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	decode(t, rr, &body)
	if body.Status != "healthy" || body.Service != "identity-service-test" {
		t.Errorf("unexpected health body: %+v", body)
	}
}

func TestVersion(t *testing.T) {
	engine := newTestEngine(t)

	rr := doJSON(t, engine, "GET", "/version", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Version string `json:"version"`
	}
	decode(t, rr, &body)
	if body.Version == "" {
		t.Error("version body missing version")
	}
}
