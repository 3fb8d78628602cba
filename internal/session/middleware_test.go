package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	failGet  bool

	saves   int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string][]byte)}
}

func (f *fakeStore) Get(_ context.Context, id string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, errors.New("store down")
	}
	data, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (f *fakeStore) Save(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.sessions[s.ID] = data
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) seed(t *testing.T, s *Session) {
	t.Helper()
	if err := f.Save(context.Background(), s); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	f.mu.Lock()
	f.saves = 0
	f.mu.Unlock()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(store Store, handler gin.HandlerFunc, gated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	mgr := NewManager(store, testCookieSecret, testLogger(), false)

	r := gin.New()
	g := r.Group("/")
	g.Use(mgr.Middleware())
	if gated {
		g.Use(RequireSession())
	}
	g.GET("/resource", handler)
	g.POST("/resource", handler)
	return r
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func get(r *gin.Engine, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const testCookieSecret = "test-cookie-secret"

func sessionCookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:  CookieName,
		Value: SignValue([]byte(testCookieSecret), sessionID),
	}
}

func TestRequireSessionPassesAuthenticated(t *testing.T) {
	store := newFakeStore()
	store.seed(t, &Session{ID: "s1", UserID: 1})

	r := newTestRouter(store, okHandler, true)

	w := get(r, sessionCookie("s1"))
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated session got %d, want 200", w.Code)
	}
}

func TestRequireSessionRejectsMissingSession(t *testing.T) {
	r := newTestRouter(newFakeStore(), okHandler, true)

	w := get(r, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no session got %d, want 401", w.Code)
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding 401 body: %v", err)
	}
	if body.Error != "Session requise" {
		t.Fatalf("error = %q, want %q", body.Error, "Session requise")
	}
}

func TestRequireSessionRejectsZeroUserID(t *testing.T) {
	store := newFakeStore()
	store.seed(t, &Session{ID: "s1", UserID: 0, Values: map[string]any{"theme": "dark"}})

	r := newTestRouter(store, okHandler, true)

	w := get(r, sessionCookie("s1"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("zero user id got %d, want 401", w.Code)
	}
}

func TestUnsignedCookieIsIgnored(t *testing.T) {
	store := newFakeStore()
	store.seed(t, &Session{ID: "s1", UserID: 1})

	r := newTestRouter(store, okHandler, true)

	// Raw session id without a valid signature must not resolve.
	w := get(r, &http.Cookie{Name: CookieName, Value: "s1"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unsigned cookie got %d, want 401", w.Code)
	}

	// Signature minted under a different secret must not resolve either.
	forged := SignValue([]byte("other-secret"), "s1")
	w = get(r, &http.Cookie{Name: CookieName, Value: forged})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("forged cookie got %d, want 401", w.Code)
	}
}

func TestStoreFailureDegradesToNoSession(t *testing.T) {
	store := newFakeStore()
	store.seed(t, &Session{ID: "s1", UserID: 1})
	store.failGet = true

	r := newTestRouter(store, okHandler, true)

	w := get(r, sessionCookie("s1"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("broken store got %d, want 401", w.Code)
	}
}

func TestLoadedSessionSlidesForward(t *testing.T) {
	store := newFakeStore()
	store.seed(t, &Session{ID: "s1", UserID: 1})

	r := newTestRouter(store, okHandler, false)

	w := get(r, sessionCookie("s1"))
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}

	if store.saves != 1 {
		t.Fatalf("loaded session saved %d times, want 1 (rolling refresh)", store.saves)
	}

	var refreshed *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			refreshed = c
		}
	}
	if refreshed == nil {
		t.Fatal("rolling refresh did not re-issue the cookie")
	}
	if refreshed.MaxAge != int(TTL.Seconds()) {
		t.Fatalf("cookie MaxAge = %d, want %d", refreshed.MaxAge, int(TTL.Seconds()))
	}
	if !refreshed.HttpOnly {
		t.Fatal("session cookie is not HttpOnly")
	}
	if refreshed.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie SameSite = %v, want Lax", refreshed.SameSite)
	}
}

func TestUninitializedSessionIsNotPersisted(t *testing.T) {
	store := newFakeStore()

	r := newTestRouter(store, okHandler, false)

	w := get(r, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if store.saves != 0 {
		t.Fatalf("untouched fresh session was saved %d times, want 0", store.saves)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			t.Fatal("untouched fresh session got a cookie")
		}
	}
}

func TestWrittenSessionIsPersisted(t *testing.T) {
	store := newFakeStore()

	r := newTestRouter(store, func(c *gin.Context) {
		FromContext(c).SetUserID(42)
		c.JSON(http.StatusOK, gin.H{})
	}, false)

	w := get(r, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if store.saves != 1 {
		t.Fatalf("written session saved %d times, want 1", store.saves)
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("written session got no cookie")
	}

	id, ok := ParseSignedValue([]byte(testCookieSecret), cookie.Value)
	if !ok {
		t.Fatalf("issued cookie %q is not properly signed", cookie.Value)
	}
	loaded, err := store.Get(context.Background(), id)
	if err != nil || loaded == nil {
		t.Fatalf("stored session not readable: %v", err)
	}
	if loaded.UserID != 42 {
		t.Fatalf("stored UserID = %d, want 42", loaded.UserID)
	}
}

func TestDestroyDeletesAndClearsCookie(t *testing.T) {
	store := newFakeStore()
	store.seed(t, &Session{ID: "s1", UserID: 1})

	r := newTestRouter(store, func(c *gin.Context) {
		FromContext(c).Destroy()
		c.Status(http.StatusNoContent)
	}, false)

	w := get(r, sessionCookie("s1"))
	if w.Code != http.StatusNoContent {
		t.Fatalf("got %d, want 204", w.Code)
	}
	if store.deletes != 1 {
		t.Fatalf("destroy deleted %d times, want 1", store.deletes)
	}

	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			cleared = c
		}
	}
	if cleared == nil || cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Fatal("destroy did not clear the session cookie")
	}
}

func TestHandlerValuesSurviveRoundTrip(t *testing.T) {
	store := newFakeStore()

	r := newTestRouter(store, func(c *gin.Context) {
		sess := FromContext(c)
		sess.Set("lastQuoteRef", "DEV-2024-0042")
		sess.SetUserID(7)
		c.JSON(http.StatusOK, gin.H{})
	}, false)

	w := get(r, nil)
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie issued")
	}

	id, ok := ParseSignedValue([]byte(testCookieSecret), cookie.Value)
	if !ok {
		t.Fatalf("issued cookie %q is not properly signed", cookie.Value)
	}
	loaded, err := store.Get(context.Background(), id)
	if err != nil || loaded == nil {
		t.Fatalf("stored session not readable: %v", err)
	}
	if v, _ := loaded.Get("lastQuoteRef"); v != "DEV-2024-0042" {
		t.Fatalf("handler value lost: %v", v)
	}
	if loaded.UserID != 7 {
		t.Fatalf("UserID = %d, want 7", loaded.UserID)
	}
}
