package chat

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/moritalous/gradiio-cognito-bedrock/internal/auth"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/identity"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/middleware"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/session"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeBroker struct {
	creds    identity.Credentials
	err      error
	gotToken string
}

func (f *fakeBroker) Federate(ctx context.Context, idToken string) (identity.Credentials, error) {
	f.gotToken = idToken
	return f.creds, f.err
}

type fakeInvoker struct {
	answer    string
	err       error
	gotCreds  identity.Credentials
	gotPrompt string
}

func (f *fakeInvoker) Converse(
	ctx context.Context,
	creds identity.Credentials,
	prompt string,
) (string, error) {
	f.gotCreds = creds
	f.gotPrompt = prompt
	return f.answer, f.err
}

type fakeProvider struct{}

func (fakeProvider) Name() string { return "fake" }

func (fakeProvider) AuthCodeURL() string {
	return "https://idp.example.com/oauth2/authorize?client_id=client-1"
}

func (fakeProvider) ExchangeCode(ctx context.Context, code string) (*auth.Tokens, error) {
	return nil, errors.New("not used")
}

func (fakeProvider) LogoutURL() string {
	return "https://idp.example.com/logout?client_id=client-1"
}

func newTestRouter(t *testing.T, broker Broker, invoker Invoker, store session.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.SetHTMLTemplate(template.Must(
		template.ParseFS(web.Templates, "templates/*.html"),
	))

	gate := middleware.GinRequireAuth(middleware.NewAuthMiddleware(store, testSecret))
	NewHandler(broker, invoker, fakeProvider{}).RegisterRoutes(router, gate)
	return router
}

func mintSession(t *testing.T, store session.Store, idToken string) *http.Cookie {
	t.Helper()

	sessionID, err := session.GenerateID()
	require.NoError(t, err)

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, store.Create(context.Background(), session.Session{
		SessionID: sessionID,
		IDToken:   idToken,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}))

	rec := httptest.NewRecorder()
	session.SetCookie(rec, sessionID, testSecret, expiresAt, session.CookieOptions{})
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func postPrompt(t *testing.T, router *gin.Engine, cookie *http.Cookie, prompt string) *httptest.ResponseRecorder {
	t.Helper()

	form := "prompt=" + prompt
	req := httptest.NewRequest(http.MethodPost, "/main/", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMainDeniedWithoutSession(t *testing.T) {
	router := newTestRouter(t, &fakeBroker{}, &fakeInvoker{}, session.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/main/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMainPage(t *testing.T) {
	store := session.NewMemoryStore()
	router := newTestRouter(t, &fakeBroker{}, &fakeInvoker{}, store)

	req := httptest.NewRequest(http.MethodGet, "/main/", nil)
	req.AddCookie(mintSession(t, store, "id-token-1"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), fakeProvider{}.LogoutURL())
}

func TestConverseRendersAnswer(t *testing.T) {
	store := session.NewMemoryStore()
	broker := &fakeBroker{
		creds: identity.Credentials{
			AccessKeyID:  "AKIA",
			SecretKey:    "secret",
			SessionToken: "session",
		},
	}
	invoker := &fakeInvoker{answer: "hi there"}
	router := newTestRouter(t, broker, invoker, store)

	rec := postPrompt(t, router, mintSession(t, store, "id-token-1"), "hello")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hi there")

	assert.Equal(t, "id-token-1", broker.gotToken, "federation must use the session's id token")
	assert.Equal(t, broker.creds, invoker.gotCreds, "inference must use the federated credentials")
	assert.Equal(t, "hello", invoker.gotPrompt)
}

func TestConverseDeniedWithoutSession(t *testing.T) {
	broker := &fakeBroker{}
	router := newTestRouter(t, broker, &fakeInvoker{}, session.NewMemoryStore())

	rec := postPrompt(t, router, nil, "hello")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, broker.gotToken, "federation must not run for anonymous requests")
}

func TestConverseBrokerFailure(t *testing.T) {
	store := session.NewMemoryStore()
	broker := &fakeBroker{err: errors.New("token expired")}
	invoker := &fakeInvoker{}
	router := newTestRouter(t, broker, invoker, store)

	rec := postPrompt(t, router, mintSession(t, store, "id-token-1"), "hello")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, invoker.gotPrompt, "inference must not run without credentials")
}

func TestConverseInvokerFailure(t *testing.T) {
	store := session.NewMemoryStore()
	invoker := &fakeInvoker{err: errors.New("throttled")}
	router := newTestRouter(t, &fakeBroker{}, invoker, store)

	rec := postPrompt(t, router, mintSession(t, store, "id-token-1"), "hello")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
