// Package integration provides a reusable test harness for end-to-end
// testing of the taskgate server. It starts a full HTTP server over a
// scripted in-memory store executor, so every layer above the store runs for
// real: routing, session cookies, validation, dispatch, and envelopes.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamtodo/taskgate/internal/auth"
	"github.com/teamtodo/taskgate/internal/call"
	"github.com/teamtodo/taskgate/internal/config"
	"github.com/teamtodo/taskgate/internal/registry"
	"github.com/teamtodo/taskgate/internal/transport"
	"github.com/teamtodo/taskgate/model"
)

// StoreExecutor is a scripted stand-in for the PostgreSQL executor. Results
// are keyed by call name; every execution is recorded for assertions.
type StoreExecutor struct {
	mu      sync.Mutex
	results map[model.CallName][]model.Row
	errs    map[model.CallName]error
	Calls   []ExecutedCall
}

// ExecutedCall is one recorded store execution.
type ExecutedCall struct {
	PrincipalID int64
	Call        model.CallName
	Params      model.RawParams
	Type        model.CallType
	Page        model.Pagination
}

// NewStoreExecutor creates an empty StoreExecutor.
func NewStoreExecutor() *StoreExecutor {
	return &StoreExecutor{
		results: map[model.CallName][]model.Row{},
		errs:    map[model.CallName]error{},
	}
}

// Respond scripts the rows a call returns.
func (s *StoreExecutor) Respond(name model.CallName, rows ...model.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[name] = rows
}

// Fail scripts an error for a call.
func (s *StoreExecutor) Fail(name model.CallName, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[name] = err
}

// Execute implements call.Executor.
func (s *StoreExecutor) Execute(
	_ context.Context,
	principalID int64,
	name model.CallName,
	params model.RawParams,
	typ model.CallType,
	page model.Pagination,
) ([]model.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, ExecutedCall{principalID, name, params, typ, page})
	if err := s.errs[name]; err != nil {
		return nil, err
	}
	return s.results[name], nil
}

// CallsTo returns the recorded executions of one call.
func (s *StoreExecutor) CallsTo(name model.CallName) []ExecutedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ExecutedCall
	for _, c := range s.Calls {
		if c.Call == name {
			out = append(out, c)
		}
	}
	return out
}

// TestHarness is a fully wired taskgate instance over a scripted store.
type TestHarness struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client

	Store  *StoreExecutor
	Issuer *auth.TokenIssuer
	Hasher *auth.PasswordHasher
	Totp   *auth.TotpProvider
}

// NewHarness starts the server and returns a harness whose client carries
// cookies between requests like a browser would.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()

	cfg := config.Defaults()
	cfg.Auth.TotpSkew = 1

	reg, err := registry.New()
	if err != nil {
		t.Fatalf("registry.New() error = %v", err)
	}

	store := NewStoreExecutor()
	dispatcher := call.NewDispatcher(reg, store, call.WithErrorDetail(true))

	issuer := auth.NewTokenIssuer([]byte("integration-secret"), time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, "pepper")
	totp := auth.NewTotpProvider(cfg.Auth.TotpIssuer, cfg.Auth.TotpSkew)

	authHandler := transport.NewAuthHandler(dispatcher, hasher, issuer, totp, transport.AuthConfig{
		CookieName:   cfg.Auth.CookieName,
		CookieMaxAge: cfg.Auth.CookieMaxAge,
	}, zap.NewNop())

	router := transport.NewRouter(transport.Dependencies{
		Config:      cfg,
		Registry:    reg,
		Dispatcher:  dispatcher,
		AuthHandler: authHandler,
		TokenIssuer: issuer,
		Logger:      zap.NewNop(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error = %v", err)
	}

	return &TestHarness{
		t:      t,
		server: server,
		client: &http.Client{Jar: jar},
		Store:  store,
		Issuer: issuer,
		Hasher: hasher,
		Totp:   totp,
	}
}

// Envelope is a decoded response envelope.
type Envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// DataObject decodes the envelope payload as an object.
func (e Envelope) DataObject(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(e.Data, &out); err != nil {
		t.Fatalf("decoding data object: %v: %s", err, e.Data)
	}
	return out
}

// DataRows decodes the envelope payload as a row array.
func (e Envelope) DataRows(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(e.Data, &out); err != nil {
		t.Fatalf("decoding data rows: %v: %s", err, e.Data)
	}
	return out
}

// envUnmarshal decodes the envelope payload into out.
func envUnmarshal(e Envelope, out any) error {
	return json.Unmarshal(e.Data, out)
}

// Do sends a request with an optional JSON body and decodes the envelope.
func (h *TestHarness) Do(method, path string, body any) (int, Envelope) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		h.t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		h.t.Fatalf("read body: %v", err)
	}
	var env Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			h.t.Fatalf("decode envelope: %v: %s", err, raw)
		}
	}
	return resp.StatusCode, env
}

// LoginAs gives the harness client a valid session cookie for the given
// principal without running the login flow.
func (h *TestHarness) LoginAs(userID int64, email string) {
	h.t.Helper()
	token, err := h.Issuer.Issue(userID, email)
	if err != nil {
		h.t.Fatalf("Issue() error = %v", err)
	}
	u, err := url.Parse(h.server.URL)
	if err != nil {
		h.t.Fatalf("parse server URL: %v", err)
	}
	h.client.Jar.SetCookies(u, []*http.Cookie{{Name: "jwt", Value: token}})
}

// Cookies returns the client's cookies for the server.
func (h *TestHarness) Cookies() []*http.Cookie {
	u, err := url.Parse(h.server.URL)
	if err != nil {
		h.t.Fatalf("parse server URL: %v", err)
	}
	return h.client.Jar.Cookies(u)
}
