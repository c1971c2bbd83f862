package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/teamtodo/taskgate/model"
)

// TestSignupLoginVerifyFlow walks the full account lifecycle: register,
// first login with TOTP provisioning, code verification, then an
// authenticated routed call using the issued cookie.
func TestSignupLoginVerifyFlow(t *testing.T) {
	h := NewHarness(t)

	// Signup.
	h.Store.Respond(model.CallCreateUser, model.Row{"user_id": int64(7)})
	status, env := h.Do(http.MethodPost, "/signup", map[string]any{
		"name":     "ann",
		"email":    "ann@example.com",
		"password": "Secret123",
	})
	if status != http.StatusOK || env.Status != "success" {
		t.Fatalf("signup: status = %d, envelope = %+v", status, env)
	}

	created := h.Store.CallsTo(model.CallCreateUser)
	if len(created) != 1 {
		t.Fatalf("create_user executed %d times, want 1", len(created))
	}
	if created[0].PrincipalID != model.NoPrincipal {
		t.Errorf("signup principal = %d, want sentinel", created[0].PrincipalID)
	}
	hash, _ := created[0].Params[2].(string)
	if !h.Hasher.Compare("Secret123", hash) {
		t.Error("stored hash does not verify against the password")
	}

	// First login: password accepted, TOTP provisioned, no cookie yet.
	h.Store.Respond(model.CallGetUserSecretsByMail, model.Row{
		"id": int64(7), "name": "ann", "email": "ann@example.com",
		"password_hash": hash, "two_fa_secret": "", "two_fa_saved": false,
	})
	status, env = h.Do(http.MethodPost, "/login", map[string]any{
		"email":    "ann@example.com",
		"password": "Secret123",
	})
	if status != http.StatusOK || env.Status != "success" {
		t.Fatalf("login: status = %d, envelope = %+v", status, env)
	}
	if qr, _ := env.DataObject(t)["qrCodeUrl"].(string); qr == "" {
		t.Error("first login returned no QR code")
	}
	if len(h.Cookies()) != 0 {
		t.Fatal("login issued a cookie before 2FA verification")
	}

	// The provisioned secret went to the store; replay it like the DB would.
	updates := h.Store.CallsTo(model.CallUpdateUser)
	if len(updates) != 1 {
		t.Fatalf("update_user executed %d times, want 1", len(updates))
	}
	secret := findStringParam(t, updates[0].Params)

	// Verify with a current code; the session cookie appears.
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	h.Store.Respond(model.CallGetUserSecrets, model.Row{
		"id": int64(7), "name": "ann", "email": "ann@example.com",
		"password_hash": hash, "two_fa_secret": secret, "two_fa_saved": false,
	})
	status, env = h.Do(http.MethodPost, "/login/verify", map[string]any{
		"code":    code,
		"user_id": 7,
	})
	if status != http.StatusOK || env.Status != "success" {
		t.Fatalf("login/verify: status = %d, envelope = %+v", status, env)
	}
	if len(h.Cookies()) != 1 {
		t.Fatal("verification issued no session cookie")
	}

	// The cookie now authorizes routed calls, executed as user 7.
	h.Store.Respond(model.CallGetUserTodos, model.Row{"id": int64(1), "title": "ship it"})
	status, env = h.Do(http.MethodGet, "/user/7/todos", nil)
	if status != http.StatusOK || env.Status != "success" {
		t.Fatalf("todos: status = %d, envelope = %+v", status, env)
	}
	rows := env.DataRows(t)
	if len(rows) != 1 || rows[0]["title"] != "ship it" {
		t.Errorf("rows = %v", rows)
	}
	execs := h.Store.CallsTo(model.CallGetUserTodos)
	if len(execs) != 1 || execs[0].PrincipalID != 7 {
		t.Errorf("get_user_todos executions = %+v, want principal 7", execs)
	}

	// Logout clears the session; the next routed call is refused.
	if status, _ = h.Do(http.MethodPost, "/logout", nil); status != http.StatusOK {
		t.Fatalf("logout: status = %d", status)
	}
	status, env = h.Do(http.MethodGet, "/user/7/todos", nil)
	if status != http.StatusUnauthorized || env.Error != model.ErrInvalidSession {
		t.Errorf("after logout: status = %d, envelope = %+v", status, env)
	}
}

// findStringParam returns the first non-empty string in a positional
// parameter list, which for update_user after user_id is the TOTP secret.
func findStringParam(t *testing.T, params model.RawParams) string {
	t.Helper()
	for _, p := range params[1:] {
		if s, ok := p.(string); ok && s != "" {
			return s
		}
	}
	t.Fatal("no string parameter found")
	return ""
}

func TestLoginVerify_wrong_code_no_session(t *testing.T) {
	h := NewHarness(t)

	enrollment, err := h.Totp.GenerateSecret("ann")
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}
	h.Store.Respond(model.CallGetUserSecrets, model.Row{
		"id": int64(7), "name": "ann", "email": "ann@example.com",
		"password_hash": "x", "two_fa_secret": enrollment.Secret, "two_fa_saved": false,
	})

	status, env := h.Do(http.MethodPost, "/login/verify", map[string]any{
		"code":    "000000",
		"user_id": 7,
	})
	if status != http.StatusUnauthorized || env.Error != model.ErrIncorrectTotpCode {
		t.Errorf("status = %d, envelope = %+v", status, env)
	}
	if len(h.Cookies()) != 0 {
		t.Error("wrong code still issued a cookie")
	}
}

func TestAuthEndpoint_reports_session(t *testing.T) {
	h := NewHarness(t)

	status, env := h.Do(http.MethodGet, "/auth", nil)
	if status != http.StatusUnauthorized || env.Error != model.ErrInvalidSession {
		t.Fatalf("anonymous: status = %d, envelope = %+v", status, env)
	}

	h.LoginAs(7, "ann@example.com")
	h.Store.Respond(model.CallGetUserSecrets, model.Row{
		"id": int64(7), "name": "ann", "email": "ann@example.com",
		"password_hash": "x", "two_fa_secret": "SEC", "two_fa_saved": true,
	})
	status, env = h.Do(http.MethodGet, "/auth", nil)
	if status != http.StatusOK {
		t.Fatalf("authenticated: status = %d, envelope = %+v", status, env)
	}
	data := env.DataObject(t)
	if data["isAuthenticated"] != true || data["user_id"].(float64) != 7 {
		t.Errorf("data = %v", data)
	}
}
