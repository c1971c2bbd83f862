package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/teamtodo/taskgate/internal/auth"
	"github.com/teamtodo/taskgate/internal/registry"
	"github.com/teamtodo/taskgate/model"
)

// The auth endpoints validate their own bodies with the same machinery the
// routed calls use.
var (
	authID     = registry.ID()
	authString = registry.NonemptyString()
	authEmail  = registry.Email()
)

func idField(name string) model.Param     { return model.Param{Name: name, Validator: authID} }
func stringField(name string) model.Param { return model.Param{Name: name, Validator: authString} }
func emailField(name string) model.Param  { return model.Param{Name: name, Validator: authEmail} }

func parseAuthParams(body map[string]any, fields ...model.Param) model.ParseResult {
	return registry.ParseParams(body, model.ParamSpec(fields))
}

// AuthConfig carries the cookie and token settings the auth handlers need.
type AuthConfig struct {
	CookieName   string
	CookieMaxAge time.Duration
	Secure       bool
}

// AuthHandler implements the account lifecycle endpoints: signup, the
// two-step TOTP login, logout, and password changes. It drives the same
// dispatcher as the routed endpoints but runs its account lookups as the
// unauthenticated principal; the store exposes exactly the calls that flow
// needs.
type AuthHandler struct {
	dispatcher Dispatcher
	hasher     *auth.PasswordHasher
	issuer     *auth.TokenIssuer
	totp       *auth.TotpProvider
	cfg        AuthConfig
	logger     *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(dispatcher Dispatcher, hasher *auth.PasswordHasher, issuer *auth.TokenIssuer, totp *auth.TotpProvider, cfg AuthConfig, logger *zap.Logger) *AuthHandler {
	if cfg.CookieName == "" {
		cfg.CookieName = "jwt"
	}
	if cfg.CookieMaxAge <= 0 {
		cfg.CookieMaxAge = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		dispatcher: dispatcher,
		hasher:     hasher,
		issuer:     issuer,
		totp:       totp,
		cfg:        cfg,
		logger:     logger,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// userSecrets is the account row the secrets calls return.
type userSecrets struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	TwoFASecret  string
	TwoFASaved   bool
}

func secretsFromRow(row model.Row) userSecrets {
	return userSecrets{
		ID:           rowInt64(row, "id"),
		Name:         rowString(row, "name"),
		Email:        rowString(row, "email"),
		PasswordHash: rowString(row, "password_hash"),
		TwoFASecret:  rowString(row, "two_fa_secret"),
		TwoFASaved:   rowBool(row, "two_fa_saved"),
	}
}

// lookupSecrets fetches an account's secrets row by the given call. A failed
// or empty result reads as user-not-found so callers cannot distinguish a
// missing account from a store refusal.
func (h *AuthHandler) lookupSecrets(r *http.Request, call model.CallName, params map[string]any) (userSecrets, bool) {
	result := h.dispatcher.Dispatch(r.Context(), model.NoPrincipal, model.CallData{
		Call:   call,
		Type:   model.CallTypeQuery,
		Params: params,
	})
	rows := result.Rows()
	if !result.OK() || len(rows) == 0 {
		return userSecrets{}, false
	}
	return secretsFromRow(rows[0]), true
}

// Signup registers a new account. The password is rejected before hashing if
// it fails the complexity rules; the account starts without a saved TOTP
// secret so the first login provisions one.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	body := decodeBodyParams(r)
	parsed := parseAuthParams(body,
		stringField("name"), emailField("email"), stringField("password"))
	if !parsed.OK() {
		WriteResult(w, h.logger, model.Failure(model.ErrInvalidParams, parsed.Invalid))
		return
	}
	name := parsed.Params[0].(string)
	email := parsed.Params[1].(string)
	password := parsed.Params[2].(string)

	if !auth.ValidPassword(password) {
		WriteResult(w, h.logger, model.Failure(model.ErrPasswordInsecure, nil))
		return
	}

	hash, err := h.hasher.Hash(password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		WriteResult(w, h.logger, model.Failure(model.ErrInternalServerError, nil))
		return
	}

	result := h.dispatcher.Dispatch(r.Context(), model.NoPrincipal, model.CallData{
		Call: model.CallCreateUser,
		Type: model.CallTypeQuery,
		Params: map[string]any{
			"name":          name,
			"email":         email,
			"password_hash": hash,
			"two_fa_secret": "",
			"two_fa_saved":  false,
		},
	})
	rows := result.Rows()
	if !result.OK() || len(rows) == 0 {
		WriteResult(w, h.logger, model.Failure(model.ErrUserCreateFailed, nil))
		return
	}

	WriteResult(w, h.logger, model.Success(map[string]any{
		"user_id": rowInt64(rows[0], "user_id"),
	}))
}

// SignupConfirm verifies the first TOTP code after enrollment.
func (h *AuthHandler) SignupConfirm(w http.ResponseWriter, r *http.Request) {
	body := decodeBodyParams(r)
	parsed := parseAuthParams(body, stringField("code"), idField("user_id"))
	if !parsed.OK() {
		WriteResult(w, h.logger, model.Failure(model.ErrInvalidParams, parsed.Invalid))
		return
	}
	code := parsed.Params[0].(string)
	userID := parsed.Params[1].(int64)

	secrets, found := h.lookupSecrets(r, model.CallGetUserSecrets, map[string]any{"user_id": userID})
	if !found {
		WriteResult(w, h.logger, model.Failure(model.ErrUserNotFound, nil))
		return
	}

	if !h.totp.VerifyCode(secrets.TwoFASecret, code) {
		WriteResult(w, h.logger, model.Failure(model.ErrIncorrectTotpCode, nil))
		return
	}

	WriteResult(w, h.logger, model.Success(nil))
}

// Login checks the password for an account. On the first login, or whenever
// the account has no confirmed TOTP secret, a fresh secret is provisioned and
// its QR code returned alongside the user id; the session cookie is only
// issued by LoginVerify once the code checks out.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body := decodeBodyParams(r)
	parsed := parseAuthParams(body, emailField("email"), stringField("password"))
	if !parsed.OK() {
		WriteResult(w, h.logger, model.Failure(model.ErrInvalidParams, parsed.Invalid))
		return
	}
	email := parsed.Params[0].(string)
	password := parsed.Params[1].(string)

	secrets, found := h.lookupSecrets(r, model.CallGetUserSecretsByMail, map[string]any{"email": email})
	if !found {
		WriteResult(w, h.logger, model.Failure(model.ErrUserNotFound, nil))
		return
	}

	if !h.hasher.Compare(password, secrets.PasswordHash) {
		WriteResult(w, h.logger, model.Failure(model.ErrIncorrectPassword, nil))
		return
	}

	qrCodeURL := ""
	if secrets.TwoFASecret == "" || !secrets.TwoFASaved {
		enrollment, err := h.totp.GenerateSecret(secrets.Name)
		if err != nil {
			h.logger.Error("failed to generate totp secret", zap.Error(err))
			WriteResult(w, h.logger, model.Failure(model.ErrInternalServerError, nil))
			return
		}
		qrCodeURL = enrollment.QRDataURL

		update := h.dispatcher.Dispatch(r.Context(), model.NoPrincipal, model.CallData{
			Call: model.CallUpdateUser,
			Type: model.CallTypeMutation,
			Params: map[string]any{
				"user_id":       secrets.ID,
				"two_fa_secret": enrollment.Secret,
				"two_fa_saved":  false,
			},
		})
		if !update.OK() {
			WriteResult(w, h.logger, model.Failure(model.ErrTotpUpdateFailed, nil))
			return
		}
	}

	WriteResult(w, h.logger, model.Success(map[string]any{
		"user_id":   secrets.ID,
		"qrCodeUrl": qrCodeURL,
	}))
}

// LoginVerify completes a login by checking the TOTP code and issuing the
// session cookie. The first successful verification also marks the secret as
// saved.
func (h *AuthHandler) LoginVerify(w http.ResponseWriter, r *http.Request) {
	body := decodeBodyParams(r)
	parsed := parseAuthParams(body, stringField("code"), idField("user_id"))
	if !parsed.OK() {
		WriteResult(w, h.logger, model.Failure(model.ErrInvalidParams, parsed.Invalid))
		return
	}
	code := parsed.Params[0].(string)
	userID := parsed.Params[1].(int64)

	secrets, found := h.lookupSecrets(r, model.CallGetUserSecrets, map[string]any{"user_id": userID})
	if !found {
		WriteResult(w, h.logger, model.Failure(model.ErrUserNotFound, nil))
		return
	}

	if !h.totp.VerifyCode(secrets.TwoFASecret, code) {
		WriteResult(w, h.logger, model.Failure(model.ErrIncorrectTotpCode, nil))
		return
	}

	update := h.dispatcher.Dispatch(r.Context(), model.NoPrincipal, model.CallData{
		Call: model.CallUpdateUser,
		Type: model.CallTypeMutation,
		Params: map[string]any{
			"user_id":      userID,
			"two_fa_saved": true,
		},
	})
	if !update.OK() {
		WriteResult(w, h.logger, model.Failure(model.ErrTotpUpdateFailed, nil))
		return
	}

	token, err := h.issuer.Issue(userID, secrets.Email)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		WriteResult(w, h.logger, model.Failure(model.ErrInternalServerError, nil))
		return
	}
	h.setSessionCookie(w, token)

	WriteResult(w, h.logger, model.Success(map[string]any{
		"user_id": userID,
		"name":    secrets.Name,
	}))
}

// Logout clears the session cookie. Always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	WriteResult(w, h.logger, model.Success(nil))
}

// ChangePassword updates an account password after checking the session and
// the old password. The secrets lookup runs as the session principal so the
// store can refuse cross-account reads.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principalID := model.PrincipalID(r.Context())
	if principalID == model.NoPrincipal {
		WriteResult(w, h.logger, model.Failure(model.ErrInvalidSession, nil))
		return
	}

	body := decodeBodyParams(r)
	parsed := parseAuthParams(body,
		idField("user_id"), stringField("new_password"), stringField("old_password"))
	if !parsed.OK() {
		WriteResult(w, h.logger, model.Failure(model.ErrInvalidParams, parsed.Invalid))
		return
	}
	userID := parsed.Params[0].(int64)
	newPassword := parsed.Params[1].(string)
	oldPassword := parsed.Params[2].(string)

	if !auth.ValidPassword(newPassword) {
		WriteResult(w, h.logger, model.Failure(model.ErrPasswordInsecure, nil))
		return
	}

	result := h.dispatcher.Dispatch(r.Context(), principalID, model.CallData{
		Call:   model.CallGetUserSecrets,
		Type:   model.CallTypeQuery,
		Params: map[string]any{"user_id": userID},
	})
	rows := result.Rows()
	if !result.OK() || len(rows) == 0 {
		WriteResult(w, h.logger, model.Failure(model.ErrUserNotFound, nil))
		return
	}
	secrets := secretsFromRow(rows[0])

	if !h.hasher.Compare(oldPassword, secrets.PasswordHash) {
		WriteResult(w, h.logger, model.Failure(model.ErrIncorrectPassword, nil))
		return
	}

	hash, err := h.hasher.Hash(newPassword)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		WriteResult(w, h.logger, model.Failure(model.ErrInternalServerError, nil))
		return
	}

	update := h.dispatcher.Dispatch(r.Context(), principalID, model.CallData{
		Call: model.CallUpdateUser,
		Type: model.CallTypeMutation,
		Params: map[string]any{
			"user_id":       userID,
			"password_hash": hash,
		},
	})
	if !update.OK() {
		WriteResult(w, h.logger, model.Failure(model.ErrUserUpdateFailed, nil))
		return
	}

	WriteResult(w, h.logger, model.Success(nil))
}

// Session reports whether the request carries a valid session and, if so,
// who it belongs to.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	principalID := model.PrincipalID(r.Context())
	if principalID == model.NoPrincipal {
		WriteResult(w, h.logger, model.Failure(model.ErrInvalidSession, nil))
		return
	}

	secrets, found := h.lookupSecrets(r, model.CallGetUserSecrets, map[string]any{"user_id": principalID})
	if !found {
		WriteResult(w, h.logger, model.Failure(model.ErrUserNotFound, nil))
		return
	}

	WriteResult(w, h.logger, model.Success(map[string]any{
		"isAuthenticated": true,
		"username":        secrets.Name,
		"roles":           []string{},
		"user_id":         principalID,
	}))
}

//----- Row field helpers -----//

// rowInt64 reads an integer column regardless of the driver's concrete type.
func rowInt64(row model.Row, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func rowString(row model.Row, key string) string {
	if s, ok := row[key].(string); ok {
		return s
	}
	if v, ok := row[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

func rowBool(row model.Row, key string) bool {
	b, _ := row[key].(bool)
	return b
}
