package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/teamtodo/taskgate/internal/auth"
	"github.com/teamtodo/taskgate/internal/registry"
	"github.com/teamtodo/taskgate/model"
)

// fakeDispatcher records dispatched calls and returns a canned result.
type fakeDispatcher struct {
	calls  []dispatchedCall
	result model.Result
}

type dispatchedCall struct {
	principalID int64
	data        model.CallData
}

func (f *fakeDispatcher) Dispatch(_ context.Context, principalID int64, data model.CallData) model.Result {
	f.calls = append(f.calls, dispatchedCall{principalID, data})
	return f.result
}

func testIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
}

// serveRoute runs one request through a chi router holding just the given
// route, with an authenticated session unless token is empty.
func serveRoute(t *testing.T, route registry.Route, disp Dispatcher, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Use(SessionAuth(testIssuer(), "jwt"))
	r.Method(route.Method, route.Pattern, CallHandler(route, disp, zap.NewNop()))

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sessionToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := testIssuer().Issue(userID, "a@b.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func TestCallHandler_requires_session(t *testing.T) {
	disp := &fakeDispatcher{result: model.Success(nil)}
	route := registry.Route{
		Method:  http.MethodGet,
		Pattern: "/user/all",
		Type:    model.CallTypeQuery,
		Call:    model.CallGetAllUsers,
	}

	rec := serveRoute(t, route, disp, http.MethodGet, "/user/all", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if len(disp.calls) != 0 {
		t.Errorf("dispatcher saw %d calls, want 0", len(disp.calls))
	}
}

func TestCallHandler_rejects_bad_cookie(t *testing.T) {
	disp := &fakeDispatcher{result: model.Success(nil)}
	route := registry.Route{
		Method:  http.MethodGet,
		Pattern: "/user/all",
		Type:    model.CallTypeQuery,
		Call:    model.CallGetAllUsers,
	}

	rec := serveRoute(t, route, disp, http.MethodGet, "/user/all", "", "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCallHandler_dispatches_with_principal(t *testing.T) {
	disp := &fakeDispatcher{result: model.Success([]model.Row{})}
	route := registry.Route{
		Method:  http.MethodGet,
		Pattern: "/user/all",
		Type:    model.CallTypeQuery,
		Call:    model.CallGetAllUsers,
	}

	rec := serveRoute(t, route, disp, http.MethodGet, "/user/all", "", sessionToken(t, 42))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(disp.calls) != 1 {
		t.Fatalf("dispatcher saw %d calls, want 1", len(disp.calls))
	}
	if disp.calls[0].principalID != 42 {
		t.Errorf("principalID = %d, want 42", disp.calls[0].principalID)
	}
	if disp.calls[0].data.Call != model.CallGetAllUsers {
		t.Errorf("call = %q", disp.calls[0].data.Call)
	}
}

func TestCallHandler_url_params_override_body(t *testing.T) {
	disp := &fakeDispatcher{result: model.Success(nil)}
	route := registry.Route{
		Method:  http.MethodPut,
		Pattern: "/user/{user_id}",
		Type:    model.CallTypeMutation,
		Call:    model.CallUpdateUser,
		Coerce:  registry.Numbers(),
	}

	serveRoute(t, route, disp,
		http.MethodPut, "/user/7",
		`{"user_id": 999, "name": "ann"}`,
		sessionToken(t, 1),
	)
	if len(disp.calls) != 1 {
		t.Fatal("dispatcher saw no calls")
	}
	params := disp.calls[0].data.Params
	if params["user_id"].(float64) != 7 {
		t.Errorf("user_id = %v, want the path value 7", params["user_id"])
	}
	if params["name"] != "ann" {
		t.Errorf("name = %v, want body value", params["name"])
	}
}

func TestCallHandler_pagination_from_query(t *testing.T) {
	disp := &fakeDispatcher{result: model.Success(nil)}
	route := registry.Route{
		Method:  http.MethodGet,
		Pattern: "/user/all",
		Type:    model.CallTypeQuery,
		Call:    model.CallGetAllUsers,
	}

	serveRoute(t, route, disp,
		http.MethodGet, "/user/all?page=2&items_per_page=10", "", sessionToken(t, 1))
	if len(disp.calls) != 1 {
		t.Fatal("dispatcher saw no calls")
	}
	page := disp.calls[0].data.Pagination
	if page.Page != 2 || page.ItemsPerPage != 10 {
		t.Errorf("pagination = %+v, want page 2, 10 items", page)
	}
}

func TestCallHandler_default_pagination(t *testing.T) {
	disp := &fakeDispatcher{result: model.Success(nil)}
	route := registry.Route{
		Method:  http.MethodGet,
		Pattern: "/user/all",
		Type:    model.CallTypeQuery,
		Call:    model.CallGetAllUsers,
	}

	serveRoute(t, route, disp, http.MethodGet, "/user/all", "", sessionToken(t, 1))
	page := disp.calls[0].data.Pagination
	if page.Limit() != model.DefaultItemsPerPage || page.Offset() != 0 {
		t.Errorf("pagination = %+v, want defaults", page)
	}
}

func TestCallHandler_malformed_body_is_empty_bag(t *testing.T) {
	disp := &fakeDispatcher{result: model.Success(nil)}
	route := registry.Route{
		Method:  http.MethodPost,
		Pattern: "/team/create",
		Type:    model.CallTypeQuery,
		Call:    model.CallCreateTeam,
	}

	serveRoute(t, route, disp, http.MethodPost, "/team/create", "{not json", sessionToken(t, 1))
	if len(disp.calls) != 1 {
		t.Fatal("dispatcher saw no calls")
	}
	if len(disp.calls[0].data.Params) != 0 {
		t.Errorf("params = %v, want empty bag", disp.calls[0].data.Params)
	}
}

func TestCallHandler_maps_failure_status(t *testing.T) {
	disp := &fakeDispatcher{result: model.Failure(model.ErrInvalidParams, model.InvalidList{
		{Field: "user_id", Reason: "[not_integer]"},
	})}
	route := registry.Route{
		Method:  http.MethodGet,
		Pattern: "/user/{user_id}",
		Type:    model.CallTypeQuery,
		Call:    model.CallGetUserByID,
		Coerce:  registry.Numbers(),
	}

	rec := serveRoute(t, route, disp, http.MethodGet, "/user/abc", "", sessionToken(t, 1))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
