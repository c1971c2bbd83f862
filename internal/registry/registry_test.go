package registry

import (
	"net/http"
	"strings"
	"testing"

	"github.com/teamtodo/taskgate/model"
)

func TestNew_declared_tables_are_consistent(t *testing.T) {
	reg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, name := range model.AllCallNames() {
		if _, ok := reg.ParamSpec(name); !ok {
			t.Errorf("ParamSpec(%q) missing", name)
		}
	}
	if len(reg.Routes()) == 0 {
		t.Fatal("Routes() is empty")
	}
}

func TestNewFrom_missing_spec(t *testing.T) {
	specs := make(map[model.CallName]model.ParamSpec, len(callSpecs))
	for k, v := range callSpecs {
		specs[k] = v
	}
	delete(specs, model.CallGetAllUsers)

	_, err := newFrom(specs, nil)
	if err == nil {
		t.Fatal("newFrom() accepted a partial spec table")
	}
	if !strings.Contains(err.Error(), "get_all_users") {
		t.Errorf("error %q does not name the missing call", err)
	}
}

func TestNewFrom_unknown_spec_name(t *testing.T) {
	specs := make(map[model.CallName]model.ParamSpec, len(callSpecs))
	for k, v := range callSpecs {
		specs[k] = v
	}
	specs["drop_all_tables"] = nil

	_, err := newFrom(specs, nil)
	if err == nil {
		t.Fatal("newFrom() accepted a spec for an unknown call")
	}
}

func TestNewFrom_duplicate_route(t *testing.T) {
	routes := []Route{
		{http.MethodGet, "/user/all", model.CallTypeQuery, model.CallGetAllUsers, nil},
		{http.MethodGet, "/user/all", model.CallTypeQuery, model.CallGetAllUsers, nil},
	}
	_, err := newFrom(callSpecs, routes)
	if err == nil {
		t.Fatal("newFrom() accepted duplicate routes")
	}
}

func TestNewFrom_route_with_unknown_call(t *testing.T) {
	routes := []Route{
		{http.MethodGet, "/bogus", model.CallTypeQuery, model.CallName("no_such_call"), nil},
	}
	_, err := newFrom(callSpecs, routes)
	if err == nil {
		t.Fatal("newFrom() accepted a route to an unknown call")
	}
}

func TestNewFrom_route_with_invalid_type(t *testing.T) {
	routes := []Route{
		{http.MethodGet, "/user/all", model.CallType("view"), model.CallGetAllUsers, nil},
	}
	_, err := newFrom(callSpecs, routes)
	if err == nil {
		t.Fatal("newFrom() accepted an invalid call type")
	}
}

func TestRoutes_returns_copy(t *testing.T) {
	reg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	routes := reg.Routes()
	routes[0].Pattern = "/mutated"
	if reg.Routes()[0].Pattern == "/mutated" {
		t.Error("mutating the returned slice changed the registry")
	}
}

func TestNumbers_coercion(t *testing.T) {
	coerce := Numbers()
	out := coerce(map[string]string{"user_id": "12", "team_id": "oops"})
	if out["user_id"].(float64) != 12 {
		t.Errorf("user_id = %v, want 12", out["user_id"])
	}
	if v := out["team_id"].(float64); v == v { // NaN is never equal to itself
		t.Errorf("team_id = %v, want NaN", v)
	}
}

func TestNumbers_specific_names(t *testing.T) {
	coerce := Numbers("user_id")
	out := coerce(map[string]string{"user_id": "3", "name": "bob"})
	if _, ok := out["name"]; ok {
		t.Error("unnamed parameter was coerced")
	}
	if out["user_id"].(float64) != 3 {
		t.Errorf("user_id = %v, want 3", out["user_id"])
	}
}

func TestStrings_identity(t *testing.T) {
	out := Strings()(map[string]string{"email": "a@b.com"})
	if out["email"] != "a@b.com" {
		t.Errorf("email = %v", out["email"])
	}
}
