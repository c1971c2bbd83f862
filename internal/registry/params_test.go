package registry

import (
	"testing"

	"github.com/teamtodo/taskgate/model"
)

func TestParseParams_positional_order(t *testing.T) {
	spec := model.ParamSpec{
		{Name: "a", Validator: ID()},
		{Name: "b", Validator: String()},
	}
	// Bag order must not matter; output follows the declared parameter order.
	res := ParseParams(map[string]any{"b": "x", "a": float64(5)}, spec)
	if !res.OK() {
		t.Fatalf("ParseParams() invalid = %v", res.Invalid)
	}
	if len(res.Params) != 2 {
		t.Fatalf("len(Params) = %d, want 2", len(res.Params))
	}
	if res.Params[0].(int64) != 5 || res.Params[1].(string) != "x" {
		t.Errorf("Params = %v, want [5 x]", res.Params)
	}
}

func TestParseParams_accumulates_all_failures(t *testing.T) {
	spec := model.ParamSpec{
		{Name: "id", Validator: ID()},
		{Name: "email", Validator: Email()},
		{Name: "title", Validator: NonemptyString()},
	}
	res := ParseParams(map[string]any{"id": "abc", "email": "nope", "title": ""}, spec)
	if res.OK() {
		t.Fatal("ParseParams() succeeded, want failure")
	}
	if len(res.Invalid) != 3 {
		t.Fatalf("len(Invalid) = %d, want 3", len(res.Invalid))
	}
	fields := map[string]bool{}
	for _, inv := range res.Invalid {
		if inv.Reason == "" {
			t.Errorf("field %q has empty reason", inv.Field)
		}
		fields[inv.Field] = true
	}
	for _, want := range []string{"id", "email", "title"} {
		if !fields[want] {
			t.Errorf("missing invalid entry for %q", want)
		}
	}
}

func TestParseParams_failure_produces_no_params(t *testing.T) {
	spec := model.ParamSpec{
		{Name: "ok", Validator: ID()},
		{Name: "bad", Validator: ID()},
	}
	res := ParseParams(map[string]any{"ok": float64(1), "bad": "x"}, spec)
	if res.OK() {
		t.Fatal("ParseParams() succeeded, want failure")
	}
	if res.Params != nil {
		t.Errorf("Params = %v, want nil on failure", res.Params)
	}
}

func TestParseParams_missing_key_is_validator_decision(t *testing.T) {
	spec := model.ParamSpec{
		{Name: "required", Validator: ID()},
		{Name: "optional", Validator: Optional(ID())},
	}
	res := ParseParams(map[string]any{}, spec)
	if res.OK() {
		t.Fatal("missing required field accepted")
	}
	if len(res.Invalid) != 1 || res.Invalid[0].Field != "required" {
		t.Errorf("Invalid = %v, want single entry for required", res.Invalid)
	}

	res = ParseParams(map[string]any{"required": float64(1)}, spec)
	if !res.OK() {
		t.Fatalf("ParseParams() invalid = %v", res.Invalid)
	}
	if len(res.Params) != 2 || res.Params[1] != nil {
		t.Errorf("Params = %v, want optional slot nil", res.Params)
	}
}

func TestParseParams_nil_validator_passes_through(t *testing.T) {
	spec := model.ParamSpec{{Name: "raw"}}
	res := ParseParams(map[string]any{"raw": map[string]any{"k": "v"}}, spec)
	if !res.OK() {
		t.Fatalf("ParseParams() invalid = %v", res.Invalid)
	}
	if res.Params[0] == nil {
		t.Error("pass-through slot is nil, want raw value")
	}
}

func TestParseParams_empty_spec(t *testing.T) {
	res := ParseParams(map[string]any{"ignored": 1}, nil)
	if !res.OK() {
		t.Fatalf("ParseParams() invalid = %v", res.Invalid)
	}
	if len(res.Params) != 0 {
		t.Errorf("len(Params) = %d, want 0", len(res.Params))
	}
}

func TestParseParams_extra_keys_ignored(t *testing.T) {
	spec := model.ParamSpec{{Name: "id", Validator: ID()}}
	res := ParseParams(map[string]any{"id": float64(3), "rogue": "x"}, spec)
	if !res.OK() {
		t.Fatalf("ParseParams() invalid = %v", res.Invalid)
	}
	if len(res.Params) != 1 {
		t.Errorf("len(Params) = %d, want 1", len(res.Params))
	}
}

func TestParseParams_create_todo_rejects_empty_title(t *testing.T) {
	bag := map[string]any{
		"created_by":  float64(1),
		"team_id":     float64(1),
		"title":       "",
		"description": "x",
		"status":      float64(1),
	}
	res := ParseParams(bag, callSpecs[model.CallCreateTodo])
	if res.OK() {
		t.Fatal("ParseParams() accepted an empty title")
	}
	var found bool
	for _, inv := range res.Invalid {
		if inv.Field == "title" {
			found = true
			if inv.Reason != reasonTooSmall {
				t.Errorf("title reason = %q, want %q", inv.Reason, reasonTooSmall)
			}
		}
	}
	if !found {
		t.Errorf("Invalid = %v, want an entry for title", res.Invalid)
	}
	if res.Params != nil {
		t.Errorf("Params = %v, want nil on failure", res.Params)
	}
}
