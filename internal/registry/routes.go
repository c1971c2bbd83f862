package registry

import (
	"math"
	"net/http"
	"strconv"

	"github.com/teamtodo/taskgate/model"
)

// ParamCoercion converts raw URL path segments into typed parameter values
// before they are merged with the request body. Path parameters always
// arrive as strings while the validators expect typed values.
type ParamCoercion func(params map[string]string) map[string]any

// Route binds one HTTP endpoint to a call. Routes are data; the transport
// layer iterates the table to attach its generic handler.
type Route struct {
	Method  string
	Pattern string
	Type    model.CallType
	Call    model.CallName
	Coerce  ParamCoercion
}

// Numbers returns a coercion that parses the named path parameters as
// numbers; with no names, every parameter is parsed. An unparseable segment
// becomes NaN, which the id validator then rejects as a normal invalid
// field instead of a transport error.
func Numbers(names ...string) ParamCoercion {
	return func(params map[string]string) map[string]any {
		out := make(map[string]any, len(params))
		pick := params
		if len(names) > 0 {
			pick = make(map[string]string, len(names))
			for _, n := range names {
				if v, ok := params[n]; ok {
					pick[n] = v
				}
			}
		}
		for name, raw := range pick {
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				n = math.NaN()
			}
			out[name] = n
		}
		return out
	}
}

// Strings returns the identity coercion: every path parameter stays a
// string.
func Strings() ParamCoercion {
	return func(params map[string]string) map[string]any {
		out := make(map[string]any, len(params))
		for name, raw := range params {
			out[name] = raw
		}
		return out
	}
}

// routeTable binds every gateway endpoint to its call. Patterns use chi
// placeholder syntax; placeholder names match the call's parameter names so
// the coerced values merge straight into the parameter bag.
var routeTable = []Route{
	//----- Users -----//
	{http.MethodPost, "/user/create", model.CallTypeQuery, model.CallCreateUser, nil},
	{http.MethodGet, "/user/all", model.CallTypeQuery, model.CallGetAllUsers, Numbers()},
	{http.MethodGet, "/user/{user_id}", model.CallTypeQuery, model.CallGetUserByID, Numbers()},
	{http.MethodGet, "/user/email/{email}", model.CallTypeQuery, model.CallGetUserByEmail, Strings()},
	{http.MethodGet, "/user/{user_id}/teams", model.CallTypeQuery, model.CallGetUserTeams, Numbers()},
	{http.MethodPut, "/user/{user_id}", model.CallTypeMutation, model.CallUpdateUser, Numbers()},
	{http.MethodDelete, "/user/{user_id}", model.CallTypeMutation, model.CallDeleteUser, Numbers()},

	//----- Teams -----//
	{http.MethodPost, "/team/create", model.CallTypeQuery, model.CallCreateTeam, nil},
	{http.MethodGet, "/team/all", model.CallTypeQuery, model.CallGetAllTeams, nil},
	{http.MethodGet, "/team/{team_id}", model.CallTypeQuery, model.CallGetTeamByID, Numbers()},
	{http.MethodPut, "/team/{team_id}", model.CallTypeMutation, model.CallUpdateTeam, Numbers()},
	{http.MethodDelete, "/team/{team_id}", model.CallTypeMutation, model.CallDeleteTeam, Numbers()},

	//----- Membership -----//
	{http.MethodPost, "/team-membership/add", model.CallTypeQuery, model.CallAddUserToTeam, Numbers()},
	{http.MethodGet, "/team-membership/user/{user_id}/team/{team_id}", model.CallTypeQuery, model.CallGetTeamMembership, Numbers()},
	{http.MethodGet, "/team/{team_id}/members", model.CallTypeQuery, model.CallGetTeamMembers, Numbers()},
	{http.MethodDelete, "/team-membership/{member_id}", model.CallTypeMutation, model.CallRemoveUserFromTeam, Numbers()},

	//----- Statuses -----//
	{http.MethodPost, "/status/create", model.CallTypeMutation, model.CallCreateStatus, nil},
	{http.MethodGet, "/status/all", model.CallTypeQuery, model.CallGetAllStatuses, nil},
	{http.MethodGet, "/status/{status_id}", model.CallTypeQuery, model.CallGetStatusByID, Numbers()},
	{http.MethodGet, "/status/name/{name}", model.CallTypeQuery, model.CallGetStatusByName, Strings()},
	{http.MethodPut, "/status/{status_id}", model.CallTypeMutation, model.CallUpdateStatus, Numbers()},
	{http.MethodDelete, "/status/{status_id}", model.CallTypeMutation, model.CallDeleteStatus, Numbers()},

	//----- Todos -----//
	{http.MethodPost, "/todo/create", model.CallTypeMutation, model.CallCreateTodo, nil},
	{http.MethodGet, "/todo/{todo_id}", model.CallTypeQuery, model.CallGetTodoByID, Numbers()},
	{http.MethodGet, "/user/{user_id}/todos", model.CallTypeQuery, model.CallGetUserTodos, Numbers()},
	{http.MethodGet, "/team/{team_id}/user/{user_id}/todos", model.CallTypeQuery, model.CallGetMemberTodos, Numbers()},
	{http.MethodGet, "/team/{team_id}/todos", model.CallTypeQuery, model.CallGetTeamTodos, Numbers()},
	{http.MethodPut, "/todo/{todo_id}", model.CallTypeMutation, model.CallUpdateTodo, Numbers()},
	{http.MethodDelete, "/todo/{todo_id}", model.CallTypeMutation, model.CallDeleteTodo, Numbers()},

	//----- Global roles -----//
	{http.MethodPost, "/global-role/create", model.CallTypeMutation, model.CallCreateGlobalRole, nil},
	{http.MethodGet, "/global-role/all", model.CallTypeQuery, model.CallGetAllGlobalRoles, nil},
	{http.MethodGet, "/global-role/{role_id}", model.CallTypeQuery, model.CallGetGlobalRoleByID, Numbers()},
	{http.MethodGet, "/global-role/name/{name}", model.CallTypeQuery, model.CallGetGlobalRoleByName, Strings()},
	{http.MethodPut, "/global-role/{role_id}", model.CallTypeMutation, model.CallUpdateGlobalRole, Numbers()},
	{http.MethodDelete, "/global-role/{role_id}", model.CallTypeMutation, model.CallDeleteGlobalRole, Numbers()},
	{http.MethodPost, "/user/{user_id}/global-role/{role_id}/assign", model.CallTypeMutation, model.CallAssignGlobalRole, Numbers()},
	{http.MethodGet, "/user/{user_id}/global-roles", model.CallTypeQuery, model.CallGetUserGlobalRoles, Numbers()},
	{http.MethodDelete, "/user/{user_id}/global-role/{role_id}/revoke", model.CallTypeMutation, model.CallRevokeGlobalRole, Numbers()},

	//----- Local roles -----//
	{http.MethodPost, "/local-role/create", model.CallTypeMutation, model.CallCreateLocalRole, nil},
	{http.MethodGet, "/local-role/all", model.CallTypeQuery, model.CallGetAllLocalRoles, nil},
	{http.MethodGet, "/local-role/{role_id}", model.CallTypeQuery, model.CallGetLocalRoleByID, Numbers()},
	{http.MethodGet, "/local-role/name/{name}", model.CallTypeQuery, model.CallGetLocalRoleByName, Strings()},
	{http.MethodPut, "/local-role/{role_id}", model.CallTypeMutation, model.CallUpdateLocalRole, Numbers()},
	{http.MethodDelete, "/local-role/{role_id}", model.CallTypeMutation, model.CallDeleteLocalRole, Numbers()},
	{http.MethodPost, "/team-membership/{member_id}/local-role/{role_id}/assign", model.CallTypeMutation, model.CallAssignLocalRole, Numbers()},
	{http.MethodGet, "/team-membership/{member_id}/local-roles", model.CallTypeQuery, model.CallGetMemberLocalRoles, Numbers()},
	{http.MethodDelete, "/team-membership/{member_id}/local-role/{role_id}/revoke", model.CallTypeMutation, model.CallRevokeLocalRole, Numbers()},
}
