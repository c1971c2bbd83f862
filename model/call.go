// Package model contains the shared types of the call gateway: the closed
// call-name set, parameter contracts, the uniform response envelope, and the
// principal request context.
package model

// CallName identifies one backend operation exposed through the gateway.
// The set of values is closed: only the constants below exist, and only they
// ever reach the executor's statement builder. Route and parameter tables
// reference these constants, never free strings.
type CallName string

// CallType distinguishes set-returning functions from procedures.
// Queries return rows and accept pagination; mutations return no rows.
type CallType string

const (
	CallTypeQuery    CallType = "func"
	CallTypeMutation CallType = "proc"
)

// Query calls.
const (
	CallGetAllUsers          CallName = "get_all_users"
	CallGetUserByEmail       CallName = "get_user_by_email"
	CallGetUserByID          CallName = "get_user_by_id"
	CallGetUserGlobalRoles   CallName = "get_user_global_roles"
	CallGetUserTeams         CallName = "get_user_teams"
	CallGetUserTodos         CallName = "get_user_todos"
	CallGetUserSecrets       CallName = "get_user_secrets"
	CallGetUserSecretsByMail CallName = "get_user_secrets_by_email"

	CallGetAllTeams       CallName = "get_all_teams"
	CallGetTeamByID       CallName = "get_team_by_id"
	CallGetTeamMembers    CallName = "get_team_members"
	CallGetTeamMembership CallName = "get_team_membership"
	CallGetTeamTodos      CallName = "get_team_todos"
	CallGetMemberTodos    CallName = "get_member_todos"

	CallGetTodoByID CallName = "get_todo_by_id"

	CallGetMemberLocalRoles CallName = "get_member_local_roles"

	CallGetAllGlobalRoles    CallName = "get_all_global_roles"
	CallGetGlobalRoleByID    CallName = "get_global_role_by_id"
	CallGetGlobalRoleByName  CallName = "get_global_role_by_name"
	CallGetAllLocalRoles     CallName = "get_all_local_roles"
	CallGetLocalRoleByID     CallName = "get_local_role_by_id"
	CallGetLocalRoleByName   CallName = "get_local_role_by_name"
	CallGetAllStatuses       CallName = "get_all_statuses"
	CallGetStatusByID        CallName = "get_status_by_id"
	CallGetStatusByName      CallName = "get_status_by_name"
	CallCreateUser           CallName = "create_user"
	CallCreateTeam           CallName = "create_team"
	CallAddUserToTeam        CallName = "add_user_to_team"
)

// Mutation calls.
const (
	CallAddTeamMember      CallName = "add_team_member"
	CallRemoveTeamMember   CallName = "remove_team_member"
	CallRemoveUserFromTeam CallName = "remove_user_from_team"

	CallAssignGlobalRole CallName = "assign_global_role"
	CallRevokeGlobalRole CallName = "revoke_global_role"
	CallAssignLocalRole  CallName = "assign_local_role"
	CallRevokeLocalRole  CallName = "revoke_local_role"

	CallCreateGlobalRole CallName = "create_global_role"
	CallCreateLocalRole  CallName = "create_local_role"
	CallCreateStatus     CallName = "create_status"
	CallCreateTodo       CallName = "create_todo"

	CallDeleteGlobalRole CallName = "delete_global_role"
	CallDeleteLocalRole  CallName = "delete_local_role"
	CallDeleteStatus     CallName = "delete_status"
	CallDeleteTeam       CallName = "delete_team"
	CallDeleteTodo       CallName = "delete_todo"
	CallDeleteUser       CallName = "delete_user"

	CallUpdateGlobalRole CallName = "update_global_role"
	CallUpdateLocalRole  CallName = "update_local_role"
	CallUpdateStatus     CallName = "update_status"
	CallUpdateTeam       CallName = "update_team"
	CallUpdateTodo       CallName = "update_todo"
	CallUpdateUser       CallName = "update_user"
)

// AllCallNames lists every member of the closed call set. The registry is
// verified against this list at startup; a call missing a parameter spec is
// a programming error, not a runtime condition.
func AllCallNames() []CallName {
	return []CallName{
		CallGetAllUsers, CallGetUserByEmail, CallGetUserByID,
		CallGetUserGlobalRoles, CallGetUserTeams, CallGetUserTodos,
		CallGetUserSecrets, CallGetUserSecretsByMail,
		CallGetAllTeams, CallGetTeamByID, CallGetTeamMembers,
		CallGetTeamMembership, CallGetTeamTodos, CallGetMemberTodos,
		CallGetTodoByID, CallGetMemberLocalRoles,
		CallGetAllGlobalRoles, CallGetGlobalRoleByID, CallGetGlobalRoleByName,
		CallGetAllLocalRoles, CallGetLocalRoleByID, CallGetLocalRoleByName,
		CallGetAllStatuses, CallGetStatusByID, CallGetStatusByName,
		CallCreateUser, CallCreateTeam, CallAddUserToTeam,
		CallAddTeamMember, CallRemoveTeamMember, CallRemoveUserFromTeam,
		CallAssignGlobalRole, CallRevokeGlobalRole,
		CallAssignLocalRole, CallRevokeLocalRole,
		CallCreateGlobalRole, CallCreateLocalRole, CallCreateStatus,
		CallCreateTodo,
		CallDeleteGlobalRole, CallDeleteLocalRole, CallDeleteStatus,
		CallDeleteTeam, CallDeleteTodo, CallDeleteUser,
		CallUpdateGlobalRole, CallUpdateLocalRole, CallUpdateStatus,
		CallUpdateTeam, CallUpdateTodo, CallUpdateUser,
	}
}

// RawParams is the ordered, positional argument list passed to the store.
// Element order follows the call's ParamSpec, which in turn matches the
// declared parameter order of the store-side procedure. Values are always
// bound, never spliced into statement text.
type RawParams []any

// Row is one result row keyed by column name.
type Row map[string]any

// Pagination defaults. A query call with no explicit pagination returns the
// first DefaultItemsPerPage rows.
const (
	DefaultPage         = 0
	DefaultItemsPerPage = 100
)

// Pagination bounds a query call's result set. Zero values mean "use
// defaults"; it is ignored entirely for mutations.
type Pagination struct {
	Page         int
	ItemsPerPage int
}

// Normalize replaces out-of-range values with the defaults. Negative pages
// and non-positive page sizes fall back rather than producing LIMIT 0.
func (p Pagination) Normalize() Pagination {
	if p.Page < 0 {
		p.Page = DefaultPage
	}
	if p.ItemsPerPage <= 0 {
		p.ItemsPerPage = DefaultItemsPerPage
	}
	return p
}

// Limit returns the bound LIMIT value.
func (p Pagination) Limit() int { return p.ItemsPerPage }

// Offset returns the bound OFFSET value.
func (p Pagination) Offset() int { return p.Page * p.ItemsPerPage }

// CallData is a single request's resolved call: the name, the raw parameter
// bag merged from body and URL fields, and pagination for queries. It lives
// for one request only.
type CallData struct {
	Call       CallName
	Type       CallType
	Params     map[string]any
	Pagination Pagination
}
