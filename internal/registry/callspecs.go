package registry

import "github.com/teamtodo/taskgate/model"

// Shared validator instances for the parameter table below.
var (
	vID        = ID()
	vStr       = String()
	vNonempty  = NonemptyString()
	vEmail     = Email()
	vDate      = Date()
	vTimestamp = Timestamp()
	vBool      = Bool()

	vIDOpt        = Optional(vID)
	vStrOpt       = Optional(vStr)
	vEmailOpt     = Optional(vEmail)
	vDateOpt      = Optional(vDate)
	vTimestampOpt = Optional(vTimestamp)
	vBoolOpt      = Optional(vBool)
)

// callSpecs is the parameter contract of every call. Entry order within a
// spec matches the declared parameter order of the store-side routine. The
// table must cover the whole CallName set; New verifies that before the
// gateway serves traffic.
var callSpecs = map[model.CallName]model.ParamSpec{
	//----- Users -----//
	model.CallGetAllUsers:          {},
	model.CallGetUserByEmail:       {{Name: "email", Validator: vEmail}},
	model.CallGetUserByID:          {{Name: "user_id", Validator: vID}},
	model.CallGetUserTeams:         {{Name: "user_id", Validator: vID}},
	model.CallGetUserTodos:         {{Name: "user_id", Validator: vID}},
	model.CallGetUserSecrets:       {{Name: "user_id", Validator: vID}},
	model.CallGetUserSecretsByMail: {{Name: "email", Validator: vEmail}},
	model.CallCreateUser: {
		{Name: "name", Validator: vStr},
		{Name: "email", Validator: vEmail},
		{Name: "password_hash", Validator: vStr},
		{Name: "two_fa_secret", Validator: vStrOpt},
		{Name: "two_fa_saved", Validator: vBoolOpt},
	},
	model.CallUpdateUser: {
		{Name: "user_id", Validator: vID},
		{Name: "name", Validator: vStrOpt},
		{Name: "email", Validator: vEmailOpt},
		{Name: "password_hash", Validator: vStrOpt},
		{Name: "two_fa_secret", Validator: vStrOpt},
		{Name: "two_fa_saved", Validator: vBoolOpt},
	},
	model.CallDeleteUser: {{Name: "user_id", Validator: vID}},

	//----- Teams -----//
	model.CallGetAllTeams: {},
	model.CallGetTeamByID: {{Name: "team_id", Validator: vID}},
	model.CallCreateTeam: {
		{Name: "name", Validator: vStr},
		{Name: "description", Validator: vStr},
	},
	model.CallUpdateTeam: {
		{Name: "team_id", Validator: vID},
		{Name: "name", Validator: vStrOpt},
		{Name: "description", Validator: vStrOpt},
	},
	model.CallDeleteTeam: {{Name: "team_id", Validator: vID}},

	//----- Membership -----//
	model.CallAddTeamMember: {
		{Name: "user_id", Validator: vID},
		{Name: "team_id", Validator: vID},
	},
	model.CallAddUserToTeam: {
		{Name: "user_id", Validator: vID},
		{Name: "team_id", Validator: vID},
	},
	model.CallRemoveTeamMember: {
		{Name: "user_id", Validator: vID},
		{Name: "team_id", Validator: vID},
	},
	model.CallRemoveUserFromTeam: {{Name: "member_id", Validator: vID}},
	model.CallGetTeamMembers:     {{Name: "team_id", Validator: vID}},
	model.CallGetTeamMembership: {
		{Name: "user_id", Validator: vID},
		{Name: "team_id", Validator: vID},
	},

	//----- Todos -----//
	model.CallGetTodoByID:  {{Name: "todo_id", Validator: vID}},
	model.CallGetTeamTodos: {{Name: "team_id", Validator: vID}},
	model.CallGetMemberTodos: {
		{Name: "team_id", Validator: vID},
		{Name: "user_id", Validator: vID},
	},
	model.CallCreateTodo: {
		{Name: "created_by", Validator: vID},
		{Name: "team_id", Validator: vID},
		{Name: "title", Validator: vNonempty},
		{Name: "description", Validator: vStr},
		{Name: "status", Validator: vID},
		{Name: "assigned_to", Validator: vIDOpt},
		{Name: "due_date", Validator: vDateOpt},
	},
	model.CallUpdateTodo: {
		{Name: "todo_id", Validator: vID},
		{Name: "assigned_to", Validator: vIDOpt},
		{Name: "title", Validator: vStrOpt},
		{Name: "description", Validator: vStrOpt},
		{Name: "status", Validator: vIDOpt},
		{Name: "due_date", Validator: vDateOpt},
		{Name: "completed_at", Validator: vTimestampOpt},
	},
	model.CallDeleteTodo: {{Name: "todo_id", Validator: vID}},

	//----- Statuses -----//
	model.CallGetAllStatuses:  {},
	model.CallGetStatusByID:   {{Name: "status_id", Validator: vID}},
	model.CallGetStatusByName: {{Name: "name", Validator: vStr}},
	model.CallCreateStatus:    {{Name: "name", Validator: vStr}},
	model.CallUpdateStatus: {
		{Name: "status_id", Validator: vID},
		{Name: "name", Validator: vStr},
	},
	model.CallDeleteStatus: {{Name: "status_id", Validator: vID}},

	//----- Global roles -----//
	model.CallGetAllGlobalRoles:   {},
	model.CallGetGlobalRoleByID:   {{Name: "role_id", Validator: vID}},
	model.CallGetGlobalRoleByName: {{Name: "name", Validator: vStr}},
	model.CallCreateGlobalRole:    {{Name: "name", Validator: vStr}},
	model.CallUpdateGlobalRole: {
		{Name: "role_id", Validator: vID},
		{Name: "name", Validator: vStr},
	},
	model.CallDeleteGlobalRole: {{Name: "role_id", Validator: vID}},
	model.CallAssignGlobalRole: {
		{Name: "user_id", Validator: vID},
		{Name: "role_id", Validator: vID},
	},
	model.CallRevokeGlobalRole: {
		{Name: "user_id", Validator: vID},
		{Name: "role_id", Validator: vID},
	},
	model.CallGetUserGlobalRoles: {{Name: "user_id", Validator: vID}},

	//----- Local roles -----//
	model.CallGetAllLocalRoles:   {},
	model.CallGetLocalRoleByID:   {{Name: "role_id", Validator: vID}},
	model.CallGetLocalRoleByName: {{Name: "name", Validator: vStr}},
	model.CallCreateLocalRole:    {{Name: "name", Validator: vStr}},
	model.CallUpdateLocalRole: {
		{Name: "role_id", Validator: vID},
		{Name: "name", Validator: vStr},
	},
	model.CallDeleteLocalRole: {{Name: "role_id", Validator: vID}},
	model.CallAssignLocalRole: {
		{Name: "member_id", Validator: vID},
		{Name: "role_id", Validator: vID},
	},
	model.CallRevokeLocalRole: {
		{Name: "member_id", Validator: vID},
		{Name: "role_id", Validator: vID},
	},
	model.CallGetMemberLocalRoles: {{Name: "member_id", Validator: vID}},
}

