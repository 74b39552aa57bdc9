// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import "strings"

// Client actions. Each names a view or mutation the client gates by
// role before calling the service. The service enforces its own
// authorization; this table only decides what the client offers.
const (
	ActionList         = "ticket/list"
	ActionShow         = "ticket/show"
	ActionCreate       = "ticket/create"
	ActionListAssigned = "ticket/assigned"
	ActionListOpen     = "ticket/open"
	ActionUpdateStatus = "ticket/status"
	ActionAssign       = "ticket/assign"
	ActionComment      = "ticket/comment"
	ActionAudit        = "ticket/audit"

	ActionUserList       = "user/list"
	ActionUserRole       = "user/role"
	ActionAdminDashboard = "admin/dashboard"

	ActionChat = "chat/send"
)

// anyRole marks an action open to every logged-in user.
var anyRole = []Role{RoleRequester, RoleDataMember, RoleAdmin}

// actionRoles maps each action to the roles allowed to perform it.
var actionRoles = map[string][]Role{
	ActionList: anyRole,
	ActionChat: anyRole,

	ActionCreate: {RoleRequester},

	ActionListAssigned: {RoleDataMember},

	// Requesters see their own open tickets; staff see all of them.
	ActionListOpen: anyRole,

	// Data members work tickets from the assigned view, so the detail
	// view with its comment thread is for requesters and admins.
	ActionShow:    {RoleAdmin, RoleRequester},
	ActionComment: {RoleAdmin, RoleRequester, RoleDataMember},
	ActionAudit:   {RoleAdmin, RoleRequester, RoleDataMember},

	ActionUpdateStatus: {RoleDataMember, RoleAdmin},
	ActionAssign:       {RoleAdmin, RoleDataMember},

	ActionUserList:       {RoleAdmin},
	ActionUserRole:       {RoleAdmin},
	ActionAdminDashboard: {RoleAdmin},
}

// Allowed reports whether role may perform action. Unknown actions
// and unknown roles are denied.
func Allowed(role Role, action string) bool {
	for _, allowed := range actionRoles[action] {
		if role.Is(allowed) {
			return true
		}
	}
	return false
}

// AllowedRoles returns a readable list of the roles that may perform
// action, e.g. "admin or requester".
func AllowedRoles(action string) string {
	roles := actionRoles[action]
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, strings.ToLower(role.Label()))
	}
	switch len(names) {
	case 0:
		return "nobody"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
