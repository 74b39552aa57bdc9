// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"fmt"
	"strings"
)

// Normalize folds an enumerated value for comparison: lowercase with
// underscores, hyphens, and spaces removed. "IN_PROGRESS",
// "in progress", and "InProgress" all normalize to "inprogress".
func Normalize(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch r {
		case '_', '-', ' ':
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// Role is a user's role as sent by the service.
type Role string

const (
	RoleRequester  Role = "REQUESTER"
	RoleDataMember Role = "DATAMEMBER"
	RoleAdmin      Role = "ADMIN"
)

// Roles lists the assignable roles in display order.
var Roles = []Role{RoleRequester, RoleDataMember, RoleAdmin}

// Is reports whether r and other name the same role.
func (r Role) Is(other Role) bool {
	return Normalize(string(r)) == Normalize(string(other))
}

// Canonical returns the known spelling of r, or r unchanged when it
// matches no known role.
func (r Role) Canonical() Role {
	for _, known := range Roles {
		if r.Is(known) {
			return known
		}
	}
	return r
}

// Label returns the human-readable role name.
func (r Role) Label() string {
	switch r.Canonical() {
	case RoleRequester:
		return "Requester"
	case RoleDataMember:
		return "Data member"
	case RoleAdmin:
		return "Admin"
	}
	if r == "" {
		return "Unknown"
	}
	return string(r)
}

// ParseRole resolves user input ("admin", "data_member") to a Role.
func ParseRole(value string) (Role, error) {
	role := Role(value).Canonical()
	for _, known := range Roles {
		if role == known {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q (valid: requester, datamember, admin)", value)
}

// Status is a ticket's lifecycle state.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusOnHold     Status = "ON_HOLD"
	StatusCompleted  Status = "COMPLETED"
	StatusRejected   Status = "REJECTED"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

// Statuses lists the statuses a user may select when updating a ticket.
// RESOLVED and CLOSED are accepted when received but never offered.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusOnHold, StatusCompleted, StatusRejected}

var allStatuses = append(append([]Status{}, Statuses...), StatusResolved, StatusClosed)

// Is reports whether s and other name the same status.
func (s Status) Is(other Status) bool {
	return Normalize(string(s)) == Normalize(string(other))
}

// Canonical returns the known spelling of s ("INPROGRESS" becomes
// "IN_PROGRESS"), or s unchanged when it matches no known status.
func (s Status) Canonical() Status {
	for _, known := range allStatuses {
		if s.Is(known) {
			return known
		}
	}
	return s
}

// Label returns the human-readable status, e.g. "In progress".
func (s Status) Label() string {
	return label(string(s.Canonical()))
}

// ParseStatus resolves user input to a selectable Status.
func ParseStatus(value string) (Status, error) {
	status := Status(value).Canonical()
	for _, known := range Statuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (valid: open, in_progress, on_hold, completed, rejected)", value)
}

// Priority is a ticket's urgency.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"

	// PriorityUrgent is an older spelling of CRITICAL some tickets carry.
	PriorityUrgent Priority = "URGENT"
)

// Priorities lists the selectable priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Is reports whether p and other name the same priority. URGENT and
// CRITICAL are the same priority.
func (p Priority) Is(other Priority) bool {
	return Normalize(string(p.Canonical())) == Normalize(string(other.Canonical()))
}

// Canonical returns the known spelling of p.
func (p Priority) Canonical() Priority {
	if Normalize(string(p)) == Normalize(string(PriorityUrgent)) {
		return PriorityCritical
	}
	for _, known := range Priorities {
		if Normalize(string(p)) == Normalize(string(known)) {
			return known
		}
	}
	return p
}

// Rank orders priorities for sorting: 0 is most urgent. Unknown
// priorities sort last.
func (p Priority) Rank() int {
	switch p.Canonical() {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Label returns the human-readable priority.
func (p Priority) Label() string {
	return label(string(p.Canonical()))
}

// ParsePriority resolves user input to a Priority.
func ParsePriority(value string) (Priority, error) {
	priority := Priority(value).Canonical()
	for _, known := range Priorities {
		if priority == known {
			return priority, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q (valid: low, medium, high, critical)", value)
}

// RequestType categorizes what the requester needs.
type RequestType string

const (
	RequestAccess   RequestType = "ACCESS"
	RequestReport   RequestType = "REPORT"
	RequestBug      RequestType = "BUG"
	RequestPipeline RequestType = "PIPELINE"
	RequestFeature  RequestType = "FEATURE"
	RequestOther    RequestType = "OTHER"
)

// RequestTypes lists the selectable request types.
var RequestTypes = []RequestType{RequestAccess, RequestReport, RequestBug, RequestPipeline, RequestFeature, RequestOther}

// Is reports whether t and other name the same request type.
func (t RequestType) Is(other RequestType) bool {
	return Normalize(string(t)) == Normalize(string(other))
}

// Canonical returns the known spelling of t.
func (t RequestType) Canonical() RequestType {
	for _, known := range RequestTypes {
		if t.Is(known) {
			return known
		}
	}
	return t
}

// Label returns the human-readable request type.
func (t RequestType) Label() string {
	return label(string(t.Canonical()))
}

// ParseRequestType resolves user input to a RequestType.
func ParseRequestType(value string) (RequestType, error) {
	requestType := RequestType(value).Canonical()
	for _, known := range RequestTypes {
		if requestType == known {
			return requestType, nil
		}
	}
	return "", fmt.Errorf("unknown request type %q (valid: access, report, bug, pipeline, feature, other)", value)
}

// Visibility controls who can read a comment.
type Visibility string

const (
	// VisibilityInternal comments are visible to staff only.
	VisibilityInternal Visibility = "internal"
	// VisibilityRequester comments are visible to the ticket's requester.
	VisibilityRequester Visibility = "requester"
)

// ParseVisibility resolves user input to a Visibility. "public" is
// accepted as a synonym for requester-facing.
func ParseVisibility(value string) (Visibility, error) {
	switch Normalize(value) {
	case "internal":
		return VisibilityInternal, nil
	case "requester", "public":
		return VisibilityRequester, nil
	}
	return "", fmt.Errorf("unknown visibility %q (valid: internal, requester)", value)
}

// label turns "IN_PROGRESS" into "In progress".
func label(value string) string {
	if value == "" {
		return ""
	}
	lower := strings.ToLower(strings.ReplaceAll(value, "_", " "))
	return strings.ToUpper(lower[:1]) + lower[1:]
}
