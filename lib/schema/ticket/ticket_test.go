// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"IN_PROGRESS", "inprogress"},
		{"In Progress", "inprogress"},
		{"on-hold", "onhold"},
		{"  OPEN ", "open"},
		{"", ""},
	}
	for _, test := range tests {
		if got := Normalize(test.input); got != test.want {
			t.Errorf("Normalize(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestStatusCanonical(t *testing.T) {
	tests := []struct {
		input Status
		want  Status
	}{
		{"INPROGRESS", StatusInProgress},
		{"in_progress", StatusInProgress},
		{"OnHold", StatusOnHold},
		{"closed", StatusClosed},
		{"ARCHIVED", "ARCHIVED"},
	}
	for _, test := range tests {
		if got := test.input.Canonical(); got != test.want {
			t.Errorf("Status(%q).Canonical() = %q, want %q", test.input, got, test.want)
		}
	}

	if got := Status("IN_PROGRESS").Label(); got != "In progress" {
		t.Errorf("Label() = %q, want %q", got, "In progress")
	}
}

func TestParseStatus_RejectsUnselectable(t *testing.T) {
	if _, err := ParseStatus("closed"); err == nil {
		t.Error("ParseStatus(closed) should fail: CLOSED is display-only")
	}
	status, err := ParseStatus("on hold")
	if err != nil {
		t.Fatalf("ParseStatus(on hold): %v", err)
	}
	if status != StatusOnHold {
		t.Errorf("ParseStatus(on hold) = %q, want ON_HOLD", status)
	}
}

func TestPriority(t *testing.T) {
	if !PriorityUrgent.Is(PriorityCritical) {
		t.Error("URGENT should equal CRITICAL")
	}
	if Priority("critical").Rank() >= Priority("low").Rank() {
		t.Error("critical should rank before low")
	}
	if Priority("whenever").Rank() != 4 {
		t.Error("unknown priority should rank last")
	}
	if _, err := ParsePriority("urgent"); err != nil {
		t.Errorf("ParsePriority(urgent): %v", err)
	}
}

func TestRoleParsing(t *testing.T) {
	tests := []struct {
		input string
		want  Role
	}{
		{"admin", RoleAdmin},
		{"data_member", RoleDataMember},
		{"Data Member", RoleDataMember},
		{"REQUESTER", RoleRequester},
	}
	for _, test := range tests {
		got, err := ParseRole(test.input)
		if err != nil {
			t.Errorf("ParseRole(%q): %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseRole(%q) = %q, want %q", test.input, got, test.want)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Error("ParseRole(superuser) should fail")
	}
}

func TestTicketUnmarshal_RequestTypeSpellings(t *testing.T) {
	var camel, snake Ticket
	if err := json.Unmarshal([]byte(`{"id":1,"title":"a","requestType":"BUG"}`), &camel); err != nil {
		t.Fatalf("unmarshal camel: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"id":2,"title":"b","request_type":"REPORT"}`), &snake); err != nil {
		t.Fatalf("unmarshal snake: %v", err)
	}
	if camel.RequestType != RequestBug {
		t.Errorf("camel requestType = %q, want BUG", camel.RequestType)
	}
	if snake.RequestType != RequestReport {
		t.Errorf("snake request_type = %q, want REPORT", snake.RequestType)
	}
}

func TestTicketUnmarshal_FullPayload(t *testing.T) {
	payload := `{
		"id": 17,
		"title": "Grant access to sales warehouse",
		"description": "Need **read** access",
		"requestType": "ACCESS",
		"priority": "HIGH",
		"status": "INPROGRESS",
		"requestedDataset": "sales_2026",
		"requester": {"id": 4, "name": "Ana", "email": "ana@example.com", "role": "REQUESTER"},
		"assignedTo": {"id": 9, "username": "dm9", "role": "DATAMEMBER"},
		"createdAt": "2026-03-01T09:30:00",
		"updatedAt": "2026-03-02T10:00:00Z",
		"dueDate": null
	}`

	var ticket Ticket
	if err := json.Unmarshal([]byte(payload), &ticket); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if ticket.Status.Canonical() != StatusInProgress {
		t.Errorf("status = %q, want canonical IN_PROGRESS", ticket.Status)
	}
	if ticket.RequesterDisplay() != "Ana" {
		t.Errorf("RequesterDisplay() = %q, want Ana", ticket.RequesterDisplay())
	}
	if ticket.AssigneeDisplay() != "dm9" {
		t.Errorf("AssigneeDisplay() = %q, want dm9", ticket.AssigneeDisplay())
	}
	if !ticket.RequestedBy(4) || ticket.RequestedBy(9) {
		t.Error("RequestedBy should match requester id 4 only")
	}
	if !ticket.AssignedToUser(9) {
		t.Error("AssignedToUser(9) should be true")
	}
	if ticket.CreatedAt.IsZero() || ticket.UpdatedAt.IsZero() {
		t.Error("timestamps should be parsed")
	}
	if !ticket.DueDate.IsZero() {
		t.Error("null dueDate should decode as zero")
	}
}

func TestTicketDisplayFallbacks(t *testing.T) {
	ticket := Ticket{RequesterName: "Flat Name"}
	if got := ticket.RequesterDisplay(); got != "Flat Name" {
		t.Errorf("RequesterDisplay() = %q, want Flat Name", got)
	}
	if got := ticket.AssigneeDisplay(); got != "Unassigned" {
		t.Errorf("AssigneeDisplay() = %q, want Unassigned", got)
	}
	if ticket.IsAssigned() {
		t.Error("IsAssigned() should be false")
	}

	unnamed := User{ID: 12}
	if got := unnamed.DisplayName(); got != "User-12" {
		t.Errorf("DisplayName() = %q, want User-12", got)
	}
}

func TestCommentUnmarshal_Variants(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantText   string
		wantAuthor string
	}{
		{
			name:       "comment with user object",
			payload:    `{"id":1,"comment":"looks good","createdBy":{"id":2,"name":"Bo"}}`,
			wantText:   "looks good",
			wantAuthor: "Bo",
		},
		{
			name:       "text with string author",
			payload:    `{"id":2,"text":"on it","createdBy":"Cy"}`,
			wantText:   "on it",
			wantAuthor: "Cy",
		},
		{
			name:       "user fallback field",
			payload:    `{"id":3,"comment":"done","user":{"id":5,"username":"dee"}}`,
			wantText:   "done",
			wantAuthor: "dee",
		},
		{
			name:       "no author",
			payload:    `{"id":4,"comment":"anonymous"}`,
			wantText:   "anonymous",
			wantAuthor: "Unknown",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var comment Comment
			if err := json.Unmarshal([]byte(test.payload), &comment); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if comment.Text != test.wantText {
				t.Errorf("Text = %q, want %q", comment.Text, test.wantText)
			}
			if got := comment.AuthorDisplay(); got != test.wantAuthor {
				t.Errorf("AuthorDisplay() = %q, want %q", got, test.wantAuthor)
			}
		})
	}
}

func TestAuditEntry_LooseValues(t *testing.T) {
	payload := `{"id":5,"action":"STATUS_CHANGE","oldValue":null,"newValue":"COMPLETED","updatedBy":7,"timestamp":"2026-03-01T10:00:00"}`

	var entry AuditEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.OldValue != "" {
		t.Errorf("OldValue = %q, want empty for null", entry.OldValue)
	}
	if entry.UpdatedBy != "7" {
		t.Errorf("UpdatedBy = %q, want 7", entry.UpdatedBy)
	}

	users := map[int64]User{7: {ID: 7, Name: "Eve"}}
	if got := entry.ActorDisplay(users); got != "Eve" {
		t.Errorf("ActorDisplay() = %q, want Eve", got)
	}
	if got := entry.ActorDisplay(nil); got != "User-7" {
		t.Errorf("ActorDisplay(nil) = %q, want User-7", got)
	}

	named := AuditEntry{UpdatedBy: "system-job"}
	if got := named.ActorDisplay(users); got != "system-job" {
		t.Errorf("ActorDisplay() = %q, want system-job", got)
	}
	if got := (&AuditEntry{}).ActorDisplay(users); got != "System" {
		t.Errorf("empty ActorDisplay() = %q, want System", got)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		payload string
		wantErr bool
		zero    bool
	}{
		{payload: `"2026-03-01T10:00:00Z"`},
		{payload: `"2026-03-01T10:00:00.123456"`},
		{payload: `"2026-03-01 10:00:00"`},
		{payload: `"2026-03-01"`},
		{payload: `1772359200000`},
		{payload: `null`, zero: true},
		{payload: `"garbage"`, zero: true},
	}
	for _, test := range tests {
		var timestamp Timestamp
		err := json.Unmarshal([]byte(test.payload), &timestamp)
		if (err != nil) != test.wantErr {
			t.Errorf("Unmarshal(%s) error = %v", test.payload, err)
			continue
		}
		if timestamp.IsZero() != test.zero {
			t.Errorf("Unmarshal(%s) zero = %v, want %v", test.payload, timestamp.IsZero(), test.zero)
		}
	}

	encoded, err := json.Marshal(Timestamp{})
	if err != nil || string(encoded) != "null" {
		t.Errorf("Marshal(zero) = %s, %v; want null", encoded, err)
	}

	fixed := Timestamp{Time: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	encoded, err = json.Marshal(fixed)
	if err != nil || string(encoded) != `"2026-03-01T10:00:00Z"` {
		t.Errorf("Marshal(fixed) = %s, %v", encoded, err)
	}
}

func TestCreateTicketForm_RequiredFields(t *testing.T) {
	form := NewCreateTicketForm()
	form.Requester = &UserRef{ID: 3}
	form.Description = "details"

	err := form.Validate()
	if err == nil {
		t.Fatal("missing title should block submission")
	}
	var formError *FormError
	if !errors.As(err, &formError) {
		t.Fatalf("error type = %T, want *FormError", err)
	}
	if !strings.Contains(err.Error(), "title is required") {
		t.Errorf("error = %q, want title is required", err)
	}

	form.Title = "   "
	if err := form.Validate(); err == nil {
		t.Error("blank title should block submission")
	}

	form.Title = "Need a report"
	if err := form.Validate(); err != nil {
		t.Errorf("complete form rejected: %v", err)
	}
}

func TestCreateTicketForm_Defaults(t *testing.T) {
	form := NewCreateTicketForm()
	if form.RequestType != RequestAccess || form.Priority != PriorityLow {
		t.Errorf("defaults = %s/%s, want ACCESS/LOW", form.RequestType, form.Priority)
	}

	form.Title = "t"
	form.Description = "d"
	form.Requester = &UserRef{ID: 1}
	form.Priority = "SOMETIME"
	if err := form.Validate(); err == nil || !strings.Contains(err.Error(), "priority") {
		t.Errorf("unknown priority should be rejected, got %v", err)
	}
}

func TestCreateTicketForm_RequiresRequester(t *testing.T) {
	form := NewCreateTicketForm()
	form.Title = "t"
	form.Description = "d"
	if err := form.Validate(); err == nil {
		t.Error("form without requester should be rejected")
	}
}

func TestRegisterForm(t *testing.T) {
	form := RegisterForm{Name: "Ana", Email: "not-an-email", Password: "pw"}
	err := form.Validate()
	if err == nil || !strings.Contains(err.Error(), "email") {
		t.Fatalf("invalid email should be rejected, got %v", err)
	}
	if form.Role != RoleRequester {
		t.Errorf("role default = %q, want REQUESTER", form.Role)
	}

	form.Email = "ana@example.com"
	form.Role = "data member"
	if err := form.Validate(); err != nil {
		t.Errorf("valid form rejected: %v", err)
	}
	if form.Role != RoleDataMember {
		t.Errorf("role = %q, want canonical DATAMEMBER", form.Role)
	}

	missing := RegisterForm{Email: "a@b.co", Password: "x"}
	if err := missing.Validate(); err == nil || err.Error() != "name is required" {
		t.Errorf("missing name error = %v", err)
	}
}

func TestCommentForm(t *testing.T) {
	form := CommentForm{Comment: "  ", Visibility: VisibilityInternal}
	if err := form.Validate(); err == nil {
		t.Error("blank comment should be rejected")
	}
	form.Comment = "hello"
	if err := form.Validate(); err != nil {
		t.Errorf("valid comment rejected: %v", err)
	}

	if DefaultVisibility(RoleRequester) != VisibilityRequester {
		t.Error("requester comments default to requester-facing")
	}
	if DefaultVisibility(RoleDataMember) != VisibilityInternal {
		t.Error("staff comments default to internal")
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		role    Role
		action  string
		allowed bool
	}{
		{RoleRequester, ActionCreate, true},
		{RoleDataMember, ActionCreate, false},
		{RoleAdmin, ActionCreate, false},
		{RoleDataMember, ActionListAssigned, true},
		{RoleAdmin, ActionListAssigned, false},
		{RoleAdmin, ActionShow, true},
		{RoleRequester, ActionShow, true},
		{RoleDataMember, ActionShow, false},
		{RoleAdmin, ActionUserRole, true},
		{RoleRequester, ActionUserRole, false},
		{"datamember", ActionUpdateStatus, true},
		{RoleRequester, ActionUpdateStatus, false},
		{RoleAdmin, ActionAssign, true},
		{RoleDataMember, ActionAssign, true},
		{RoleRequester, ActionAssign, false},
		{RoleRequester, "ticket/unknown", false},
		{"", ActionList, false},
	}
	for _, test := range tests {
		if got := Allowed(test.role, test.action); got != test.allowed {
			t.Errorf("Allowed(%q, %q) = %v, want %v", test.role, test.action, got, test.allowed)
		}
	}

	if got := AllowedRoles(ActionShow); got != "admin or requester" {
		t.Errorf("AllowedRoles(show) = %q", got)
	}
}
