// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
)

func listIDs(t *testing.T, output string) []int64 {
	t.Helper()
	var tickets []ticket.Ticket
	if err := json.Unmarshal([]byte(output), &tickets); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	ids := make([]int64, 0, len(tickets))
	for _, item := range tickets {
		ids = append(ids, item.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for index := range a {
		if a[index] != b[index] {
			return false
		}
	}
	return true
}

func TestList(t *testing.T) {
	tests := []struct {
		name string
		as   func(f *fixture) ticket.User
		args []string
		want []int64
	}{
		{"admin sees everything newest first", func(f *fixture) ticket.User { return f.admin }, nil, []int64{102, 101, 100}},
		{"requester sees own", func(f *fixture) ticket.User { return f.requester }, nil, []int64{101, 100}},
		{"status filter", func(f *fixture) ticket.User { return f.admin }, []string{"--status", "open"}, []int64{102, 100}},
		{"status ALL", func(f *fixture) ticket.User { return f.admin }, []string{"--status", "ALL"}, []int64{102, 101, 100}},
		{"priority alias", func(f *fixture) ticket.User { return f.admin }, []string{"--priority", "urgent"}, []int64{101}},
		{"type filter", func(f *fixture) ticket.User { return f.dana }, []string{"--type", "report"}, []int64{102}},
		{"search title", func(f *fixture) ticket.User { return f.admin }, []string{"--search", "SALES"}, []int64{100}},
		{"search id", func(f *fixture) ticket.User { return f.admin }, []string{"-q", "101"}, []int64{101}},
		{"unassigned", func(f *fixture) ticket.User { return f.admin }, []string{"--assignee", "unassigned"}, []int64{102, 100}},
		{"priority sort", func(f *fixture) ticket.User { return f.admin }, []string{"--sort", "priority"}, []int64{101, 100, 102}},
		{"limit", func(f *fixture) ticket.User { return f.admin }, []string{"--sort", "id", "--limit", "2"}, []int64{100, 101}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(t)
			f.loginAs(t, test.as(f))
			output, err := run(t, append([]string{"list", "--json"}, test.args...)...)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if got := listIDs(t, output); !equalIDs(got, test.want) {
				t.Errorf("ids = %v, want %v", got, test.want)
			}
		})
	}
}

func TestList_Table(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, f.admin)
	output, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"ID", "ASSIGNEE", "#101", "IN_PROGRESS", "Dana", "Unassigned", "Finance report"} {
		if !strings.Contains(output, want) {
			t.Errorf("table missing %q:\n%s", want, output)
		}
	}
}

func TestList_BadFilters(t *testing.T) {
	for _, args := range [][]string{
		{"--status", "done"},
		{"--priority", "meh"},
		{"--type", "coffee"},
		{"--sort", "alphabetical"},
	} {
		f := newFixture(t)
		f.loginAs(t, f.admin)
		_, err := run(t, append([]string{"list"}, args...)...)
		if category(err) != cli.CategoryValidation {
			t.Errorf("list %v: error = %v, want validation", args, err)
		}
		if len(f.service.Requests()) != 0 {
			t.Errorf("list %v: a bad filter should fail before any request", args)
		}
	}
}

func TestList_EmptyIsJSONArray(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, f.admin)
	output, err := run(t, "list", "--search", "nothing like this", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(output) != "[]" {
		t.Errorf("output = %q, want []", output)
	}
}

func TestOpen(t *testing.T) {
	f := newFixture(t)

	f.loginAs(t, f.admin)
	output, err := run(t, "open", "--json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := listIDs(t, output); !equalIDs(got, []int64{102, 100}) {
		t.Errorf("admin open = %v", got)
	}

	f.loginAs(t, f.otherRequester)
	output, err = run(t, "open", "--json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := listIDs(t, output); !equalIDs(got, []int64{102}) {
		t.Errorf("requester open = %v, want only their own", got)
	}
}

func TestAssigned(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, f.dana)
	output, err := run(t, "assigned", "--json")
	if err != nil {
		t.Fatalf("assigned: %v", err)
	}
	if got := listIDs(t, output); !equalIDs(got, []int64{101}) {
		t.Errorf("assigned = %v", got)
	}
	requests := f.service.Requests()
	if len(requests) != 1 || requests[0].Path != "/api/tickets/assigned-to/3" {
		t.Errorf("requests = %+v", requests)
	}
}

func TestAssigned_RoleGate(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, f.admin)
	_, err := run(t, "assigned")
	if category(err) != cli.CategoryForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
	if !strings.Contains(err.Error(), "data member") {
		t.Errorf("error = %q, want the required role", err)
	}
	if len(f.service.Requests()) != 0 {
		t.Error("a gated command should not reach the service")
	}
}
