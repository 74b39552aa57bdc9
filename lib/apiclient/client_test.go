// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// recordedRequest is what the fake service saw for one call.
type recordedRequest struct {
	Method  string
	Path    string
	Query   map[string]string
	Headers http.Header
	Body    string
}

// fakeService records requests and answers each path with a canned
// status and body.
type fakeService struct {
	mutex     sync.Mutex
	requests  []recordedRequest
	responses map[string]cannedResponse
}

type cannedResponse struct {
	status      int
	body        string
	contentType string
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	service := &fakeService{responses: make(map[string]cannedResponse)}
	server := httptest.NewServer(http.HandlerFunc(service.serve))
	t.Cleanup(server.Close)
	return service, server
}

func (s *fakeService) respond(methodAndPath string, status int, body string) {
	s.responses[methodAndPath] = cannedResponse{status: status, body: body, contentType: "application/json"}
}

func (s *fakeService) serve(writer http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)
	query := make(map[string]string)
	for key, values := range request.URL.Query() {
		query[key] = values[0]
	}

	s.mutex.Lock()
	s.requests = append(s.requests, recordedRequest{
		Method:  request.Method,
		Path:    request.URL.Path,
		Query:   query,
		Headers: request.Header.Clone(),
		Body:    string(body),
	})
	response, ok := s.responses[request.Method+" "+request.URL.Path]
	s.mutex.Unlock()

	if !ok {
		writer.WriteHeader(http.StatusNotFound)
		return
	}
	if response.contentType != "" {
		writer.Header().Set("Content-Type", response.contentType)
	}
	writer.WriteHeader(response.status)
	io.WriteString(writer, response.body)
}

func (s *fakeService) last(t *testing.T) recordedRequest {
	t.Helper()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.requests) == 0 {
		t.Fatal("no requests recorded")
	}
	return s.requests[len(s.requests)-1]
}

func (s *fakeService) count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.requests)
}

func TestClient_AttachesBearerAndJSONHeaders(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("GET /api/tickets", http.StatusOK, `[{"id":1,"title":"a"}]`)

	client := New(Options{BaseURL: server.URL, Token: "secret-token"})
	tickets, err := client.Tickets(context.Background())
	if err != nil {
		t.Fatalf("Tickets() error: %v", err)
	}
	if len(tickets) != 1 || tickets[0].Title != "a" {
		t.Errorf("tickets = %+v", tickets)
	}

	request := service.last(t)
	if got := request.Headers.Get("Authorization"); got != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want Bearer secret-token", got)
	}
	if got := request.Headers.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if request.Headers.Get(RequestIDHeader) == "" {
		t.Error("request id header missing")
	}
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("GET /api/users", http.StatusOK, `[]`)

	client := New(Options{BaseURL: server.URL})
	if _, err := client.Users(context.Background()); err != nil {
		t.Fatalf("Users() error: %v", err)
	}
	if got := service.last(t).Headers.Get("Authorization"); got != "" {
		t.Errorf("Authorization = %q, want none", got)
	}

	client.SetToken("later")
	if _, err := client.Users(context.Background()); err != nil {
		t.Fatalf("Users() error: %v", err)
	}
	if got := service.last(t).Headers.Get("Authorization"); got != "Bearer later" {
		t.Errorf("Authorization after SetToken = %q", got)
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "json message",
			status:      http.StatusBadRequest,
			body:        `{"message":"Ticket not assignable"}`,
			wantMessage: "Ticket not assignable",
		},
		{
			name:        "json without message",
			status:      http.StatusForbidden,
			body:        `{"error":"Forbidden"}`,
			wantMessage: "Request failed: 403",
		},
		{
			name:        "non-json body",
			status:      http.StatusInternalServerError,
			body:        `<html>oops</html>`,
			wantMessage: "Request failed: 500",
		},
		{
			name:        "empty body",
			status:      http.StatusNotFound,
			body:        ``,
			wantMessage: "Request failed: 404",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			service, server := newFakeService(t)
			service.respond("GET /api/tickets/9", test.status, test.body)

			client := New(Options{BaseURL: server.URL})
			_, err := client.Ticket(context.Background(), 9)
			if err == nil {
				t.Fatal("expected error")
			}
			var apiError *APIError
			if !errors.As(err, &apiError) {
				t.Fatalf("error type = %T, want *APIError", err)
			}
			if apiError.StatusCode != test.status {
				t.Errorf("StatusCode = %d, want %d", apiError.StatusCode, test.status)
			}
			if err.Error() != test.wantMessage {
				t.Errorf("Error() = %q, want %q", err.Error(), test.wantMessage)
			}
			if !IsStatus(err, test.status) {
				t.Error("IsStatus should match")
			}
		})
	}
}

func TestClient_SingleAttempt(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("GET /api/tickets", http.StatusServiceUnavailable, ``)

	client := New(Options{BaseURL: server.URL})
	if _, err := client.Tickets(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if service.count() != 1 {
		t.Errorf("requests = %d, want exactly 1 (no retries)", service.count())
	}
}

func TestClient_AbsoluteURLBypassesBase(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("GET /api/tickets", http.StatusOK, `[]`)

	client := New(Options{BaseURL: "http://127.0.0.1:1"})
	var tickets []ticket.Ticket
	if err := client.Get(context.Background(), server.URL+"/api/tickets", &tickets); err != nil {
		t.Fatalf("Get(absolute) error: %v", err)
	}
	if service.count() != 1 {
		t.Errorf("requests = %d, want 1", service.count())
	}
}

func TestClient_PutWithoutBody(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("PUT /api/anything", http.StatusOK, ``)

	client := New(Options{BaseURL: server.URL})
	if err := client.Put(context.Background(), "/api/anything", nil, nil); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if body := service.last(t).Body; body != "" {
		t.Errorf("body = %q, want empty", body)
	}
}

func TestClient_UpdateStatusQuery(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("PUT /api/tickets/5/status", http.StatusOK, `{"id":5,"title":"x","status":"IN_PROGRESS"}`)

	client := New(Options{BaseURL: server.URL, Token: "t"})
	updated, err := client.UpdateStatus(context.Background(), 5, "in progress", 11)
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if updated == nil || updated.Status != ticket.StatusInProgress {
		t.Errorf("updated = %+v", updated)
	}

	request := service.last(t)
	if request.Query["status"] != "IN_PROGRESS" {
		t.Errorf("status query = %q, want IN_PROGRESS", request.Query["status"])
	}
	if request.Query["userId"] != "11" {
		t.Errorf("userId query = %q, want 11", request.Query["userId"])
	}
}

func TestClient_UpdateStatusTextAcknowledgement(t *testing.T) {
	service, server := newFakeService(t)
	service.responses["PUT /api/tickets/5/status"] = cannedResponse{status: http.StatusOK, body: "Status updated", contentType: "text/plain"}

	client := New(Options{BaseURL: server.URL})
	updated, err := client.UpdateStatus(context.Background(), 5, ticket.StatusCompleted, 1)
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if updated != nil {
		t.Errorf("updated = %+v, want nil for a text acknowledgement", updated)
	}
}

func TestClient_Assign(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("PUT /api/tickets/3/assign/8", http.StatusOK, `{"id":3,"title":"x","assignedTo":{"id":8,"name":"Dm"}}`)

	client := New(Options{BaseURL: server.URL})
	updated, err := client.Assign(context.Background(), 3, 8)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	if updated.AssigneeDisplay() != "Dm" {
		t.Errorf("assignee = %q, want Dm", updated.AssigneeDisplay())
	}
}

func TestClient_UpdateRole(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("PUT /api/users/4/role", http.StatusOK, `{"id":4,"name":"Ana","role":"DATAMEMBER"}`)

	client := New(Options{BaseURL: server.URL})
	updated, err := client.UpdateRole(context.Background(), 4, "data_member")
	if err != nil {
		t.Fatalf("UpdateRole() error: %v", err)
	}
	if updated == nil || !updated.Role.Is(ticket.RoleDataMember) {
		t.Errorf("updated = %+v", updated)
	}
	if got := service.last(t).Query["role"]; got != "DATAMEMBER" {
		t.Errorf("role query = %q, want DATAMEMBER", got)
	}
}

func TestClient_CreateTicket(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("POST /api/tickets", http.StatusCreated, `{"id":77,"title":"Need access","status":"OPEN"}`)

	client := New(Options{BaseURL: server.URL})
	form := ticket.NewCreateTicketForm()
	form.Title = "  Need access "
	form.Description = "to the warehouse"
	form.Priority = "high"
	form.Requester = &ticket.UserRef{ID: 4}

	created, err := client.CreateTicket(context.Background(), form)
	if err != nil {
		t.Fatalf("CreateTicket() error: %v", err)
	}
	if created.ID != 77 {
		t.Errorf("created id = %d, want 77", created.ID)
	}

	var sent map[string]any
	if err := json.Unmarshal([]byte(service.last(t).Body), &sent); err != nil {
		t.Fatalf("decoding sent body: %v", err)
	}
	if sent["title"] != "Need access" {
		t.Errorf("title = %v, want trimmed", sent["title"])
	}
	if sent["priority"] != "HIGH" || sent["requestType"] != "ACCESS" {
		t.Errorf("priority/requestType = %v/%v", sent["priority"], sent["requestType"])
	}
	requester, _ := sent["requester"].(map[string]any)
	if requester["id"] != float64(4) {
		t.Errorf("requester = %v, want {id:4}", sent["requester"])
	}
}

func TestClient_CreateTicketValidationBlocksRequest(t *testing.T) {
	service, server := newFakeService(t)

	client := New(Options{BaseURL: server.URL})
	form := ticket.NewCreateTicketForm()
	form.Requester = &ticket.UserRef{ID: 4}

	_, err := client.CreateTicket(context.Background(), form)
	var formError *ticket.FormError
	if !errors.As(err, &formError) {
		t.Fatalf("error = %v, want *ticket.FormError", err)
	}
	if service.count() != 0 {
		t.Errorf("requests = %d, want 0", service.count())
	}
}

func TestClient_Comments(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("GET /api/tickets/2/comments", http.StatusOK, `[{"id":1,"comment":"hi","createdBy":{"id":3,"name":"Ana"}}]`)
	service.respond("POST /api/tickets/2/comments", http.StatusOK, `{"id":2,"comment":"on it"}`)

	client := New(Options{BaseURL: server.URL})
	comments, err := client.Comments(context.Background(), 2)
	if err != nil {
		t.Fatalf("Comments() error: %v", err)
	}
	if len(comments) != 1 || comments[0].AuthorDisplay() != "Ana" {
		t.Errorf("comments = %+v", comments)
	}

	created, err := client.AddComment(context.Background(), 2, 9, ticket.CommentForm{Comment: "on it", Visibility: ticket.VisibilityInternal})
	if err != nil {
		t.Fatalf("AddComment() error: %v", err)
	}
	if created == nil || created.Text != "on it" {
		t.Errorf("created = %+v", created)
	}

	request := service.last(t)
	if got := request.Headers.Get(UserIDHeader); got != "9" {
		t.Errorf("user-id header = %q, want 9", got)
	}
	if !strings.Contains(request.Body, `"visibility":"internal"`) {
		t.Errorf("body = %s, want internal visibility", request.Body)
	}
}

func TestClient_Audit(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("GET /api/tickets/audit/6", http.StatusOK, `[{"id":1,"action":"ASSIGN","oldValue":null,"newValue":8,"updatedBy":1}]`)

	client := New(Options{BaseURL: server.URL})
	entries, err := client.Audit(context.Background(), 6)
	if err != nil {
		t.Fatalf("Audit() error: %v", err)
	}
	if len(entries) != 1 || entries[0].NewValue != "8" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestClient_Chat(t *testing.T) {
	service, server := newFakeService(t)
	service.responses["POST /api/chat"] = cannedResponse{status: http.StatusOK, body: "1. Create Ticket\n2. Check Status\n", contentType: "text/plain"}

	client := New(Options{BaseURL: server.URL})
	reply, err := client.Chat(context.Background(), 3, "hello")
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if reply != "1. Create Ticket\n2. Check Status" {
		t.Errorf("reply = %q", reply)
	}

	request := service.last(t)
	if request.Query["userId"] != "3" {
		t.Errorf("userId = %q, want 3", request.Query["userId"])
	}
	if !strings.HasPrefix(request.Headers.Get("Content-Type"), "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", request.Headers.Get("Content-Type"))
	}
	if request.Body != "hello" {
		t.Errorf("body = %q, want hello", request.Body)
	}
}

func TestClient_LoginAndRegister(t *testing.T) {
	service, server := newFakeService(t)
	service.respond("POST /api/auth/login", http.StatusOK, `{"token":"jwt","user":{"id":1,"name":"Ana","role":"ADMIN"}}`)
	service.respond("POST /api/users", http.StatusOK, `{"id":2,"name":"Bo","role":"REQUESTER"}`)

	client := New(Options{BaseURL: server.URL})
	result, err := client.Login(context.Background(), ticket.LoginForm{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if result.Token != "jwt" || !result.User.Role.Is(ticket.RoleAdmin) {
		t.Errorf("result = %+v", result)
	}

	user, err := client.Register(context.Background(), ticket.RegisterForm{Name: "Bo", Email: "bo@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if user.ID != 2 {
		t.Errorf("user = %+v", user)
	}
	if !strings.Contains(service.last(t).Body, `"role":"REQUESTER"`) {
		t.Errorf("register body = %s, want default role", service.last(t).Body)
	}

	if _, err := client.Login(context.Background(), ticket.LoginForm{Email: "ana@example.com"}); err == nil {
		t.Error("login without password should fail validation")
	}
}
