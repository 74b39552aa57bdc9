// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package apitest runs an in-memory ticketing service for tests. It
// answers the same routes as the real service closely enough for
// command and client tests to exercise full request/response cycles
// without canned per-path bodies.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// signingKey signs the tokens the fake issues. Clients never verify
// them; they only read the exp claim.
var signingKey = []byte("apitest")

// Request is one call the service received.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Body   string
}

// Service is the fake ticketing service. All methods are safe for
// concurrent use; handlers and tests share one mutex.
type Service struct {
	mutex sync.Mutex

	users     map[int64]ticket.User
	passwords map[int64]string
	tickets   map[int64]ticket.Ticket
	comments  map[int64][]ticket.Comment
	audit     map[int64][]ticket.AuditEntry
	requests  []Request

	nextUserID    int64
	nextTicketID  int64
	nextCommentID int64
	nextAuditID   int64

	// ChatReply answers POST /api/chat. Nil echoes the message.
	ChatReply func(userID int64, message string) (string, int)

	// Now stamps created tickets, comments, and audit entries.
	Now func() time.Time
}

// New returns an empty service.
func New() *Service {
	return &Service{
		users:         make(map[int64]ticket.User),
		passwords:     make(map[int64]string),
		tickets:       make(map[int64]ticket.Ticket),
		comments:      make(map[int64][]ticket.Comment),
		audit:         make(map[int64][]ticket.AuditEntry),
		nextUserID:    1,
		nextTicketID:  100,
		nextCommentID: 1,
		nextAuditID:   1,
		Now:           time.Now,
	}
}

// Start serves the service on a loopback port until the test ends and
// returns the base URL.
func (s *Service) Start(t testing.TB) string {
	t.Helper()
	server := httptest.NewServer(s.Router())
	t.Cleanup(server.Close)
	return server.URL
}

// Router returns the service's routes.
func (s *Service) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(s.record)

	router.HandleFunc("/api/auth/login", s.login).Methods(http.MethodPost)
	router.HandleFunc("/api/users", s.register).Methods(http.MethodPost)
	router.HandleFunc("/api/chat", s.chat).Methods(http.MethodPost)

	router.HandleFunc("/api/users", s.authenticated(s.listUsers)).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id:[0-9]+}/role", s.authenticated(s.updateRole)).Methods(http.MethodPut)

	router.HandleFunc("/api/tickets", s.authenticated(s.listTickets)).Methods(http.MethodGet)
	router.HandleFunc("/api/tickets", s.authenticated(s.createTicket)).Methods(http.MethodPost)
	router.HandleFunc("/api/tickets/assigned-to/{id:[0-9]+}", s.authenticated(s.assignedTickets)).Methods(http.MethodGet)
	router.HandleFunc("/api/tickets/audit/{id:[0-9]+}", s.authenticated(s.ticketAudit)).Methods(http.MethodGet)
	router.HandleFunc("/api/tickets/{id:[0-9]+}", s.authenticated(s.showTicket)).Methods(http.MethodGet)
	router.HandleFunc("/api/tickets/{id:[0-9]+}/status", s.authenticated(s.updateStatus)).Methods(http.MethodPut)
	router.HandleFunc("/api/tickets/{id:[0-9]+}/assign/{user:[0-9]+}", s.authenticated(s.assign)).Methods(http.MethodPut)
	router.HandleFunc("/api/tickets/{id:[0-9]+}/comments", s.authenticated(s.listComments)).Methods(http.MethodGet)
	router.HandleFunc("/api/tickets/{id:[0-9]+}/comments", s.authenticated(s.addComment)).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		respondWithError(writer, http.StatusNotFound, "Not found")
	})
	return router
}

// AddUser registers an account directly and returns it with its id.
func (s *Service) AddUser(user ticket.User, password string) ticket.User {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.addUserLocked(user, password)
}

func (s *Service) addUserLocked(user ticket.User, password string) ticket.User {
	if user.ID == 0 {
		user.ID = s.nextUserID
	}
	s.nextUserID = max(s.nextUserID, user.ID+1)
	user.Role = user.Role.Canonical()
	s.users[user.ID] = user
	s.passwords[user.ID] = password
	return user
}

// AddTicket stores a ticket directly and returns it with its id.
func (s *Service) AddTicket(item ticket.Ticket) ticket.Ticket {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if item.ID == 0 {
		item.ID = s.nextTicketID
	}
	s.nextTicketID = max(s.nextTicketID, item.ID+1)
	if item.Status == "" {
		item.Status = ticket.StatusOpen
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = ticket.Timestamp{Time: s.Now()}
	}
	s.tickets[item.ID] = item
	return item
}

// AddComment stores a comment directly.
func (s *Service) AddComment(ticketID int64, comment ticket.Comment) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	comment.ID = s.nextCommentID
	s.nextCommentID++
	s.comments[ticketID] = append(s.comments[ticketID], comment)
}

// Ticket returns the stored ticket.
func (s *Service) Ticket(ticketID int64) (ticket.Ticket, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	item, ok := s.tickets[ticketID]
	return item, ok
}

// User returns the stored user.
func (s *Service) User(userID int64) (ticket.User, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	user, ok := s.users[userID]
	return user, ok
}

// Comments returns a ticket's stored comments.
func (s *Service) Comments(ticketID int64) []ticket.Comment {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return slices.Clone(s.comments[ticketID])
}

// Requests returns every call received so far.
func (s *Service) Requests() []Request {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return slices.Clone(s.requests)
}

// IssueToken signs a token for userID that expires at expiresAt.
func IssueToken(userID int64, expiresAt time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(fmt.Sprintf("apitest: signing token: %v", err))
	}
	return token
}

// record logs each request before routing. The body is buffered so
// handlers can still read it.
func (s *Service) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body, _ := io.ReadAll(request.Body)
		request.Body = io.NopCloser(strings.NewReader(string(body)))

		query := make(map[string]string)
		for key, values := range request.URL.Query() {
			query[key] = values[0]
		}
		s.mutex.Lock()
		s.requests = append(s.requests, Request{
			Method: request.Method,
			Path:   request.URL.Path,
			Query:  query,
			Header: request.Header.Clone(),
			Body:   string(body),
		})
		s.mutex.Unlock()

		next.ServeHTTP(writer, request)
	})
}

// authenticated rejects requests without a token this service signed.
func (s *Service) authenticated(handler http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		bearer, ok := strings.CutPrefix(request.Header.Get("Authorization"), "Bearer ")
		if !ok {
			respondWithError(writer, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(bearer, &claims, func(*jwt.Token) (any, error) {
			return signingKey, nil
		})
		if err != nil {
			respondWithError(writer, http.StatusUnauthorized, "Token expired or invalid")
			return
		}
		handler(writer, request)
	}
}

func (s *Service) login(writer http.ResponseWriter, request *http.Request) {
	var form ticket.LoginForm
	if err := json.NewDecoder(request.Body).Decode(&form); err != nil {
		respondWithError(writer, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	for id, user := range s.users {
		if strings.EqualFold(user.Email, form.Email) && s.passwords[id] == form.Password {
			respondWithJSON(writer, http.StatusOK, map[string]any{
				"token": IssueToken(id, s.Now().Add(time.Hour)),
				"user":  user,
			})
			return
		}
	}
	respondWithError(writer, http.StatusUnauthorized, "Invalid email or password")
}

func (s *Service) register(writer http.ResponseWriter, request *http.Request) {
	var form ticket.RegisterForm
	if err := json.NewDecoder(request.Body).Decode(&form); err != nil {
		respondWithError(writer, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, form.Email) {
			respondWithError(writer, http.StatusConflict, "Email already registered")
			return
		}
	}
	created := s.addUserLocked(ticket.User{Name: form.Name, Email: form.Email, Role: form.Role}, form.Password)
	respondWithJSON(writer, http.StatusCreated, created)
}

func (s *Service) listUsers(writer http.ResponseWriter, request *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	users := make([]ticket.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b ticket.User) int { return int(a.ID - b.ID) })
	respondWithJSON(writer, http.StatusOK, users)
}

func (s *Service) updateRole(writer http.ResponseWriter, request *http.Request) {
	userID := pathID(request, "id")
	role, err := ticket.ParseRole(request.URL.Query().Get("role"))
	if err != nil {
		respondWithError(writer, http.StatusBadRequest, err.Error())
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	user, ok := s.users[userID]
	if !ok {
		respondWithError(writer, http.StatusNotFound, "User not found")
		return
	}
	user.Role = role
	s.users[userID] = user
	respondWithJSON(writer, http.StatusOK, user)
}

func (s *Service) listTickets(writer http.ResponseWriter, request *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	respondWithJSON(writer, http.StatusOK, s.sortedTicketsLocked(func(ticket.Ticket) bool { return true }))
}

func (s *Service) assignedTickets(writer http.ResponseWriter, request *http.Request) {
	userID := pathID(request, "id")
	s.mutex.Lock()
	defer s.mutex.Unlock()
	respondWithJSON(writer, http.StatusOK, s.sortedTicketsLocked(func(item ticket.Ticket) bool {
		return item.AssignedToUser(userID)
	}))
}

func (s *Service) sortedTicketsLocked(keep func(ticket.Ticket) bool) []ticket.Ticket {
	tickets := make([]ticket.Ticket, 0, len(s.tickets))
	for _, item := range s.tickets {
		if keep(item) {
			tickets = append(tickets, item)
		}
	}
	slices.SortFunc(tickets, func(a, b ticket.Ticket) int { return int(a.ID - b.ID) })
	return tickets
}

func (s *Service) createTicket(writer http.ResponseWriter, request *http.Request) {
	var form ticket.CreateTicketForm
	if err := json.NewDecoder(request.Body).Decode(&form); err != nil {
		respondWithError(writer, http.StatusBadRequest, "Malformed request")
		return
	}
	if form.Requester == nil {
		respondWithError(writer, http.StatusBadRequest, "Requester is required")
		return
	}

	s.mutex.Lock()
	requester, ok := s.users[form.Requester.ID]
	s.mutex.Unlock()
	if !ok {
		respondWithError(writer, http.StatusBadRequest, "Unknown requester")
		return
	}

	created := s.AddTicket(ticket.Ticket{
		Title:            form.Title,
		Description:      form.Description,
		RequestType:      form.RequestType,
		Priority:         form.Priority,
		RequestedDataset: form.RequestedDataset,
		Requester:        &requester,
	})
	respondWithJSON(writer, http.StatusCreated, created)
}

func (s *Service) showTicket(writer http.ResponseWriter, request *http.Request) {
	item, ok := s.Ticket(pathID(request, "id"))
	if !ok {
		respondWithError(writer, http.StatusNotFound, "Ticket not found")
		return
	}
	respondWithJSON(writer, http.StatusOK, item)
}

func (s *Service) updateStatus(writer http.ResponseWriter, request *http.Request) {
	ticketID := pathID(request, "id")
	status, err := ticket.ParseStatus(request.URL.Query().Get("status"))
	if err != nil {
		respondWithError(writer, http.StatusBadRequest, err.Error())
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	item, ok := s.tickets[ticketID]
	if !ok {
		respondWithError(writer, http.StatusNotFound, "Ticket not found")
		return
	}
	s.recordAuditLocked(ticketID, "STATUS_CHANGE", string(item.Status), string(status), request.URL.Query().Get("userId"))
	item.Status = status
	item.UpdatedAt = ticket.Timestamp{Time: s.Now()}
	s.tickets[ticketID] = item
	respondWithJSON(writer, http.StatusOK, item)
}

func (s *Service) assign(writer http.ResponseWriter, request *http.Request) {
	ticketID, userID := pathID(request, "id"), pathID(request, "user")

	s.mutex.Lock()
	defer s.mutex.Unlock()
	item, ok := s.tickets[ticketID]
	if !ok {
		respondWithError(writer, http.StatusNotFound, "Ticket not found")
		return
	}
	assignee, ok := s.users[userID]
	if !ok {
		respondWithError(writer, http.StatusNotFound, "User not found")
		return
	}
	s.recordAuditLocked(ticketID, "ASSIGN", item.AssigneeDisplay(), assignee.DisplayName(), "")
	item.AssignedTo = &assignee
	item.UpdatedAt = ticket.Timestamp{Time: s.Now()}
	s.tickets[ticketID] = item

	// The real service acknowledges assignment with text.
	writer.Header().Set("Content-Type", "text/plain")
	writer.WriteHeader(http.StatusOK)
	fmt.Fprint(writer, "Ticket assigned")
}

func (s *Service) recordAuditLocked(ticketID int64, action, oldValue, newValue, actor string) {
	s.audit[ticketID] = append(s.audit[ticketID], ticket.AuditEntry{
		ID:        s.nextAuditID,
		Action:    action,
		OldValue:  oldValue,
		NewValue:  newValue,
		UpdatedBy: actor,
		Timestamp: ticket.Timestamp{Time: s.Now()},
	})
	s.nextAuditID++
}

func (s *Service) ticketAudit(writer http.ResponseWriter, request *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	entries := s.audit[pathID(request, "id")]
	if entries == nil {
		entries = []ticket.AuditEntry{}
	}
	respondWithJSON(writer, http.StatusOK, entries)
}

func (s *Service) listComments(writer http.ResponseWriter, request *http.Request) {
	comments := s.Comments(pathID(request, "id"))
	if comments == nil {
		comments = []ticket.Comment{}
	}
	respondWithJSON(writer, http.StatusOK, comments)
}

func (s *Service) addComment(writer http.ResponseWriter, request *http.Request) {
	ticketID := pathID(request, "id")
	authorID, _ := strconv.ParseInt(request.Header.Get("user-id"), 10, 64)

	var form ticket.CommentForm
	if err := json.NewDecoder(request.Body).Decode(&form); err != nil {
		respondWithError(writer, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.tickets[ticketID]; !ok {
		respondWithError(writer, http.StatusNotFound, "Ticket not found")
		return
	}
	comment := ticket.Comment{
		ID:         s.nextCommentID,
		Text:       form.Comment,
		Visibility: form.Visibility,
		CreatedAt:  ticket.Timestamp{Time: s.Now()},
	}
	if author, ok := s.users[authorID]; ok {
		comment.CreatedBy = &author
	}
	s.nextCommentID++
	s.comments[ticketID] = append(s.comments[ticketID], comment)
	respondWithJSON(writer, http.StatusCreated, comment)
}

func (s *Service) chat(writer http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)
	userID, _ := strconv.ParseInt(request.URL.Query().Get("userId"), 10, 64)

	reply, status := string(body), http.StatusOK
	if s.ChatReply != nil {
		reply, status = s.ChatReply(userID, string(body))
	}
	writer.Header().Set("Content-Type", "text/plain")
	writer.WriteHeader(status)
	fmt.Fprint(writer, reply)
}

func pathID(request *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(request)[name], 10, 64)
	return id
}

func respondWithJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

func respondWithError(writer http.ResponseWriter, status int, message string) {
	respondWithJSON(writer, status, map[string]string{"message": message})
}
