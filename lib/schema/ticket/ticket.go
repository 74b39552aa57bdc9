// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// User is an account known to the ticketing service.
type User struct {
	ID int64 `json:"id"`

	// Name is the display name given at registration.
	Name string `json:"name,omitempty"`

	// Username is returned by some endpoints instead of Name.
	Username string `json:"username,omitempty"`

	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

// DisplayName returns the best available human-readable name:
// Name, then Username, then Email, then "User-<id>".
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	}
	return fmt.Sprintf("User-%d", u.ID)
}

// Ticket is a unit of work created by a requester and optionally
// assigned to a data member.
type Ticket struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	RequestType RequestType `json:"requestType,omitempty"`
	Priority    Priority    `json:"priority,omitempty"`
	Status      Status      `json:"status,omitempty"`

	// RequestedDataset names the dataset an ACCESS or REPORT request
	// concerns. Free text.
	RequestedDataset string `json:"requestedDataset,omitempty"`

	Requester  *User `json:"requester,omitempty"`
	AssignedTo *User `json:"assignedTo,omitempty"`

	// RequesterName and AssignedToName are the flat names some list
	// endpoints return instead of nested users.
	RequesterName  string `json:"requesterName,omitempty"`
	AssignedToName string `json:"assignedToName,omitempty"`

	DueDate   Timestamp `json:"dueDate,omitzero"`
	CreatedAt Timestamp `json:"createdAt,omitzero"`
	UpdatedAt Timestamp `json:"updatedAt,omitzero"`
}

// UnmarshalJSON decodes a ticket, accepting request_type as an
// alternate spelling of requestType.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	type plain Ticket
	var wire struct {
		plain
		RequestTypeSnake RequestType `json:"request_type"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*t = Ticket(wire.plain)
	if t.RequestType == "" {
		t.RequestType = wire.RequestTypeSnake
	}
	return nil
}

// RequesterDisplay returns the requester's name, falling back to the
// flat requesterName field.
func (t *Ticket) RequesterDisplay() string {
	if t.Requester != nil {
		return t.Requester.DisplayName()
	}
	if t.RequesterName != "" {
		return t.RequesterName
	}
	return "Unknown"
}

// AssigneeDisplay returns the assignee's name, or "Unassigned".
func (t *Ticket) AssigneeDisplay() string {
	if t.AssignedTo != nil {
		return t.AssignedTo.DisplayName()
	}
	if t.AssignedToName != "" {
		return t.AssignedToName
	}
	return "Unassigned"
}

// IsAssigned reports whether the ticket has an assignee.
func (t *Ticket) IsAssigned() bool {
	return t.AssignedTo != nil || t.AssignedToName != ""
}

// RequestedBy reports whether userID created the ticket.
func (t *Ticket) RequestedBy(userID int64) bool {
	return t.Requester != nil && t.Requester.ID == userID
}

// AssignedToUser reports whether the ticket is assigned to userID.
func (t *Ticket) AssignedToUser(userID int64) bool {
	return t.AssignedTo != nil && t.AssignedTo.ID == userID
}

// Comment is a note on a ticket's discussion thread.
type Comment struct {
	ID         int64      `json:"id"`
	Text       string     `json:"comment"`
	Visibility Visibility `json:"visibility,omitempty"`
	CreatedBy  *User      `json:"createdBy,omitempty"`

	// Author is set when the service sends the author as a bare name
	// rather than a user object.
	Author string `json:"author,omitempty"`

	CreatedAt Timestamp `json:"createdAt,omitzero"`
}

// UnmarshalJSON decodes a comment. The body may be under "comment" or
// "text"; the author under "createdBy" or "user", each either a user
// object or a name string.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID         int64           `json:"id"`
		Comment    string          `json:"comment"`
		Text       string          `json:"text"`
		Visibility Visibility      `json:"visibility"`
		CreatedBy  json.RawMessage `json:"createdBy"`
		User       json.RawMessage `json:"user"`
		Author     string          `json:"author"`
		CreatedAt  Timestamp       `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*c = Comment{
		ID:         wire.ID,
		Text:       wire.Comment,
		Visibility: wire.Visibility,
		Author:     wire.Author,
		CreatedAt:  wire.CreatedAt,
	}
	if c.Text == "" {
		c.Text = wire.Text
	}

	for _, raw := range []json.RawMessage{wire.CreatedBy, wire.User} {
		user, name := decodeAuthor(raw)
		if user != nil {
			c.CreatedBy = user
			break
		}
		if name != "" && c.Author == "" {
			c.Author = name
		}
	}
	return nil
}

// AuthorDisplay returns the comment author's name, or "Unknown".
func (c *Comment) AuthorDisplay() string {
	if c.CreatedBy != nil {
		return c.CreatedBy.DisplayName()
	}
	if c.Author != "" {
		return c.Author
	}
	return "Unknown"
}

// decodeAuthor interprets an author field that is either a user object
// or a plain string. Anything else yields nothing.
func decodeAuthor(raw json.RawMessage) (*User, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ""
	}
	switch raw[0] {
	case '{':
		var user User
		if err := json.Unmarshal(raw, &user); err == nil {
			return &user, ""
		}
	case '"':
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			return nil, name
		}
	}
	return nil, ""
}

// AuditEntry is one recorded change to a ticket.
type AuditEntry struct {
	ID     int64  `json:"id"`
	Action string `json:"action"`

	// OldValue and NewValue are the field's value before and after the
	// change, rendered as text whatever their wire type.
	OldValue string `json:"oldValue,omitempty"`
	NewValue string `json:"newValue,omitempty"`

	// UpdatedBy is the acting user's id or name.
	UpdatedBy string `json:"updatedBy,omitempty"`

	Timestamp Timestamp `json:"timestamp,omitzero"`
}

// UnmarshalJSON decodes an audit entry whose values may be strings,
// numbers, booleans, or null.
func (a *AuditEntry) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID        int64           `json:"id"`
		Action    string          `json:"action"`
		OldValue  json.RawMessage `json:"oldValue"`
		NewValue  json.RawMessage `json:"newValue"`
		UpdatedBy json.RawMessage `json:"updatedBy"`
		Timestamp Timestamp       `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = AuditEntry{
		ID:        wire.ID,
		Action:    wire.Action,
		OldValue:  looseString(wire.OldValue),
		NewValue:  looseString(wire.NewValue),
		UpdatedBy: looseString(wire.UpdatedBy),
		Timestamp: wire.Timestamp,
	}
	return nil
}

// ActorDisplay resolves UpdatedBy to a name. A numeric id found in
// users yields that user's display name; an unknown id yields
// "User-<id>"; a non-numeric value is returned as-is; an empty value
// yields "System".
func (a *AuditEntry) ActorDisplay(users map[int64]User) string {
	if a.UpdatedBy == "" {
		return "System"
	}
	id, err := strconv.ParseInt(a.UpdatedBy, 10, 64)
	if err != nil {
		return a.UpdatedBy
	}
	if user, ok := users[id]; ok {
		return user.DisplayName()
	}
	return fmt.Sprintf("User-%d", id)
}

// looseString renders a scalar JSON value as text. Objects and arrays
// are returned in compact JSON form; null yields "".
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var value string
		if err := json.Unmarshal(raw, &value); err == nil {
			return value
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

// Timestamp is a point in time as the service formats it. The service
// emits RFC 3339, zone-less ISO local times (treated as local), or a
// bare date; all are accepted. The zero Timestamp encodes as null.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses any of the layouts the service is known to emit.
func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		var parsed time.Time
		var err error
		if strings.Contains(layout, "Z07") {
			parsed, err = time.Parse(layout, value)
		} else {
			parsed, err = time.ParseInLocation(layout, value, time.Local)
		}
		if err == nil {
			return Timestamp{Time: parsed}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// UnmarshalJSON accepts a string in any known layout, epoch
// milliseconds, or null. Unparseable strings decode as the zero time
// rather than failing the enclosing object.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		parsed, err := ParseTimestamp(value)
		if err != nil {
			*t = Timestamp{}
			return nil
		}
		*t = parsed
		return nil
	}
	millis, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		*t = Timestamp{}
		return nil
	}
	*t = Timestamp{Time: time.UnixMilli(millis)}
	return nil
}

// MarshalJSON encodes the time in RFC 3339, or null when zero.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
