package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

type RoleType string

const (
	RoleCustomer RoleType = "customer"
	RoleVendor   RoleType = "vendor"
	RoleAdmin    RoleType = "admin"
)

// User is the identity record returned by the backend's auth and profile endpoints.
type User struct {
	ID       ID       `json:"id,omitempty"`
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Address  string   `json:"address,omitempty"`
	Role     RoleType `json:"role,omitempty"`
	IsAdmin  bool     `json:"is_admin,omitempty"`
}

// DisplayName prefers the full name, then the username, then the email.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

func (u User) Admin() bool {
	return u.IsAdmin || strings.EqualFold(string(u.Role), string(RoleAdmin))
}

// Vendor reports whether the user may manage catalog entries.
func (u User) Vendor() bool {
	return u.Admin() || strings.EqualFold(string(u.Role), string(RoleVendor))
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the register request body.
type RegisterRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName string   `json:"full_name,omitempty"`
	Role     RoleType `json:"role,omitempty"`
}

// UserUpdate carries the editable profile fields. Empty fields are omitted
// so the backend leaves them unchanged.
type UserUpdate struct {
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Address  string   `json:"address,omitempty"`
	Password string   `json:"password,omitempty"`
	Role     RoleType `json:"role,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	Token       string `json:"token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user,omitempty"`
}

// BearerToken returns the credential the backend issued, whichever field carried it.
func (a AuthResponse) BearerToken() string {
	if a.AccessToken != "" {
		return a.AccessToken
	}
	return a.Token
}

// Message is the generic acknowledgement body ({"message": ...} or {"detail": ...}).
type Message struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// UnmarshalJSON accepts a bare JSON string or an object whose message and
// detail fields may hold any JSON value. Non-string fields are ignored.
func (m *Message) UnmarshalJSON(data []byte) error {
	*m = Message{}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		m.Message = text
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	m.Message = stringField(fields["message"])
	m.Detail = stringField(fields["detail"])
	return nil
}

func stringField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ParseMessage reads an acknowledgement body of any shape. A body that is not
// JSON is taken as plain text.
func ParseMessage(body []byte) Message {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Message{}
	}
	if !json.Valid(body) {
		return Message{Message: string(body)}
	}
	var m Message
	_ = json.Unmarshal(body, &m)
	return m
}

func (m Message) Text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Detail
}
