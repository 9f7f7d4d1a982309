// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Store record path prefixes. The remote store is a flat key-path tree;
// every entity lives at "<collection>/<id>".
const (
	CollectionSessions  = "sessions"
	CollectionPolls     = "polls"
	CollectionResponses = "responses"
)

// Domain types
//
// Field tags are the wire format shared with the remote store, so they stay
// camelCase even though the HTTP request types below use snake_case.

type Session struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	CreatedBy    string    `json:"createdBy"`
	Participants []string  `json:"participants"`
	CreatedAt    Timestamp `json:"createdAt"`
	IsActive     bool      `json:"isActive"`
}

type Poll struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	Question  string         `json:"question"`
	Options   []string       `json:"options"`
	Responses map[string]int `json:"responses"`
	IsActive  bool           `json:"isActive"`
	CreatedAt Timestamp      `json:"createdAt"`
	CreatedBy string         `json:"createdBy"`
}

type Response struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName"`
	PollID         string    `json:"pollId"`
	SessionID      string    `json:"sessionId"`
	SelectedOption string    `json:"selectedOption"`
	CreatedAt      Timestamp `json:"createdAt"`
}

// HasParticipant reports whether userID is already a member of the session.
func (s Session) HasParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// HasOption reports whether option is one of the poll's options.
func (p Poll) HasOption(option string) bool {
	for _, o := range p.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Request types

type CreateIdentityRequest struct {
	DisplayName string `json:"display_name"`
}

type CreateSessionRequest struct {
	Title  string `json:"title"`
	UserID string `json:"user_id"`
}

type JoinSessionRequest struct {
	Code     string `json:"code"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	UserID   string   `json:"user_id"`
}

type LaunchPollRequest struct {
	SessionID string `json:"session_id"`
}

type SubmitResponseRequest struct {
	SessionID      string `json:"session_id"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name"`
	SelectedOption string `json:"selected_option"`
}

// Response types

type CreateIdentityResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Store   string `json:"store"`
	Started string `json:"started"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Live feed frames pushed over the /live websocket endpoints.

type LiveFrame struct {
	Type     string    `json:"type"` // "session", "polls" or "sessions"
	Session  *Session  `json:"session,omitempty"`
	Polls    []Poll    `json:"polls,omitempty"`
	Sessions []Session `json:"sessions,omitempty"`
}
