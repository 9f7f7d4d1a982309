// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
)

// Strict decoding of raw store payloads into typed records.
//
// All defaulting of legacy fields happens here, at the store boundary:
// sessions written before the participants list existed get
// [createdBy], a missing isActive means the record predates explicit
// deactivation and counts as active, and a poll without options decodes
// to an empty list. Records missing an identity-bearing field are a
// decode error, not a half-filled struct.

type rawSession struct {
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	CreatedBy    string    `json:"createdBy"`
	Participants []string  `json:"participants"`
	CreatedAt    Timestamp `json:"createdAt"`
	IsActive     *bool     `json:"isActive"`
}

type rawPoll struct {
	SessionID string         `json:"sessionId"`
	Question  string         `json:"question"`
	Options   []string       `json:"options"`
	Responses map[string]int `json:"responses"`
	IsActive  *bool          `json:"isActive"`
	CreatedAt Timestamp      `json:"createdAt"`
	CreatedBy string         `json:"createdBy"`
}

type rawResponse struct {
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName"`
	PollID         string    `json:"pollId"`
	SessionID      string    `json:"sessionId"`
	SelectedOption string    `json:"selectedOption"`
	CreatedAt      Timestamp `json:"createdAt"`
}

// DecodeSession decodes one session record stored under the given id.
func DecodeSession(id string, data json.RawMessage) (Session, error) {
	var raw rawSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return Session{}, fmt.Errorf("session %s: %w", id, err)
	}
	if raw.CreatedBy == "" {
		return Session{}, fmt.Errorf("session %s: missing createdBy", id)
	}

	participants := raw.Participants
	if len(participants) == 0 {
		participants = []string{raw.CreatedBy}
	}
	isActive := true
	if raw.IsActive != nil {
		isActive = *raw.IsActive
	}

	return Session{
		ID:           id,
		Code:         raw.Code,
		Title:        raw.Title,
		CreatedBy:    raw.CreatedBy,
		Participants: participants,
		CreatedAt:    raw.CreatedAt,
		IsActive:     isActive,
	}, nil
}

// DecodePoll decodes one poll record stored under the given id.
func DecodePoll(id string, data json.RawMessage) (Poll, error) {
	var raw rawPoll
	if err := json.Unmarshal(data, &raw); err != nil {
		return Poll{}, fmt.Errorf("poll %s: %w", id, err)
	}
	if raw.SessionID == "" {
		return Poll{}, fmt.Errorf("poll %s: missing sessionId", id)
	}

	options := raw.Options
	if options == nil {
		options = []string{}
	}
	responses := raw.Responses
	if responses == nil {
		responses = map[string]int{}
	}
	isActive := false
	if raw.IsActive != nil {
		isActive = *raw.IsActive
	}

	return Poll{
		ID:        id,
		SessionID: raw.SessionID,
		Question:  raw.Question,
		Options:   options,
		Responses: responses,
		IsActive:  isActive,
		CreatedAt: raw.CreatedAt,
		CreatedBy: raw.CreatedBy,
	}, nil
}

// DecodeResponse decodes one response record stored under the given id.
func DecodeResponse(id string, data json.RawMessage) (Response, error) {
	var raw rawResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return Response{}, fmt.Errorf("response %s: %w", id, err)
	}
	if raw.PollID == "" || raw.UserID == "" {
		return Response{}, fmt.Errorf("response %s: missing pollId or userId", id)
	}

	return Response{
		ID:             id,
		UserID:         raw.UserID,
		UserName:       raw.UserName,
		PollID:         raw.PollID,
		SessionID:      raw.SessionID,
		SelectedOption: raw.SelectedOption,
		CreatedAt:      raw.CreatedAt,
	}, nil
}

// DecodeSessionMap decodes a whole "sessions" collection snapshot.
func DecodeSessionMap(data json.RawMessage) (map[string]Session, error) {
	return decodeMap(data, DecodeSession)
}

// DecodePollMap decodes a whole "polls" collection snapshot.
func DecodePollMap(data json.RawMessage) (map[string]Poll, error) {
	return decodeMap(data, DecodePoll)
}

// DecodeResponseMap decodes a whole "responses" collection snapshot.
func DecodeResponseMap(data json.RawMessage) (map[string]Response, error) {
	return decodeMap(data, DecodeResponse)
}

func decodeMap[T any](data json.RawMessage, decode func(string, json.RawMessage) (T, error)) (map[string]T, error) {
	out := map[string]T{}
	if len(data) == 0 {
		return out, nil
	}

	var children map[string]json.RawMessage
	if err := json.Unmarshal(data, &children); err != nil {
		return nil, err
	}
	for id, child := range children {
		record, err := decode(id, child)
		if err != nil {
			return nil, err
		}
		out[id] = record
	}
	return out, nil
}
