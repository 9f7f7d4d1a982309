// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"livepoll/auth"
	"livepoll/models"
	"livepoll/store"
)

// Service orchestrates sessions, polls, and votes over the store
// selected at composition time. It holds no authoritative copy of any
// record; the store owns persisted state and the subscription layer
// delivers projections.
//
// Mutating operations that read, modify, and write a record (joining a
// session, recording a vote) are serialized per entity through a keyed
// lock, so two goroutines of this client cannot race each other. The
// store offers no multi-key transactions, so submissions from other
// clients can still interleave; that gap is inherent to the backend
// and documented rather than hidden.
type Service struct {
	store store.Store
	log   *slog.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(st store.Store, log *slog.Logger) *Service {
	return &Service{
		store: st,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

// CreateSession creates an active session owned by userID, identified
// by a fresh 6-character join code. The creator is always the first
// participant.
func (s *Service) CreateSession(ctx context.Context, title, userID string) (models.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" || userID == "" {
		return models.Session{}, &ValidationError{Message: "title and user are required"}
	}

	code, err := auth.SessionCode()
	if err != nil {
		return models.Session{}, err
	}

	session := models.Session{
		ID:           auth.NewEntityID(),
		Code:         code,
		Title:        title,
		CreatedBy:    userID,
		Participants: []string{userID},
		CreatedAt:    models.Now(),
		IsActive:     true,
	}
	if err := s.store.Put(ctx, models.CollectionSessions+"/"+session.ID, session); err != nil {
		return models.Session{}, storeErr("create session", err)
	}

	s.log.Info("session created", "session_id", session.ID, "code", code, "created_by", userID)
	return session, nil
}

// JoinSession adds userID to the first active session with the given
// code. Joining twice is a no-op; the participant appears once.
func (s *Service) JoinSession(ctx context.Context, code, userID, userName string) (models.Session, error) {
	if code == "" || userID == "" {
		return models.Session{}, &ValidationError{Message: "code and user are required"}
	}

	sessions, err := s.allSessions(ctx)
	if err != nil {
		return models.Session{}, err
	}

	target, ok := firstActiveByCode(sessions, code)
	if !ok {
		return models.Session{}, &NotFoundError{Entity: "session", Key: code}
	}

	path := models.CollectionSessions + "/" + target.ID
	unlock := s.lockEntity(path)
	defer unlock()

	// Re-read under the lock; another goroutine may have appended.
	data, err := s.store.Get(ctx, path)
	if err != nil {
		return models.Session{}, storeErr("join session", err)
	}
	session, err := models.DecodeSession(target.ID, data)
	if err != nil {
		return models.Session{}, storeErr("join session", err)
	}

	if !session.HasParticipant(userID) {
		session.Participants = append(session.Participants, userID)
		fields := map[string]any{"participants": session.Participants}
		if err := s.store.Update(ctx, path, fields); err != nil {
			return models.Session{}, storeErr("join session", err)
		}
	}

	s.log.Info("session joined", "session_id", session.ID, "user_id", userID, "user_name", userName)
	return session, nil
}

// EndSession deactivates the session. There is no way back to active.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return &ValidationError{Message: "session is required"}
	}
	fields := map[string]any{"isActive": false}
	if err := s.store.Update(ctx, models.CollectionSessions+"/"+sessionID, fields); err != nil {
		return storeErr("end session", err)
	}
	s.log.Info("session ended", "session_id", sessionID)
	return nil
}

// CreatePoll creates an inactive poll with zeroed response counts for
// every trimmed option. Duplicate option labels collapse onto one
// response key.
func (s *Service) CreatePoll(ctx context.Context, sessionID, question string, options []string, userID string) (models.Poll, error) {
	question = strings.TrimSpace(question)
	if sessionID == "" || question == "" || userID == "" {
		return models.Poll{}, &ValidationError{Message: "session, question and user are required"}
	}

	trimmed := make([]string, 0, len(options))
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return models.Poll{}, &ValidationError{Message: "all poll options must be non-empty"}
		}
		trimmed = append(trimmed, opt)
	}
	if len(trimmed) < 2 {
		return models.Poll{}, &ValidationError{Message: "a poll needs at least 2 options"}
	}

	responses := make(map[string]int, len(trimmed))
	for _, opt := range trimmed {
		responses[opt] = 0
	}

	poll := models.Poll{
		ID:        auth.NewEntityID(),
		SessionID: sessionID,
		Question:  question,
		Options:   trimmed,
		Responses: responses,
		IsActive:  false,
		CreatedAt: models.Now(),
		CreatedBy: userID,
	}
	if err := s.store.Put(ctx, models.CollectionPolls+"/"+poll.ID, poll); err != nil {
		return models.Poll{}, storeErr("create poll", err)
	}

	s.log.Info("poll created", "poll_id", poll.ID, "session_id", sessionID)
	return poll, nil
}

// LaunchPoll activates pollID and deactivates every other poll of the
// session. The per-poll updates are dispatched concurrently, not as a
// transaction: a partial failure can leave the session with the wrong
// set of active polls, a documented tradeoff of the backend's lack of
// multi-key transactions.
func (s *Service) LaunchPoll(ctx context.Context, pollID, sessionID string) error {
	if pollID == "" || sessionID == "" {
		return &ValidationError{Message: "poll and session are required"}
	}

	polls, err := s.allPolls(ctx)
	if err != nil {
		return err
	}

	var sessionPolls []models.Poll
	for _, p := range polls {
		if p.SessionID == sessionID {
			sessionPolls = append(sessionPolls, p)
		}
	}

	// No polls recorded yet: just activate the target.
	if len(sessionPolls) == 0 {
		fields := map[string]any{"isActive": true}
		if err := s.store.Update(ctx, models.CollectionPolls+"/"+pollID, fields); err != nil {
			return storeErr("launch poll", err)
		}
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(sessionPolls))
	for i, p := range sessionPolls {
		wg.Add(1)
		go func(i int, p models.Poll) {
			defer wg.Done()
			fields := map[string]any{"isActive": p.ID == pollID}
			errs[i] = s.store.Update(ctx, models.CollectionPolls+"/"+p.ID, fields)
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return storeErr("launch poll", err)
		}
	}

	s.log.Info("poll launched", "poll_id", pollID, "session_id", sessionID)
	return nil
}

// StopPoll deactivates the poll. Stopping an inactive poll is a no-op.
func (s *Service) StopPoll(ctx context.Context, pollID string) error {
	if pollID == "" {
		return &ValidationError{Message: "poll is required"}
	}
	fields := map[string]any{"isActive": false}
	if err := s.store.Update(ctx, models.CollectionPolls+"/"+pollID, fields); err != nil {
		return storeErr("stop poll", err)
	}
	s.log.Info("poll stopped", "poll_id", pollID)
	return nil
}

// SubmitResponse records one vote. A user gets at most one response
// per poll; a second attempt fails with DuplicateVoteError and leaves
// the counts untouched. Store failures here are always surfaced to the
// caller: a vote must never vanish silently.
func (s *Service) SubmitResponse(ctx context.Context, pollID, sessionID, userID, userName, selectedOption string) (models.Response, error) {
	if pollID == "" || sessionID == "" || userID == "" || selectedOption == "" {
		return models.Response{}, &ValidationError{Message: "poll, session, user and option are required"}
	}

	pollPath := models.CollectionPolls + "/" + pollID
	unlock := s.lockEntity(pollPath)
	defer unlock()

	responses, err := s.allResponses(ctx)
	if err != nil {
		return models.Response{}, err
	}
	for _, r := range responses {
		if r.PollID == pollID && r.UserID == userID {
			return models.Response{}, &DuplicateVoteError{PollID: pollID, UserID: userID}
		}
	}

	data, err := s.store.Get(ctx, pollPath)
	if errors.Is(err, store.ErrNotFound) {
		return models.Response{}, &NotFoundError{Entity: "poll", Key: pollID}
	}
	if err != nil {
		return models.Response{}, storeErr("submit response", err)
	}
	poll, err := models.DecodePoll(pollID, data)
	if err != nil {
		return models.Response{}, storeErr("submit response", err)
	}
	if !poll.HasOption(selectedOption) {
		return models.Response{}, &ValidationError{Message: "selected option is not part of this poll"}
	}

	response := models.Response{
		ID:             auth.NewEntityID(),
		UserID:         userID,
		UserName:       userName,
		PollID:         pollID,
		SessionID:      sessionID,
		SelectedOption: selectedOption,
		CreatedAt:      models.Now(),
	}
	if err := s.store.Put(ctx, models.CollectionResponses+"/"+response.ID, response); err != nil {
		return models.Response{}, storeErr("submit response", err)
	}

	poll.Responses[selectedOption]++
	fields := map[string]any{"responses": poll.Responses}
	if err := s.store.Update(ctx, pollPath, fields); err != nil {
		return models.Response{}, storeErr("submit response", err)
	}

	s.log.Info("response recorded", "poll_id", pollID, "user_id", userID, "option", selectedOption)
	return response, nil
}

// lockEntity serializes mutations of one stored record within this
// client.
func (s *Service) lockEntity(key string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func (s *Service) allSessions(ctx context.Context) (map[string]models.Session, error) {
	data, err := s.store.Get(ctx, models.CollectionSessions)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]models.Session{}, nil
	}
	if err != nil {
		return nil, storeErr("read sessions", err)
	}
	sessions, err := models.DecodeSessionMap(data)
	if err != nil {
		return nil, storeErr("read sessions", err)
	}
	return sessions, nil
}

func (s *Service) allPolls(ctx context.Context) (map[string]models.Poll, error) {
	data, err := s.store.Get(ctx, models.CollectionPolls)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]models.Poll{}, nil
	}
	if err != nil {
		return nil, storeErr("read polls", err)
	}
	polls, err := models.DecodePollMap(data)
	if err != nil {
		return nil, storeErr("read polls", err)
	}
	return polls, nil
}

func (s *Service) allResponses(ctx context.Context) (map[string]models.Response, error) {
	data, err := s.store.Get(ctx, models.CollectionResponses)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]models.Response{}, nil
	}
	if err != nil {
		return nil, storeErr("read responses", err)
	}
	responses, err := models.DecodeResponseMap(data)
	if err != nil {
		return nil, storeErr("read responses", err)
	}
	return responses, nil
}

// firstActiveByCode picks the match deterministically: the oldest
// active session wins when two active sessions collide on a code.
func firstActiveByCode(sessions map[string]models.Session, code string) (models.Session, bool) {
	var matches []models.Session
	for _, s := range sessions {
		if s.Code == code && s.IsActive {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		return models.Session{}, false
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt != matches[j].CreatedAt {
			return matches[i].CreatedAt < matches[j].CreatedAt
		}
		return matches[i].ID < matches[j].ID
	})
	return matches[0], true
}
