// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"livepoll/auth"
)

const requestIDLength = 8 // bytes of entropy per wire request ID

// RemoteStore speaks the key-path wire protocol over a single websocket
// connection. Requests are matched to responses through per-request
// channels keyed by request ID; notifications are dispatched to the
// subscription they belong to by the read loop, so callbacks for one
// subscription always fire in delivery order.
//
// No retries and no internal timeouts: a failed operation surfaces its
// error to the caller, and a caller who wants a deadline passes one in
// through ctx.
type RemoteStore struct {
	conn *websocket.Conn
	log  zerolog.Logger

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan Frame

	watchMu  sync.Mutex
	watchers map[string]*remoteWatcher

	closeOnce sync.Once
	done      chan struct{}
}

type remoteWatcher struct {
	path     string
	onChange ChangeFunc
	onError  ErrorFunc
}

// RemoteOption configures a RemoteStore before its read loop starts.
type RemoteOption func(*RemoteStore)

// WithLogger attaches a logger for frame-level events.
func WithLogger(log zerolog.Logger) RemoteOption {
	return func(s *RemoteStore) {
		s.log = log
	}
}

// Dial connects to the remote store endpoint and starts the read loop.
func Dial(ctx context.Context, url string, opts ...RemoteOption) (*RemoteStore, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("store: dial %s: %w", url, err)
	}

	s := &RemoteStore{
		conn:     conn,
		log:      zerolog.Nop(),
		pending:  make(map[string]chan Frame),
		watchers: make(map[string]*remoteWatcher),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.readLoop()
	return s, nil
}

func (s *RemoteStore) Put(ctx context.Context, path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode value: %w", err)
	}
	_, err = s.roundTrip(ctx, Request{Method: MethodPut, Path: path, Value: data})
	return err
}

func (s *RemoteStore) Update(ctx context.Context, path string, fields map[string]any) error {
	_, err := s.roundTrip(ctx, Request{Method: MethodUpdate, Path: path, Fields: fields})
	return err
}

func (s *RemoteStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	frame, err := s.roundTrip(ctx, Request{Method: MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	return frame.Data, nil
}

func (s *RemoteStore) Subscribe(path string, onChange ChangeFunc, onError ErrorFunc) (func(), error) {
	subID, err := auth.GenerateID(requestIDLength)
	if err != nil {
		return nil, err
	}

	// Register before sending so the immediate snapshot notification
	// cannot race past us.
	s.watchMu.Lock()
	s.watchers[subID] = &remoteWatcher{path: path, onChange: onChange, onError: onError}
	s.watchMu.Unlock()

	_, err = s.roundTrip(context.Background(), Request{Method: MethodSubscribe, Path: path, Sub: subID})
	if err != nil {
		s.watchMu.Lock()
		delete(s.watchers, subID)
		s.watchMu.Unlock()
		return nil, err
	}

	s.log.Debug().Str("path", path).Str("sub", subID).Msg("subscribed")

	return func() {
		s.watchMu.Lock()
		_, active := s.watchers[subID]
		delete(s.watchers, subID)
		s.watchMu.Unlock()
		if !active {
			return
		}
		// In-flight notifications for a cancelled subscription are
		// simply dropped by the read loop.
		_, _ = s.roundTrip(context.Background(), Request{Method: MethodUnsubscribe, Sub: subID})
	}, nil
}

// Close tears the connection down. All pending requests and
// subscriptions fail with ErrClosed.
func (s *RemoteStore) Close() error {
	s.fail(ErrClosed)
	return s.conn.Close()
}

func (s *RemoteStore) roundTrip(ctx context.Context, req Request) (Frame, error) {
	id, err := auth.GenerateID(requestIDLength)
	if err != nil {
		return Frame{}, err
	}
	req.ID = id

	ch := make(chan Frame, 1)
	s.pendingMu.Lock()
	s.pending[id] = ch
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, id)
		s.pendingMu.Unlock()
	}()

	s.writeMu.Lock()
	err = s.conn.WriteJSON(req)
	s.writeMu.Unlock()
	if err != nil {
		return Frame{}, fmt.Errorf("store: %s %s: %w", req.Method, req.Path, err)
	}

	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case <-s.done:
		return Frame{}, ErrClosed
	case frame := <-ch:
		if frame.OK {
			return frame, nil
		}
		if frame.Code == CodeNotFound {
			return Frame{}, ErrNotFound
		}
		return Frame{}, fmt.Errorf("store: %s %s: %s", req.Method, req.Path, frame.Error)
	}
}

func (s *RemoteStore) readLoop() {
	for {
		var frame Frame
		if err := s.conn.ReadJSON(&frame); err != nil {
			s.fail(err)
			return
		}

		if frame.Sub != "" {
			s.watchMu.Lock()
			watcher := s.watchers[frame.Sub]
			s.watchMu.Unlock()
			if watcher != nil {
				watcher.onChange(frame.Data)
			}
			continue
		}

		s.pendingMu.Lock()
		ch := s.pending[frame.ID]
		s.pendingMu.Unlock()
		if ch != nil {
			select {
			case ch <- frame:
			default:
				s.log.Warn().Str("id", frame.ID).Msg("duplicate response frame dropped")
			}
		}
	}
}

// fail ends the store: every waiter is released and every subscription
// is told the feed is gone.
func (s *RemoteStore) fail(err error) {
	s.closeOnce.Do(func() {
		if !errors.Is(err, ErrClosed) {
			s.log.Error().Err(err).Msg("connection lost")
		}
		close(s.done)

		s.watchMu.Lock()
		watchers := s.watchers
		s.watchers = make(map[string]*remoteWatcher)
		s.watchMu.Unlock()
		for _, w := range watchers {
			if w.onError != nil {
				w.onError(err)
			}
		}
	})
}
