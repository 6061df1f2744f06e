package http

import (
	"context"
	"sync"

	"comeback/internal/identity"
	applog "comeback/internal/log"
	"comeback/internal/session"
)

// sessionRegistry keeps one live tracker session per signed-in user. A
// session is started lazily on the first authenticated request and closed
// (with a final flush) when the user signs out or the server shuts down.
type sessionRegistry struct {
	mgr *session.Manager

	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newSessionRegistry(mgr *session.Manager) *sessionRegistry {
	return &sessionRegistry{
		mgr:      mgr,
		sessions: make(map[string]*session.Session),
	}
}

// get returns the user's live session, starting one if needed.
func (r *sessionRegistry) get(ctx context.Context, userID string) *session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[userID]; ok {
		return sess
	}
	sess := r.mgr.Start(ctx, userID)
	r.sessions[userID] = sess
	return sess
}

// close flushes and drops the user's session if one is live.
func (r *sessionRegistry) close(userID string) {
	r.mu.Lock()
	sess, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()
	if ok {
		sess.Close()
	}
}

// closeAll flushes and drops every live session.
func (r *sessionRegistry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session.Session)
	r.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}

// watch closes sessions when their user signs out. It returns when the
// event channel closes or the context ends.
func (r *sessionRegistry) watch(ctx context.Context, events <-chan identity.Event, logger *applog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Kind == identity.EventSignedOut {
				logger.InfoContext(ctx, "Closing session on sign-out", applog.FieldUserID, ev.UserID)
				r.close(ev.UserID)
			}
		}
	}
}
