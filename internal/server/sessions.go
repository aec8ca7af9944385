package server

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SessionRecorder receives session lifecycle events. Implemented by
// instrumentation.Metrics; nil disables recording.
type SessionRecorder interface {
	IncrementActiveSessions(ctx context.Context)
	DecrementActiveSessions(ctx context.Context)
}

// sessionInfo tracks session metadata for cleanup.
type sessionInfo struct {
	account    string
	lastAccess time.Time
}

// SessionAccounts tracks which account each MCP session operates on, so
// several clients can share one HTTP server instance without stepping on
// each other's account selection. Stale sessions are evicted in the
// background.
type SessionAccounts struct {
	sessions       map[string]*sessionInfo
	mu             sync.RWMutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan struct{}
	sessionTimeout time.Duration
	logger         *slog.Logger
	metrics        SessionRecorder
}

// NewSessionAccounts creates a session tracker with a 24 hour idle timeout.
func NewSessionAccounts(logger *slog.Logger) *SessionAccounts {
	return NewSessionAccountsWithTimeout(24*time.Hour, logger)
}

// NewSessionAccountsWithTimeout creates a session tracker with a custom
// idle timeout.
func NewSessionAccountsWithTimeout(timeout time.Duration, logger *slog.Logger) *SessionAccounts {
	if logger == nil {
		logger = slog.Default()
	}
	sa := &SessionAccounts{
		sessions:       make(map[string]*sessionInfo),
		cleanupDone:    make(chan struct{}),
		sessionTimeout: timeout,
		logger:         logger,
	}
	sa.cleanupTicker = time.NewTicker(timeout / 4)
	go sa.cleanupLoop()
	return sa
}

// SetMetrics binds the session metrics recorder. The serve path calls it
// once before the tracker starts receiving sessions.
func (sa *SessionAccounts) SetMetrics(r SessionRecorder) {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	sa.metrics = r
}

// Set associates a session with an account. A new session bumps the
// active-session gauge; overwriting an existing one does not.
func (sa *SessionAccounts) Set(sessionID, account string) {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	_, existed := sa.sessions[sessionID]
	sa.sessions[sessionID] = &sessionInfo{
		account:    account,
		lastAccess: time.Now(),
	}
	if !existed && sa.metrics != nil {
		sa.metrics.IncrementActiveSessions(context.Background())
	}
}

// Get returns the account for a session, refreshing its idle timer.
func (sa *SessionAccounts) Get(sessionID string) (string, bool) {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	info, ok := sa.sessions[sessionID]
	if !ok {
		return "", false
	}
	info.lastAccess = time.Now()
	return info.account, true
}

// Remove drops a session and decrements the active-session gauge.
func (sa *SessionAccounts) Remove(sessionID string) {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	if _, ok := sa.sessions[sessionID]; !ok {
		return
	}
	delete(sa.sessions, sessionID)
	if sa.metrics != nil {
		sa.metrics.DecrementActiveSessions(context.Background())
	}
}

// Len returns the number of tracked sessions.
func (sa *SessionAccounts) Len() int {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	return len(sa.sessions)
}

// Close stops the background cleanup goroutine.
func (sa *SessionAccounts) Close() {
	sa.cleanupTicker.Stop()
	close(sa.cleanupDone)
}

func (sa *SessionAccounts) cleanupLoop() {
	for {
		select {
		case <-sa.cleanupDone:
			return
		case <-sa.cleanupTicker.C:
			sa.evictStale()
		}
	}
}

func (sa *SessionAccounts) evictStale() {
	cutoff := time.Now().Add(-sa.sessionTimeout)
	sa.mu.Lock()
	defer sa.mu.Unlock()
	for id, info := range sa.sessions {
		if info.lastAccess.Before(cutoff) {
			delete(sa.sessions, id)
			if sa.metrics != nil {
				sa.metrics.DecrementActiveSessions(context.Background())
			}
			sa.logger.Debug("evicted idle session", "sessions_remaining", len(sa.sessions))
		}
	}
}
