// Package tonconnect provides a minimal wallet-pairing bridge. Sessions live
// in memory; pairing links point the user's wallet app at this backend.
package tonconnect

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session status values reported to callbacks.
const (
	StatusPending   = "pending"
	StatusConnected = "connected"
	StatusExpired   = "expired"
)

type session struct {
	id        string
	secret    string
	status    string
	callbacks []func(status string)
}

// Connector implements ports.WalletConnector with an in-memory session
// registry. Restarting the process drops pending pairings, which is
// acceptable: the user just taps the connect button again.
type Connector struct {
	mu       sync.Mutex
	sessions map[string]*session
	linkBase string
	log      zerolog.Logger
}

// New creates a Connector. linkBase is the URL prefix wallets open to
// complete pairing, e.g. "tc://connect".
func New(linkBase string, log zerolog.Logger) *Connector {
	return &Connector{
		sessions: make(map[string]*session),
		linkBase: linkBase,
		log:      log,
	}
}

// Connect starts (or restarts) a pairing session and returns the link the
// user opens in their wallet app.
func (c *Connector) Connect(_ context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[sessionID]
	if !ok {
		s = &session{id: sessionID, secret: uuid.NewString(), status: StatusPending}
		c.sessions[sessionID] = s
	}

	link := fmt.Sprintf("%s?session=%s&key=%s",
		c.linkBase, url.QueryEscape(sessionID), url.QueryEscape(s.secret))

	c.log.Debug().Str("session_id", sessionID).Msg("pairing session started")
	return link, nil
}

// OnStatusChange registers a callback for the session's status transitions.
// Registering against an unknown session is a no-op.
func (c *Connector) OnStatusChange(sessionID string, fn func(status string)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[sessionID]
	if !ok {
		return
	}
	s.callbacks = append(s.callbacks, fn)
}

// SetStatus records a status transition and fires the session's callbacks.
// Called by the wallet-side confirmation path.
func (c *Connector) SetStatus(sessionID, status string) {
	c.mu.Lock()
	s, ok := c.sessions[sessionID]
	if !ok {
		c.mu.Unlock()
		return
	}
	s.status = status
	callbacks := make([]func(string), len(s.callbacks))
	copy(callbacks, s.callbacks)
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(status)
	}
}
