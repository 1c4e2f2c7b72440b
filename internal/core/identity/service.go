package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Gate intercepts every inbound interaction and binds anonymous chat
// identities to a role via a one-time token lookup.
type Gate struct {
	dir   Directory
	store *SessionStore
	log   *slog.Logger
}

// NewGate creates a Gate.
func NewGate(dir Directory, store *SessionStore, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{dir: dir, store: store, log: log}
}

// Authorize resolves the chat id to an Identity. If the chat id is
// already authorized the stored identity is returned with fresh=false
// and the input is left for the caller to dispatch. Otherwise the
// input is interpreted as a token; on a match the identity is created,
// stored and returned with fresh=true. A failed resolution makes no
// state change.
func (g *Gate) Authorize(ctx context.Context, chatID int64, input string) (Identity, bool, error) {
	if id, ok := g.store.Get(chatID); ok {
		return id, false, nil
	}

	token := strings.TrimSpace(input)
	if token == "" {
		return Identity{}, false, ErrTokenNotFound
	}

	access, err := g.dir.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Identity{}, false, ErrTokenNotFound
		}
		g.log.Warn("access directory lookup failed", "chat_id", chatID, "error", err)
		return Identity{}, false, fmt.Errorf("resolve token: %w", err)
	}

	role, err := ParseRole(access.Role)
	if err != nil {
		g.log.Warn("token resolved to unknown role", "chat_id", chatID, "role", access.Role)
		return Identity{}, false, ErrTokenNotFound
	}

	id := Identity{
		ChatID: chatID,
		Name:   strings.TrimSpace(access.Name),
		Role:   role,
		Branch: strings.TrimSpace(access.Branch),
	}
	g.store.Put(id)
	g.log.Info("chat authorized", "chat_id", chatID, "role", string(role))
	return id, true, nil
}

// Lookup returns the stored identity for a chat without attempting a
// token resolution.
func (g *Gate) Lookup(chatID int64) (Identity, bool) {
	return g.store.Get(chatID)
}
