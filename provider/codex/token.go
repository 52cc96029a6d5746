package codex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// Token is the OAuth credential pair the Codex backend expects.
type Token struct {
	AccountID string
	Access    string
}

// TokenSource yields a usable token for one request. Implementations may
// cache or refresh; the provider calls it once per chat invocation.
type TokenSource interface {
	Token(ctx context.Context) (Token, error)
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (Token, error)

func (f TokenSourceFunc) Token(ctx context.Context) (Token, error) { return f(ctx) }

// FileTokenSource reads the credential cache written by the codex CLI login
// flow. An empty Path means ~/.codex/auth.json.
type FileTokenSource struct {
	Path string
}

func (s FileTokenSource) Token(_ context.Context) (Token, error) {
	path := s.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Token{}, fmt.Errorf("locating codex credentials: %w", err)
		}
		path = filepath.Join(home, ".codex", "auth.json")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Token{}, fmt.Errorf("reading codex credentials: %w", err)
	}

	doc := gjson.ParseBytes(raw)
	token := Token{
		AccountID: doc.Get("tokens.account_id").String(),
		Access:    doc.Get("tokens.access_token").String(),
	}
	if token.Access == "" {
		return Token{}, errors.New("codex credentials contain no access token, run the codex CLI login first")
	}
	return token, nil
}
