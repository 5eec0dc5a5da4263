package tinderclient

import "sync/atomic"

// Session holds the auth token of one Client. Reads and writes are atomic,
// but nothing orders a concurrent Authorize against calls that use the token;
// callers serialize their own authorize-then-use sequences.
type Session struct {
	token atomic.Value
}

// NewSession returns a session restored from a previously obtained token.
func NewSession(token string) *Session {
	s := &Session{}
	s.SetToken(token)
	return s
}

// Token returns the current token, "" when not authorized.
func (s *Session) Token() string {
	token, _ := s.token.Load().(string)
	return token
}

func (s *Session) SetToken(token string) {
	s.token.Store(token)
}
