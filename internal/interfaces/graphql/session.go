package graphql

import "context"

// Session registra lo que una mutación quiere hacer con la cookie de sesión.
// El transporte la crea antes de ejecutar la operación y la aplica a la respuesta.
type Session struct {
	token   string
	issued  bool
	cleared bool
}

type sessionKey struct{}

// WithSession adjunta una Session vacía al contexto y la devuelve.
func WithSession(ctx context.Context) (context.Context, *Session) {
	s := &Session{}
	return context.WithValue(ctx, sessionKey{}, s), s
}

func sessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// Issue pide fijar la cookie con token.
func (s *Session) Issue(token string) {
	if s == nil {
		return
	}
	s.token, s.issued, s.cleared = token, true, false
}

// Clear pide borrar la cookie.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.token, s.issued, s.cleared = "", false, true
}

// Issued devuelve el token a guardar, si alguna mutación emitió uno.
func (s *Session) Issued() (string, bool) { return s.token, s.issued }

// Cleared indica si la cookie debe borrarse.
func (s *Session) Cleared() bool { return s.cleared }
