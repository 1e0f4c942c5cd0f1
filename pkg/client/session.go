package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

type subscriber struct {
	id int
	fn func(State)
}

// Session contexto de sesión del proceso: token actual más suscriptores a sus cambios.
// Se crea una vez y se pasa explícitamente a New.
type Session struct {
	t *transport

	mu     sync.RWMutex
	token  string
	state  State
	nextID int
	subs   []subscriber
}

// NewSession construye una sesión vacía contra baseURL.
func NewSession(baseURL string, opts ...Option) *Session {
	return &Session{t: newTransport(baseURL, opts...)}
}

// Init restaura una sesión a partir de un token guardado consultando /api/auth/session.
// Un token rechazado deja la sesión vacía sin error; un fallo de red devuelve ErrConnectivity.
func (s *Session) Init(ctx context.Context, token string) (State, error) {
	if token == "" {
		s.clear()
		return State{}, nil
	}
	var out sessionResponse
	err := s.t.do(ctx, http.MethodGet, "/api/auth/session", token, nil, &out)
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
		s.clear()
		return State{}, nil
	case err != nil:
		return s.State(), err
	}
	st := State{SignedIn: true, UserID: out.UserID, Email: out.Email}
	s.set(token, st)
	return st, nil
}

// SignIn inicia sesión con email y password.
func (s *Session) SignIn(ctx context.Context, email, password string) (State, error) {
	var out loginResponse
	if err := s.t.do(ctx, http.MethodPost, "/api/auth/login", "", loginRequest{Email: email, Password: password}, &out); err != nil {
		return s.State(), err
	}
	st := State{SignedIn: true, UserID: out.User.ID, Email: out.User.Email, ExpiresAt: out.ExpiresAt}
	s.set(out.Token, st)
	return st, nil
}

// SignOut avisa al servidor (descarta el carrito) y limpia la sesión local aunque la llamada falle.
func (s *Session) SignOut(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return nil
	}
	err := s.t.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
	s.clear()
	return err
}

// Subscribe registra fn para cada cambio de estado. Devuelve la función para darse de baja.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// State devuelve el estado actual.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token devuelve el token actual ("" sin sesión).
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) clear() {
	s.set("", State{})
}

// set actualiza y notifica fuera del lock, en orden de suscripción.
func (s *Session) set(token string, st State) {
	s.mu.Lock()
	changed := s.token != token || s.state != st
	s.token = token
	s.state = st
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, sub := range subs {
		sub.fn(st)
	}
}
