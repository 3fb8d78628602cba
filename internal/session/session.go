package session

import (
	"encoding/json"
	"fmt"
)

// Session represents one browser context, authenticated or not.
// UserID is zero until login succeeds; a zero UserID is always treated
// as "not authenticated". Values carries whatever route handlers store.
type Session struct {
	ID     string
	UserID int64
	Values map[string]any

	fresh     bool // created this request, never persisted
	dirty     bool // written this request
	destroyed bool // scheduled for deletion

	// Cookie hooks installed by the Manager. They fire while response
	// headers can still be written; the store round-trips happen after
	// the handler instead.
	onFirstWrite func()
	onDestroy    func()
}

// New creates an unsaved session with a freshly generated id.
// It is not persisted until a handler writes to it.
func New() (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:     id,
		Values: make(map[string]any),
		fresh:  true,
	}, nil
}

func (s *Session) Set(key string, value any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = value
	s.markDirty()
}

func (s *Session) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// SetUserID marks the session authenticated. Called by login/register.
func (s *Session) SetUserID(id int64) {
	s.UserID = id
	s.markDirty()
}

func (s *Session) markDirty() {
	first := !s.dirty
	s.dirty = true
	if first && s.onFirstWrite != nil {
		s.onFirstWrite()
	}
}

// Authenticated reports whether a nonzero user is bound to the session.
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Destroy schedules the session for deletion at the end of the request.
func (s *Session) Destroy() {
	s.destroyed = true
	if s.onDestroy != nil {
		s.onDestroy()
	}
}

// Fresh reports whether the session was created this request and has
// never been persisted.
func (s *Session) Fresh() bool {
	return s.fresh
}

// MarshalJSON flattens the session into one object: id, userId when set,
// then the handler-defined fields.
func (s *Session) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.Values)+2)
	for k, v := range s.Values {
		m[k] = v
	}
	m["id"] = s.ID
	if s.UserID != 0 {
		m["userId"] = s.UserID
	} else {
		delete(m, "userId")
	}
	return json.Marshal(m)
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	id, _ := m["id"].(string)
	if id == "" {
		return fmt.Errorf("session: payload missing id")
	}
	s.ID = id
	delete(m, "id")

	if raw, ok := m["userId"]; ok {
		n, ok := raw.(float64)
		if !ok {
			return fmt.Errorf("session: userId is not numeric")
		}
		s.UserID = int64(n)
		delete(m, "userId")
	}

	s.Values = m
	return nil
}
