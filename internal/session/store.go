package session

import (
	"context"
	"encoding/json"

	"roadwatch/internal/logger"
	"roadwatch/models"
	"roadwatch/repository"
)

// Storage keys. The session is persisted as two entries written as one
// atomic unit: the raw credential token and the serialized user record.
const (
	keyToken = "token"
	keyUser  = "user"
)

// Store owns the persisted session lifecycle. Load never fails on bad
// data: anything absent, malformed, or expired reads as "no session".
type Store struct {
	kv  repository.KeyValueI
	log *logger.Logger
}

func NewStore(kv repository.KeyValueI, log *logger.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Load reads the persisted session. It returns nil (with no error) when
// no session is stored, the stored user record does not parse, or the
// stored token is a JWT whose expiry has passed. Storage-level failures
// are returned as errors.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	token, ok, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		return nil, nil
	}
	raw, ok, err := s.kv.Get(ctx, keyUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.WithComponent("session").Warn("stored user record is malformed, treating as logged out")
		return nil, nil
	}
	if !models.ValidRole(user.Role) {
		s.log.WithComponent("session").Warn("stored user record has unknown role, treating as logged out")
		return nil, nil
	}
	if TokenExpired(token) {
		s.log.WithComponent("session").Info("stored token is expired, treating as logged out")
		return nil, nil
	}
	return &models.Session{Token: token, User: user}, nil
}

// Save persists the session. Token and user land in one transaction:
// both or neither are observable afterwards.
func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	return s.kv.SetMany(ctx, map[string]string{
		keyToken: sess.Token,
		keyUser:  string(raw),
	})
}

// Clear removes the persisted session. Idempotent: clearing an empty
// store succeeds.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Remove(ctx, keyToken, keyUser)
}
