package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/localdocs/db/kvdb"
	"github.com/meghashyamc/localdocs/logger"
)

var ErrNotFound = errors.New("session not found")

// Store represents the key-value operations needed to keep sessions
type Store interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
}

// IDValidator rejects malformed session ids before they reach the store.
type IDValidator interface {
	ValidateSessionID(sessionID string) error
}

type Session struct {
	ID              string     `json:"id"`
	ProtocolVersion string     `json:"protocol_version,omitempty"`
	ClientName      string     `json:"client_name,omitempty"`
	ClientVersion   string     `json:"client_version,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	TerminatedAt    *time.Time `json:"terminated_at,omitempty"`
}

func (s *Session) Terminated() bool {
	return s.TerminatedAt != nil
}

type Service struct {
	logger    logger.Logger
	store     Store
	validator IDValidator
	now       func() time.Time
}

func New(logger logger.Logger, store Store, validator IDValidator) *Service {
	return &Service{
		logger:    logger,
		store:     store,
		validator: validator,
		now:       time.Now,
	}
}

// Create starts a new session with a random id. Client details are filled in
// by RecordClient once the initialize handshake has been answered.
func (s *Service) Create() (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}

	if err := s.save(session); err != nil {
		return nil, err
	}

	s.logger.Info("session created", "session_id", session.ID)
	return session, nil
}

func (s *Service) Get(id string) (*Session, error) {
	if err := s.validator.ValidateSessionID(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	value, err := s.store.Get(kvdb.SessionsBucket, id)
	if err != nil {
		if errors.Is(err, kvdb.ErrNotFound) || errors.Is(err, kvdb.ErrInvalidKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal([]byte(value), session); err != nil {
		s.logger.Error("could not decode stored session", "session_id", id, "err", err.Error())
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return session, nil
}

// RecordClient stores what the client announced during initialize.
func (s *Service) RecordClient(id string, clientName string, clientVersion string, protocolVersion string) error {
	session, err := s.Get(id)
	if err != nil {
		return err
	}

	session.ClientName = clientName
	session.ClientVersion = clientVersion
	session.ProtocolVersion = protocolVersion
	if err := s.save(session); err != nil {
		return err
	}

	s.logger.Info("session initialized", "session_id", id, "client", clientName, "client_version", clientVersion, "protocol_version", protocolVersion)
	return nil
}

// End marks a session as terminated. The record is kept so that later requests
// carrying the id can be told apart from requests with an unknown id.
func (s *Service) End(id string) error {
	session, err := s.Get(id)
	if err != nil {
		return err
	}
	if session.Terminated() {
		return nil
	}

	terminatedAt := s.now().UTC()
	session.TerminatedAt = &terminatedAt
	if err := s.save(session); err != nil {
		return err
	}

	s.logger.Info("session terminated", "session_id", id)
	return nil
}

func (s *Service) save(session *Session) error {
	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.store.Set(kvdb.SessionsBucket, session.ID, string(value)); err != nil {
		s.logger.Error("could not store session", "session_id", session.ID, "err", err.Error())
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}
