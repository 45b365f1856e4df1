package session

import (
	"errors"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

var ErrTerminated = errors.New("session terminated")

var _ mcpserver.SessionIdManager = (*Service)(nil)

// Generate is called by the streamable HTTP transport for every initialize
// request. An empty id leaves the response without an Mcp-Session-Id header.
func (s *Service) Generate() string {
	session, err := s.Create()
	if err != nil {
		s.logger.Error("could not generate session", "err", err.Error())
		return ""
	}

	return session.ID
}

// Validate reports whether a session id may be used for a request. Unknown or
// malformed ids are errors; ended sessions are reported as terminated.
func (s *Service) Validate(sessionID string) (bool, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		s.logger.Debug("rejected session id", "session_id", sessionID, "err", err.Error())
		return false, err
	}

	return session.Terminated(), nil
}

// Terminate handles DELETE requests. Ending an unknown session is a no-op.
func (s *Service) Terminate(sessionID string) (bool, error) {
	if err := s.End(sessionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to terminate session: %w", err)
	}

	return false, nil
}

// Check is used by the transport guard in front of DELETE to tell unknown and
// terminated sessions apart before the library answers.
func (s *Service) Check(sessionID string) error {
	terminated, err := s.Validate(sessionID)
	if err != nil {
		return err
	}
	if terminated {
		return fmt.Errorf("%w: %s", ErrTerminated, sessionID)
	}

	return nil
}
