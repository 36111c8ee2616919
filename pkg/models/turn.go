package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidRole is returned when a role is neither user nor assistant
var ErrInvalidRole = errors.New("invalid role")

// Role identifies who produced a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole converts a raw role string into a Role.
// An empty value defaults to RoleUser; anything other than user/assistant is rejected.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return RoleUser, nil
	case "assistant":
		return RoleAssistant, nil
	default:
		return "", fmt.Errorf("%w %q (expected user or assistant)", ErrInvalidRole, s)
	}
}

// Label returns the speaker prefix used when rendering a turn.
// The zero Role renders as the user, matching ParseRole("").
func (r Role) Label() string {
	if r == RoleAssistant {
		return "Assistant"
	}
	return "User"
}

// UnmarshalJSON validates the role at the decoding boundary
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role must be a string: %w", err)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Turn is one message in a conversation
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UnmarshalJSON defaults a missing role to RoleUser, the same as an empty one
func (t *Turn) UnmarshalJSON(data []byte) error {
	type rawTurn Turn
	raw := rawTurn{Role: RoleUser}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Turn(raw)
	return nil
}

// UserTurn creates a turn attributed to the end user
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn creates a turn attributed to the assistant
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// History is a chronologically ordered list of turns
type History []Turn

// Last returns the most recent n turns, preserving order.
// The returned slice shares the backing array and must not be modified.
func (h History) Last(n int) History {
	if n <= 0 {
		return nil
	}
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// ParseHistory decodes a JSON array of {"role","content"} objects
func ParseHistory(data []byte) (History, error) {
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return h, nil
}

// LoadHistoryFile reads a JSON history file from disk
func LoadHistoryFile(path string) (History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return ParseHistory(data)
}
