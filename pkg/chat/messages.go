package chat

import (
	"strings"
	"time"
)

// Role identifies who produced an exchange
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Exchange is one committed turn of the conversation. Values are never
// modified after they are appended to a Transcript.
type Exchange struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUserExchange(text string) Exchange {
	return Exchange{
		Role:      RoleUser,
		Text:      strings.TrimSpace(text),
		Timestamp: time.Now(),
	}
}

func NewAssistantExchange(text string) Exchange {
	return Exchange{
		Role:      RoleAssistant,
		Text:      text,
		Timestamp: time.Now(),
	}
}

func (e Exchange) IsUser() bool {
	return e.Role == RoleUser
}

func (e Exchange) IsAssistant() bool {
	return e.Role == RoleAssistant
}

func (e Exchange) IsEmpty() bool {
	return strings.TrimSpace(e.Text) == ""
}
