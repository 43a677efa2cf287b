package model

import (
	"time"
)

type ChatMode string

const (
	ModeMentalHealth ChatMode = "mental_health"
	ModeStudyBuddy   ChatMode = "study_buddy"
)

// ParseChatMode maps a wire value to a ChatMode. Unknown or empty values
// fall back to mental_health, mirroring the default on the chat endpoint.
func ParseChatMode(s string) ChatMode {
	if ChatMode(s) == ModeStudyBuddy {
		return ModeStudyBuddy
	}
	return ModeMentalHealth
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one side of an exchange: a role plus its text payload.
type Turn struct {
	Role string
	Text string
}

// ChatSession is the in-memory view of a conversation. Turns alternate
// user/model and are append-only. Serialization across requests for the
// same token is the session registry's job, not the model's.
type ChatSession struct {
	Token string
	Turns []Turn
}

func NewChatSession(token string) *ChatSession {
	return &ChatSession{
		Token: token,
		Turns: make([]Turn, 0, 8),
	}
}

func (s *ChatSession) Append(role, text string) {
	s.Turns = append(s.Turns, Turn{Role: role, Text: text})
}

// AppendExchange records one complete turn, user side first.
func (s *ChatSession) AppendExchange(userText, modelText string) {
	s.Append(RoleUser, userText)
	s.Append(RoleModel, modelText)
}

func (s *ChatSession) TurnCount() int { return len(s.Turns) }

// MessageRecord is the durable form of one exchange. Records are immutable
// once written; CreatedAt is assigned at write time.
type MessageRecord struct {
	ID        int64
	SessionID string
	UserText  string
	ModelText string
	CreatedAt time.Time
}
