// Package chat keeps the follow-up conversation held against an analyzed
// document.
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/studygenius/internal/ingest"
	"github.com/csheth/studygenius/internal/llm"
)

// Greeting opens every conversation.
const Greeting = "Hello! Ask me anything about your uploaded document."

// Message is one entry in the conversation log.
type Message struct {
	ID        string
	Role      llm.Role
	Content   string
	Timestamp time.Time
}

// Log is an append-only, time-ordered conversation.
type Log struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

// NewLog returns a log seeded with the model greeting.
func NewLog() *Log {
	return newLogAt(time.Now)
}

func newLogAt(now func() time.Time) *Log {
	l := &Log{now: now}
	l.Append(llm.RoleModel, Greeting)
	return l
}

// Append records a message and returns it with its id and timestamp filled in.
func (l *Log) Append(role llm.Role, content string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: l.now(),
	}
	if n := len(l.messages); n > 0 && msg.Timestamp.Before(l.messages[n-1].Timestamp) {
		msg.Timestamp = l.messages[n-1].Timestamp
	}
	l.messages = append(l.messages, msg)
	return msg
}

// All returns a copy of every message in order.
func (l *Log) All() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len reports how many messages the log holds.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Turns converts the log into model context, greeting included.
func (l *Log) Turns() []llm.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	turns := make([]llm.Turn, 0, len(l.messages))
	for _, m := range l.messages {
		turns = append(turns, llm.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// Pending is a question already recorded in its log, waiting for the
// tutor's reply. history is the context the model receives with it.
type Pending struct {
	log      *Log
	history  []llm.Turn
	Question Message
}

// Ask appends the user's question and returns it as a Pending exchange
// holding the history that preceded it.
func (l *Log) Ask(question string) *Pending {
	history := l.Turns()
	return &Pending{log: l, history: history, Question: l.Append(llm.RoleUser, question)}
}

// Resolve asks the model and returns the reply text, substituting the
// fallback strings on failure. It leaves the log untouched.
func (p *Pending) Resolve(ctx context.Context, client llm.Client, file ingest.UploadedFile) string {
	return llm.ChatTurn(ctx, client, file, p.history, p.Question.Content)
}

// Complete records reply as the tutor's answer.
func (p *Pending) Complete(reply string) Message {
	return p.log.Append(llm.RoleModel, reply)
}
