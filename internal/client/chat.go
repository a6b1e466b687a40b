package client

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/types"
)

const (
	// Greeting opens every chat session
	Greeting = "Hi! I'm your recipe assistant. Ask me anything about cooking, recipes, ingredients, techniques, or get suggestions from your collection!"

	// ReplyTransportFailure replaces the reply when the chat call itself fails
	ReplyTransportFailure = "Sorry, I encountered an error. Please try again."
	// ReplyMissing replaces an empty response field
	ReplyMissing = "I apologize, I encountered an issue processing your request."
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a reply is already pending")
)

// Chatter sends one chat request
type Chatter interface {
	Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error)
}

// ChatSession is the transcript of one conversation with the assistant. At
// most one message is in flight at a time.
type ChatSession struct {
	chat    Chatter
	recipes func() []model.Recipe
	logger  *zap.Logger

	mu       sync.Mutex
	messages []types.ConversationMessage
	nextID   int
	busy     bool
}

// NewChatSession starts a session with the greeting. recipes supplies the
// collection sent with each message; nil sends none.
func NewChatSession(chat Chatter, recipes func() []model.Recipe, logger *zap.Logger) *ChatSession {
	s := &ChatSession{
		chat:    chat,
		recipes: recipes,
		logger:  logger.Named("chat"),
		nextID:  1,
	}
	s.appendLocked(types.RoleAssistant, Greeting)
	return s
}

// Send appends input as a user message, asks the assistant and appends its
// reply. Empty input or a pending reply is rejected without changing the
// transcript. The returned string is the appended assistant message.
func (s *ChatSession) Send(ctx context.Context, input string) (string, error) {
	message := strings.TrimSpace(input)
	if message == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.busy = true
	history := make([]types.ConversationMessage, len(s.messages))
	copy(history, s.messages)
	s.appendLocked(types.RoleUser, message)
	s.mu.Unlock()

	var recipes []model.Recipe
	if s.recipes != nil {
		recipes = s.recipes()
	}

	reply := s.ask(ctx, &types.ChatRequest{
		Message:             message,
		Recipes:             types.ChatRecipesFrom(recipes),
		ConversationHistory: history,
	})

	s.mu.Lock()
	s.appendLocked(types.RoleAssistant, reply)
	s.busy = false
	s.mu.Unlock()

	return reply, nil
}

func (s *ChatSession) ask(ctx context.Context, req *types.ChatRequest) string {
	resp, err := s.chat.Chat(ctx, req)
	if err != nil {
		s.logger.Error("error sending message", zap.Error(err))
		return ReplyTransportFailure
	}
	if resp.Response == "" {
		return ReplyMissing
	}
	return resp.Response
}

func (s *ChatSession) appendLocked(role types.Role, content string) {
	s.messages = append(s.messages, types.ConversationMessage{
		ID:      strconv.Itoa(s.nextID),
		Role:    role,
		Content: content,
	})
	s.nextID++
}

// Messages returns a copy of the transcript
func (s *ChatSession) Messages() []types.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ConversationMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Busy reports whether a reply is pending
func (s *ChatSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
