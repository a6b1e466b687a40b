package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

// Fallback replies. The chat endpoint never surfaces technical errors.
const (
	ReplyUpstreamFailure = "I'm having trouble connecting to my AI backend right now. Please try again in a moment."
	ReplyEmptyCompletion = "I'm not sure how to respond to that. Could you rephrase your question?"
	ReplyGenericFailure  = "Sorry, something went wrong. Please try again."
)

// historyWindow is how many trailing conversation messages go into the prompt
const historyWindow = 6

const promptPreamble = "You are a helpful recipe assistant. You can help users with cooking advice, " +
	"recipe suggestions, ingredient substitutions, cooking techniques, and more. " +
	"Be friendly, concise, and practical in your responses."

const promptClosing = "Provide a helpful, conversational response in 1-3 sentences."

// ChatService turns a chat request into one prompt, forwards it to the
// completion provider and normalizes the reply
type ChatService struct {
	provider CompletionProvider
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewChatService creates a new ChatService instance
func NewChatService(provider CompletionProvider, logger *zap.Logger, m *metrics.Metrics) *ChatService {
	return &ChatService{
		provider: provider,
		logger:   logger.Named("chat"),
		metrics:  m,
	}
}

// Reply answers req. Every failure is logged and mapped to a fallback reply.
func (s *ChatService) Reply(ctx context.Context, req *types.ChatRequest) string {
	if err := req.Validate(); err != nil {
		s.logger.Warn("invalid chat request", zap.Error(apperrors.NewInputError("invalid chat request", err)))
		s.metrics.ObserveChat(metrics.ChatError)
		return ReplyGenericFailure
	}

	prompt := BuildPrompt(req)

	start := time.Now()
	text, err := s.provider.Complete(ctx, prompt)
	s.metrics.ObserveUpstream(time.Since(start))

	if err != nil {
		if appErr, ok := apperrors.As(err); ok && appErr.Code == apperrors.CodeUpstream {
			s.logger.Error("completion provider error",
				zap.Any("status", appErr.Metadata["status"]),
				zap.Any("body", appErr.Metadata["body"]))
			s.metrics.ObserveChat(metrics.ChatUpstreamError)
			return ReplyUpstreamFailure
		}
		s.logger.Error("chat request failed", zap.Error(err))
		s.metrics.ObserveChat(metrics.ChatError)
		return ReplyGenericFailure
	}

	reply := strings.TrimSpace(text)
	if reply == "" {
		s.metrics.ObserveChat(metrics.ChatEmpty)
		return ReplyEmptyCompletion
	}

	s.metrics.ObserveChat(metrics.ChatOK)
	return reply
}

// BuildPrompt assembles the single prompt sent upstream: preamble, the quoted
// message, the recipe collection, the last six history messages and the
// closing instruction
func BuildPrompt(req *types.ChatRequest) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nCurrent user message: \"")
	b.WriteString(req.Message)
	b.WriteString("\"\n")
	b.WriteString(recipeContext(req.Recipes))
	b.WriteString(conversationContext(req.ConversationHistory))
	b.WriteString("\n\n")
	b.WriteString(promptClosing)
	return b.String()
}

func recipeContext(recipes []types.ChatRecipe) string {
	if len(recipes) == 0 {
		return ""
	}
	lines := make([]string, 0, len(recipes))
	for _, r := range recipes {
		description := r.Description
		if description == "" {
			description = "No description"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", r.Title, r.Category, description))
	}
	return "\n\nUser's Recipe Collection:\n" + strings.Join(lines, "\n")
}

func conversationContext(history []types.ConversationMessage) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		speaker := "Assistant"
		if m.Role == types.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	return "\n\nPrevious conversation:\n" + strings.Join(lines, "\n")
}
