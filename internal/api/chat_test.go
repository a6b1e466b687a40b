package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/khana/backend/internal/mocks"
	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/internal/types"
	"github.com/pageza/khana/backend/pkg/logger"
)

func TestChatForwardsRequest(t *testing.T) {
	chat := new(mocks.MockChatService)
	chat.On("Reply", mock.Anything, mock.MatchedBy(func(req *types.ChatRequest) bool {
		return req.Message == "What's for dinner?" &&
			len(req.Recipes) == 1 && req.Recipes[0].Title == "Soup" &&
			len(req.ConversationHistory) == 1 && req.ConversationHistory[0].Role == types.RoleAssistant
	})).Return("Make the soup.")

	r := newTestEngine()
	r.POST("/recipe-chat", NewChatHandler(chat, logger.Nop()).Chat)

	w := doJSON(t, r, http.MethodPost, "/recipe-chat", map[string]interface{}{
		"message": "What's for dinner?",
		"recipes": []map[string]interface{}{
			{"id": "abc", "title": "Soup", "category": "lunch", "ingredients": "water", "servings": 2},
		},
		"conversationHistory": []map[string]string{
			{"id": "1", "role": "assistant", "content": "Hi!"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"Make the soup."}`, w.Body.String())
	chat.AssertExpectations(t)
}

func TestChatMalformedBody(t *testing.T) {
	chat := new(mocks.MockChatService)

	r := newTestEngine()
	r.POST("/recipe-chat", NewChatHandler(chat, logger.Nop()).Chat)

	for _, body := range []string{"", "{", `{"message": 42}`} {
		req := httptest.NewRequest(http.MethodPost, "/recipe-chat", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"response":"`+service.ReplyGenericFailure+`"}`, w.Body.String())
	}
	chat.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything)
}
