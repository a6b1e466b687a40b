package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/khana/backend/internal/model"
)

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationMessage is one turn in the chat transcript
type ConversationMessage struct {
	ID      string `json:"id"`
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// ChatRecipe is a recipe as sent to the chat proxy. It carries every field of
// the stored recipe; the proxy reads title, description and category. Fields
// are loosely typed so any client's recipe shape decodes.
type ChatRecipe struct {
	ID           string `json:"id,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Ingredients  string `json:"ingredients,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	PrepTime     int    `json:"prep_time,omitempty"`
	CookTime     int    `json:"cook_time,omitempty"`
	Servings     int    `json:"servings,omitempty"`
	Category     string `json:"category"`
	ImageURL     string `json:"image_url,omitempty"`
	SourceLink   string `json:"source_link,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// ChatRecipesFrom converts the whole collection to the chat wire shape
func ChatRecipesFrom(recipes []model.Recipe) []ChatRecipe {
	out := make([]ChatRecipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, ChatRecipe{
			ID:           r.ID.String(),
			Title:        r.Title,
			Description:  r.Description,
			Ingredients:  r.Ingredients,
			Instructions: r.Instructions,
			PrepTime:     r.PrepTime,
			CookTime:     r.CookTime,
			Servings:     r.Servings,
			Category:     string(r.Category),
			ImageURL:     r.ImageURL,
			SourceLink:   r.SourceLink,
			CreatedAt:    formatTime(r.CreatedAt),
			UpdatedAt:    formatTime(r.UpdatedAt),
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ChatRequest is the body of POST /recipe-chat
type ChatRequest struct {
	Message             string                `json:"message" validate:"required"`
	Recipes             []ChatRecipe          `json:"recipes" validate:"dive"`
	ConversationHistory []ConversationMessage `json:"conversationHistory" validate:"dive"`
}

// ChatResponse is the body of every /recipe-chat reply
type ChatResponse struct {
	Response string `json:"response"`
}

var chatValidate = validator.New()

// Validate checks the request shape and defaults absent sequences to empty
func (r *ChatRequest) Validate() error {
	if r.Recipes == nil {
		r.Recipes = []ChatRecipe{}
	}
	if r.ConversationHistory == nil {
		r.ConversationHistory = []ConversationMessage{}
	}
	return chatValidate.Struct(r)
}
