package service

import (
	"context"
	"fmt"
	"strings"

	"innovalley/internal/models"
)

// ChatService answers chat messages. The answer is a fixed echo of the
// question until a real assistant is connected.
type ChatService struct{}

func NewChatService() *ChatService {
	return &ChatService{}
}

// Reply returns the answer to message.
func (s *ChatService) Reply(_ context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", models.NewValidationError("Message is required")
	}
	return fmt.Sprintf("Chatbot reply: here is my answer to '%s'!", message), nil
}
