package models

// ChatRequest is the body accepted by the chat endpoints.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the answer returned by the chat endpoints.
type ChatReply struct {
	Reply string `json:"reply"`
}
