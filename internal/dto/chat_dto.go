package dto

type ChatMessageResponse struct {
	Id        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type ChatSessionResponse struct {
	Id       string                `json:"id"`
	PaperId  string                `json:"paper_id"`
	Messages []ChatMessageResponse `json:"messages"`
}

type CreateChatSessionResponse struct {
	SessionId string `json:"session_id"`
}

type ListChatSessionsResponse struct {
	PaperId  string                `json:"paper_id"`
	Sessions []ChatSessionResponse `json:"sessions"`
	Total    int                   `json:"total"`
}

type AskChatRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message" validate:"required"`
	// UseContext injects text extracted from the paper into the prompt.
	UseContext bool `json:"use_context"`
}

type AskChatResponse struct {
	SessionId string              `json:"session_id"`
	Reply     ChatMessageResponse `json:"reply"`
}
