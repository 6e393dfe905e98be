package service

import (
	"context"
	"sync"
	"time"

	"ai-paper-reader-be/internal/config"
	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/entity"
	"ai-paper-reader-be/internal/pkg/logger"
	"ai-paper-reader-be/internal/reader/session"
	"ai-paper-reader-be/internal/repository/specification"
	"ai-paper-reader-be/internal/repository/unitofwork"
	"ai-paper-reader-be/pkg/llm"
	"ai-paper-reader-be/pkg/pdfutil"
	"ai-paper-reader-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const contextPrompt = "You are a research assistant. Answer questions about the paper excerpt below.\n\n--- PAPER EXCERPT ---\n"

type IChatService interface {
	CreateSession(ctx context.Context, paperId uuid.UUID) (*dto.CreateChatSessionResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.ChatSessionResponse, error)
	CurrentSession(ctx context.Context) (*dto.ChatSessionResponse, error)
	ListSessions(ctx context.Context, paperId uuid.UUID) (*dto.ListChatSessionsResponse, error)
	Ask(ctx context.Context, paperId uuid.UUID, req *dto.AskChatRequest) (*dto.AskChatResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   *session.Store
	provider   llm.LLMProvider
	workspace  *storage.Workspace
	logger     logger.ILogger
	aiCfg      config.AIConfig

	// dbIds maps in-memory session ids to their persisted chat_sessions
	// rows, created lazily on the first Ask.
	mu    sync.Mutex
	dbIds map[string]uuid.UUID
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *session.Store,
	provider llm.LLMProvider,
	workspace *storage.Workspace,
	log logger.ILogger,
	aiCfg config.AIConfig,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		sessions:   sessions,
		provider:   provider,
		workspace:  workspace,
		logger:     log,
		aiCfg:      aiCfg,
		dbIds:      make(map[string]uuid.UUID),
	}
}

func (s *chatService) CreateSession(ctx context.Context, paperId uuid.UUID) (*dto.CreateChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := requirePaper(ctx, uow, paperId); err != nil {
		return nil, err
	}

	id := s.sessions.CreateSession(paperId.String())
	return &dto.CreateChatSessionResponse{SessionId: id}, nil
}

func (s *chatService) GetSession(_ context.Context, sessionId string) (*dto.ChatSessionResponse, error) {
	sess, ok := s.sessions.GetSession(sessionId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "Chat session not found")
	}
	return toSessionResponse(sess), nil
}

func (s *chatService) CurrentSession(_ context.Context) (*dto.ChatSessionResponse, error) {
	sess, ok := s.sessions.CurrentSession()
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "No active chat session")
	}
	return toSessionResponse(sess), nil
}

// ListSessions returns every in-memory session created for the paper
// during this process's lifetime.
func (s *chatService) ListSessions(ctx context.Context, paperId uuid.UUID) (*dto.ListChatSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := requirePaper(ctx, uow, paperId); err != nil {
		return nil, err
	}

	sessions := s.sessions.SessionsForPaper(paperId.String())
	out := make([]dto.ChatSessionResponse, len(sessions))
	for i, sess := range sessions {
		out[i] = *toSessionResponse(sess)
	}

	return &dto.ListChatSessionsResponse{
		PaperId:  paperId.String(),
		Sessions: out,
		Total:    len(out),
	}, nil
}

// Ask sends the user's message plus session history to the model and
// records both turns. An empty session id starts a fresh session.
func (s *chatService) Ask(ctx context.Context, paperId uuid.UUID, req *dto.AskChatRequest) (*dto.AskChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := requirePaper(ctx, uow, paperId); err != nil {
		return nil, err
	}

	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = s.sessions.CreateSession(paperId.String())
	} else if _, ok := s.sessions.GetSession(sessionId); !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "Chat session not found")
	}

	history := s.buildHistory(sessionId, paperId, req.UseContext)
	history = append(history, llm.Message{Role: "user", Content: req.Message})

	answer, err := s.provider.Chat(ctx, history,
		llm.WithTemperature(s.aiCfg.Temperature),
		llm.WithMaxTokens(s.aiCfg.MaxTokens),
	)
	if err != nil {
		return nil, mapLLMError(err)
	}

	now := time.Now()
	userMsg := session.Message{
		Id:        uuid.NewString(),
		Role:      "user",
		Content:   req.Message,
		Timestamp: now.UnixMilli(),
	}
	assistantMsg := session.Message{
		Id:        uuid.NewString(),
		Role:      "assistant",
		Content:   answer,
		Timestamp: time.Now().UnixMilli(),
	}

	// The store silently drops both appends if the session was torn down
	// while the request was in flight.
	s.sessions.AddMessage(sessionId, userMsg)
	s.sessions.AddMessage(sessionId, assistantMsg)

	s.persistTurns(ctx, uow, sessionId, paperId, req.Message, userMsg, assistantMsg)

	return &dto.AskChatResponse{
		SessionId: sessionId,
		Reply: dto.ChatMessageResponse{
			Id:        assistantMsg.Id,
			Role:      assistantMsg.Role,
			Content:   assistantMsg.Content,
			Timestamp: assistantMsg.Timestamp,
		},
	}, nil
}

func (s *chatService) buildHistory(sessionId string, paperId uuid.UUID, useContext bool) []llm.Message {
	var history []llm.Message

	if useContext {
		text, err := pdfutil.ExtractPages(s.workspace.PaperPath(paperId.String()), s.aiCfg.ContextPages)
		if err != nil {
			s.logger.Warn("ChatService", "Paper text extraction failed, answering without context", map[string]interface{}{
				"paper_id": paperId,
				"error":    err.Error(),
			})
		} else {
			history = append(history, llm.Message{Role: "system", Content: contextPrompt + text})
		}
	}

	if sess, ok := s.sessions.GetSession(sessionId); ok {
		for _, msg := range sess.Messages {
			history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
		}
	}

	return history
}

// persistTurns mirrors the conversation into the database for history
// across restarts. Failures are logged, not surfaced: the in-memory
// session already holds the authoritative copy for this tab.
func (s *chatService) persistTurns(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	sessionId string,
	paperId uuid.UUID,
	title string,
	turns ...session.Message,
) {
	dbId, err := s.ensureDbSession(ctx, uow, sessionId, paperId, title)
	if err != nil {
		s.logger.Warn("ChatService", "Failed to persist chat session", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return
	}

	for _, turn := range turns {
		msg := entity.ChatMessage{
			Id:            uuid.New(),
			Chat:          turn.Content,
			Role:          turn.Role,
			ChatSessionId: dbId,
			CreatedAt:     time.UnixMilli(turn.Timestamp),
		}
		if err := uow.ChatMessageRepository().Create(ctx, &msg); err != nil {
			s.logger.Warn("ChatService", "Failed to persist chat message", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}
}

func (s *chatService) ensureDbSession(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	sessionId string,
	paperId uuid.UUID,
	title string,
) (uuid.UUID, error) {
	s.mu.Lock()
	dbId, ok := s.dbIds[sessionId]
	s.mu.Unlock()
	if ok {
		return dbId, nil
	}

	sess := entity.ChatSession{
		Id:        uuid.New(),
		PaperId:   paperId,
		Title:     truncateTitle(title),
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &sess); err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	s.dbIds[sessionId] = sess.Id
	s.mu.Unlock()

	return sess.Id, nil
}

func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) > 80 {
		return string(runes[:80])
	}
	return s
}

func requirePaper(ctx context.Context, uow unitofwork.UnitOfWork, paperId uuid.UUID) error {
	paper, err := uow.PaperRepository().FindOne(ctx, specification.ByID{ID: paperId})
	if err != nil {
		return err
	}
	if paper == nil {
		return fiber.NewError(fiber.StatusNotFound, "Paper not found")
	}
	return nil
}

func toSessionResponse(sess session.ChatSession) *dto.ChatSessionResponse {
	messages := make([]dto.ChatMessageResponse, len(sess.Messages))
	for i, msg := range sess.Messages {
		messages[i] = dto.ChatMessageResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}
	return &dto.ChatSessionResponse{
		Id:       sess.Id,
		PaperId:  sess.PaperId,
		Messages: messages,
	}
}
