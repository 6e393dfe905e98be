package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-paper-reader-be/internal/config"
	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/logger"
	"ai-paper-reader-be/internal/repository/unitofwork"
	"ai-paper-reader-be/pkg/llm"
	"ai-paper-reader-be/pkg/pdfutil"
	"ai-paper-reader-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const summarizePrompt = "Summarize the following research paper. Cover the problem, the approach and the key findings in a few short paragraphs.\n\n"

const askContextHeader = "Use the following context to answer the question.\n\n--- CONTEXT ---\n"

type IAiService interface {
	Ask(ctx context.Context, req *dto.AiAskRequest) (*dto.AiAskResponse, error)
	Summarize(ctx context.Context, paperId uuid.UUID) (*dto.SummarizePaperResponse, error)
	Models() *dto.AiModelsResponse
}

type aiService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.LLMProvider
	workspace  *storage.Workspace
	logger     logger.ILogger
	aiCfg      config.AIConfig
}

func NewAiService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	workspace *storage.Workspace,
	log logger.ILogger,
	aiCfg config.AIConfig,
) IAiService {
	return &aiService{
		uowFactory: uowFactory,
		provider:   provider,
		workspace:  workspace,
		logger:     log,
		aiCfg:      aiCfg,
	}
}

// Ask is the stateless prompt endpoint: no session, optional context.
func (s *aiService) Ask(ctx context.Context, req *dto.AiAskRequest) (*dto.AiAskResponse, error) {
	opts := []llm.Option{
		llm.WithMaxTokens(s.aiCfg.MaxTokens),
	}

	model := s.aiCfg.Model
	if req.Model != "" {
		model = req.Model
		opts = append(opts, llm.WithModel(req.Model))
	}
	if req.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(req.Temperature))
	} else {
		opts = append(opts, llm.WithTemperature(s.aiCfg.Temperature))
	}

	prompt, err := s.buildPrompt(ctx, req)
	if err != nil {
		return nil, err
	}

	answer, err := s.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		return nil, mapLLMError(err)
	}

	return &dto.AiAskResponse{
		Response: answer,
		Model:    model,
		Provider: s.aiCfg.Provider,
	}, nil
}

// buildPrompt merges the caller's free-form context and, when a pdf id
// is given, text extracted from that paper. Extraction failure downgrades
// to answering without the paper, same as the chat path.
func (s *aiService) buildPrompt(ctx context.Context, req *dto.AiAskRequest) (string, error) {
	var contexts []string
	if req.Context != "" {
		contexts = append(contexts, req.Context)
	}

	if req.PdfId != "" {
		paperId, err := uuid.Parse(req.PdfId)
		if err != nil {
			return "", fiber.NewError(fiber.StatusBadRequest, "Invalid pdf id")
		}
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := requirePaper(ctx, uow, paperId); err != nil {
			return "", err
		}

		text, err := pdfutil.ExtractPages(s.workspace.PaperPath(paperId.String()), s.aiCfg.ContextPages)
		if err != nil {
			s.logger.Warn("AiService", "Paper text extraction failed, answering without it", map[string]interface{}{
				"paper_id": paperId,
				"error":    err.Error(),
			})
		} else {
			contexts = append(contexts, text)
		}
	}

	return composePrompt(req.Prompt, contexts), nil
}

// composePrompt frames the question with the supplied context blocks.
// Without context the prompt passes through untouched.
func composePrompt(prompt string, contexts []string) string {
	if len(contexts) == 0 {
		return prompt
	}
	return askContextHeader + strings.Join(contexts, "\n\n") + "\n--- END CONTEXT ---\n\nQuestion: " + prompt
}

func (s *aiService) Summarize(ctx context.Context, paperId uuid.UUID) (*dto.SummarizePaperResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := requirePaper(ctx, uow, paperId); err != nil {
		return nil, err
	}

	text, err := pdfutil.ExtractPages(s.workspace.PaperPath(paperId.String()), s.aiCfg.ContextPages)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Could not extract text from this paper")
	}

	summary, err := s.provider.Generate(ctx, summarizePrompt+text,
		llm.WithTemperature(s.aiCfg.Temperature),
		llm.WithMaxTokens(s.aiCfg.MaxTokens),
	)
	if err != nil {
		return nil, mapLLMError(err)
	}

	return &dto.SummarizePaperResponse{
		PaperId: paperId.String(),
		Summary: summary,
		Model:   s.aiCfg.Model,
	}, nil
}

// Models reports the configured provider's known model list so the
// frontend can offer a picker.
func (s *aiService) Models() *dto.AiModelsResponse {
	var models []string
	switch s.aiCfg.Provider {
	case "openai":
		models = []string{"gpt-4o", "gpt-4o-mini", "gpt-4.1", "gpt-4.1-mini"}
	case "grok":
		models = []string{"grok-3", "grok-3-mini", "grok-4"}
	case "minimax":
		models = []string{"MiniMax-Text-01", "MiniMax-M1"}
	default:
		models = []string{s.aiCfg.Model}
	}

	return &dto.AiModelsResponse{
		Provider: s.aiCfg.Provider,
		Default:  s.aiCfg.Model,
		Models:   models,
	}
}

// mapLLMError translates upstream provider failures onto the API's own
// status codes. Rate limits and quota problems pass through so the
// frontend can show the right message; everything else is a bad gateway.
func mapLLMError(err error) error {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case fiber.StatusTooManyRequests:
			return fiber.NewError(fiber.StatusTooManyRequests, "AI provider rate limit exceeded, try again shortly")
		case fiber.StatusUnauthorized, fiber.StatusForbidden:
			return fiber.NewError(fiber.StatusBadGateway, "AI provider rejected the configured credentials")
		case fiber.StatusPaymentRequired:
			return fiber.NewError(fiber.StatusPaymentRequired, "AI provider quota exhausted")
		default:
			return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("AI provider error (status %d)", apiErr.StatusCode))
		}
	}
	return fiber.NewError(fiber.StatusBadGateway, "AI provider is unreachable")
}
