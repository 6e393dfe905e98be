package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/entity"
	"ai-paper-reader-be/internal/pkg/logger"
	"ai-paper-reader-be/internal/repository/specification"
	"ai-paper-reader-be/internal/repository/unitofwork"
	"ai-paper-reader-be/pkg/events"
	pktNats "ai-paper-reader-be/pkg/nats"
	"ai-paper-reader-be/pkg/pdfutil"
	"ai-paper-reader-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaperService interface {
	Upload(ctx context.Context, fileName string, size int64, file io.Reader) (*dto.PaperResponse, error)
	List(ctx context.Context) (*dto.ListPapersResponse, error)
	Search(ctx context.Context, query string) (*dto.ListPapersResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PaperResponse, error)
	ContentPath(ctx context.Context, id uuid.UUID) (string, error)
	Text(ctx context.Context, id uuid.UUID, fromPage, toPage int) (*dto.PaperTextResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type paperService struct {
	uowFactory       unitofwork.RepositoryFactory
	workspace        *storage.Workspace
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
	maxUploadBytes   int64
}

func NewPaperService(
	uowFactory unitofwork.RepositoryFactory,
	workspace *storage.Workspace,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	maxUploadSizeMB int,
) IPaperService {
	return &paperService{
		uowFactory:       uowFactory,
		workspace:        workspace,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
		maxUploadBytes:   int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

func (s *paperService) Upload(ctx context.Context, fileName string, size int64, file io.Reader) (*dto.PaperResponse, error) {
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Only PDF files are accepted")
	}
	if size > s.maxUploadBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds the %d MB upload limit", s.maxUploadBytes/(1024*1024)))
	}

	name := storage.SanitizeFileName(fileName)
	id := uuid.New()

	path, err := s.workspace.SavePaper(id.String(), file)
	if err != nil {
		return nil, err
	}

	info, err := pdfutil.Inspect(path)
	if err != nil {
		// Not a parseable PDF; remove what we wrote.
		_ = s.workspace.DeletePaper(id.String())
		return nil, fiber.NewError(fiber.StatusBadRequest, "File is not a valid PDF")
	}

	paper := entity.Paper{
		Id:        id,
		Name:      name,
		Title:     info.Title,
		Author:    info.Author,
		PageCount: info.PageCount,
		FileSize:  size,
		Metadata: map[string]interface{}{
			"original_filename": fileName,
		},
		CreatedAt: time.Now(),
	}
	if paper.Title == "" {
		paper.Title = strings.TrimSuffix(name, ".pdf")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PaperRepository().Create(ctx, &paper); err != nil {
		_ = s.workspace.DeletePaper(id.String())
		return nil, err
	}

	s.publishEvent(ctx, events.TypePaperUploaded, map[string]interface{}{
		"paper_id": paper.Id,
		"title":    paper.Title,
	})
	s.notify(ctx, dto.Notification{
		Type:      events.TypePaperUploaded,
		Title:     "Paper uploaded",
		Message:   fmt.Sprintf("%q is ready to read", paper.Title),
		PaperId:   paper.Id.String(),
		CreatedAt: time.Now(),
	})

	return toPaperResponse(&paper), nil
}

func (s *paperService) List(ctx context.Context) (*dto.ListPapersResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	papers, err := uow.PaperRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	total, err := uow.PaperRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListPapersResponse{
		Papers: toPaperResponses(papers),
		Total:  total,
	}, nil
}

func (s *paperService) Search(ctx context.Context, query string) (*dto.ListPapersResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	spec := specification.TitleAuthorOrNameLike{Query: query}
	papers, err := uow.PaperRepository().FindAll(ctx,
		spec,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	total, err := uow.PaperRepository().Count(ctx, spec)
	if err != nil {
		return nil, err
	}

	return &dto.ListPapersResponse{
		Papers: toPaperResponses(papers),
		Total:  total,
	}, nil
}

func (s *paperService) Get(ctx context.Context, id uuid.UUID) (*dto.PaperResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	paper, err := uow.PaperRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if paper == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Paper not found")
	}

	return toPaperResponse(paper), nil
}

func (s *paperService) ContentPath(ctx context.Context, id uuid.UUID) (string, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}

	if !s.workspace.Exists(id.String()) {
		return "", fiber.NewError(fiber.StatusNotFound, "Paper file missing from storage")
	}
	return s.workspace.PaperPath(id.String()), nil
}

// Text extracts plain text from the stored PDF. A zero fromPage starts at
// the first page; a zero toPage runs to the last.
func (s *paperService) Text(ctx context.Context, id uuid.UUID, fromPage, toPage int) (*dto.PaperTextResponse, error) {
	if fromPage < 0 || toPage < 0 || (toPage > 0 && fromPage > toPage) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid page range")
	}

	paper, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.workspace.Exists(id.String()) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Paper file missing from storage")
	}
	path := s.workspace.PaperPath(id.String())

	var text string
	if fromPage <= 1 && toPage <= 0 {
		text, err = pdfutil.ExtractText(path)
	} else {
		text, err = pdfutil.ExtractPageRange(path, fromPage, toPage)
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Could not extract text from this paper")
	}

	from := fromPage
	if from < 1 {
		from = 1
	}
	to := toPage
	if to <= 0 || to > paper.PageCount {
		to = paper.PageCount
	}

	return &dto.PaperTextResponse{
		Id:       id,
		FromPage: from,
		ToPage:   to,
		Text:     text,
	}, nil
}

func (s *paperService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	paper, err := uow.PaperRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if paper == nil {
		return fiber.NewError(fiber.StatusNotFound, "Paper not found")
	}

	if err := uow.PaperRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := s.workspace.DeletePaper(id.String()); err != nil {
		s.logger.Warn("PaperService", "Failed to remove paper files", map[string]interface{}{
			"paper_id": id,
			"error":    err.Error(),
		})
	}

	s.publishEvent(ctx, events.TypePaperDeleted, map[string]interface{}{
		"paper_id": id,
		"title":    paper.Title,
	})

	return nil
}

func (s *paperService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Events are auxiliary; a publish failure never fails the request.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("PaperService", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func (s *paperService) notify(ctx context.Context, notification dto.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("PaperService", "Failed to publish notification", map[string]interface{}{
			"type":  notification.Type,
			"error": err.Error(),
		})
	}
}

func toPaperResponse(paper *entity.Paper) *dto.PaperResponse {
	return &dto.PaperResponse{
		Id:        paper.Id,
		Name:      paper.Name,
		Title:     paper.Title,
		Author:    paper.Author,
		PageCount: paper.PageCount,
		FileSize:  paper.FileSize,
		Metadata:  paper.Metadata,
		CreatedAt: paper.CreatedAt,
		UpdatedAt: paper.UpdatedAt,
	}
}

func toPaperResponses(papers []*entity.Paper) []*dto.PaperResponse {
	out := make([]*dto.PaperResponse, len(papers))
	for i, p := range papers {
		out[i] = toPaperResponse(p)
	}
	return out
}
