package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/logger"
	"ai-paper-reader-be/internal/reader"
	"ai-paper-reader-be/internal/reader/autosave"
	"ai-paper-reader-be/internal/reader/highlight"
	"ai-paper-reader-be/internal/repository/unitofwork"
	"ai-paper-reader-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReaderService interface {
	Open(ctx context.Context, paperId uuid.UUID) (*dto.OpenReaderResponse, error)
	Close(paperId uuid.UUID)

	OnNoteChange(paperId uuid.UUID, content string) error
	SaveNote(ctx context.Context, paperId uuid.UUID, content string) (*dto.SaveNoteResponse, error)

	AddHighlight(paperId uuid.UUID, req *dto.AddHighlightRequest) (*dto.HighlightSetResponse, error)
	UndoHighlight(paperId uuid.UUID) (*dto.HighlightSetResponse, error)
	RedoHighlight(paperId uuid.UUID) (*dto.HighlightSetResponse, error)
	Highlights(paperId uuid.UUID, page int) (*dto.HighlightSetResponse, error)
}

// readerService fronts the per-tab reader state: the mounted view, its
// note autosave and its highlight history. Mutations require an open
// view; the session store is reachable through the chat service.
type readerService struct {
	uowFactory unitofwork.RepositoryFactory
	reader     *reader.Reader
	autosave   *autosave.Controller
}

func NewReaderService(
	uowFactory unitofwork.RepositoryFactory,
	rd *reader.Reader,
	saver *autosave.Controller,
) IReaderService {
	return &readerService{
		uowFactory: uowFactory,
		reader:     rd,
		autosave:   saver,
	}
}

func (s *readerService) Open(ctx context.Context, paperId uuid.UUID) (*dto.OpenReaderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := requirePaper(ctx, uow, paperId); err != nil {
		return nil, err
	}

	view, err := s.reader.Open(ctx, paperId.String())
	if err != nil {
		return nil, err
	}

	return &dto.OpenReaderResponse{
		PaperId:     view.PaperId,
		SessionId:   view.SessionId,
		NoteContent: view.NoteContent,
	}, nil
}

func (s *readerService) Close(paperId uuid.UUID) {
	s.reader.Close(paperId.String())
}

// OnNoteChange feeds a keystroke-level edit into the debounced autosave.
func (s *readerService) OnNoteChange(paperId uuid.UUID, content string) error {
	if _, ok := s.reader.History(paperId.String()); !ok {
		return fiber.NewError(fiber.StatusConflict, "Reader view is not open for this paper")
	}
	s.autosave.OnContentChange(paperId.String(), content)
	return nil
}

// SaveNote persists immediately, cancelling any pending debounced write.
func (s *readerService) SaveNote(ctx context.Context, paperId uuid.UUID, content string) (*dto.SaveNoteResponse, error) {
	if err := s.autosave.Save(ctx, paperId.String(), content); err != nil {
		if e, ok := err.(*fiber.Error); ok {
			return nil, e
		}
		return nil, fiber.NewError(fiber.StatusBadGateway, "Saving notes failed, your changes are kept locally")
	}

	savedAt, _ := s.autosave.LastSavedAt(paperId.String())
	return &dto.SaveNoteResponse{PaperId: paperId, SavedAt: savedAt}, nil
}

func (s *readerService) AddHighlight(paperId uuid.UUID, req *dto.AddHighlightRequest) (*dto.HighlightSetResponse, error) {
	history, err := s.history(paperId)
	if err != nil {
		return nil, err
	}

	hl, err := highlight.New(req.Page, req.Text, req.Color, highlight.Position{
		X:      req.Position.X,
		Y:      req.Position.Y,
		Width:  req.Position.Width,
		Height: req.Position.Height,
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	history.Add(hl)
	return s.toSetResponse(paperId, history, history.Highlights()), nil
}

func (s *readerService) UndoHighlight(paperId uuid.UUID) (*dto.HighlightSetResponse, error) {
	history, err := s.history(paperId)
	if err != nil {
		return nil, err
	}

	// No-op on an empty stack; the response reflects the unchanged set.
	history.Undo()
	return s.toSetResponse(paperId, history, history.Highlights()), nil
}

func (s *readerService) RedoHighlight(paperId uuid.UUID) (*dto.HighlightSetResponse, error) {
	history, err := s.history(paperId)
	if err != nil {
		return nil, err
	}

	history.Redo()
	return s.toSetResponse(paperId, history, history.Highlights()), nil
}

// Highlights returns the current set, filtered to one page when page > 0.
func (s *readerService) Highlights(paperId uuid.UUID, page int) (*dto.HighlightSetResponse, error) {
	history, err := s.history(paperId)
	if err != nil {
		return nil, err
	}

	set := history.Highlights()
	if page > 0 {
		set = history.HighlightsForPage(page)
	}
	return s.toSetResponse(paperId, history, set), nil
}

// NewSaveFailureHandler builds the autosave failure callback: a failed
// background persist becomes a non-blocking toast in every open tab.
func NewSaveFailureHandler(publisher IPublisherService, log logger.ILogger) func(paperId string, err error) {
	return func(paperId string, saveErr error) {
		log.Warn("ReaderService", "Background note save failed", map[string]interface{}{
			"paper_id": paperId,
			"error":    saveErr.Error(),
		})

		payload, err := json.Marshal(dto.Notification{
			Type:      events.TypeNoteSaveFailed,
			Title:     "Autosave failed",
			Message:   "Your notes could not be saved. They are kept in this tab; save manually to retry.",
			PaperId:   paperId,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return
		}
		if err := publisher.Publish(context.Background(), payload); err != nil {
			log.Warn("ReaderService", "Failed to publish save-failure notification", map[string]interface{}{
				"paper_id": paperId,
				"error":    err.Error(),
			})
		}
	}
}

func (s *readerService) history(paperId uuid.UUID) (*highlight.History, error) {
	history, ok := s.reader.History(paperId.String())
	if !ok {
		return nil, fiber.NewError(fiber.StatusConflict, "Reader view is not open for this paper")
	}
	return history, nil
}

func (s *readerService) toSetResponse(paperId uuid.UUID, history *highlight.History, set []highlight.Highlight) *dto.HighlightSetResponse {
	highlights := make([]dto.HighlightResponse, len(set))
	for i, hl := range set {
		highlights[i] = dto.HighlightResponse{
			Id:    hl.Id,
			Page:  hl.Page,
			Text:  hl.Text,
			Color: hl.Color,
			Position: dto.HighlightPosition{
				X:      hl.Position.X,
				Y:      hl.Position.Y,
				Width:  hl.Position.Width,
				Height: hl.Position.Height,
			},
		}
	}
	return &dto.HighlightSetResponse{
		PaperId:    paperId.String(),
		Highlights: highlights,
		CanUndo:    history.CanUndo(),
		CanRedo:    history.CanRedo(),
	}
}
