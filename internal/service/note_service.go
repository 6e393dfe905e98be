package service

import (
	"context"
	"time"

	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/entity"
	"ai-paper-reader-be/internal/pkg/logger"
	"ai-paper-reader-be/internal/repository/specification"
	"ai-paper-reader-be/internal/repository/unitofwork"
	"ai-paper-reader-be/pkg/events"
	pktNats "ai-paper-reader-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// appendSeparator joins appended fragments, mirroring what the editor
// shows between merged note sections.
const appendSeparator = "\n\n---\n\n"

type INoteService interface {
	Get(ctx context.Context, paperId uuid.UUID) (*dto.NoteResponse, error)
	Save(ctx context.Context, paperId uuid.UUID, content string) (*dto.SaveNoteResponse, error)
	Append(ctx context.Context, paperId uuid.UUID, content string) (*dto.SaveNoteResponse, error)
	Delete(ctx context.Context, paperId uuid.UUID) error

	// PersistNote and LoadNoteContent adapt the service to the reader's
	// autosave and view-mount flows, which work with string ids.
	PersistNote(ctx context.Context, paperId, content string) error
	LoadNoteContent(ctx context.Context, paperId string) (string, error)
}

type noteService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Get returns the paper's note. A paper with no note yet reads as empty
// content, not as an error.
func (s *noteService) Get(ctx context.Context, paperId uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := requirePaper(ctx, uow, paperId); err != nil {
		return nil, err
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByPaperID{PaperID: paperId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return &dto.NoteResponse{PaperId: paperId, Content: ""}, nil
	}

	return &dto.NoteResponse{
		PaperId:   paperId,
		Content:   note.Content,
		UpdatedAt: note.UpdatedAt,
	}, nil
}

// Save upserts the paper's note with the given content.
func (s *noteService) Save(ctx context.Context, paperId uuid.UUID, content string) (*dto.SaveNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := requirePaper(ctx, uow, paperId); err != nil {
		return nil, err
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByPaperID{PaperID: paperId})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if note == nil {
		note = &entity.Note{
			Id:        uuid.New(),
			PaperId:   paperId,
			Content:   content,
			CreatedAt: now,
		}
		if err := uow.NoteRepository().Create(ctx, note); err != nil {
			return nil, err
		}
	} else {
		note.Content = content
		note.UpdatedAt = &now
		if err := uow.NoteRepository().Update(ctx, note); err != nil {
			return nil, err
		}
	}

	s.publishSaved(ctx, paperId)

	return &dto.SaveNoteResponse{PaperId: paperId, SavedAt: now}, nil
}

// Append merges new content onto the existing note, separated by a
// horizontal rule. Appending to an absent or empty note is a plain save.
func (s *noteService) Append(ctx context.Context, paperId uuid.UUID, content string) (*dto.SaveNoteResponse, error) {
	existing, err := s.Get(ctx, paperId)
	if err != nil {
		return nil, err
	}

	merged := content
	if existing.Content != "" {
		merged = existing.Content + appendSeparator + content
	}

	return s.Save(ctx, paperId, merged)
}

func (s *noteService) Delete(ctx context.Context, paperId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByPaperID{PaperID: paperId})
	if err != nil {
		return err
	}
	if note == nil {
		return fiber.NewError(fiber.StatusNotFound, "Note not found")
	}

	return uow.NoteRepository().Delete(ctx, note.Id)
}

func (s *noteService) PersistNote(ctx context.Context, paperId, content string) error {
	id, err := uuid.Parse(paperId)
	if err != nil {
		return err
	}
	_, err = s.Save(ctx, id, content)
	return err
}

func (s *noteService) LoadNoteContent(ctx context.Context, paperId string) (string, error) {
	id, err := uuid.Parse(paperId)
	if err != nil {
		return "", err
	}
	note, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return note.Content, nil
}

func (s *noteService) publishSaved(ctx context.Context, paperId uuid.UUID) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.TypeNoteSaved,
		Data: map[string]interface{}{
			"paper_id": paperId,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("NoteService", "Failed to publish NOTE_SAVED event", map[string]interface{}{
			"paper_id": paperId,
			"error":    err.Error(),
		})
	}
}
