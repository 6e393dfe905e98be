package unitofwork

import (
	"context"

	"ai-paper-reader-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PaperRepository() contract.PaperRepository
	NoteRepository() contract.NoteRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
