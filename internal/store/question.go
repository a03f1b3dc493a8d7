package store

import (
	"context"

	"bigbrain/internal/domain"
)

// QuestionStore defines the interface for question data persistence.
// Questions are a type-tagged envelope plus, for implemented variants, a
// detail record created in the same unit of work.
type QuestionStore interface {
	// CreateQuestion saves a new question envelope to the store and assigns
	// its ID. Used by the type-specific creators; variants with a detail
	// schema should be created through their dedicated creator instead so
	// the envelope and detail land in one transaction.
	// Returns validation errors wrapped in ErrInvalidEntity if data is invalid.
	CreateQuestion(ctx context.Context, question *domain.Question) (int64, error)

	// CreateMultiChoice saves a multi-choice question as a single logical
	// transaction: envelope, then detail row, then each answer. The
	// operation is all-or-nothing; a failure at any step leaves no rows
	// behind. The assigned envelope ID is written back into the aggregate.
	// Returns validation errors wrapped in ErrInvalidEntity if data is
	// invalid, including a single-answer question with more than one
	// correct answer.
	CreateMultiChoice(ctx context.Context, mc *domain.MultiChoice) (int64, error)

	// ListPreviews retrieves the non-archived questions owned by the given
	// deck, in insertion order.
	ListPreviews(ctx context.Context, deckID int64) ([]domain.QuestionPreview, error)

	// GetByID retrieves a question envelope by its unique ID.
	// Returns ErrQuestionNotFound if the question does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Question, error)
}
