package store

import (
	"context"

	"bigbrain/internal/domain"
)

// DeckStore defines the interface for deck data persistence and
// hierarchical traversal.
type DeckStore interface {
	// Create saves a new deck to the store and assigns its ID.
	// It handles domain validation internally.
	// Returns validation errors wrapped in ErrInvalidEntity if data is invalid.
	// Returns ErrStorage if the insert violates a constraint, such as an
	// invalid parent reference.
	Create(ctx context.Context, deck *domain.Deck) (int64, error)

	// ListChildren retrieves the non-archived child decks of the given
	// parent, in insertion order. A nil parentID selects root decks
	// (parent_id IS NULL), never the whole tree.
	ListChildren(ctx context.Context, parentID *int64) ([]domain.DeckPreview, error)

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Deck, error)

	// GetName retrieves just the name of a deck.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetName(ctx context.Context, id int64) (string, error)

	// GetAncestorChain walks from the given deck up to its root, returning
	// one Crumb per step in child-to-root order; a root deck yields a chain
	// of exactly one element. The walk always advances to the parent and
	// returns ErrCorruptHierarchy if it revisits a deck, so it terminates
	// even on a damaged tree.
	// Returns ErrDeckNotFound if the starting deck does not exist.
	GetAncestorChain(ctx context.Context, id int64) ([]domain.Crumb, error)
}
