package domain

import (
	"errors"
	"time"
)

// Deck-specific validation errors
var (
	// ErrDeckNameEmpty is returned when a deck's name is empty.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckColorEmpty is returned when a deck's color token is empty.
	ErrDeckColorEmpty = errors.New("deck color cannot be empty")

	// ErrDeckParentInvalid is returned when a deck's parent ID is not a
	// positive identifier.
	ErrDeckParentInvalid = errors.New("deck parent ID must be positive")
)

// Deck represents a node in the study-material tree. Decks form a strict
// tree: each deck has at most one parent, and a nil ParentID marks a root.
// The ID is assigned by the store on creation.
type Deck struct {
	ID          int64     `json:"id"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckPreview is the subset of deck fields shown in listings.
type DeckPreview struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	CoverImage string `json:"cover_image,omitempty"`
}

// Crumb is one step of a deck's ancestor chain, used to render a
// breadcrumb trail.
type Crumb struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewDeck creates a new Deck with the given parent, name, description,
// color, and cover image reference. The ID is left zero for the store to
// assign, and the creation/update timestamps are set to now.
// Returns an error if validation fails.
func NewDeck(parentID *int64, name, description, color, coverImage string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ParentID:    parentID,
		Name:        name,
		Description: description,
		Color:       color,
		CoverImage:  coverImage,
		Archived:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	if d.Color == "" {
		return ErrDeckColorEmpty
	}

	if d.ParentID != nil && *d.ParentID <= 0 {
		return ErrDeckParentInvalid
	}

	return nil
}

// IsRoot reports whether the deck has no parent.
func (d *Deck) IsRoot() bool {
	return d.ParentID == nil
}

// Preview returns the listing view of the deck.
func (d *Deck) Preview() DeckPreview {
	return DeckPreview{
		ID:         d.ID,
		Name:       d.Name,
		Color:      d.Color,
		CoverImage: d.CoverImage,
	}
}
