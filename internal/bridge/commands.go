package bridge

import (
	"context"
	"encoding/json"
	"errors"

	"bigbrain/internal/domain"
)

// ErrImageTypeMissing is returned when cover image bytes arrive without a
// declared type.
var ErrImageTypeMissing = errors.New("image type not provided")

// NewDeckParams carries the inputs of the new_deck command. CoverImage is
// the raw image bytes (base64 across the wire, per encoding/json); when
// present, CoverImageType must name its declared type.
type NewDeckParams struct {
	ParentID       *int64 `json:"parent_id"`
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	Color          string `json:"color" validate:"required"`
	CoverImage     []byte `json:"cover_image"`
	CoverImageType string `json:"cover_image_type"`
}

// ListDecksParams carries the inputs of the get_decks command. A nil
// ParentID lists root decks.
type ListDecksParams struct {
	ParentID *int64 `json:"parent_id"`
}

// DeckIDParams carries a single deck identifier.
type DeckIDParams struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// QuestionIDParams carries a single question identifier.
type QuestionIDParams struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// ListQuestionsParams carries the inputs of the get_questions command.
type ListQuestionsParams struct {
	DeckID int64 `json:"deck_id" validate:"required,gt=0"`
}

// AnswerParams is one answer option of a new multi-choice question.
type AnswerParams struct {
	Content string `json:"content" validate:"required"`
	Correct bool   `json:"correct"`
}

// NewMultiChoiceQuestionParams carries the inputs of the
// new_multi_choice_question command.
type NewMultiChoiceQuestionParams struct {
	DeckID       int64          `json:"deck_id" validate:"required,gt=0"`
	Title        string         `json:"title" validate:"required"`
	Content      string         `json:"content"`
	LayoutCols   int            `json:"layout_cols" validate:"required,gt=0"`
	SingleAnswer bool           `json:"single_answer"`
	Answers      []AnswerParams `json:"answers" validate:"required,min=1,dive"`
}

// newDeck stores the cover image (if any) first, then creates the deck
// referencing the stored path. The image write happens before the deck
// repository takes the gateway handle, so slow disks never stall other
// repository callers.
func (b *Bridge) newDeck(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p NewDeckParams
	if err := b.decodeParams(params, &p); err != nil {
		return nil, err
	}

	var coverImage string
	if len(p.CoverImage) > 0 {
		if p.CoverImageType == "" {
			return nil, ErrImageTypeMissing
		}
		path, err := b.images.Save(p.CoverImage, p.CoverImageType)
		if err != nil {
			return nil, err
		}
		coverImage = path
	}

	deck, err := domain.NewDeck(p.ParentID, p.Name, p.Description, p.Color, coverImage)
	if err != nil {
		return nil, err
	}

	return b.decks.Create(ctx, deck)
}

func (b *Bridge) getDecks(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p ListDecksParams
	if err := b.decodeParams(params, &p); err != nil {
		return nil, err
	}

	return b.decks.ListChildren(ctx, p.ParentID)
}

func (b *Bridge) getDeck(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p DeckIDParams
	if err := b.decodeParams(params, &p); err != nil {
		return nil, err
	}

	return b.decks.GetByID(ctx, p.ID)
}

func (b *Bridge) getDeckName(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p DeckIDParams
	if err := b.decodeParams(params, &p); err != nil {
		return nil, err
	}

	return b.decks.GetName(ctx, p.ID)
}

func (b *Bridge) getDeckCrumbs(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p DeckIDParams
	if err := b.decodeParams(params, &p); err != nil {
		return nil, err
	}

	return b.decks.GetAncestorChain(ctx, p.ID)
}

func (b *Bridge) newMultiChoiceQuestion(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p NewMultiChoiceQuestionParams
	if err := b.decodeParams(params, &p); err != nil {
		return nil, err
	}

	answers := make([]domain.MultiChoiceAnswer, 0, len(p.Answers))
	for _, a := range p.Answers {
		answers = append(answers, domain.MultiChoiceAnswer{
			Content: a.Content,
			Correct: a.Correct,
		})
	}

	mc, err := domain.NewMultiChoice(p.DeckID, p.Title, p.Content, p.LayoutCols, p.SingleAnswer, answers)
	if err != nil {
		return nil, err
	}

	return b.questions.CreateMultiChoice(ctx, mc)
}

func (b *Bridge) getQuestions(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p ListQuestionsParams
	if err := b.decodeParams(params, &p); err != nil {
		return nil, err
	}

	return b.questions.ListPreviews(ctx, p.DeckID)
}

func (b *Bridge) getQuestion(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p QuestionIDParams
	if err := b.decodeParams(params, &p); err != nil {
		return nil, err
	}

	return b.questions.GetByID(ctx, p.ID)
}
