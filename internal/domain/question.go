package domain

import (
	"errors"
	"fmt"
	"time"
)

// QuestionType tags the concrete variant of a question. The tag decides
// which detail table owns the variant's extended schema; variants without a
// detail schema yet persist only the envelope.
type QuestionType string

// Declared question type variants. The set is closed: adding a variant
// means adding its tag here, its detail schema, a dedicated creator, and a
// case in every dispatch switch below (the switches fail on unknown tags
// rather than falling through, and TestQuestionTypeDispatchExhaustive keeps
// the slice and the switches in sync).
const (
	QuestionTypeMultiChoice QuestionType = "multi_choice"
	QuestionTypeBinary      QuestionType = "binary"
	QuestionTypeFillBlank   QuestionType = "fill_blank"
	QuestionTypeShortAnswer QuestionType = "short_answer"
	QuestionTypeLongAnswer  QuestionType = "long_answer"
	QuestionTypeMatch       QuestionType = "match"
	QuestionTypeSequence    QuestionType = "sequence"
	QuestionTypeWordDrag    QuestionType = "word_drag"
	QuestionTypeDropdown    QuestionType = "dropdown"
	QuestionTypeNumeric     QuestionType = "numeric"
	QuestionTypeHotSpot     QuestionType = "hot_spot"
	QuestionTypeCode        QuestionType = "code"
	QuestionTypeMath        QuestionType = "math"
	QuestionTypeGeoLocation QuestionType = "geo_location"
)

// Common validation errors for Question and its variants.
var (
	ErrQuestionDeckIDInvalid = errors.New("question deck ID must be positive")
	ErrQuestionTitleEmpty    = errors.New("question title cannot be empty")
	ErrLayoutColsInvalid     = errors.New("layout columns must be greater than zero")
	ErrNoAnswers             = errors.New("multi-choice question needs at least one answer")
	ErrAnswerContentEmpty    = errors.New("answer content cannot be empty")
	ErrTooManyCorrectAnswers = errors.New("single-answer question cannot have more than one correct answer")
)

// QuestionTypes returns all declared question type variants.
func QuestionTypes() []QuestionType {
	return []QuestionType{
		QuestionTypeMultiChoice,
		QuestionTypeBinary,
		QuestionTypeFillBlank,
		QuestionTypeShortAnswer,
		QuestionTypeLongAnswer,
		QuestionTypeMatch,
		QuestionTypeSequence,
		QuestionTypeWordDrag,
		QuestionTypeDropdown,
		QuestionTypeNumeric,
		QuestionTypeHotSpot,
		QuestionTypeCode,
		QuestionTypeMath,
		QuestionTypeGeoLocation,
	}
}

// ParseQuestionType converts a stored tag into a QuestionType.
// Returns ErrInvalidQuestionType for unknown tags.
func ParseQuestionType(s string) (QuestionType, error) {
	qt := QuestionType(s)
	if !qt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidQuestionType, s)
	}
	return qt, nil
}

// Valid reports whether the tag is one of the declared variants.
func (qt QuestionType) Valid() bool {
	switch qt {
	case QuestionTypeMultiChoice, QuestionTypeBinary, QuestionTypeFillBlank,
		QuestionTypeShortAnswer, QuestionTypeLongAnswer, QuestionTypeMatch,
		QuestionTypeSequence, QuestionTypeWordDrag, QuestionTypeDropdown,
		QuestionTypeNumeric, QuestionTypeHotSpot, QuestionTypeCode,
		QuestionTypeMath, QuestionTypeGeoLocation:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable name of the variant.
// Unknown tags yield an error rather than a silent fallback so that a new
// variant cannot ship without its display wiring.
func (qt QuestionType) DisplayName() (string, error) {
	switch qt {
	case QuestionTypeMultiChoice:
		return "Multiple Choice", nil
	case QuestionTypeBinary:
		return "True / False", nil
	case QuestionTypeFillBlank:
		return "Fill in the Blank", nil
	case QuestionTypeShortAnswer:
		return "Short Answer", nil
	case QuestionTypeLongAnswer:
		return "Long Answer", nil
	case QuestionTypeMatch:
		return "Matching", nil
	case QuestionTypeSequence:
		return "Sequence", nil
	case QuestionTypeWordDrag:
		return "Word Drag", nil
	case QuestionTypeDropdown:
		return "Dropdown", nil
	case QuestionTypeNumeric:
		return "Numeric", nil
	case QuestionTypeHotSpot:
		return "Hot Spot", nil
	case QuestionTypeCode:
		return "Code", nil
	case QuestionTypeMath:
		return "Math", nil
	case QuestionTypeGeoLocation:
		return "Geo Location", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidQuestionType, string(qt))
	}
}

// HasDetail reports whether the variant owns a detail table. Variants
// without one persist only the envelope until their schema is implemented.
func (qt QuestionType) HasDetail() (bool, error) {
	switch qt {
	case QuestionTypeMultiChoice:
		return true, nil
	case QuestionTypeBinary, QuestionTypeFillBlank, QuestionTypeShortAnswer,
		QuestionTypeLongAnswer, QuestionTypeMatch, QuestionTypeSequence,
		QuestionTypeWordDrag, QuestionTypeDropdown, QuestionTypeNumeric,
		QuestionTypeHotSpot, QuestionTypeCode, QuestionTypeMath,
		QuestionTypeGeoLocation:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidQuestionType, string(qt))
	}
}

// Question is the type-tagged envelope shared by all question variants.
// Type decides which detail table (if any) extends it.
type Question struct {
	ID        int64        `json:"id"`
	DeckID    int64        `json:"deck_id"`
	Type      QuestionType `json:"question_type"`
	Title     string       `json:"title"`
	Content   string       `json:"content,omitempty"`
	Archived  bool         `json:"archived"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// QuestionPreview is the subset of envelope fields shown in listings.
type QuestionPreview struct {
	ID    int64        `json:"id"`
	Type  QuestionType `json:"question_type"`
	Title string       `json:"title"`
}

// NewQuestion creates a new Question envelope for the given deck, type,
// title, and optional long-form content. The ID is left zero for the store
// to assign. Returns an error if validation fails.
func NewQuestion(deckID int64, qt QuestionType, title, content string) (*Question, error) {
	now := time.Now().UTC()
	q := &Question{
		DeckID:    deckID,
		Type:      qt,
		Title:     title,
		Content:   content,
		Archived:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}

	return q, nil
}

// Validate checks if the Question envelope has valid data.
// Returns an error if any field fails validation.
func (q *Question) Validate() error {
	if q.DeckID <= 0 {
		return ErrQuestionDeckIDInvalid
	}

	if !q.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidQuestionType, string(q.Type))
	}

	if q.Title == "" {
		return ErrQuestionTitleEmpty
	}

	return nil
}

// MultiChoiceQuestion is the detail record for a multi-choice question,
// 1:1 with a Question envelope of that type.
type MultiChoiceQuestion struct {
	QuestionID   int64 `json:"question_id"`
	LayoutCols   int   `json:"layout_cols"`
	SingleAnswer bool  `json:"single_answer"`
}

// MultiChoiceAnswer is one answer option under a multi-choice question.
type MultiChoiceAnswer struct {
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
	Correct    bool   `json:"correct"`
}

// MultiChoice bundles a question envelope with its multi-choice detail and
// answers, as created and fetched as a unit by the question store.
type MultiChoice struct {
	Question Question            `json:"question"`
	Detail   MultiChoiceQuestion `json:"detail"`
	Answers  []MultiChoiceAnswer `json:"answers"`
}

// NewMultiChoice creates a multi-choice question with its envelope, detail
// fields, and answers, validating the whole aggregate. When SingleAnswer is
// true, at most one answer may be marked correct; violations are rejected
// here, before anything reaches the store.
func NewMultiChoice(
	deckID int64,
	title, content string,
	layoutCols int,
	singleAnswer bool,
	answers []MultiChoiceAnswer,
) (*MultiChoice, error) {
	q, err := NewQuestion(deckID, QuestionTypeMultiChoice, title, content)
	if err != nil {
		return nil, err
	}

	mc := &MultiChoice{
		Question: *q,
		Detail: MultiChoiceQuestion{
			LayoutCols:   layoutCols,
			SingleAnswer: singleAnswer,
		},
		Answers: answers,
	}

	if err := mc.Validate(); err != nil {
		return nil, err
	}

	return mc, nil
}

// Validate checks the multi-choice aggregate: the envelope, the layout, the
// answers, and the single-answer invariant.
func (mc *MultiChoice) Validate() error {
	if err := mc.Question.Validate(); err != nil {
		return err
	}

	if mc.Detail.LayoutCols <= 0 {
		return ErrLayoutColsInvalid
	}

	if len(mc.Answers) == 0 {
		return ErrNoAnswers
	}

	correct := 0
	for _, a := range mc.Answers {
		if a.Content == "" {
			return ErrAnswerContentEmpty
		}
		if a.Correct {
			correct++
		}
	}

	if mc.Detail.SingleAnswer && correct > 1 {
		return ErrTooManyCorrectAnswers
	}

	return nil
}
