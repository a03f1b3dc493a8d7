package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"bigbrain/internal/domain"
	"bigbrain/internal/platform/logger"
	"bigbrain/internal/store"
)

// QuestionStore implements the store.QuestionStore interface using the
// embedded SQLite database behind the connection gateway.
type QuestionStore struct {
	gateway *Gateway
	logger  *slog.Logger

	// answerInsertHook runs before each answer insert inside
	// CreateMultiChoice. Tests use it to inject mid-transaction failures;
	// it is nil in production.
	answerInsertHook func(index int) error
}

// NewQuestionStore creates a new SQLite implementation of the QuestionStore
// interface. If logger is nil, a default logger will be used.
func NewQuestionStore(gateway *Gateway, logger *slog.Logger) *QuestionStore {
	if gateway == nil {
		panic("gateway cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &QuestionStore{
		gateway: gateway,
		logger:  logger.With(slog.String("component", "question_store")),
	}
}

// Ensure QuestionStore implements store.QuestionStore interface
var _ store.QuestionStore = (*QuestionStore)(nil)

// CreateQuestion implements store.QuestionStore.CreateQuestion
// It saves a bare question envelope. Variants with a detail schema go
// through their dedicated creator so envelope and detail share a
// transaction.
func (s *QuestionStore) CreateQuestion(ctx context.Context, question *domain.Question) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		log.Warn("question validation failed during create",
			slog.String("error", err.Error()),
			slog.String("title", question.Title))
		return 0, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	db, release := s.gateway.Acquire()
	defer release()

	id, err := s.insertEnvelope(ctx, db, question)
	if err != nil {
		log.Error("failed to create question",
			slog.String("error", err.Error()),
			slog.String("title", question.Title))
		return 0, err
	}

	log.Info("question created successfully",
		slog.Int64("question_id", id),
		slog.String("question_type", string(question.Type)))
	return id, nil
}

// CreateMultiChoice implements store.QuestionStore.CreateMultiChoice
// Envelope, detail row, and answers are written inside one transaction
// while holding the gateway handle, so the operation is all-or-nothing and
// no other operation can interleave with it.
func (s *QuestionStore) CreateMultiChoice(ctx context.Context, mc *domain.MultiChoice) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := mc.Validate(); err != nil {
		log.Warn("multi-choice validation failed during create",
			slog.String("error", err.Error()),
			slog.String("title", mc.Question.Title))
		return 0, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	db, release := s.gateway.Acquire()
	defer release()

	var questionID int64
	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		id, err := s.insertEnvelope(ctx, tx, &mc.Question)
		if err != nil {
			return err
		}
		questionID = id

		detailQuery := `
			INSERT INTO multi_choice_question (question_id, layout_cols, single_answer)
			VALUES (?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, detailQuery,
			id, mc.Detail.LayoutCols, mc.Detail.SingleAnswer); err != nil {
			return MapError(err)
		}

		answerQuery := `
			INSERT INTO multi_choice_answer (question_id, content, correct)
			VALUES (?, ?, ?)
		`
		for i, answer := range mc.Answers {
			if s.answerInsertHook != nil {
				if err := s.answerInsertHook(i); err != nil {
					return err
				}
			}
			if _, err := tx.ExecContext(ctx, answerQuery,
				id, answer.Content, answer.Correct); err != nil {
				return MapError(err)
			}
		}

		return nil
	})
	if err != nil {
		log.Error("failed to create multi-choice question",
			slog.String("error", err.Error()),
			slog.String("title", mc.Question.Title))
		return 0, err
	}

	mc.Question.ID = questionID
	mc.Detail.QuestionID = questionID
	for i := range mc.Answers {
		mc.Answers[i].QuestionID = questionID
	}

	log.Info("multi-choice question created successfully",
		slog.Int64("question_id", questionID),
		slog.Int("answer_count", len(mc.Answers)))
	return questionID, nil
}

// insertEnvelope writes the question envelope row and returns the assigned
// ID. It runs against either the gateway handle or a transaction.
func (s *QuestionStore) insertEnvelope(ctx context.Context, db store.DBTX, question *domain.Question) (int64, error) {
	query := `
		INSERT INTO question (deck_id, question_type, title, content, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := db.ExecContext(
		ctx,
		query,
		question.DeckID,
		string(question.Type),
		question.Title,
		stringToNull(question.Content),
		question.Archived,
		formatTime(question.CreatedAt),
		formatTime(question.UpdatedAt),
	)
	if err != nil {
		return 0, MapError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, MapError(err)
	}

	question.ID = id
	return id, nil
}

// ListPreviews implements store.QuestionStore.ListPreviews
// Archived questions are excluded; order is insertion order.
func (s *QuestionStore) ListPreviews(ctx context.Context, deckID int64) ([]domain.QuestionPreview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	db, release := s.gateway.Acquire()
	defer release()

	query := `
		SELECT id, question_type, title
		FROM question
		WHERE archived = 0 AND deck_id = ?
		ORDER BY id
	`

	rows, err := db.QueryContext(ctx, query, deckID)
	if err != nil {
		log.Error("failed to query question previews",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var previews []domain.QuestionPreview
	for rows.Next() {
		var (
			preview domain.QuestionPreview
			rawType string
		)

		if err := rows.Scan(&preview.ID, &rawType, &preview.Title); err != nil {
			log.Error("failed to scan question row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}

		qt, err := domain.ParseQuestionType(rawType)
		if err != nil {
			// A tag this package never wrote means the file is damaged.
			return nil, fmt.Errorf("%w: %v", store.ErrStorage, err)
		}
		preview.Type = qt

		previews = append(previews, preview)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if previews == nil {
		previews = []domain.QuestionPreview{}
	}

	log.Debug("listed question previews",
		slog.Int64("deck_id", deckID),
		slog.Int("count", len(previews)))
	return previews, nil
}

// GetByID implements store.QuestionStore.GetByID
// Returns store.ErrQuestionNotFound if the question does not exist.
// Archived questions remain fetchable by direct lookup.
func (s *QuestionStore) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	db, release := s.gateway.Acquire()
	defer release()

	query := `
		SELECT id, deck_id, question_type, title, content, archived, created_at, updated_at
		FROM question
		WHERE id = ?
	`

	var (
		question  domain.Question
		rawType   string
		content   sql.NullString
		createdAt string
		updatedAt string
	)

	err := db.QueryRowContext(ctx, query, id).Scan(
		&question.ID,
		&question.DeckID,
		&rawType,
		&question.Title,
		&content,
		&question.Archived,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found", slog.Int64("question_id", id))
			return nil, store.ErrQuestionNotFound
		}
		log.Error("failed to get question by ID",
			slog.String("error", err.Error()),
			slog.Int64("question_id", id))
		return nil, MapError(err)
	}

	qt, err := domain.ParseQuestionType(rawType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStorage, err)
	}
	question.Type = qt
	question.Content = nullToString(content)

	if question.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("%w: malformed created_at: %v", store.ErrStorage, err)
	}
	if question.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("%w: malformed updated_at: %v", store.ErrStorage, err)
	}

	log.Debug("question retrieved successfully", slog.Int64("question_id", id))
	return &question, nil
}
