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

// DeckStore implements the store.DeckStore interface using the embedded
// SQLite database behind the connection gateway.
type DeckStore struct {
	gateway *Gateway
	logger  *slog.Logger
}

// NewDeckStore creates a new SQLite implementation of the DeckStore
// interface. If logger is nil, a default logger will be used.
func NewDeckStore(gateway *Gateway, logger *slog.Logger) *DeckStore {
	if gateway == nil {
		panic("gateway cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DeckStore{
		gateway: gateway,
		logger:  logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure DeckStore implements store.DeckStore interface
var _ store.DeckStore = (*DeckStore)(nil)

// Create implements store.DeckStore.Create
// It saves a new deck, letting the database assign the ID and writing
// repository-owned timestamps.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("name", deck.Name))
		return 0, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	db, release := s.gateway.Acquire()
	defer release()

	query := `
		INSERT INTO deck (parent_id, name, description, color, cover_image, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := db.ExecContext(
		ctx,
		query,
		int64PtrToNull(deck.ParentID),
		deck.Name,
		stringToNull(deck.Description),
		deck.Color,
		stringToNull(deck.CoverImage),
		deck.Archived,
		formatTime(deck.CreatedAt),
		formatTime(deck.UpdatedAt),
	)
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("name", deck.Name))
		return 0, MapError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		log.Error("failed to read assigned deck ID",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	deck.ID = id

	log.Info("deck created successfully",
		slog.Int64("deck_id", id),
		slog.String("name", deck.Name))
	return id, nil
}

// ListChildren implements store.DeckStore.ListChildren
// A nil parentID selects root decks via parent_id IS NULL; it never widens
// to the whole tree. Archived decks are excluded.
func (s *DeckStore) ListChildren(ctx context.Context, parentID *int64) ([]domain.DeckPreview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	db, release := s.gateway.Acquire()
	defer release()

	var (
		rows *sql.Rows
		err  error
	)

	if parentID == nil {
		query := `
			SELECT id, name, color, cover_image
			FROM deck
			WHERE archived = 0 AND parent_id IS NULL
			ORDER BY id
		`
		rows, err = db.QueryContext(ctx, query)
	} else {
		query := `
			SELECT id, name, color, cover_image
			FROM deck
			WHERE archived = 0 AND parent_id = ?
			ORDER BY id
		`
		rows, err = db.QueryContext(ctx, query, *parentID)
	}

	if err != nil {
		log.Error("failed to query child decks",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var previews []domain.DeckPreview
	for rows.Next() {
		var (
			preview    domain.DeckPreview
			coverImage sql.NullString
		)

		if err := rows.Scan(&preview.ID, &preview.Name, &preview.Color, &coverImage); err != nil {
			log.Error("failed to scan deck row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}

		preview.CoverImage = nullToString(coverImage)
		previews = append(previews, preview)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if previews == nil {
		previews = []domain.DeckPreview{}
	}

	log.Debug("listed child decks", slog.Int("count", len(previews)))
	return previews, nil
}

// GetByID implements store.DeckStore.GetByID
// Returns store.ErrDeckNotFound if the deck does not exist. Archived decks
// remain fetchable by direct lookup.
func (s *DeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	db, release := s.gateway.Acquire()
	defer release()

	query := `
		SELECT id, parent_id, name, description, color, cover_image, archived, created_at, updated_at
		FROM deck
		WHERE id = ?
	`

	var (
		deck        domain.Deck
		parentID    sql.NullInt64
		description sql.NullString
		coverImage  sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&parentID,
		&deck.Name,
		&description,
		&deck.Color,
		&coverImage,
		&deck.Archived,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.Int64("deck_id", id))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return nil, MapError(err)
	}

	deck.ParentID = nullToInt64Ptr(parentID)
	deck.Description = nullToString(description)
	deck.CoverImage = nullToString(coverImage)

	if deck.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("%w: malformed created_at: %v", store.ErrStorage, err)
	}
	if deck.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("%w: malformed updated_at: %v", store.ErrStorage, err)
	}

	log.Debug("deck retrieved successfully", slog.Int64("deck_id", id))
	return &deck, nil
}

// GetName implements store.DeckStore.GetName
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *DeckStore) GetName(ctx context.Context, id int64) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	db, release := s.gateway.Acquire()
	defer release()

	var name string
	err := db.QueryRowContext(ctx, `SELECT name FROM deck WHERE id = ?`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.Int64("deck_id", id))
			return "", store.ErrDeckNotFound
		}
		log.Error("failed to get deck name",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return "", MapError(err)
	}

	return name, nil
}

// GetAncestorChain implements store.DeckStore.GetAncestorChain
// The chain runs child to root: crumbs[0] is the starting deck and the last
// element is a deck with no parent. The walk strictly advances to the
// parent each step and keeps a visited set, so a damaged tree surfaces as
// store.ErrCorruptHierarchy instead of an endless loop.
func (s *DeckStore) GetAncestorChain(ctx context.Context, id int64) ([]domain.Crumb, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	db, release := s.gateway.Acquire()
	defer release()

	query := `SELECT id, parent_id, name FROM deck WHERE id = ?`

	var crumbs []domain.Crumb
	visited := make(map[int64]bool)
	currentID := id

	for {
		if visited[currentID] {
			log.Error("cycle detected in deck hierarchy",
				slog.Int64("deck_id", id),
				slog.Int64("revisited_id", currentID))
			return nil, fmt.Errorf("%w: deck %d revisited while walking ancestors of %d",
				store.ErrCorruptHierarchy, currentID, id)
		}
		visited[currentID] = true

		var (
			rowID    int64
			parentID sql.NullInt64
			name     string
		)

		err := db.QueryRowContext(ctx, query, currentID).Scan(&rowID, &parentID, &name)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				if currentID == id {
					log.Debug("deck not found", slog.Int64("deck_id", id))
					return nil, store.ErrDeckNotFound
				}
				// A parent reference pointing at a missing row is as
				// broken as a cycle.
				log.Error("dangling parent reference in deck hierarchy",
					slog.Int64("deck_id", id),
					slog.Int64("missing_id", currentID))
				return nil, fmt.Errorf("%w: deck %d references missing parent %d",
					store.ErrCorruptHierarchy, id, currentID)
			}
			log.Error("failed to fetch deck during ancestor walk",
				slog.String("error", err.Error()),
				slog.Int64("deck_id", currentID))
			return nil, MapError(err)
		}

		crumbs = append(crumbs, domain.Crumb{ID: rowID, Name: name})

		if !parentID.Valid {
			break
		}
		currentID = parentID.Int64
	}

	log.Debug("ancestor chain resolved",
		slog.Int64("deck_id", id),
		slog.Int("depth", len(crumbs)))
	return crumbs, nil
}
