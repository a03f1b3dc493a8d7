// Package bridge exposes the repository operations to the UI process as
// structured records over a local byte stream. Each line of input is one
// JSON-encoded command; each line of output is the matching response,
// carrying either a result or a stringified error. There is no network
// listener; the stream is the process-boundary pipe the UI owns.
package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"bigbrain/internal/assets"
	"bigbrain/internal/store"
)

// Request is one command record from the UI.
type Request struct {
	ID      int64           `json:"id"`
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is the reply to one Request, matched by ID. Exactly one of
// Result and Error is set.
type Response struct {
	ID     int64       `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Bridge dispatches UI commands to the deck and question repositories.
type Bridge struct {
	decks     store.DeckStore
	questions store.QuestionStore
	images    *assets.ImageStore
	version   string
	validate  *validator.Validate
	logger    *slog.Logger
}

// New creates a Bridge over the given stores. If logger is nil, a default
// logger will be used.
func New(
	decks store.DeckStore,
	questions store.QuestionStore,
	images *assets.ImageStore,
	version string,
	logger *slog.Logger,
) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bridge{
		decks:     decks,
		questions: questions,
		images:    images,
		version:   version,
		validate:  validator.New(),
		logger:    logger.With(slog.String("component", "bridge")),
	}
}

// Serve reads command records from r until EOF or context cancellation,
// writing one response record per command to w. Malformed JSON yields an
// error response with ID 0 rather than terminating the stream.
func (b *Bridge) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Cover image payloads arrive base64-encoded inside the record, so
	// lines can be large.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			b.logger.Warn("malformed command record",
				slog.String("error", err.Error()))
			if err := enc.Encode(Response{Error: fmt.Sprintf("malformed command record: %v", err)}); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
			continue
		}

		resp := b.dispatch(ctx, req)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read command stream: %w", err)
	}

	return nil
}

// dispatch routes one request to its handler and folds the outcome into a
// Response. Errors cross the boundary as human-readable strings only.
func (b *Bridge) dispatch(ctx context.Context, req Request) Response {
	log := b.logger.With(
		slog.String("command", req.Command),
		slog.Int64("request_id", req.ID))

	result, err := b.handle(ctx, req.Command, req.Params)
	if err != nil {
		log.Warn("command failed", slog.String("error", err.Error()))
		return Response{ID: req.ID, Error: err.Error()}
	}

	log.Debug("command handled")
	return Response{ID: req.ID, Result: result}
}

// handle maps command names to handlers. Unknown commands are rejected;
// the command set mirrors the repository operations one to one.
func (b *Bridge) handle(ctx context.Context, command string, params json.RawMessage) (interface{}, error) {
	switch command {
	case "get_version":
		return b.version, nil
	case "new_deck":
		return b.newDeck(ctx, params)
	case "get_decks":
		return b.getDecks(ctx, params)
	case "get_deck":
		return b.getDeck(ctx, params)
	case "get_deck_name":
		return b.getDeckName(ctx, params)
	case "get_deck_crumbs":
		return b.getDeckCrumbs(ctx, params)
	case "new_multi_choice_question":
		return b.newMultiChoiceQuestion(ctx, params)
	case "get_questions":
		return b.getQuestions(ctx, params)
	case "get_question":
		return b.getQuestion(ctx, params)
	default:
		return nil, fmt.Errorf("unknown command: %q", command)
	}
}

// decodeParams unmarshals and validates a command's parameter struct.
func (b *Bridge) decodeParams(params json.RawMessage, target interface{}) error {
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}

	if err := json.Unmarshal(params, target); err != nil {
		return fmt.Errorf("malformed params: %w", err)
	}

	if err := b.validate.Struct(target); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	return nil
}
