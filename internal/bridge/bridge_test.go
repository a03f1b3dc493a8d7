package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigbrain/internal/assets"
	"bigbrain/internal/domain"
	"bigbrain/internal/platform/sqlite"
)

// newTestBridge wires a Bridge over a real gateway in a temp directory, so
// commands run the same path the UI exercises.
func newTestBridge(t *testing.T) *Bridge {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	gateway, err := sqlite.Open(filepath.Join(dir, "data.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gateway.Close() })

	images, err := assets.NewImageStore(filepath.Join(dir, "images"), log)
	require.NoError(t, err)

	decks := sqlite.NewDeckStore(gateway, log)
	questions := sqlite.NewQuestionStore(gateway, log)

	return New(decks, questions, images, "1.2.3", log)
}

// command runs one request through the dispatcher and returns the response.
func command(t *testing.T, b *Bridge, name string, params interface{}) Response {
	t.Helper()

	var raw json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		require.NoError(t, err)
		raw = encoded
	}

	return b.dispatch(context.Background(), Request{ID: 1, Command: name, Params: raw})
}

func TestBridgeGetVersion(t *testing.T) {
	b := newTestBridge(t)

	resp := command(t, b, "get_version", nil)

	require.Empty(t, resp.Error)
	assert.Equal(t, "1.2.3", resp.Result)
}

func TestBridgeUnknownCommand(t *testing.T) {
	b := newTestBridge(t)

	resp := command(t, b, "drop_everything", nil)

	assert.Contains(t, resp.Error, "unknown command")
	assert.Nil(t, resp.Result)
}

func TestBridgeDeckRoundTrip(t *testing.T) {
	b := newTestBridge(t)

	created := command(t, b, "new_deck", map[string]interface{}{
		"name":  "Algebra",
		"color": "#ff0000",
	})
	require.Empty(t, created.Error)
	id, ok := created.Result.(int64)
	require.True(t, ok, "new_deck returns the assigned ID")

	fetched := command(t, b, "get_deck", map[string]interface{}{"id": id})
	require.Empty(t, fetched.Error)
	deck, ok := fetched.Result.(*domain.Deck)
	require.True(t, ok)
	assert.Equal(t, "Algebra", deck.Name)
	assert.Equal(t, "#ff0000", deck.Color)
	assert.Nil(t, deck.ParentID)
	assert.False(t, deck.Archived)

	name := command(t, b, "get_deck_name", map[string]interface{}{"id": id})
	require.Empty(t, name.Error)
	assert.Equal(t, "Algebra", name.Result)
}

func TestBridgeDeckCrumbs(t *testing.T) {
	b := newTestBridge(t)

	a := command(t, b, "new_deck", map[string]interface{}{"name": "A", "color": "#111111"})
	require.Empty(t, a.Error)
	bID := command(t, b, "new_deck", map[string]interface{}{
		"name": "B", "color": "#222222", "parent_id": a.Result,
	})
	require.Empty(t, bID.Error)
	c := command(t, b, "new_deck", map[string]interface{}{
		"name": "C", "color": "#333333", "parent_id": bID.Result,
	})
	require.Empty(t, c.Error)

	resp := command(t, b, "get_deck_crumbs", map[string]interface{}{"id": c.Result})
	require.Empty(t, resp.Error)
	crumbs, ok := resp.Result.([]domain.Crumb)
	require.True(t, ok)
	require.Len(t, crumbs, 3)
	assert.Equal(t, "C", crumbs[0].Name)
	assert.Equal(t, "B", crumbs[1].Name)
	assert.Equal(t, "A", crumbs[2].Name)
}

func TestBridgeGetDecksRootOnly(t *testing.T) {
	b := newTestBridge(t)

	root := command(t, b, "new_deck", map[string]interface{}{"name": "Root", "color": "#111111"})
	require.Empty(t, root.Error)
	child := command(t, b, "new_deck", map[string]interface{}{
		"name": "Child", "color": "#222222", "parent_id": root.Result,
	})
	require.Empty(t, child.Error)

	resp := command(t, b, "get_decks", nil)
	require.Empty(t, resp.Error)
	previews, ok := resp.Result.([]domain.DeckPreview)
	require.True(t, ok)
	require.Len(t, previews, 1, "a nil parent lists roots, never the whole tree")
	assert.Equal(t, "Root", previews[0].Name)
}

func TestBridgeNewDeckValidation(t *testing.T) {
	b := newTestBridge(t)

	resp := command(t, b, "new_deck", map[string]interface{}{"color": "#ff0000"})

	assert.Contains(t, resp.Error, "invalid params")
}

func TestBridgeNewDeckCoverImage(t *testing.T) {
	b := newTestBridge(t)

	t.Run("stores the image and references its path", func(t *testing.T) {
		resp := command(t, b, "new_deck", map[string]interface{}{
			"name":             "Art",
			"color":            "#ff00ff",
			"cover_image":      []byte{1, 2, 3},
			"cover_image_type": "png",
		})
		require.Empty(t, resp.Error)

		fetched := command(t, b, "get_deck", map[string]interface{}{"id": resp.Result})
		require.Empty(t, fetched.Error)
		deck := fetched.Result.(*domain.Deck)
		assert.True(t, strings.HasSuffix(deck.CoverImage, ".png"))
	})

	t.Run("rejects bytes without a declared type", func(t *testing.T) {
		resp := command(t, b, "new_deck", map[string]interface{}{
			"name":        "Art",
			"color":       "#ff00ff",
			"cover_image": []byte{1, 2, 3},
		})
		assert.Equal(t, ErrImageTypeMissing.Error(), resp.Error)
	})

	t.Run("rejects disallowed image types", func(t *testing.T) {
		resp := command(t, b, "new_deck", map[string]interface{}{
			"name":             "Art",
			"color":            "#ff00ff",
			"cover_image":      []byte{1, 2, 3},
			"cover_image_type": "bmp",
		})
		assert.Contains(t, resp.Error, "invalid image type")
	})
}

func TestBridgeMultiChoiceQuestion(t *testing.T) {
	b := newTestBridge(t)

	deck := command(t, b, "new_deck", map[string]interface{}{"name": "Geo", "color": "#00ff00"})
	require.Empty(t, deck.Error)

	created := command(t, b, "new_multi_choice_question", map[string]interface{}{
		"deck_id":       deck.Result,
		"title":         "Capital of France?",
		"layout_cols":   2,
		"single_answer": true,
		"answers": []map[string]interface{}{
			{"content": "Paris", "correct": true},
			{"content": "Lyon"},
		},
	})
	require.Empty(t, created.Error)

	list := command(t, b, "get_questions", map[string]interface{}{"deck_id": deck.Result})
	require.Empty(t, list.Error)
	previews, ok := list.Result.([]domain.QuestionPreview)
	require.True(t, ok)
	require.Len(t, previews, 1)
	assert.Equal(t, domain.QuestionTypeMultiChoice, previews[0].Type)
	assert.Equal(t, "Capital of France?", previews[0].Title)

	fetched := command(t, b, "get_question", map[string]interface{}{"id": created.Result})
	require.Empty(t, fetched.Error)
	question := fetched.Result.(*domain.Question)
	assert.Equal(t, "Capital of France?", question.Title)
}

func TestBridgeMultiChoiceSingleAnswerRejected(t *testing.T) {
	b := newTestBridge(t)

	deck := command(t, b, "new_deck", map[string]interface{}{"name": "Geo", "color": "#00ff00"})
	require.Empty(t, deck.Error)

	resp := command(t, b, "new_multi_choice_question", map[string]interface{}{
		"deck_id":       deck.Result,
		"title":         "Capital of France?",
		"layout_cols":   1,
		"single_answer": true,
		"answers": []map[string]interface{}{
			{"content": "Paris", "correct": true},
			{"content": "Lyon", "correct": true},
		},
	})

	assert.Contains(t, resp.Error, "more than one correct answer")
}

func TestBridgeServeStream(t *testing.T) {
	b := newTestBridge(t)

	var in bytes.Buffer
	in.WriteString(`{"id":1,"command":"get_version"}` + "\n")
	in.WriteString("not json\n")
	in.WriteString(`{"id":2,"command":"get_decks"}` + "\n")

	var out bytes.Buffer
	err := b.Serve(context.Background(), &in, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3, "one response per input line")

	var first, second, third map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))

	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "1.2.3", first["result"])
	assert.Contains(t, second["error"], "malformed command record")
	assert.Equal(t, float64(2), third["id"])
	assert.Empty(t, third["error"])
}

func TestBridgeNotFoundSurfacesAsError(t *testing.T) {
	b := newTestBridge(t)

	resp := command(t, b, "get_deck", map[string]interface{}{"id": 999})

	assert.Contains(t, resp.Error, "not found")
	assert.Nil(t, resp.Result)
}
