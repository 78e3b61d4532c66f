package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/versealign/internal/align"
	"github.com/itsmostafa/versealign/internal/verse"
)

func block(n int, text string, status align.Status) align.Block {
	return align.Block{
		Lines:  []verse.Line{{Number: n, Text: "verse"}},
		Text:   text,
		Status: status,
	}
}

func TestInitCreatesFreshSession(t *testing.T) {
	dir := Dir(t.TempDir(), 1)
	st := NewStore(dir)
	assert.False(t, st.Exists())

	s, err := st.Init("inferno", 1, "script:test.yaml")
	require.NoError(t, err)
	assert.True(t, st.Exists())
	_, err = uuid.Parse(s.ID)
	assert.NoError(t, err)

	require.NoError(t, st.AppendEvent(Event{Block: 1}))
	again, err := st.Init("inferno", 1, "script:test.yaml")
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, again.ID)

	events, err := st.Events()
	require.NoError(t, err)
	assert.Empty(t, events, "Init discards previous history")
}

func TestSaveAndLoad(t *testing.T) {
	dir := Dir(t.TempDir(), 3)
	st := NewStore(dir)
	s, err := st.Init("inferno", 3, "ollama:ministral-3:14b")
	require.NoError(t, err)

	s.Apply(&align.Result{
		Blocks: []align.Block{block(1, "Through me is the way", align.StatusComplete)},
		Next:   align.Position{Line: 1, Offset: 21},
	}, nil)
	require.NoError(t, st.Save(s))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, 3, loaded.Canto)
	assert.Equal(t, align.Position{Line: 1, Offset: 21}, loaded.Next)
	require.Len(t, loaded.Blocks, 1)
	assert.Equal(t, "Through me is the way", loaded.Blocks[0].Text)

	_, err = os.Stat(filepath.Join(dir, "session.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadRejectsCorruptState(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir)
	_, err := st.Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(`{"session_id": "nope"}`), 0644))
	_, err = st.Load()
	assert.ErrorContains(t, err, "invalid session id")
}

func TestApplyReplacesAbandonedTail(t *testing.T) {
	s := &Session{}
	s.Apply(&align.Result{
		Blocks: []align.Block{
			block(1, "one", align.StatusComplete),
			block(2, "", align.StatusAbandoned),
		},
		Next: align.Position{Line: 1, Offset: 4},
	}, errors.New("retry budget exhausted"))
	assert.Equal(t, "retry budget exhausted", s.Failure)
	assert.False(t, s.Done)

	s.Apply(&align.Result{
		Blocks: []align.Block{block(2, "two", align.StatusComplete)},
		Next:   align.Position{Line: 2, Offset: 8},
		Done:   true,
	}, nil)

	require.Len(t, s.Blocks, 2)
	assert.Equal(t, "one", s.Blocks[0].Text)
	assert.Equal(t, "two", s.Blocks[1].Text)
	assert.Empty(t, s.Failure)
	assert.True(t, s.Done)
}

func TestEvents(t *testing.T) {
	st := NewStore(t.TempDir())
	events, err := st.Events()
	require.NoError(t, err)
	assert.Empty(t, events)

	b := block(4, "who for his own sake", align.StatusComplete)
	b.Provenance.Attempts = 2
	require.NoError(t, st.AppendEvent(EventFor(1, b)))
	require.NoError(t, st.AppendEvent(EventFor(2, block(5, "", align.StatusAbandoned))))

	events, err = st.Events()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "4", events[0].Lines)
	assert.Equal(t, 2, events[0].Attempts)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, align.StatusAbandoned, events[1].Status)
}
