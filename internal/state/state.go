// Package state persists alignment sessions so an interrupted or abandoned
// run can be resumed.
package state

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/itsmostafa/versealign/internal/align"
)

// Session is the checkpoint of one canto alignment.
type Session struct {
	ID          string         `json:"session_id"`
	Cantica     string         `json:"cantica"`
	Canto       int            `json:"canto"`
	Model       string         `json:"model"`
	StartedAt   time.Time      `json:"started_at"`
	LastUpdated time.Time      `json:"last_updated"`
	Blocks      []align.Block  `json:"blocks"`
	Next        align.Position `json:"next"`
	Done        bool           `json:"done"`
	Failure     string         `json:"failure,omitempty"`
}

// Apply merges the outcome of a run started at s.Next. Abandoned blocks at
// the end of the previous run are replaced by the new blocks.
func (s *Session) Apply(res *align.Result, runErr error) {
	for len(s.Blocks) > 0 && !s.Blocks[len(s.Blocks)-1].Complete() {
		s.Blocks = s.Blocks[:len(s.Blocks)-1]
	}
	s.Blocks = append(s.Blocks, res.Blocks...)
	s.Next = res.Next
	s.Done = res.Done
	s.Failure = ""
	if runErr != nil {
		s.Failure = runErr.Error()
	}
}

// Event is one line of the session history.
type Event struct {
	Timestamp time.Time    `json:"timestamp"`
	Block     int          `json:"block"`
	Lines     string       `json:"lines"`
	Status    align.Status `json:"status"`
	Text      string       `json:"text,omitempty"`
	Attempts  int          `json:"attempts"`
	Ambiguous bool         `json:"ambiguous,omitempty"`
}

// Store handles session persistence in one directory.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Dir returns the state directory of a canto below outputDir.
func Dir(outputDir string, canto int) string {
	return filepath.Join(outputDir, ".state", fmt.Sprintf("canto_%02d", canto))
}

// Exists reports whether a session has been saved.
func (st *Store) Exists() bool {
	_, err := os.Stat(st.sessionPath())
	return err == nil
}

// Init starts a new session, cleaning up any previous state.
func (st *Store) Init(cantica string, canto int, model string) (*Session, error) {
	if err := os.RemoveAll(st.baseDir); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to clean previous state: %w", err)
	}
	if err := os.MkdirAll(st.baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", st.baseDir, err)
	}

	now := time.Now()
	s := &Session{
		ID:          uuid.New().String(),
		Cantica:     cantica,
		Canto:       canto,
		Model:       model,
		StartedAt:   now,
		LastUpdated: now,
	}
	if err := st.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Load loads the saved session.
func (st *Store) Load() (*Session, error) {
	data, err := os.ReadFile(st.sessionPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session state: %w", err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", s.ID, err)
	}
	return &s, nil
}

// Save writes the session, replacing any previous checkpoint atomically.
func (st *Store) Save(s *Session) error {
	s.LastUpdated = time.Now()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	tmp := st.sessionPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	if err := os.Rename(tmp, st.sessionPath()); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	return nil
}

// AppendEvent appends an entry to the history file.
func (st *Store) AppendEvent(e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	f, err := os.OpenFile(st.historyPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	return nil
}

// Events reads all history entries.
func (st *Store) Events() ([]Event, error) {
	f, err := os.Open(st.historyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue // Skip malformed entries
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return events, nil
}

// EventFor builds the history entry of block number n (1-based).
func EventFor(n int, b align.Block) Event {
	return Event{
		Block:     n,
		Lines:     b.Range(),
		Status:    b.Status,
		Text:      b.Text,
		Attempts:  b.Provenance.Attempts,
		Ambiguous: b.Ambiguous,
	}
}

func (st *Store) sessionPath() string {
	return filepath.Join(st.baseDir, "session.json")
}

func (st *Store) historyPath() string {
	return filepath.Join(st.baseDir, "history.jsonl")
}
