// Implements the run journal: an in-memory, goroutine-safe buffer of
// lifecycle events with an optional YAML-header + CSV-data export. Tests
// read the buffer directly; the CLI exports it at the end of a run.

package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/gammazero/deque"
	"github.com/rs/xid"
	"gopkg.in/yaml.v3"
)

// EventKind labels one journal row.
type EventKind string

const (
	// EventLaunch is recorded by the controller when a worker passes the
	// launch gates.
	EventLaunch EventKind = "launch"
	// EventStart is recorded by a worker when it snapshots its origin and
	// computes its deadline.
	EventStart EventKind = "start"
	// EventProgress is recorded by a worker at each simulated second
	// boundary it observes.
	EventProgress EventKind = "progress"
	// EventComplete is recorded by a worker when a snapshot reaches its
	// deadline.
	EventComplete EventKind = "complete"
	// EventCancel is recorded by a worker forced to exit before its deadline.
	EventCancel EventKind = "cancel"
	// EventReap is recorded by the controller when it releases a completed
	// worker's table slot.
	EventReap EventKind = "reap"
)

// Event is one journal row. At is the simulated time the event was observed;
// Target carries the worker's deadline, except on reap rows, where it holds
// the completion snapshot the worker exited at.
type Event struct {
	Kind   EventKind
	Worker WorkerID
	At     Time
	Target Time
	Detail string
}

// Recorder buffers journal events (goroutine-safe). Workers and the
// controller append concurrently; rows keep arrival order.
type Recorder struct {
	mu     sync.Mutex
	runID  string
	events deque.Deque[Event]
}

// NewRecorder creates an empty journal with a fresh run ID.
func NewRecorder() *Recorder {
	return &Recorder{runID: xid.New().String()}
}

// RunID returns the identifier stamped into the journal header.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record appends one event.
func (r *Recorder) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events.PushBack(ev)
}

// Len returns the number of buffered events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events.Len()
}

// Events returns a copy of all buffered events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, r.events.Len())
	for i := range out {
		out[i] = r.events.At(i)
	}
	return out
}

// EventsOfKind returns the buffered events with the given kind, in arrival
// order.
func (r *Recorder) EventsOfKind(kind EventKind) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// JournalHeader captures run metadata for journal files.
type JournalHeader struct {
	RunID            string `yaml:"run_id"`
	CreatedAt        string `yaml:"created_at,omitempty"`
	TimeUnit         string `yaml:"time_unit"`
	Seed             int64  `yaml:"seed"`
	TotalWorkers     int    `yaml:"total_workers"`
	ConcurrencyLimit int    `yaml:"concurrency_limit"`
	MaxWorkerSeconds int    `yaml:"max_worker_seconds"`
	LaunchIntervalMs int64  `yaml:"launch_interval_ms"`
	TickNanos        uint64 `yaml:"tick_nanos"`
}

// CSV column headers for journal data files.
var journalColumns = []string{
	"kind", "worker", "at_seconds", "at_nanos", "target_seconds", "target_nanos", "detail",
}

// Export writes the journal header (YAML) and buffered events (CSV) to
// separate files.
func (r *Recorder) Export(header *JournalHeader, headerPath, dataPath string) error {
	return ExportJournal(header, r.Events(), headerPath, dataPath)
}

// ExportJournal writes a journal header (YAML) and event rows (CSV) to
// separate files. Time components use integer formatting to keep nanosecond
// precision.
func ExportJournal(header *JournalHeader, events []Event, headerPath, dataPath string) error {
	headerData, err := yaml.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling journal header: %w", err)
	}
	if err := os.WriteFile(headerPath, headerData, 0644); err != nil {
		return fmt.Errorf("writing journal header: %w", err)
	}

	file, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("creating journal data file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(journalColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, ev := range events {
		row := []string{
			string(ev.Kind),
			strconv.Itoa(int(ev.Worker)),
			strconv.FormatUint(ev.At.Seconds, 10),
			strconv.FormatUint(ev.At.Nanos, 10),
			strconv.FormatUint(ev.Target.Seconds, 10),
			strconv.FormatUint(ev.Target.Nanos, 10),
			ev.Detail,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	return nil
}

// Journal combines a header and its event rows.
type Journal struct {
	Header JournalHeader
	Events []Event
}

// LoadJournal reads a journal header (YAML) and data (CSV) back from disk.
func LoadJournal(headerPath, dataPath string) (*Journal, error) {
	headerData, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, fmt.Errorf("reading journal header: %w", err)
	}
	var header JournalHeader
	if err := yaml.Unmarshal(headerData, &header); err != nil {
		return nil, fmt.Errorf("parsing journal header: %w", err)
	}

	file, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal data: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)

	// Skip header row
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var events []Event
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if len(row) < len(journalColumns) {
			return nil, fmt.Errorf("CSV row has %d columns, expected %d", len(row), len(journalColumns))
		}
		ev, err := parseEvent(row)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return &Journal{Header: header, Events: events}, nil
}

func parseEvent(row []string) (Event, error) {
	worker, err := strconv.Atoi(row[1])
	if err != nil {
		return Event{}, fmt.Errorf("parsing worker id %q: %w", row[1], err)
	}
	atSec, _ := strconv.ParseUint(row[2], 10, 64)
	atNanos, _ := strconv.ParseUint(row[3], 10, 64)
	targetSec, _ := strconv.ParseUint(row[4], 10, 64)
	targetNanos, _ := strconv.ParseUint(row[5], 10, 64)
	return Event{
		Kind:   EventKind(row[0]),
		Worker: WorkerID(worker),
		At:     Time{Seconds: atSec, Nanos: atNanos},
		Target: Time{Seconds: targetSec, Nanos: targetNanos},
		Detail: row[6],
	}, nil
}
