package report

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	"arstatic/internal/aerrors"
)

// NewID mints a fresh sortable unique id (spec.md §2's segmentio/ksuid
// wiring); exported so cmd/ar-analyze can stamp the check-result rows
// it builds before handing them to a Sink.
func NewID() string { return ksuid.New().String() }

// MemorySink is the in-memory reference Sink: all rows of one write
// call are appended together under a single lock. WriteCheckResults
// rejects a batch larger than MaxBatchRows (spec.md §6.4's commit
// granularity); the other writers accept a batch of any size. It doubles as the JSONL writer when
// constructed with a non-nil io.Writer: each batch is additionally
// streamed out as one JSON object per row.
type MemorySink struct {
	mu sync.Mutex

	CheckResults     []CheckResultRow
	MemoryLocations  []MemoryLocationRow
	CallContexts     []CallContextRow
	Operands         []OperandRow

	jsonl *bufio.Writer
	out   io.Writer
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

// NewJSONLSink is a MemorySink that also streams every row appended to
// it as a JSON line on w (a debug/export path; the in-memory slices
// remain the source of truth for the CLI's summary).
func NewJSONLSink(w io.Writer) *MemorySink {
	return &MemorySink{out: w, jsonl: bufio.NewWriter(w)}
}

func (s *MemorySink) WriteCheckResults(rows []CheckResultRow) error {
	if len(rows) > MaxBatchRows {
		return errors.WithStack(&aerrors.DbError{Op: "write_check_results", Err: errors.Errorf("batch of %d exceeds max %d", len(rows), MaxBatchRows)})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CheckResults = append(s.CheckResults, rows...)
	for _, r := range rows {
		if err := s.emit("check_result", r); err != nil {
			return err
		}
	}
	return s.flush()
}

func (s *MemorySink) WriteMemoryLocations(rows []MemoryLocationRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MemoryLocations = append(s.MemoryLocations, rows...)
	for _, r := range rows {
		if err := s.emit("memory_location", r); err != nil {
			return err
		}
	}
	return s.flush()
}

func (s *MemorySink) WriteCallContexts(rows []CallContextRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CallContexts = append(s.CallContexts, rows...)
	for _, r := range rows {
		if err := s.emit("call_context", r); err != nil {
			return err
		}
	}
	return s.flush()
}

func (s *MemorySink) WriteOperands(rows []OperandRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Operands = append(s.Operands, rows...)
	for _, r := range rows {
		if err := s.emit("operand", r); err != nil {
			return err
		}
	}
	return s.flush()
}

func (s *MemorySink) emit(table string, row any) error {
	if s.jsonl == nil {
		return nil
	}
	line, err := json.Marshal(struct {
		Table string `json:"table"`
		Row   any    `json:"row"`
	}{table, row})
	if err != nil {
		return errors.WithStack(&aerrors.DbError{Op: "marshal_" + table, Err: err})
	}
	if _, err := s.jsonl.Write(append(line, '\n')); err != nil {
		return errors.WithStack(&aerrors.DbError{Op: "write_" + table, Err: err})
	}
	return nil
}

func (s *MemorySink) flush() error {
	if s.jsonl == nil {
		return nil
	}
	if err := s.jsonl.Flush(); err != nil {
		return errors.WithStack(&aerrors.DbError{Op: "flush", Err: err})
	}
	return nil
}

func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}
