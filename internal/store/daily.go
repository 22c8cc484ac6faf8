package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"rollcall/internal/models"
)

// Header is the fixed first row of every daily log file. Column order is part
// of the on-disk contract: duplicate detection reads the fingerprint by index.
var Header = []string{"Timestamp", "Name", "RollNo", "Comments", "Latitude", "Longitude", "Fingerprint"}

// FingerprintColumn is the 0-based index of the fingerprint field in a row.
const FingerprintColumn = 6

// TimestampLayout is the format used for the Timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrDuplicateFingerprint is returned by Append when the record's fingerprint
// already appears in the target log.
var ErrDuplicateFingerprint = errors.New("fingerprint already recorded in today's log")

// DailyStore persists attendance records to one append-only CSV file per
// calendar day. The duplicate check and the append run under a single mutex,
// backed by an in-memory fingerprint index rebuilt from the file on the first
// access for each log, so two concurrent submissions with the same fingerprint
// cannot both be written.
type DailyStore struct {
	dir    string
	prefix string
	now    func() time.Time

	mu       sync.Mutex
	indexLog string
	index    map[string]struct{}
}

// New creates a daily store writing under dir with the given filename prefix.
func New(dir, prefix string) (*DailyStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &DailyStore{
		dir:    dir,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

// FilenameForToday returns the log filename for the current server-local date,
// e.g. "attendance-2026-08-31.csv". Callers must not cache the result: the
// process may run across a midnight boundary.
func (s *DailyStore) FilenameForToday() string {
	return fmt.Sprintf("%s-%s.csv", s.prefix, s.now().Format("2006-01-02"))
}

// EnsureInitialized creates the named log with the fixed header row if it does
// not exist yet. A pre-existing log is left untouched.
func (s *DailyStore) EnsureInitialized(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat log %s: %w", name, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write header to log %s: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write header to log %s: %w", name, err)
	}
	return nil
}

// ContainsFingerprint reports whether any record in the named log carries the
// given fingerprint. A missing log counts as no match.
func (s *DailyStore) ContainsFingerprint(name, fingerprint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureIndexLocked(name); err != nil {
		return false, err
	}
	_, ok := s.index[fingerprint]
	return ok, nil
}

// Append writes one record as a new row at the end of the named log. It
// re-checks the fingerprint against the index inside the critical section and
// returns ErrDuplicateFingerprint if another request recorded it first.
func (s *DailyStore) Append(name string, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureIndexLocked(name); err != nil {
		return err
	}
	if _, ok := s.index[rec.Fingerprint]; ok {
		return ErrDuplicateFingerprint
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log %s for append: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rowForRecord(rec)); err != nil {
		return fmt.Errorf("failed to append to log %s: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append to log %s: %w", name, err)
	}

	s.index[rec.Fingerprint] = struct{}{}
	return nil
}

// ensureIndexLocked rebuilds the in-memory fingerprint index from the named
// log the first time that log is touched. Switching to a new log name (the
// midnight rollover) discards the previous day's index.
func (s *DailyStore) ensureIndexLocked(name string) error {
	if s.indexLog == name && s.index != nil {
		return nil
	}

	index := make(map[string]struct{})
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to open log %s: %w", name, err)
		}
		// No log yet today.
		s.indexLog = name
		s.index = index
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read log %s: %w", name, err)
		}
		if first {
			// Skip the header row.
			first = false
			continue
		}
		if len(row) > FingerprintColumn {
			index[row[FingerprintColumn]] = struct{}{}
		}
	}

	s.indexLog = name
	s.index = index
	return nil
}

func rowForRecord(rec models.Record) []string {
	return []string{
		rec.Timestamp.Format(TimestampLayout),
		rec.Name,
		rec.RollNo,
		rec.Comments,
		strconv.FormatFloat(rec.Latitude, 'f', -1, 64),
		strconv.FormatFloat(rec.Longitude, 'f', -1, 64),
		rec.Fingerprint,
	}
}
