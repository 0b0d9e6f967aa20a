package health

import (
	"sort"
	"sync"

	"github.com/vvka-141/netres/pkg/netres"
)

// AttemptLog is an append-only record of attempts keyed by operation ID
// (for example "GET_http://svc/health" or "db_postgresql_localhost_5432").
type AttemptLog struct {
	mu      sync.RWMutex
	history map[string][]netres.AttemptRecord
	limit   int
}

// NewAttemptLog creates an attempt log that keeps at most limit records per
// operation, dropping the oldest first. A limit <= 0 keeps everything.
func NewAttemptLog(limit int) *AttemptLog {
	return &AttemptLog{
		history: make(map[string][]netres.AttemptRecord),
		limit:   limit,
	}
}

// Append records one attempt for the operation.
func (l *AttemptLog) Append(operationID string, record netres.AttemptRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := append(l.history[operationID], record)
	if l.limit > 0 && len(records) > l.limit {
		records = append([]netres.AttemptRecord(nil), records[len(records)-l.limit:]...)
	}
	l.history[operationID] = records
}

// Attempts returns a copy of the recorded attempts for the operation, oldest first.
func (l *AttemptLog) Attempts(operationID string) []netres.AttemptRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records := l.history[operationID]
	if len(records) == 0 {
		return nil
	}
	out := make([]netres.AttemptRecord, len(records))
	copy(out, records)
	return out
}

// Operations returns the known operation IDs in sorted order.
func (l *AttemptLog) Operations() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.history))
	for id := range l.history {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset drops all recorded attempts.
func (l *AttemptLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = make(map[string][]netres.AttemptRecord)
}
