package wages

import "sync"

// Sheet is the ordered wage sheet of one session. Records are only appended;
// Clear is the sole way to remove them.
type Sheet struct {
	mu      sync.RWMutex
	records []Record
}

func NewSheet() *Sheet {
	return &Sheet{}
}

func (s *Sheet) Append(records ...Record) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return len(s.records)
}

func (s *Sheet) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := len(s.records)
	s.records = nil
	return removed
}

// Records returns a copy in insertion order.
func (s *Sheet) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Sheet) Totals() Totals {
	return Sum(s.Records())
}

func Sum(records []Record) Totals {
	var totals Totals
	for _, r := range records {
		totals = totals.add(r)
	}
	return totals
}
