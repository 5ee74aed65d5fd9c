package match

// Entry is one waiting connection: its identity plus the preferences snapshot
// taken when it joined.
type Entry struct {
	ID    string
	Prefs Prefs
}

// Queue is the ordered collection of connections waiting for a partner.
// A connection identity appears at most once. The queue is not goroutine-safe;
// the hub mutates it from its single event loop.
type Queue struct {
	entries []Entry
}

// NewQueue creates an empty waiting queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends an entry at the tail. Any pre-existing entry for the same
// identity is removed first, so re-joining replaces the preferences snapshot
// instead of duplicating the membership.
func (q *Queue) Enqueue(id string, prefs Prefs) {
	q.Remove(id)
	q.entries = append(q.entries, Entry{ID: id, Prefs: prefs.Normalized()})
}

// Remove deletes the entry for id, if present. Returns whether an entry was removed.
func (q *Queue) Remove(id string) bool {
	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether id is currently waiting.
func (q *Queue) Contains(id string) bool {
	for _, e := range q.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of waiting entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// FindPair scans for the first compatible pair in queue order: for the earliest
// entry i, the earliest later entry j with Compatible(i, j). Both entries are
// removed (higher index first) and returned. The scan is FIFO-biased and
// deterministic given queue contents; it is quadratic per attempt, which is
// fine at the queue lengths a single process sees.
func (q *Queue) FindPair() (a, b Entry, ok bool) {
	if len(q.entries) < 2 {
		return Entry{}, Entry{}, false
	}
	for i := 0; i < len(q.entries); i++ {
		for j := i + 1; j < len(q.entries); j++ {
			if Compatible(q.entries[i].Prefs, q.entries[j].Prefs) {
				a, b = q.entries[i], q.entries[j]
				q.entries = append(q.entries[:j], q.entries[j+1:]...)
				q.entries = append(q.entries[:i], q.entries[i+1:]...)
				return a, b, true
			}
		}
	}
	return Entry{}, Entry{}, false
}
