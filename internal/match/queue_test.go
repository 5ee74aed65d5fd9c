package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strict(lang string) Prefs {
	return Prefs{Language: lang, Country: Wildcard, Gender: Wildcard}
}

func TestQueue_EnqueueReplacesExisting(t *testing.T) {
	q := NewQueue()

	q.Enqueue("c1", strict("en"))
	q.Enqueue("c2", strict("fr"))
	q.Enqueue("c1", strict("de")) // re-join with new prefs

	assert.Equal(t, 2, q.Len())
	assert.True(t, q.Contains("c1"))

	// The replacement moved c1 to the tail with the new snapshot, so the
	// earliest waiter is now c2.
	q.Enqueue("c3", strict("de"))
	a, b, ok := q.FindPair()
	require.True(t, ok)
	assert.Equal(t, "c1", a.ID)
	assert.Equal(t, "de", a.Prefs.Language)
	assert.Equal(t, "c3", b.ID)
}

func TestQueue_Remove(t *testing.T) {
	q := NewQueue()
	q.Enqueue("c1", DefaultPrefs())

	assert.True(t, q.Remove("c1"))
	assert.False(t, q.Remove("c1"))
	assert.Equal(t, 0, q.Len())
}

func TestQueue_FindPair_FIFOBias(t *testing.T) {
	// A(en), B(fr), C(en): the scan must pair C with A, the earliest
	// compatible waiter, and leave B alone.
	q := NewQueue()
	q.Enqueue("A", strict("en"))
	q.Enqueue("B", strict("fr"))
	q.Enqueue("C", strict("en"))

	a, b, ok := q.FindPair()
	require.True(t, ok)
	assert.Equal(t, "A", a.ID)
	assert.Equal(t, "C", b.ID)

	assert.Equal(t, 1, q.Len())
	assert.True(t, q.Contains("B"))

	_, _, ok = q.FindPair()
	assert.False(t, ok)
}

func TestQueue_FindPair_NoneCompatible(t *testing.T) {
	q := NewQueue()
	q.Enqueue("A", strict("en"))
	q.Enqueue("B", strict("fr"))

	_, _, ok := q.FindPair()
	assert.False(t, ok)
	assert.Equal(t, 2, q.Len(), "failed scan must not disturb the queue")
}

func TestQueue_NoDuplicateIdentity(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Enqueue("c1", strict("en"))
		q.Enqueue("c2", strict("fr"))
	}
	q.Remove("c2")
	q.Enqueue("c2", strict("en"))

	count := 0
	for _, id := range []string{"c1", "c2"} {
		if q.Contains(id) {
			count++
		}
	}
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, q.Len())

	a, b, ok := q.FindPair()
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"c1", "c2"}, []string{a.ID, b.ID})
	assert.Equal(t, 0, q.Len())
}
