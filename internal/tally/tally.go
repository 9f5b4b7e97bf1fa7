// Package tally counts votes per destination and selects the winner.
package tally

import (
	"math"

	"github.com/mmynk/tripplanner/internal/models"
)

// Tally holds vote counts per destination in first-insertion order.
// The zero value is not usable; create one with New or Count.
type Tally struct {
	order  []string
	counts map[string]int
	total  int
}

// Entry is one destination's row in a tally.
type Entry struct {
	DestinationID string
	Votes         int
	Percent       int
}

// New returns an empty tally with every seed destination present at zero.
// Seeding lets destinations without votes still report 0.
func New(seed ...string) *Tally {
	t := &Tally{counts: make(map[string]int, len(seed))}
	for _, id := range seed {
		t.ensure(id)
	}
	return t
}

// Count tallies votes, one per record. Destination IDs are not checked
// against the catalog: unknown IDs are counted like any other.
func Count(votes []models.Vote, seed ...string) *Tally {
	t := New(seed...)
	for _, v := range votes {
		t.Add(v.DestinationID)
	}
	return t
}

// Add records one vote for destinationID.
func (t *Tally) Add(destinationID string) {
	t.ensure(destinationID)
	t.counts[destinationID]++
	t.total++
}

func (t *Tally) ensure(id string) {
	if _, ok := t.counts[id]; ok {
		return
	}
	t.counts[id] = 0
	t.order = append(t.order, id)
}

// Count returns the number of votes for destinationID.
func (t *Tally) Count(destinationID string) int {
	if t == nil {
		return 0
	}
	return t.counts[destinationID]
}

// Total returns the number of votes counted.
func (t *Tally) Total() int {
	if t == nil {
		return 0
	}
	return t.total
}

// Destinations returns destination IDs in tally order.
func (t *Tally) Destinations() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Percentage returns the destination's share of all votes, rounded half up.
// Returns 0 when no votes were counted.
func (t *Tally) Percentage(destinationID string) int {
	return Percent(t.Count(destinationID), t.Total())
}

// Entries returns one row per destination in tally order.
func (t *Tally) Entries() []Entry {
	if t == nil {
		return nil
	}
	entries := make([]Entry, len(t.order))
	for i, id := range t.order {
		entries[i] = Entry{
			DestinationID: id,
			Votes:         t.counts[id],
			Percent:       Percent(t.counts[id], t.total),
		}
	}
	return entries
}

// Percent computes round(count / total * 100) with halves rounded up.
func Percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(count)*100/float64(total) + 0.5))
}
