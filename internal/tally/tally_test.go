package tally

import (
	"testing"

	"github.com/mmynk/tripplanner/internal/models"
)

func votes(pairs ...string) []models.Vote {
	out := make([]models.Vote, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.Vote{UserID: pairs[i], DestinationID: pairs[i+1]})
	}
	return out
}

func TestCount(t *testing.T) {
	tests := []struct {
		name       string
		votes      []models.Vote
		seed       []string
		wantTotal  int
		wantCounts map[string]int
		wantOrder  []string
	}{
		{
			name:       "three votes two destinations",
			votes:      votes("u1", "A", "u2", "A", "u3", "B"),
			wantTotal:  3,
			wantCounts: map[string]int{"A": 2, "B": 1},
			wantOrder:  []string{"A", "B"},
		},
		{
			name:       "empty input",
			votes:      nil,
			wantTotal:  0,
			wantCounts: map[string]int{},
			wantOrder:  []string{},
		},
		{
			name:       "seeded destinations report zero",
			votes:      votes("u1", "B"),
			seed:       []string{"A", "B", "C"},
			wantTotal:  1,
			wantCounts: map[string]int{"A": 0, "B": 1, "C": 0},
			wantOrder:  []string{"A", "B", "C"},
		},
		{
			name:       "unknown destination is still counted",
			votes:      votes("u1", "A", "u2", "ghost"),
			seed:       []string{"A"},
			wantTotal:  2,
			wantCounts: map[string]int{"A": 1, "ghost": 1},
			wantOrder:  []string{"A", "ghost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.votes, tt.seed...)
			if got.Total() != tt.wantTotal {
				t.Errorf("Total() = %d, want %d", got.Total(), tt.wantTotal)
			}
			for id, want := range tt.wantCounts {
				if got.Count(id) != want {
					t.Errorf("Count(%q) = %d, want %d", id, got.Count(id), want)
				}
			}
			order := got.Destinations()
			if len(order) != len(tt.wantOrder) {
				t.Fatalf("Destinations() = %v, want %v", order, tt.wantOrder)
			}
			for i := range order {
				if order[i] != tt.wantOrder[i] {
					t.Errorf("Destinations()[%d] = %q, want %q", i, order[i], tt.wantOrder[i])
				}
			}
		})
	}
}

func TestPickWinner(t *testing.T) {
	tests := []struct {
		name   string
		tally  *Tally
		policy TieBreak
		want   string
		wantOK bool
	}{
		{
			name:   "clear majority",
			tally:  Count(votes("u1", "A", "u2", "A", "u3", "B")),
			want:   "A",
			wantOK: true,
		},
		{
			name:   "tie goes to first inserted destination",
			tally:  Count(votes("u1", "A", "u2", "B")),
			want:   "A",
			wantOK: true,
		},
		{
			name:   "tie follows insertion order not id order",
			tally:  Count(votes("u1", "B", "u2", "A")),
			want:   "B",
			wantOK: true,
		},
		{
			name:   "seed order decides a tie",
			tally:  Count(votes("u1", "A", "u2", "B"), "B", "A"),
			want:   "B",
			wantOK: true,
		},
		{
			name:   "later destination overtakes",
			tally:  Count(votes("u1", "A", "u2", "B", "u3", "B")),
			want:   "B",
			wantOK: true,
		},
		{
			name:   "lexical policy breaks tie by id",
			tally:  Count(votes("u1", "B", "u2", "A")),
			policy: Lexical,
			want:   "A",
			wantOK: true,
		},
		{
			name:   "no votes",
			tally:  Count(nil),
			wantOK: false,
		},
		{
			name:   "seeded but no votes",
			tally:  New("A", "B"),
			wantOK: false,
		},
		{
			name:   "nil tally",
			tally:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickWinner(tt.tally, tt.policy)
			if ok != tt.wantOK {
				t.Fatalf("PickWinner ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("PickWinner = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		count, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{1, 2, 50},
		{3, 3, 100},
	}

	for _, tt := range tests {
		if got := Percent(tt.count, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.count, tt.total, got, tt.want)
		}
	}
}

func TestEntries(t *testing.T) {
	tl := Count(votes("u1", "A", "u2", "A", "u3", "B"), "A", "B", "C")
	entries := tl.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	want := []Entry{
		{DestinationID: "A", Votes: 2, Percent: 67},
		{DestinationID: "B", Votes: 1, Percent: 33},
		{DestinationID: "C", Votes: 0, Percent: 0},
	}
	for i, e := range entries {
		if e != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestParseTieBreak(t *testing.T) {
	for _, in := range []string{"", "first_seen", "FIRST-SEEN"} {
		got, err := ParseTieBreak(in)
		if err != nil || got != FirstSeen {
			t.Errorf("ParseTieBreak(%q) = %v, %v; want FirstSeen", in, got, err)
		}
	}
	if got, err := ParseTieBreak("lexical"); err != nil || got != Lexical {
		t.Errorf("ParseTieBreak(lexical) = %v, %v", got, err)
	}
	if _, err := ParseTieBreak("random"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
