package tally

import (
	"fmt"
	"strings"
)

// TieBreak selects between destinations that share the highest count.
type TieBreak int

const (
	// FirstSeen keeps the first destination in tally order that reached
	// the maximum. With votes tallied in cast order, the destination that
	// received its first vote earliest wins a tie.
	FirstSeen TieBreak = iota

	// Lexical picks the smallest destination ID among the tied ones.
	Lexical
)

// String returns the configuration name of the policy.
func (p TieBreak) String() string {
	switch p {
	case FirstSeen:
		return "first_seen"
	case Lexical:
		return "lexical"
	}
	return fmt.Sprintf("TieBreak(%d)", int(p))
}

// ParseTieBreak parses a policy name as used in configuration.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first_seen", "first-seen":
		return FirstSeen, nil
	case "lexical":
		return Lexical, nil
	}
	return FirstSeen, fmt.Errorf("unknown tie-break policy %q", s)
}

// PickWinner returns the destination with the greatest count.
// The second return value is false when the tally holds no votes.
func PickWinner(t *Tally, policy TieBreak) (string, bool) {
	if t.Total() == 0 {
		return "", false
	}

	winner := ""
	best := 0
	for _, id := range t.order {
		n := t.counts[id]
		switch {
		case n > best:
			winner, best = id, n
		case n == best && n > 0 && policy == Lexical && id < winner:
			winner = id
		}
	}
	return winner, best > 0
}
