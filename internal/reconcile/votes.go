package reconcile

import "github.com/mmynk/tripplanner/internal/models"

// FindVote returns the vote held for userID, or nil.
func FindVote(votes []models.Vote, userID string) *models.Vote {
	for i := range votes {
		if votes[i].UserID == userID {
			v := votes[i]
			return &v
		}
	}
	return nil
}

// ReplaceVote returns a copy of votes where v occupies its user's single
// slot. Any earlier vote by the same user is dropped.
func ReplaceVote(votes []models.Vote, v models.Vote) []models.Vote {
	out := make([]models.Vote, 0, len(votes)+1)
	replaced := false
	for _, existing := range votes {
		if existing.UserID == v.UserID {
			if !replaced {
				out = append(out, v)
				replaced = true
			}
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, v)
	}
	return out
}

// RemoveVote returns a copy of votes without userID's vote.
func RemoveVote(votes []models.Vote, userID string) []models.Vote {
	out := make([]models.Vote, 0, len(votes))
	for _, v := range votes {
		if v.UserID != userID {
			out = append(out, v)
		}
	}
	return out
}

// VotesDiffer reports whether two vote sets disagree on any user's
// destination. Timestamps and ordering are ignored.
func VotesDiffer(a, b []models.Vote) bool {
	left := byUser(a)
	right := byUser(b)
	if len(left) != len(right) {
		return true
	}
	for userID, dest := range left {
		if other, ok := right[userID]; !ok || other != dest {
			return true
		}
	}
	return false
}

// VoteDiffers reports whether two single-slot reads disagree.
func VoteDiffers(a, b *models.Vote) bool {
	if a == nil || b == nil {
		return a != b
	}
	return a.UserID != b.UserID || a.DestinationID != b.DestinationID
}

func byUser(votes []models.Vote) map[string]string {
	m := make(map[string]string, len(votes))
	for _, v := range votes {
		m[v.UserID] = v.DestinationID
	}
	return m
}
