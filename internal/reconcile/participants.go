// Package reconcile keeps trip participants in step with group membership
// and merges locally held state with authoritative backend responses.
package reconcile

import "github.com/mmynk/tripplanner/internal/models"

// Participants returns a participant list that contains every input record
// unchanged, followed by a pending, unpaid record for each member without one.
// Records are matched by user ID, so running it again adds nothing. Participants
// whose user is no longer a member are kept.
//
// added lists the user IDs that were backfilled, in member order.
func Participants(participants []models.Participant, members []string) (out []models.Participant, added []string) {
	present := make(map[string]bool, len(participants)+len(members))
	out = make([]models.Participant, 0, len(participants)+len(members))
	for _, p := range participants {
		present[p.UserID] = true
		out = append(out, p.Clone())
	}

	for _, userID := range members {
		if userID == "" || present[userID] {
			continue
		}
		present[userID] = true
		out = append(out, models.NewPendingParticipant(userID))
		added = append(added, userID)
	}
	return out, added
}

// MergeParticipants combines an authoritative participant list with the
// local one. Server records win for every user ID they contain; records only
// known locally (typically just backfilled and not yet round-tripped) are
// appended unchanged.
func MergeParticipants(server, local []models.Participant) []models.Participant {
	merged := make([]models.Participant, 0, len(server)+len(local))
	seen := make(map[string]bool, len(server))
	for _, p := range server {
		if seen[p.UserID] {
			continue
		}
		seen[p.UserID] = true
		merged = append(merged, p.Clone())
	}
	for _, p := range local {
		if seen[p.UserID] {
			continue
		}
		seen[p.UserID] = true
		merged = append(merged, p.Clone())
	}
	return merged
}

// FindParticipant returns the participant record for userID.
func FindParticipant(participants []models.Participant, userID string) (models.Participant, bool) {
	for _, p := range participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return models.Participant{}, false
}

// ReplaceParticipant returns a copy of participants with p in userID's slot,
// appending it when the user has no record yet.
func ReplaceParticipant(participants []models.Participant, p models.Participant) []models.Participant {
	out := make([]models.Participant, 0, len(participants)+1)
	replaced := false
	for _, existing := range participants {
		if existing.UserID == p.UserID {
			if !replaced {
				out = append(out, p.Clone())
				replaced = true
			}
			continue
		}
		out = append(out, existing.Clone())
	}
	if !replaced {
		out = append(out, p.Clone())
	}
	return out
}

// RemoveParticipant returns a copy of participants without userID's record.
func RemoveParticipant(participants []models.Participant, userID string) []models.Participant {
	out := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		if p.UserID != userID {
			out = append(out, p.Clone())
		}
	}
	return out
}

// MemberIDs extracts user IDs, preserving order.
func MemberIDs(users []*models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u != nil {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// SameMembers reports whether a and b hold the same IDs in the same order.
func SameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
