package session

import (
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/reconcile"
)

// PendingVote is a vote applied locally before the backend confirmed it.
// It carries the snapshot needed to undo it.
type PendingVote struct {
	Optimistic models.Vote

	prevUserVote *models.Vote
	prevSlot     *models.Vote
}

// NewPendingVote snapshots the user's vote state in st and builds the
// optimistic vote.
func NewPendingVote(st *State, userID, destinationID string, castAt int64) *PendingVote {
	return &PendingVote{
		Optimistic: models.Vote{
			UserID:        userID,
			DestinationID: destinationID,
			CastAt:        castAt,
		},
		prevUserVote: st.UserVote.Clone(),
		prevSlot:     reconcile.FindVote(st.AllVotes, userID),
	}
}

// Apply puts the optimistic vote into the user's slot.
func (p *PendingVote) Apply(st *State) {
	v := p.Optimistic
	st.UserVote = &v
	st.AllVotes = reconcile.ReplaceVote(st.AllVotes, v)
}

// Commit replaces the optimistic vote with the backend's.
func (p *PendingVote) Commit(st *State, saved models.Vote) {
	st.UserVote = &saved
	st.AllVotes = reconcile.ReplaceVote(st.AllVotes, saved)
}

// Rollback restores the user's slot to its state before Apply.
func (p *PendingVote) Rollback(st *State) {
	st.UserVote = p.prevUserVote.Clone()
	if p.prevSlot != nil {
		st.AllVotes = reconcile.ReplaceVote(st.AllVotes, *p.prevSlot)
	} else {
		st.AllVotes = reconcile.RemoveVote(st.AllVotes, p.Optimistic.UserID)
	}
}

// PendingParticipant is a participant change applied locally before the
// backend confirmed it.
type PendingParticipant struct {
	Optimistic models.Participant

	prev *models.Participant
}

// NewPendingParticipant snapshots userID's participant record in t and
// builds the optimistic record by applying change to a copy. A user without a
// record starts from pending, not paid.
func NewPendingParticipant(t *models.Trip, userID string, change func(*models.Participant)) *PendingParticipant {
	p := &PendingParticipant{}
	base := models.NewPendingParticipant(userID)
	if t != nil {
		if existing, ok := reconcile.FindParticipant(t.Participants, userID); ok {
			prev := existing.Clone()
			p.prev = &prev
			base = existing.Clone()
		}
	}
	change(&base)
	p.Optimistic = base
	return p
}

// Apply puts the optimistic record into the trip.
func (p *PendingParticipant) Apply(st *State) {
	if st.Trip == nil {
		return
	}
	t := st.Trip.Clone()
	t.Participants = reconcile.ReplaceParticipant(t.Participants, p.Optimistic)
	st.Trip = t
}

// Commit adopts the backend's trip. Participants only known locally are kept.
func (p *PendingParticipant) Commit(st *State, server *models.Trip) {
	var local []models.Participant
	if st.Trip != nil {
		local = st.Trip.Participants
	}
	t := server.Clone()
	t.Participants = reconcile.MergeParticipants(server.Participants, local)
	st.Trip = t
}

// Rollback restores the single participant record to its state before Apply.
// A record that did not exist before is removed.
func (p *PendingParticipant) Rollback(st *State) {
	if st.Trip == nil {
		return
	}
	t := st.Trip.Clone()
	if p.prev != nil {
		t.Participants = reconcile.ReplaceParticipant(t.Participants, *p.prev)
	} else {
		t.Participants = reconcile.RemoveParticipant(t.Participants, p.Optimistic.UserID)
	}
	st.Trip = t
}
