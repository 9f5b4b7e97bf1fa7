package session

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/reconcile"
)

// Refresh pulls the user's vote, the group's votes and the trip from the
// backend. Votes are left alone while a vote change is pending or resolved
// during the fetch, and the trip likewise for participant changes. An empty
// vote list or a missing user vote never replaces local votes.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil
	}
	skipVotes := s.votesInFlight > 0
	skipTrip := s.participantsInFlight > 0
	voteGen, participantGen := s.voteGen, s.participantGen
	s.mu.Unlock()
	if skipVotes {
		s.metrics.RefreshSkipped("votes", "vote_in_flight")
	}
	if skipTrip {
		s.metrics.RefreshSkipped("trip", "participant_in_flight")
	}
	if skipVotes && skipTrip {
		return nil
	}

	var (
		userVote *models.Vote
		votes    []*models.Vote
		server   *models.Trip
	)
	g, gctx := errgroup.WithContext(ctx)
	if !skipVotes {
		g.Go(func() (err error) {
			userVote, err = s.data.GetUserVote(gctx, s.userID)
			return err
		})
		g.Go(func() (err error) {
			votes, err = s.data.GetVotesByGroupID(gctx, s.groupID)
			return err
		})
	}
	if !skipTrip {
		g.Go(func() (err error) {
			server, err = s.data.GetGroupTrip(gctx, s.groupID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to refresh group %s: %w", s.groupID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !skipVotes {
		// A cast may have started or finished while we were fetching.
		if s.votesInFlight > 0 || s.voteGen != voteGen {
			s.metrics.RefreshSkipped("votes", "vote_in_flight")
		} else {
			if userVote != nil && reconcile.VoteDiffers(s.state.UserVote, userVote) {
				s.state.UserVote = userVote.Clone()
			}
			fresh := derefVotes(votes)
			if len(fresh) > 0 && reconcile.VotesDiffer(s.state.AllVotes, fresh) {
				s.state.AllVotes = fresh
			}
		}
	}

	if !skipTrip && server != nil {
		if s.participantsInFlight > 0 || s.participantGen != participantGen {
			s.metrics.RefreshSkipped("trip", "participant_in_flight")
		} else {
			t := server.Clone()
			if s.state.Trip != nil {
				t.Participants = reconcile.MergeParticipants(server.Participants, s.state.Trip.Participants)
			}
			s.state.Trip = t
		}
	}
	return nil
}

// RefreshMembers re-reads the group's members and, when membership changed,
// reconciles the trip's participants.
func (s *Session) RefreshMembers(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		return nil
	}

	members, err := s.data.GetGroupMembers(ctx, s.groupID)
	if err != nil {
		return fmt.Errorf("failed to refresh members of group %s: %w", s.groupID, err)
	}

	ids := reconcile.MemberIDs(members)
	s.mu.Lock()
	changed := !reconcile.SameMembers(reconcile.MemberIDs(s.state.Members), ids)
	if changed {
		s.state.Members = members
		if s.state.Group != nil {
			g := *s.state.Group
			g.Members = ids
			s.state.Group = &g
		}
	}
	s.mu.Unlock()

	if !changed {
		return nil
	}
	s.logger.Info("Group membership changed", "members", len(ids))
	return s.Reconcile(ctx)
}

// Reconcile gives every group member a participant record on the trip. It
// only adds records, never changes or removes them, and does nothing while a
// participant change is pending. Backfilled records are written to the
// backend on a best-effort basis through an insert that leaves existing
// records alone, and failures are logged.
func (s *Session) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded || s.state.Trip == nil {
		s.mu.Unlock()
		return nil
	}
	if s.participantsInFlight > 0 {
		s.mu.Unlock()
		s.metrics.RefreshSkipped("reconcile", "participant_in_flight")
		return nil
	}
	out, added := reconcile.Participants(s.state.Trip.Participants, reconcile.MemberIDs(s.state.Members))
	if len(added) == 0 {
		s.mu.Unlock()
		return nil
	}
	t := s.state.Trip.Clone()
	t.Participants = out
	s.state.Trip = t
	tripID := t.ID
	s.mu.Unlock()

	s.logger.Info("Backfilled trip participants", "trip_id", tripID, "added", added)
	if _, err := s.data.AddParticipants(ctx, tripID, added); err != nil {
		s.logger.Warn("Failed to persist backfilled participants", "trip_id", tripID, "added", added, "error", err)
	}
	return nil
}

// Start begins refreshing votes, the trip and members every refresh
// interval until ctx is cancelled or Stop is called. Calling Start on a
// running session does nothing.
func (s *Session) Start(ctx context.Context) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.poll(ctx, done)
}

// Stop ends the polling started by Start and waits for it to return.
func (s *Session) Stop() {
	s.pollMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.pollMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Session) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("Background refresh failed", "error", err)
			}
			if err := s.RefreshMembers(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("Background member refresh failed", "error", err)
			}
		}
	}
}
