package session

import (
	"context"
	"sync"

	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/reconcile"
	"github.com/mmynk/tripplanner/internal/tally"
	"github.com/mmynk/tripplanner/internal/trip"
)

// fakeData is an in-memory DataAccess with hooks for failures and for
// holding writes open.
type fakeData struct {
	mu           sync.Mutex
	group        *models.Group
	users        map[string]*models.User
	destinations []*models.Destination
	votes        []models.Vote
	trip         *models.Trip
	clock        int64

	castErr        error
	updateErr      error
	finalizeErr    error
	emptyVoteReads int

	// When set, writes signal on started and wait for gate to close.
	castStarted   chan struct{}
	castGate      chan struct{}
	updateStarted chan struct{}
	updateGate    chan struct{}
	addStarted    chan struct{}
	addGate       chan struct{}

	// When set, reads take their result, then signal and wait, so the
	// caller receives what the backend held before the gate opened.
	userVoteStarted chan struct{}
	userVoteGate    chan struct{}
	tripReadStarted chan struct{}
	tripReadGate    chan struct{}

	voteReads   int
	updateCalls []string
	addCalls    []string
}

func park(started, gate chan struct{}) {
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
}

func newFakeData(members ...string) *fakeData {
	f := &fakeData{
		group: &models.Group{ID: "g1", Name: "Ski trip", Members: members},
		users: make(map[string]*models.User),
		destinations: []*models.Destination{
			{ID: "d1", Resort: "Whistler"},
			{ID: "d2", Resort: "Zermatt"},
			{ID: "d3", Resort: "Niseko"},
		},
	}
	for _, id := range members {
		f.users[id] = &models.User{ID: id, Name: id}
	}
	return f
}

func (f *fakeData) addMember(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.group.Members = append(f.group.Members, userID)
	f.users[userID] = &models.User{ID: userID, Name: userID}
}

func (f *fakeData) setVote(userID, destinationID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock++
	f.votes = reconcile.ReplaceVote(f.votes, models.Vote{UserID: userID, DestinationID: destinationID, CastAt: f.clock})
}

func (f *fakeData) GetGroupByID(ctx context.Context, groupID string) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.group == nil || f.group.ID != groupID {
		return nil, nil
	}
	g := *f.group
	g.Members = append([]string(nil), f.group.Members...)
	return &g, nil
}

func (f *fakeData) GetGroupMembers(ctx context.Context, groupID string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, id := range f.group.Members {
		u := *f.users[id]
		out = append(out, &u)
	}
	return out, nil
}

func (f *fakeData) GetAllDestinations(ctx context.Context) ([]*models.Destination, error) {
	return f.destinations, nil
}

func (f *fakeData) GetDestinationByID(ctx context.Context, destinationID string) (*models.Destination, error) {
	for _, d := range f.destinations {
		if d.ID == destinationID {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeData) GetUserVote(ctx context.Context, userID string) (*models.Vote, error) {
	f.mu.Lock()
	v := reconcile.FindVote(f.votes, userID)
	started, gate := f.userVoteStarted, f.userVoteGate
	f.mu.Unlock()
	park(started, gate)
	return v, nil
}

func (f *fakeData) GetVotesByGroupID(ctx context.Context, groupID string) ([]*models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voteReads++
	if f.emptyVoteReads > 0 {
		f.emptyVoteReads--
		return nil, nil
	}
	out := make([]*models.Vote, 0, len(f.votes))
	for _, v := range f.votes {
		out = append(out, v.Clone())
	}
	return out, nil
}

func (f *fakeData) CastVote(ctx context.Context, userID, destinationID string) (*models.Vote, error) {
	f.mu.Lock()
	started, gate := f.castStarted, f.castGate
	f.mu.Unlock()
	park(started, gate)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.castErr != nil {
		return nil, f.castErr
	}
	f.clock++
	v := models.Vote{UserID: userID, DestinationID: destinationID, CastAt: 1000 + f.clock}
	f.votes = reconcile.ReplaceVote(f.votes, v)
	return &v, nil
}

func (f *fakeData) GetGroupTrip(ctx context.Context, groupID string) (*models.Trip, error) {
	f.mu.Lock()
	t := f.trip.Clone()
	started, gate := f.tripReadStarted, f.tripReadGate
	f.mu.Unlock()
	park(started, gate)
	return t, nil
}

func (f *fakeData) CreateTrip(ctx context.Context, groupID string) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.trip == nil {
		f.trip = trip.New(groupID, f.group.Members)
	}
	return f.trip.Clone(), nil
}

func (f *fakeData) FinalizeVoting(ctx context.Context, groupID string) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finalizeErr != nil {
		return nil, f.finalizeErr
	}
	if len(f.votes) == 0 {
		return nil, trip.ErrNoVotes
	}
	winner, _ := tally.PickWinner(tally.Count(f.votes), tally.FirstSeen)
	confirmed, err := trip.Finalize(f.trip, winner)
	if err != nil {
		return nil, err
	}
	f.trip = confirmed
	return confirmed.Clone(), nil
}

func (f *fakeData) UpdateParticipantStatus(ctx context.Context, tripID, userID string, status models.ParticipantStatus) (*models.Trip, error) {
	return f.updateParticipant(tripID, userID, func(p *models.Participant) { p.Status = status })
}

func (f *fakeData) UpdateParticipantPaymentStatus(ctx context.Context, tripID, userID string, status models.PaymentStatus, amount *float64) (*models.Trip, error) {
	return f.updateParticipant(tripID, userID, func(p *models.Participant) {
		p.PaymentStatus = status
		if amount != nil {
			v := *amount
			p.PaymentAmount = &v
		}
	})
}

func (f *fakeData) updateParticipant(tripID, userID string, change func(*models.Participant)) (*models.Trip, error) {
	f.mu.Lock()
	started, gate := f.updateStarted, f.updateGate
	f.mu.Unlock()
	park(started, gate)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, userID)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.trip == nil || f.trip.ID != tripID {
		return nil, nil
	}
	p, ok := reconcile.FindParticipant(f.trip.Participants, userID)
	if !ok {
		p = models.NewPendingParticipant(userID)
	}
	change(&p)
	f.trip.Participants = reconcile.ReplaceParticipant(f.trip.Participants, p)
	return f.trip.Clone(), nil
}

func (f *fakeData) AddParticipants(ctx context.Context, tripID string, userIDs []string) (*models.Trip, error) {
	f.mu.Lock()
	started, gate := f.addStarted, f.addGate
	f.mu.Unlock()
	park(started, gate)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls = append(f.addCalls, userIDs...)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.trip == nil || f.trip.ID != tripID {
		return nil, nil
	}
	f.trip.Participants, _ = reconcile.Participants(f.trip.Participants, userIDs)
	return f.trip.Clone(), nil
}

func (f *fakeData) added() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.addCalls...)
}

func (f *fakeData) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.updateCalls...)
}

func (f *fakeData) reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voteReads
}

var _ DataAccess = (*fakeData)(nil)
