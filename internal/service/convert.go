package service

import (
	"github.com/mmynk/tripplanner/internal/models"
	pb "github.com/mmynk/tripplanner/pkg/tripapi"
)

func userToProto(u *models.User) *pb.User {
	if u == nil {
		return nil
	}
	return &pb.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: pb.UnixTimestamp(u.CreatedAt),
	}
}

func groupToProto(g *models.Group) *pb.Group {
	if g == nil {
		return nil
	}
	return &pb.Group{
		ID:        g.ID,
		Name:      g.Name,
		CreatorID: g.CreatorID,
		Members:   g.Members,
		JoinCode:  g.JoinCode,
		CreatedAt: pb.UnixTimestamp(g.CreatedAt),
	}
}

func destinationToProto(d *models.Destination) *pb.Destination {
	if d == nil {
		return nil
	}
	return &pb.Destination{
		ID:            d.ID,
		Resort:        d.Resort,
		Accommodation: d.Accommodation,
		Price:         d.Price,
		StartDate:     d.Dates.Start,
		EndDate:       d.Dates.End,
	}
}

func voteToProto(v *models.Vote) *pb.Vote {
	if v == nil {
		return nil
	}
	return &pb.Vote{
		UserID:        v.UserID,
		DestinationID: v.DestinationID,
		CastAt:        pb.UnixMilliTimestamp(v.CastAt),
	}
}

func tripToProto(t *models.Trip) *pb.Trip {
	if t == nil {
		return nil
	}
	participants := make([]*pb.Participant, len(t.Participants))
	for i, p := range t.Participants {
		p = p.Clone()
		participants[i] = &pb.Participant{
			UserID:        p.UserID,
			Status:        string(p.Status),
			PaymentStatus: string(p.PaymentStatus),
			PaymentAmount: p.PaymentAmount,
		}
	}
	return &pb.Trip{
		ID:                    t.ID,
		GroupID:               t.GroupID,
		SelectedDestinationID: t.SelectedDestinationID,
		Status:                string(t.Status),
		Participants:          participants,
		CreatedAt:             pb.UnixTimestamp(t.CreatedAt),
		UpdatedAt:             pb.UnixTimestamp(t.UpdatedAt),
	}
}
