package client

import (
	"github.com/mmynk/tripplanner/internal/models"
	pb "github.com/mmynk/tripplanner/pkg/tripapi"
)

func userFromProto(u *pb.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Unix(),
	}
}

func groupFromProto(g *pb.Group) *models.Group {
	if g == nil {
		return nil
	}
	return &models.Group{
		ID:        g.ID,
		Name:      g.Name,
		CreatorID: g.CreatorID,
		Members:   append([]string(nil), g.Members...),
		JoinCode:  g.JoinCode,
		CreatedAt: g.CreatedAt.Unix(),
	}
}

func destinationFromProto(d *pb.Destination) *models.Destination {
	if d == nil {
		return nil
	}
	return &models.Destination{
		ID:            d.ID,
		Resort:        d.Resort,
		Accommodation: d.Accommodation,
		Price:         d.Price,
		Dates:         models.DateRange{Start: d.StartDate, End: d.EndDate},
	}
}

func voteFromProto(v *pb.Vote) *models.Vote {
	if v == nil {
		return nil
	}
	return &models.Vote{
		UserID:        v.UserID,
		DestinationID: v.DestinationID,
		CastAt:        v.CastAt.UnixMilli(),
	}
}

func tripFromProto(t *pb.Trip) *models.Trip {
	if t == nil {
		return nil
	}
	out := &models.Trip{
		ID:                    t.ID,
		GroupID:               t.GroupID,
		SelectedDestinationID: t.SelectedDestinationID,
		Status:                models.TripStatus(t.Status),
		CreatedAt:             t.CreatedAt.Unix(),
		UpdatedAt:             t.UpdatedAt.Unix(),
	}
	for _, p := range t.Participants {
		if p == nil {
			continue
		}
		participant := models.Participant{
			UserID:        p.UserID,
			Status:        models.ParticipantStatus(p.Status),
			PaymentStatus: models.PaymentStatus(p.PaymentStatus),
		}
		if p.PaymentAmount != nil {
			v := *p.PaymentAmount
			participant.PaymentAmount = &v
		}
		out.Participants = append(out.Participants, participant)
	}
	return out
}
