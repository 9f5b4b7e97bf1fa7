package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/storage"
	"github.com/mmynk/tripplanner/internal/tally"
	"github.com/mmynk/tripplanner/internal/trip"
)

// GetGroupTrip retrieves the group's trip with its participants.
func (s *SQLiteStore) GetGroupTrip(ctx context.Context, groupID string) (*models.Trip, error) {
	return getTrip(ctx, s.db, "group_id = ?", groupID)
}

// GetTripByID retrieves a trip with its participants.
func (s *SQLiteStore) GetTripByID(ctx context.Context, tripID string) (*models.Trip, error) {
	return getTrip(ctx, s.db, "id = ?", tripID)
}

func getTrip(ctx context.Context, q queryer, where string, arg any) (*models.Trip, error) {
	t := &models.Trip{}
	var status string
	err := q.QueryRowContext(ctx,
		"SELECT id, group_id, selected_destination_id, status, created_at, updated_at FROM trips WHERE "+where,
		arg,
	).Scan(&t.ID, &t.GroupID, &t.SelectedDestinationID, &status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Trip not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	t.Status = models.TripStatus(status)

	participants, err := tripParticipants(ctx, q, t.ID)
	if err != nil {
		return nil, err
	}
	t.Participants = participants

	return t, nil
}

func tripParticipants(ctx context.Context, q queryer, tripID string) ([]models.Participant, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT user_id, status, payment_status, payment_amount
		 FROM trip_participants WHERE trip_id = ? ORDER BY rowid`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var (
			p             models.Participant
			status        string
			paymentStatus string
			amount        sql.NullFloat64
		)
		if err := rows.Scan(&p.UserID, &status, &paymentStatus, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Status = models.ParticipantStatus(status)
		p.PaymentStatus = models.PaymentStatus(paymentStatus)
		if amount.Valid {
			v := amount.Float64
			p.PaymentAmount = &v
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// CreateTrip creates the group's trip, seeding a pending participant for every
// current member. An existing trip is returned unchanged.
func (s *SQLiteStore) CreateTrip(ctx context.Context, groupID string) (*models.Trip, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := ensureTrip(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, nil
}

// ensureTrip returns the group's trip, creating it if missing.
func ensureTrip(ctx context.Context, q queryer, groupID string) (*models.Trip, error) {
	existing, err := getTrip(ctx, q, "group_id = ?", groupID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	group, err := getGroup(ctx, q, "id = ?", groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	t := trip.New(groupID, group.Members)
	_, err = q.ExecContext(ctx,
		`INSERT INTO trips (id, group_id, selected_destination_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.GroupID, t.SelectedDestinationID, string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trip: %w", err)
	}

	for _, p := range t.Participants {
		if err := upsertParticipant(ctx, q, t.ID, p); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func upsertParticipant(ctx context.Context, q queryer, tripID string, p models.Participant) error {
	var amount any
	if p.PaymentAmount != nil {
		amount = *p.PaymentAmount
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO trip_participants (trip_id, user_id, status, payment_status, payment_amount)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (trip_id, user_id) DO UPDATE SET
		     status = excluded.status,
		     payment_status = excluded.payment_status,
		     payment_amount = excluded.payment_amount`,
		tripID, p.UserID, string(p.Status), string(p.PaymentStatus), amount,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert participant: %w", err)
	}
	return nil
}

// FinalizeVoting confirms the group's trip with the winning destination.
// The tally, winner selection and status change happen in one transaction, so
// the selected destination and the confirmed status become visible together.
func (s *SQLiteStore) FinalizeVoting(ctx context.Context, groupID string) (*models.Trip, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group, err := getGroup(ctx, tx, "id = ?", groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nil // Group not found
	}

	votePtrs, err := groupVotes(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	if len(votePtrs) == 0 {
		return nil, trip.ErrNoVotes
	}

	votes := make([]models.Vote, len(votePtrs))
	for i, v := range votePtrs {
		votes[i] = *v
	}
	winner, ok := tally.PickWinner(tally.Count(votes), s.tieBreak)
	if !ok {
		return nil, trip.ErrNoWinner
	}

	current, err := ensureTrip(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	confirmed, err := trip.Finalize(current, winner)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE trips SET selected_destination_id = ?, status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		confirmed.SelectedDestinationID, string(confirmed.Status), confirmed.UpdatedAt,
		confirmed.ID, string(models.TripStatusVoting),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize trip: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to check finalized trip: %w", err)
	} else if n != 1 {
		return nil, fmt.Errorf("%w: trip %s is no longer voting", trip.ErrInvalidTransition, confirmed.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return confirmed, nil
}

// UpdateParticipantStatus sets a participant's confirmation status.
func (s *SQLiteStore) UpdateParticipantStatus(ctx context.Context, tripID, userID string, status models.ParticipantStatus) (*models.Trip, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid participant status %q", status)
	}
	return s.updateParticipant(ctx, tripID, userID, func(p *models.Participant) {
		p.Status = status
	})
}

// UpdateParticipantPaymentStatus sets a participant's payment status. A nil
// amount keeps the stored amount.
func (s *SQLiteStore) UpdateParticipantPaymentStatus(ctx context.Context, tripID, userID string, status models.PaymentStatus, amount *float64) (*models.Trip, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid payment status %q", status)
	}
	return s.updateParticipant(ctx, tripID, userID, func(p *models.Participant) {
		p.PaymentStatus = status
		if amount != nil {
			v := *amount
			p.PaymentAmount = &v
		}
	})
}

// AddParticipants inserts a pending, unpaid row for each user that has none.
// Existing rows are left as they are.
func (s *SQLiteStore) AddParticipants(ctx context.Context, tripID string, userIDs []string) (*models.Trip, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := getTrip(ctx, tx, "id = ?", tripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil // Trip not found
	}

	var inserted int64
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		p := models.NewPendingParticipant(userID)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO trip_participants (trip_id, user_id, status, payment_status)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (trip_id, user_id) DO NOTHING`,
			tripID, p.UserID, string(p.Status), string(p.PaymentStatus),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert participant: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check inserted participant: %w", err)
		}
		inserted += n
	}
	if inserted == 0 {
		return t, nil
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE trips SET updated_at = ? WHERE id = ?",
		time.Now().Unix(), tripID,
	); err != nil {
		return nil, fmt.Errorf("failed to touch trip: %w", err)
	}
	updated, err := getTrip(ctx, tx, "id = ?", tripID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// updateParticipant applies change to the participant row, creating a
// pending, unpaid row first when the user has none, and returns the trip.
func (s *SQLiteStore) updateParticipant(ctx context.Context, tripID, userID string, change func(*models.Participant)) (*models.Trip, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := getTrip(ctx, tx, "id = ?", tripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil // Trip not found
	}

	p := models.NewPendingParticipant(userID)
	for _, existing := range t.Participants {
		if existing.UserID == userID {
			p = existing.Clone()
			break
		}
	}
	change(&p)

	if err := upsertParticipant(ctx, tx, tripID, p); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE trips SET updated_at = ? WHERE id = ?",
		time.Now().Unix(), tripID,
	); err != nil {
		return nil, fmt.Errorf("failed to touch trip: %w", err)
	}

	updated, err := getTrip(ctx, tx, "id = ?", tripID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}
