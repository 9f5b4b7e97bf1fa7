package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/tripplanner/internal/models"
)

// GetUserVote retrieves the user's live vote.
func (s *SQLiteStore) GetUserVote(ctx context.Context, userID string) (*models.Vote, error) {
	vote := &models.Vote{}
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, destination_id, cast_at FROM votes WHERE user_id = ?",
		userID,
	).Scan(&vote.UserID, &vote.DestinationID, &vote.CastAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No vote yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user vote: %w", err)
	}
	return vote, nil
}

// GetVotesByGroupID returns the live votes of every group member, oldest first.
func (s *SQLiteStore) GetVotesByGroupID(ctx context.Context, groupID string) ([]*models.Vote, error) {
	return groupVotes(ctx, s.db, groupID)
}

func groupVotes(ctx context.Context, q queryer, groupID string) ([]*models.Vote, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT v.user_id, v.destination_id, v.cast_at
		 FROM votes v
		 JOIN group_members gm ON gm.user_id = v.user_id
		 WHERE gm.group_id = ?
		 ORDER BY v.cast_at, v.rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group votes: %w", err)
	}
	defer rows.Close()

	var votes []*models.Vote
	for rows.Next() {
		vote := &models.Vote{}
		if err := rows.Scan(&vote.UserID, &vote.DestinationID, &vote.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	return votes, nil
}

// CastVote stores the user's vote, replacing any previous one.
func (s *SQLiteStore) CastVote(ctx context.Context, userID, destinationID string) (*models.Vote, error) {
	if userID == "" || destinationID == "" {
		return nil, fmt.Errorf("user and destination are required")
	}

	vote := &models.Vote{
		UserID:        userID,
		DestinationID: destinationID,
		CastAt:        time.Now().UnixMilli(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO votes (user_id, destination_id, cast_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		     destination_id = excluded.destination_id,
		     cast_at = excluded.cast_at`,
		vote.UserID, vote.DestinationID, vote.CastAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	return vote, nil
}
