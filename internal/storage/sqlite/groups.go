package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripplanner/internal/joincode"
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/storage"
)

// maxJoinCodeAttempts bounds how often CreateGroup regenerates a colliding code.
const maxJoinCodeAttempts = 8

// CreateGroup persists a new group with its creator as the first member.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatorID == "" {
		return fmt.Errorf("group creator is required")
	}
	// Generate IDs if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	code, err := uniqueJoinCode(ctx, tx)
	if err != nil {
		return err
	}
	group.JoinCode = code

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, creator_id, join_code, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.CreatorID, group.JoinCode, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	// Creator first, then any extra members in the given order.
	members := append([]string{group.CreatorID}, group.Members...)
	group.Members = nil
	for _, userID := range members {
		added, err := addMember(ctx, tx, group.ID, userID, group.CreatedAt)
		if err != nil {
			return err
		}
		if added {
			group.Members = append(group.Members, userID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func uniqueJoinCode(ctx context.Context, q queryer) (string, error) {
	for i := 0; i < maxJoinCodeAttempts; i++ {
		code, err := joincode.New()
		if err != nil {
			return "", err
		}
		var exists int
		err = q.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE join_code = ?", code).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
	}
	return "", fmt.Errorf("failed to generate a unique join code after %d attempts", maxJoinCodeAttempts)
}

// addMember appends userID to the group, reporting whether a row was added.
func addMember(ctx context.Context, q queryer, groupID, userID string, joinedAt int64) (bool, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, position, joined_at)
		 SELECT ?, ?, COALESCE(MAX(position), -1) + 1, ? FROM group_members WHERE group_id = ?
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, userID, joinedAt, groupID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert group member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check inserted member: %w", err)
	}
	return n > 0, nil
}

// GetGroupByID retrieves a group and its members.
func (s *SQLiteStore) GetGroupByID(ctx context.Context, groupID string) (*models.Group, error) {
	return getGroup(ctx, s.db, "id = ?", groupID)
}

// GetGroupByJoinCode retrieves a group by its join code, ignoring case.
func (s *SQLiteStore) GetGroupByJoinCode(ctx context.Context, code string) (*models.Group, error) {
	return getGroup(ctx, s.db, "join_code = ?", joincode.Normalize(code))
}

func getGroup(ctx context.Context, q queryer, where string, arg any) (*models.Group, error) {
	group := &models.Group{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, creator_id, join_code, created_at FROM groups WHERE "+where,
		arg,
	).Scan(&group.ID, &group.Name, &group.CreatorID, &group.JoinCode, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := memberIDs(ctx, q, group.ID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

func memberIDs(ctx context.Context, q queryer, groupID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

// AddGroupMember adds a user to a group. Adding an existing member is a no-op.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	if _, err := addMember(ctx, s.db, groupID, userID, time.Now().Unix()); err != nil {
		return err
	}
	return nil
}

// ListGroupsForUser returns the groups a user belongs to, oldest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = ?
		 ORDER BY g.created_at, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.GetGroupByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if group != nil {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// GetGroupMembers returns the users in a group in join order.
func (s *SQLiteStore) GetGroupMembers(ctx context.Context, groupID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.name, u.password_hash, u.created_at
		 FROM group_members gm
		 JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id = ?
		 ORDER BY gm.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return users, nil
}
