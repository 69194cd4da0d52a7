package repository

import (
	"context"
	"errors"
	"fmt"

	"roomrelay/database"
	"roomrelay/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// RoomRepository implements the RoomRepository interface
type RoomRepository struct {
	q queryable
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *database.DB) *RoomRepository {
	return &RoomRepository{q: db.Pool}
}

// newRoomRepositoryWithTx creates a new room repository with a transaction
func newRoomRepositoryWithTx(tx queryable) *RoomRepository {
	return &RoomRepository{q: tx}
}

func (r *RoomRepository) getOne(ctx context.Context, where string, arg any) (*models.Room, error) {
	query := `SELECT name, owner, pass, created_at FROM rooms WHERE ` + where + ` = $1`

	var room models.Room
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&room.Name,
		&room.Owner,
		&room.Pass,
		&room.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room by %s: %w", where, err)
	}

	return &room, nil
}

// GetByName retrieves a room by its name, nil if it doesn't exist
func (r *RoomRepository) GetByName(ctx context.Context, name string) (*models.Room, error) {
	return r.getOne(ctx, "name", name)
}

// GetByOwner retrieves the room owned by guildID, nil if it owns none
func (r *RoomRepository) GetByOwner(ctx context.Context, guildID int64) (*models.Room, error) {
	return r.getOne(ctx, "owner", guildID)
}

// Create inserts a new room
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (name, owner, pass)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, room.Name, room.Owner, room.Pass).Scan(&room.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", models.ErrDuplicateRoom, pgErr.ConstraintName)
		}
		return fmt.Errorf("failed to create room %q: %w", room.Name, err)
	}

	return nil
}

// UpdatePassword replaces a room's password
func (r *RoomRepository) UpdatePassword(ctx context.Context, name string, pass string) error {
	result, err := r.q.Exec(ctx, `UPDATE rooms SET pass = $1 WHERE name = $2`, pass, name)
	if err != nil {
		return fmt.Errorf("failed to update password for room %q: %w", name, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("room %q not found", name)
	}

	return nil
}

// Delete removes a room. Member guilds are unbound by the foreign key.
func (r *RoomRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM rooms WHERE name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete room %q: %w", name, err)
	}
	return nil
}

// CountMembers returns how many guilds are bound to the room
func (r *RoomRepository) CountMembers(ctx context.Context, name string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM guilds WHERE room = $1`, name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members of room %q: %w", name, err)
	}
	return count, nil
}
