package repository

import (
	"context"
	"errors"
	"fmt"

	"roomrelay/database"
	"roomrelay/models"

	"github.com/jackc/pgx/v5"
)

const guildColumns = `id, channel, room, abbreviation, admin_role, created_at, updated_at`

// GuildRepository implements the GuildRepository interface
type GuildRepository struct {
	q queryable
}

// NewGuildRepository creates a new guild repository
func NewGuildRepository(db *database.DB) *GuildRepository {
	return &GuildRepository{q: db.Pool}
}

// newGuildRepositoryWithTx creates a new guild repository with a transaction
func newGuildRepositoryWithTx(tx queryable) *GuildRepository {
	return &GuildRepository{q: tx}
}

func scanGuild(row pgx.Row) (*models.Guild, error) {
	var guild models.Guild
	err := row.Scan(
		&guild.ID,
		&guild.Channel,
		&guild.Room,
		&guild.Abbreviation,
		&guild.AdminRole,
		&guild.CreatedAt,
		&guild.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &guild, nil
}

// GetByID retrieves a guild's configuration, nil if it has none
func (r *GuildRepository) GetByID(ctx context.Context, guildID int64) (*models.Guild, error) {
	query := `SELECT ` + guildColumns + ` FROM guilds WHERE id = $1`

	guild, err := scanGuild(r.q.QueryRow(ctx, query, guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild %d: %w", guildID, err)
	}

	return guild, nil
}

// GetByRoom returns every guild bound to room except excludeGuildID.
// Pass 0 to exclude nobody.
func (r *GuildRepository) GetByRoom(ctx context.Context, room string, excludeGuildID int64) ([]*models.Guild, error) {
	query := `
		SELECT ` + guildColumns + `
		FROM guilds
		WHERE room = $1 AND id <> $2
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query, room, excludeGuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query guilds in room %q: %w", room, err)
	}
	defer rows.Close()

	var guilds []*models.Guild
	for rows.Next() {
		guild, err := scanGuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guild: %w", err)
		}
		guilds = append(guilds, guild)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guilds in room %q: %w", room, err)
	}

	return guilds, nil
}

// Upsert creates the guild row or refreshes its display channel. The
// abbreviation is only written on insert.
func (r *GuildRepository) Upsert(ctx context.Context, guild *models.Guild) error {
	query := `
		INSERT INTO guilds (id, channel, room, abbreviation, admin_role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET channel = EXCLUDED.channel
		RETURNING ` + guildColumns

	saved, err := scanGuild(r.q.QueryRow(ctx, query,
		guild.ID,
		guild.Channel,
		guild.Room,
		guild.Abbreviation,
		guild.AdminRole,
	))
	if err != nil {
		return fmt.Errorf("failed to upsert guild %d: %w", guild.ID, err)
	}

	*guild = *saved
	return nil
}

// SetRoom binds the guild to room, or unbinds it when room is nil
func (r *GuildRepository) SetRoom(ctx context.Context, guildID int64, room *string) error {
	return r.update(ctx, guildID, "room", room)
}

// SetChannel moves the guild's display channel
func (r *GuildRepository) SetChannel(ctx context.Context, guildID int64, channelID int64) error {
	return r.update(ctx, guildID, "channel", channelID)
}

// SetAbbreviation changes the tag shown in front of relayed messages
func (r *GuildRepository) SetAbbreviation(ctx context.Context, guildID int64, abbreviation string) error {
	return r.update(ctx, guildID, "abbreviation", abbreviation)
}

// SetAdminRole sets the role allowed to manage the room, nil clears it
func (r *GuildRepository) SetAdminRole(ctx context.Context, guildID int64, roleID *int64) error {
	return r.update(ctx, guildID, "admin_role", roleID)
}

// update writes a single column. column is always a constant from this file.
func (r *GuildRepository) update(ctx context.Context, guildID int64, column string, value any) error {
	query := fmt.Sprintf(`UPDATE guilds SET %s = $1 WHERE id = $2`, column)

	result, err := r.q.Exec(ctx, query, value, guildID)
	if err != nil {
		return fmt.Errorf("failed to update %s for guild %d: %w", column, guildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild %d not found", guildID)
	}

	return nil
}

// Delete removes the guild's configuration. Deleting a missing guild is a no-op.
func (r *GuildRepository) Delete(ctx context.Context, guildID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM guilds WHERE id = $1`, guildID); err != nil {
		return fmt.Errorf("failed to delete guild %d: %w", guildID, err)
	}
	return nil
}
