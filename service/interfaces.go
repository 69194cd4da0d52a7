package service

import (
	"context"

	"roomrelay/events"
	"roomrelay/models"

	"github.com/bwmarrin/discordgo"
)

// GuildRepository defines the interface for guild configuration access
type GuildRepository interface {
	// GetByID retrieves a guild's configuration, nil if it has none
	GetByID(ctx context.Context, guildID int64) (*models.Guild, error)

	// GetByRoom returns every guild bound to room except excludeGuildID
	GetByRoom(ctx context.Context, room string, excludeGuildID int64) ([]*models.Guild, error)

	// Upsert creates the guild row or refreshes its display channel
	Upsert(ctx context.Context, guild *models.Guild) error

	// SetRoom binds the guild to a room, nil unbinds it
	SetRoom(ctx context.Context, guildID int64, room *string) error

	// SetChannel moves the guild's display channel
	SetChannel(ctx context.Context, guildID int64, channelID int64) error

	// SetAbbreviation changes the tag shown in front of relayed messages
	SetAbbreviation(ctx context.Context, guildID int64, abbreviation string) error

	// SetAdminRole sets the role allowed to manage the room, nil clears it
	SetAdminRole(ctx context.Context, guildID int64, roleID *int64) error

	// Delete removes the guild's configuration
	Delete(ctx context.Context, guildID int64) error
}

// RoomRepository defines the interface for room access
type RoomRepository interface {
	// GetByName retrieves a room by name, nil if it doesn't exist
	GetByName(ctx context.Context, name string) (*models.Room, error)

	// GetByOwner retrieves the room owned by a guild, nil if none
	GetByOwner(ctx context.Context, guildID int64) (*models.Room, error)

	// Create inserts a new room
	Create(ctx context.Context, room *models.Room) error

	// UpdatePassword replaces a room's password
	UpdatePassword(ctx context.Context, name string, pass string) error

	// Delete removes a room, unbinding its members
	Delete(ctx context.Context, name string) error

	// CountMembers returns how many guilds are bound to the room
	CountMembers(ctx context.Context, name string) (int, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// Messenger is the slice of the Discord session used to deliver messages.
// *discordgo.Session satisfies it.
type Messenger interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// RoomService defines room membership and settings operations
type RoomService interface {
	// EnsureGuild creates the guild's configuration on first use
	EnsureGuild(ctx context.Context, guild GuildRef) (*models.Guild, error)

	// CreateRoom creates a room owned by the guild and binds the guild to it
	CreateRoom(ctx context.Context, guild GuildRef, name, pass string) (*models.Room, error)

	// JoinRoom binds the guild to an existing room after checking the password
	JoinRoom(ctx context.Context, guild GuildRef, name, pass string) (*models.Room, error)

	// LeaveRoom unbinds a member guild from its room and returns the room name
	LeaveRoom(ctx context.Context, guildID int64) (string, error)

	// DisbandRoom deletes the room owned by the guild
	DisbandRoom(ctx context.Context, guildID int64) (string, error)

	// ChangePassword replaces the password of the room owned by the guild
	ChangePassword(ctx context.Context, guildID int64, pass string) error

	// SetChannel moves the guild's display channel
	SetChannel(ctx context.Context, guild GuildRef) error

	// SetAbbreviation changes the guild's relay tag
	SetAbbreviation(ctx context.Context, guildID int64, abbreviation string) error

	// SetAdminRole sets or clears the guild's admin role
	SetAdminRole(ctx context.Context, guildID int64, roleID *int64) error

	// RemoveGuild forgets a guild the bot was removed from
	RemoveGuild(ctx context.Context, guildID int64) error

	// GetRoomState loads everything the control panel renders
	GetRoomState(ctx context.Context, guildID int64) (*RoomState, error)
}

// RelayService defines message relaying across a room
type RelayService interface {
	// Compile turns an inbound chat message into a transmission
	Compile(ctx context.Context, msg InboundMessage) (*Transmission, error)

	// Transmit sends payload to every guild in room except excludeGuildID
	Transmit(ctx context.Context, room string, payload *discordgo.MessageSend, excludeGuildID int64) ([]*discordgo.Message, error)

	// GuildConfig returns the guild's configuration, nil if it has none
	GuildConfig(ctx context.Context, guildID int64) (*models.Guild, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes queued events
	Commit() error

	// Rollback rolls back the transaction, a no-op after Commit
	Rollback() error

	// Repository getters
	GuildRepository() GuildRepository
	RoomRepository() RoomRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
