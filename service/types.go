package service

import "roomrelay/models"

// GuildRef identifies the guild and channel a command was invoked from
type GuildRef struct {
	ID        int64
	ChannelID int64
	Name      string
}

// RoomState is the persisted data behind a control panel
type RoomState struct {
	Room        *models.Room
	Guild       *models.Guild
	MemberCount int
}

// IsOwner reports whether the viewing guild owns the room
func (s *RoomState) IsOwner() bool {
	return s.Room.IsOwnedBy(s.Guild.ID)
}

// InboundMessage is a chat message that may need relaying
type InboundMessage struct {
	GuildID        int64
	ChannelID      int64
	AuthorTag      string // e.g. Alice#0001
	Content        string
	AttachmentURLs []string
}

// Transmission is a compiled message ready to fan out across a room
type Transmission struct {
	Room           string
	Content        string
	ExcludeGuildID int64
}
