package models

import (
	"errors"
	"strings"
	"time"
)

// ErrDuplicateRoom is returned when a room name or owner is already taken
var ErrDuplicateRoom = errors.New("room already exists")

// Room is a named relay group linking the display channels of several guilds
type Room struct {
	Name      string    `db:"name"`
	Owner     int64     `db:"owner"` // Guild that created the room
	Pass      string    `db:"pass"`
	CreatedAt time.Time `db:"created_at"`
}

// IsOwnedBy reports whether guildID created the room
func (r *Room) IsOwnedBy(guildID int64) bool {
	return r.Owner == guildID
}

// ValidPassword reports whether pass can be stored as a room password
func ValidPassword(pass string) bool {
	return pass != "" && !strings.ContainsAny(pass, " \t\n")
}
