package models

import (
	"strings"
	"time"
)

// Guild is the per-guild relay configuration
type Guild struct {
	ID           int64     `db:"id"`
	Channel      int64     `db:"channel"` // Display channel relayed messages go to and come from
	Room         *string   `db:"room"`    // Name of the joined room, nil when not in one
	Abbreviation string    `db:"abbreviation"`
	AdminRole    *int64    `db:"admin_role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// InRoom reports whether the guild is bound to a room
func (g *Guild) InRoom() bool {
	return g.Room != nil && *g.Room != ""
}

// RoomName returns the joined room name or an empty string
func (g *Guild) RoomName() string {
	if g.Room == nil {
		return ""
	}
	return *g.Room
}

// MaxAbbreviationLength bounds both generated and user supplied abbreviations
const MaxAbbreviationLength = 20

// Abbreviate builds the default abbreviation from the first letter of each word
func Abbreviate(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		b.WriteRune(r[0])
	}

	abbr := []rune(b.String())
	if len(abbr) > MaxAbbreviationLength {
		abbr = abbr[:MaxAbbreviationLength]
	}
	return string(abbr)
}
