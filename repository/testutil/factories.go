package testutil

import (
	"roomrelay/models"
)

// CreateTestGuild creates a guild config without a room
func CreateTestGuild(id, channel int64, abbreviation string) *models.Guild {
	return &models.Guild{
		ID:           id,
		Channel:      channel,
		Abbreviation: abbreviation,
	}
}

// CreateTestRoom creates a room owned by the given guild
func CreateTestRoom(name string, owner int64) *models.Room {
	return &models.Room{
		Name:  name,
		Owner: owner,
		Pass:  "secret",
	}
}
