package common

import (
	"fmt"
	"strconv"

	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ParseSnowflake converts a Discord ID string to int64
func ParseSnowflake(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// FormatSnowflake converts an int64 Discord ID to string
func FormatSnowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}

// UserTag renders a user the way relayed messages credit them. Accounts
// migrated off discriminators keep just their username.
func UserTag(u *discordgo.User) string {
	if u == nil {
		return "Unknown"
	}
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// InteractionUser returns whoever triggered the interaction
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionUserID returns the ID of whoever triggered the interaction
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if u := InteractionUser(i); u != nil {
		return u.ID
	}
	return ""
}

// GuildName looks the guild's name up in the state cache, falling back to the API
func GuildName(s *discordgo.Session, guildID string) string {
	if guild := LookupGuild(s, guildID); guild != nil {
		return guild.Name
	}
	return "Unknown"
}

// LookupGuild returns the guild from the state cache or the API, nil if both fail
func LookupGuild(s *discordgo.Session, guildID string) *discordgo.Guild {
	if guild, err := s.State.Guild(guildID); err == nil {
		return guild
	}
	guild, err := s.Guild(guildID)
	if err != nil {
		log.WithFields(log.Fields{
			"guildID": guildID,
			"error":   err,
		}).Warn("Failed to look up guild")
		return nil
	}
	return guild
}

// GuildRefFromInteraction identifies the guild and channel an interaction came from
func GuildRefFromInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) (service.GuildRef, error) {
	guildID, err := ParseSnowflake(i.GuildID)
	if err != nil {
		return service.GuildRef{}, fmt.Errorf("invalid guild ID %q: %w", i.GuildID, err)
	}
	channelID, err := ParseSnowflake(i.ChannelID)
	if err != nil {
		return service.GuildRef{}, fmt.Errorf("invalid channel ID %q: %w", i.ChannelID, err)
	}
	return service.GuildRef{
		ID:        guildID,
		ChannelID: channelID,
		Name:      GuildName(s, i.GuildID),
	}, nil
}
