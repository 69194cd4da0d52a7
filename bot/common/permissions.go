package common

import (
	"slices"

	"roomrelay/models"

	"github.com/bwmarrin/discordgo"
)

// Permission levels for room management
const (
	LevelMember = 0 // any guild member
	LevelAdmin  = 1 // holds the guild's admin role or the Administrator permission
	LevelOwner  = 2 // owns the Discord guild
)

// Actor is the member whose permission level is being computed
type Actor struct {
	UserID      string
	Roles       []string
	Permissions int64
}

// PermissionLevel computes what the actor may do in a guild owned by
// guildOwnerID. guild may be nil for a guild that was never set up.
func PermissionLevel(actor Actor, guildOwnerID string, guild *models.Guild) int {
	if actor.UserID != "" && actor.UserID == guildOwnerID {
		return LevelOwner
	}
	if actor.Permissions&discordgo.PermissionAdministrator != 0 {
		return LevelAdmin
	}
	if guild != nil && guild.AdminRole != nil {
		if slices.Contains(actor.Roles, FormatSnowflake(*guild.AdminRole)) {
			return LevelAdmin
		}
	}
	return LevelMember
}

// InteractionLevel computes the permission level of the member behind an interaction
func InteractionLevel(s *discordgo.Session, i *discordgo.InteractionCreate, guild *models.Guild) int {
	if i.Member == nil || i.Member.User == nil {
		return LevelMember
	}
	ownerID := ""
	if g := LookupGuild(s, i.GuildID); g != nil {
		ownerID = g.OwnerID
	}
	return PermissionLevel(Actor{
		UserID:      i.Member.User.ID,
		Roles:       i.Member.Roles,
		Permissions: i.Member.Permissions,
	}, ownerID, guild)
}

// MessageLevel computes the permission level of a message author. Message
// events carry no computed permissions, so they are resolved from state.
func MessageLevel(s *discordgo.Session, m *discordgo.MessageCreate, guild *models.Guild) int {
	if m.Author == nil {
		return LevelMember
	}
	ownerID := ""
	if g := LookupGuild(s, m.GuildID); g != nil {
		ownerID = g.OwnerID
	}
	actor := Actor{UserID: m.Author.ID}
	if m.Member != nil {
		actor.Roles = m.Member.Roles
	}
	if perms, err := s.State.UserChannelPermissions(m.Author.ID, m.ChannelID); err == nil {
		actor.Permissions = perms
	}
	return PermissionLevel(actor, ownerID, guild)
}
