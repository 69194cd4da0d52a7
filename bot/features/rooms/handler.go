package rooms

import (
	"context"
	"fmt"

	"roomrelay/bot/common"

	"github.com/bwmarrin/discordgo"
)

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := options[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// requireLevel responds with a refusal and returns false when the member is
// below level
func (f *Feature) requireLevel(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, level int) bool {
	guild, err := f.relayService.GuildConfig(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load guild"), "room")
		return false
	}
	if common.InteractionLevel(s, i, guild) < level {
		common.RespondWithError(s, i, "You need the room admin role to use this command.")
		return false
	}
	return true
}

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	ref, err := common.GuildRefFromInteraction(s, i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "invalid interaction"), "room_create")
		return
	}
	if !f.requireLevel(ctx, s, i, ref.ID, common.LevelAdmin) {
		return
	}

	opts := optionMap(options)
	room, err := f.roomService.CreateRoom(ctx, ref, stringOption(opts, "name"), stringOption(opts, "password"))
	if err != nil {
		common.HandleError(s, i, err, "room_create")
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Created room **%s**. Messages in this channel are now relayed.", room.Name), false)
}

func (f *Feature) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	ref, err := common.GuildRefFromInteraction(s, i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "invalid interaction"), "room_join")
		return
	}
	if !f.requireLevel(ctx, s, i, ref.ID, common.LevelAdmin) {
		return
	}

	opts := optionMap(options)
	room, err := f.roomService.JoinRoom(ctx, ref, stringOption(opts, "name"), stringOption(opts, "password"))
	if err != nil {
		common.HandleError(s, i, err, "room_join")
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Joined room **%s**. Messages in this channel are now relayed.", room.Name), false)
}

func (f *Feature) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "invalid guild ID"), "room_leave")
		return
	}
	if !f.requireLevel(ctx, s, i, guildID, common.LevelAdmin) {
		return
	}

	room, err := f.roomService.LeaveRoom(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, err, "room_leave")
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Left room **%s**.", room), false)
}

func (f *Feature) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	ref, err := common.GuildRefFromInteraction(s, i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "invalid interaction"), "room_channel")
		return
	}
	if !f.requireLevel(ctx, s, i, ref.ID, common.LevelAdmin) {
		return
	}

	if err := f.roomService.SetChannel(ctx, ref); err != nil {
		common.HandleError(s, i, err, "room_channel")
		return
	}

	common.RespondWithSuccess(s, i, "This channel is now the display channel for relayed messages.", false)
}

func (f *Feature) handleAbbreviation(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	ref, err := common.GuildRefFromInteraction(s, i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "invalid interaction"), "room_abbreviation")
		return
	}
	if !f.requireLevel(ctx, s, i, ref.ID, common.LevelAdmin) {
		return
	}
	if _, err := f.roomService.EnsureGuild(ctx, ref); err != nil {
		common.HandleError(s, i, err, "room_abbreviation")
		return
	}

	value := stringOption(optionMap(options), "value")
	if err := f.roomService.SetAbbreviation(ctx, ref.ID, value); err != nil {
		common.HandleError(s, i, err, "room_abbreviation")
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Relayed messages from this server are now tagged *%s*.", value), true)
}

func (f *Feature) handleAdminRole(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	ref, err := common.GuildRefFromInteraction(s, i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "invalid interaction"), "room_adminrole")
		return
	}

	// The admin role cannot grant itself: only the guild owner and
	// Discord administrators may change it
	if common.InteractionLevel(s, i, nil) < common.LevelAdmin {
		common.RespondWithError(s, i, "You need administrator permissions to change the room admin role.")
		return
	}

	var roleID *int64
	if opt, ok := optionMap(options)["role"]; ok {
		role := opt.RoleValue(s, i.GuildID)
		id, err := common.ParseSnowflake(role.ID)
		if err != nil {
			common.RespondWithError(s, i, "Invalid role selected.")
			return
		}
		roleID = &id
	}

	if _, err := f.roomService.EnsureGuild(ctx, ref); err != nil {
		common.HandleError(s, i, err, "room_adminrole")
		return
	}
	if err := f.roomService.SetAdminRole(ctx, ref.ID, roleID); err != nil {
		common.HandleError(s, i, err, "room_adminrole")
		return
	}

	if roleID != nil {
		common.RespondWithSuccess(s, i, fmt.Sprintf("Room admin role set to <@&%d>.", *roleID), true)
	} else {
		common.RespondWithSuccess(s, i, "Room admin role cleared.", true)
	}
}
