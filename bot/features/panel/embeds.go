package panel

import (
	"roomrelay/bot/common"
	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
)

// View is everything needed to draw a panel
type View struct {
	State        *service.RoomState
	GuildIconURL string
	OwnerName    string
	OwnerIconURL string
}

// Build renders the panel embed and its button row
func Build(v View, buttons map[string]*Button) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	ids := layout(v)

	fields := make([]*discordgo.MessageEmbedField, 0, len(ids))
	row := make([]discordgo.MessageComponent, 0, len(ids))
	for _, id := range ids {
		b := buttons[id]
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   b.Emoji + " **" + b.Name + "**",
			Value:  valueOrDash(b.Value(v)),
			Inline: true,
		})
		row = append(row, discordgo.Button{
			Label:    b.Name,
			Style:    b.Style,
			Emoji:    &discordgo.ComponentEmoji{Name: b.Emoji},
			CustomID: b.CustomID(),
		})
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    "Room Control Panel",
			IconURL: v.GuildIconURL,
		},
		Title:  "**" + v.State.Room.Name + "**",
		Fields: fields,
	}
	if v.OwnerIconURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: v.OwnerIconURL}
	}

	if v.State.IsOwner() {
		embed.Color = common.ColorPanelOwner
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "👑 You are the owner of the room"}
	} else {
		embed.Color = common.ColorPanelMember
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "You are a member of the room"}
	}

	return embed, []discordgo.MessageComponent{discordgo.ActionsRow{Components: row}}
}

// Embed fields may not be empty
func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

// passwordModal asks the owner for a new room password
func passwordModal() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "password",
					Label:       "New password",
					Style:       discordgo.TextInputShort,
					Placeholder: "No spaces",
					Required:    true,
					MinLength:   1,
					MaxLength:   100,
				},
			},
		},
	}
}
