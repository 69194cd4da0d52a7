package bot

import (
	"fmt"
	"strings"

	"roomrelay/bot/features/poll"

	"github.com/bwmarrin/discordgo"
)

// Commands returns every slash command the bot registers
func Commands() []*discordgo.ApplicationCommand {
	minTimeout := float64(1)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "room",
			Description: "Create, join and manage relay rooms",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a room owned by this server",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Room name",
							Required:    true,
							MaxLength:   100,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "password",
							Description: "Password other servers need to join (no spaces)",
							Required:    true,
							MaxLength:   100,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join an existing room",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Room name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "password",
							Description: "Room password",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Leave the current room",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "panel",
					Description: "Open the room control panel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Relay the room in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "abbreviation",
					Description: "Set the tag shown in front of this server's messages",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "value",
							Description: "New tag",
							Required:    true,
							MaxLength:   20,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "adminrole",
					Description: "Set or clear the role allowed to manage the room",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Admin role (omit to clear)",
							Required:    false,
						},
					},
				},
			},
		},
		{
			Name:        "poll",
			Description: "Run a poll across every server in the room",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "What the poll is about",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "choices",
					Description: "Up to 9 choices separated by spaces",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "timeout",
					Description: "Minutes until the poll closes",
					Required:    false,
					MinValue:    &minTimeout,
					MaxValue:    float64(poll.MaxTimeoutMinutes),
				},
			},
		},
	}
}

// CommandList renders one line per invocable command, subcommands expanded
func CommandList() []string {
	var lines []string
	for _, cmd := range Commands() {
		var subcommands []*discordgo.ApplicationCommandOption
		for _, opt := range cmd.Options {
			if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
				subcommands = append(subcommands, opt)
			}
		}

		if len(subcommands) == 0 {
			lines = append(lines, commandLine("/"+cmd.Name, cmd.Options, cmd.Description))
			continue
		}
		for _, sub := range subcommands {
			lines = append(lines, commandLine("/"+cmd.Name+" "+sub.Name, sub.Options, sub.Description))
		}
	}
	return lines
}

func commandLine(usage string, options []*discordgo.ApplicationCommandOption, description string) string {
	parts := []string{usage}
	for _, opt := range options {
		if opt.Required {
			parts = append(parts, "<"+opt.Name+">")
		} else {
			parts = append(parts, "["+opt.Name+"]")
		}
	}
	return fmt.Sprintf("`%s` - %s", strings.Join(parts, " "), description)
}
