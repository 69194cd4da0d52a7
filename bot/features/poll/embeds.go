package poll

import (
	"fmt"
	"strings"

	"roomrelay/bot/common"

	"github.com/bwmarrin/discordgo"
)

const (
	votePrefix   = "poll_vote_"
	cancelPrefix = "poll_cancel_"
)

// VoteCustomID is the custom id of the button for choice index of a poll
func VoteCustomID(pollID string, index int) string {
	return fmt.Sprintf("%s%s_%d", votePrefix, pollID, index)
}

// CancelCustomID is the custom id of a poll's cancel button
func CancelCustomID(pollID string) string {
	return cancelPrefix + pollID
}

// BallotEmbed renders the live tally. Closed and closing polls render red
// with no countdown.
func BallotEmbed(p *Poll, snap Snapshot) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(snap.Choices))
	for i, choice := range snap.Choices {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   common.Keycap(i) + "  " + choice.Label,
			Value:  fmt.Sprintf("*%d*", choice.Votes),
			Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    "Vote",
			IconURL: p.GuildIconURL,
		},
		Title:  "**" + p.Name + "**",
		Color:  common.ColorBallotOpen,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Initiated by: " + p.Initiator,
		},
	}

	lines := []string{"Poll from: __" + p.GuildName + "__"}
	if snap.State == StateOpen {
		if !p.ClosesAt.IsZero() {
			lines = append(lines, "Closes "+common.FormatDiscordTimestamp(p.ClosesAt, "R"))
		}
	} else {
		embed.Color = common.ColorBallotClosed
		lines = append(lines, "This poll is closed.")
	}
	embed.Description = strings.Join(lines, "\n")

	return embed
}

// BallotComponents builds the vote buttons. The cancel button only goes on
// the origin guild's copy. Closed polls get no components.
func BallotComponents(p *Poll, snap Snapshot, withCancel bool) []discordgo.MessageComponent {
	if snap.State != StateOpen {
		return []discordgo.MessageComponent{}
	}

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for i := range snap.Choices {
		row = append(row, discordgo.Button{
			Style:    discordgo.SecondaryButton,
			Emoji:    &discordgo.ComponentEmoji{Name: common.Keycap(i)},
			CustomID: VoteCustomID(p.ID, i),
		})
		if len(row) == common.MaxButtonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}

	if withCancel {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Close poll",
					Style:    discordgo.DangerButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "❌"},
					CustomID: CancelCustomID(p.ID),
				},
			},
		})
	}

	return rows
}

// ResultsEmbed announces the final tally to the room
func ResultsEmbed(p *Poll, snap Snapshot) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(snap.Choices))
	for i, choice := range snap.Choices {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   common.Keycap(i) + "  " + choice.Label,
			Value:  fmt.Sprintf("*%s*", common.Plural(choice.Votes, "vote", "votes")),
			Inline: true,
		})
	}

	fields = append(fields, &discordgo.MessageEmbedField{
		Name:  "Outcome",
		Value: summarize(snap),
	})

	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    "Poll",
			IconURL: p.GuildIconURL,
		},
		Title:       "**The results are in!**",
		Description: "**" + p.Name + "**",
		Color:       common.ColorPollResults,
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Initiated by: " + p.Initiator,
		},
	}
}

// summarize names the winning choice, or every choice sharing the top count
func summarize(snap Snapshot) string {
	best := 0
	for _, choice := range snap.Choices {
		best = max(best, choice.Votes)
	}
	if best == 0 {
		return "No votes were cast."
	}

	var winners []string
	for _, choice := range snap.Choices {
		if choice.Votes == best {
			winners = append(winners, "**"+choice.Label+"**")
		}
	}

	votes := common.Plural(best, "vote", "votes")
	if len(winners) == 1 {
		return fmt.Sprintf("%s wins with %s.", winners[0], votes)
	}
	return fmt.Sprintf("Tie between %s with %s each.", strings.Join(winners, ", "), votes)
}

func ballotMessage(p *Poll, snap Snapshot, withCancel bool) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{BallotEmbed(p, snap)},
		Components: BallotComponents(p, snap, withCancel),
	}
}

func resultsMessage(p *Poll, snap Snapshot) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{ResultsEmbed(p, snap)},
	}
}
