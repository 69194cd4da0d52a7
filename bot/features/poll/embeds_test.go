package poll

import (
	"testing"

	"roomrelay/bot/common"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoll(labels ...string) *Poll {
	p := New("abc", "Lunch", "lobby", labels)
	p.Initiator = "Alice#0001"
	p.GuildName = "Alpha Base"
	return p
}

func TestBallotEmbed(t *testing.T) {
	p := testPoll("pizza", "tacos")
	require.NoError(t, p.Vote("u1", 1))

	embed := BallotEmbed(p, p.Snapshot())

	assert.Equal(t, "Vote", embed.Author.Name)
	assert.Equal(t, "**Lunch**", embed.Title)
	assert.Equal(t, common.ColorBallotOpen, embed.Color)
	assert.Equal(t, "Initiated by: Alice#0001", embed.Footer.Text)
	assert.Equal(t, "Poll from: __Alpha Base__", embed.Description)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "1️⃣  pizza", embed.Fields[0].Name)
	assert.Equal(t, "*0*", embed.Fields[0].Value)
	assert.Equal(t, "2️⃣  tacos", embed.Fields[1].Name)
	assert.Equal(t, "*1*", embed.Fields[1].Value)
}

func TestBallotEmbed_Closed(t *testing.T) {
	p := testPoll("pizza")
	p.beginClose()

	embed := BallotEmbed(p, p.Snapshot())
	assert.Equal(t, common.ColorBallotClosed, embed.Color)
	assert.Equal(t, "Poll from: __Alpha Base__\nThis poll is closed.", embed.Description)
	assert.Empty(t, BallotComponents(p, p.Snapshot(), true))
}

func TestBallotComponents(t *testing.T) {
	p := testPoll("a", "b", "c", "d", "e", "f", "g")

	rows := BallotComponents(p, p.Snapshot(), false)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0].(discordgo.ActionsRow).Components, 5)
	assert.Len(t, rows[1].(discordgo.ActionsRow).Components, 2)

	first := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	assert.Equal(t, "poll_vote_abc_0", first.CustomID)

	withCancel := BallotComponents(p, p.Snapshot(), true)
	require.Len(t, withCancel, 3)
	cancel := withCancel[2].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	assert.Equal(t, "poll_cancel_abc", cancel.CustomID)
}

func TestResultsEmbed(t *testing.T) {
	tests := []struct {
		name    string
		votes   map[string]int
		outcome string
	}{
		{"single winner", map[string]int{"u1": 1, "u2": 1, "u3": 0}, "**tacos** wins with 2 votes."},
		{"tie", map[string]int{"u1": 0, "u2": 1}, "Tie between **pizza**, **tacos** with 1 vote each."},
		{"no votes", map[string]int{}, "No votes were cast."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPoll("pizza", "tacos")
			for user, choice := range tt.votes {
				require.NoError(t, p.Vote(user, choice))
			}

			embed := ResultsEmbed(p, p.Snapshot())
			assert.Equal(t, "Poll", embed.Author.Name)
			assert.Equal(t, "**The results are in!**", embed.Title)
			assert.Equal(t, common.ColorPollResults, embed.Color)
			assert.Equal(t, "**Lunch**", embed.Description)
			require.Len(t, embed.Fields, 3)
			assert.Equal(t, "Outcome", embed.Fields[2].Name)
			assert.Equal(t, tt.outcome, embed.Fields[2].Value)
		})
	}
}
