package panel

import (
	"testing"

	"roomrelay/bot/common"
	"roomrelay/models"
	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testView(viewerID int64) View {
	return View{
		State: &service.RoomState{
			Room:        &models.Room{Name: "lobby", Owner: 1, Pass: "hunter2"},
			Guild:       &models.Guild{ID: viewerID, Channel: 10, Abbreviation: "AB"},
			MemberCount: 3,
		},
		GuildIconURL: "https://cdn.example/viewer.png",
		OwnerName:    "Alpha Base",
		OwnerIconURL: "https://cdn.example/owner.png",
	}
}

func fieldNames(embed *discordgo.MessageEmbed) []string {
	var names []string
	for _, field := range embed.Fields {
		names = append(names, field.Name)
	}
	return names
}

func TestBuild_Owner(t *testing.T) {
	f := &Feature{}
	f.buttons = f.newButtons()

	embed, components := Build(testView(1), f.buttons)

	assert.Equal(t, "Room Control Panel", embed.Author.Name)
	assert.Equal(t, "**lobby**", embed.Title)
	assert.Equal(t, common.ColorPanelOwner, embed.Color)
	assert.Equal(t, "https://cdn.example/owner.png", embed.Thumbnail.URL)
	assert.Equal(t, "👑 You are the owner of the room", embed.Footer.Text)
	assert.Equal(t, []string{"🔑 **Password**", "👥 **Members**", "💣 **Disband**"}, fieldNames(embed))
	assert.Equal(t, "•••••••", embed.Fields[0].Value)
	assert.Equal(t, "3", embed.Fields[1].Value)

	require.Len(t, components, 1)
	row := components[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 3)
	assert.Equal(t, "panel_password", row.Components[0].(discordgo.Button).CustomID)
	assert.Equal(t, "panel_disband", row.Components[2].(discordgo.Button).CustomID)
}

func TestBuild_Member(t *testing.T) {
	f := &Feature{}
	f.buttons = f.newButtons()

	embed, components := Build(testView(2), f.buttons)

	assert.Equal(t, common.ColorPanelMember, embed.Color)
	assert.Equal(t, "You are a member of the room", embed.Footer.Text)
	assert.Equal(t, []string{"👑 **Owner**", "👥 **Members**", "🚪 **Leave**"}, fieldNames(embed))
	assert.Equal(t, "Alpha Base", embed.Fields[0].Value)

	row := components[0].(discordgo.ActionsRow)
	assert.Equal(t, "panel_leave", row.Components[2].(discordgo.Button).CustomID)
	for _, field := range embed.Fields {
		assert.NotContains(t, field.Value, "hunter2")
	}
}

func TestBuild_NoOwnerIcon(t *testing.T) {
	f := &Feature{}
	f.buttons = f.newButtons()

	v := testView(2)
	v.OwnerIconURL = ""
	v.OwnerName = ""

	embed, _ := Build(v, f.buttons)
	assert.Nil(t, embed.Thumbnail)
	assert.Equal(t, "-", embed.Fields[0].Value)
}

func TestButtonLookup(t *testing.T) {
	f := &Feature{}
	f.buttons = f.newButtons()

	for _, id := range append(ownerLayout, memberLayout...) {
		b, ok := f.buttons[id]
		require.True(t, ok, id)
		assert.Equal(t, "panel_"+id, b.CustomID())
		assert.NotNil(t, b.Run, id)

		parsed, ok := buttonID(b.CustomID())
		assert.True(t, ok)
		assert.Equal(t, id, parsed)
	}

	_, ok := buttonID("poll_vote_x_1")
	assert.False(t, ok)
}
