package rooms

import (
	"roomrelay/bot/features/panel"
	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles room membership and guild settings commands
type Feature struct {
	session      *discordgo.Session
	roomService  service.RoomService
	relayService service.RelayService
	panel        *panel.Feature
}

// NewFeature creates a new rooms feature instance
func NewFeature(session *discordgo.Session, roomService service.RoomService, relayService service.RelayService, panel *panel.Feature) *Feature {
	return &Feature{
		session:      session,
		roomService:  roomService,
		relayService: relayService,
		panel:        panel,
	}
}

// HandleCommand routes /room subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "create":
		f.handleCreate(s, i, options[0].Options)
	case "join":
		f.handleJoin(s, i, options[0].Options)
	case "leave":
		f.handleLeave(s, i)
	case "panel":
		f.panel.Open(s, i)
	case "channel":
		f.handleChannel(s, i)
	case "abbreviation":
		f.handleAbbreviation(s, i, options[0].Options)
	case "adminrole":
		f.handleAdminRole(s, i, options[0].Options)
	}
}
