package panel

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// customIDPrefix marks every panel component
const customIDPrefix = "panel_"

// PasswordModalID is the custom id of the change-password modal
const PasswordModalID = customIDPrefix + "password_modal"

// Outcome is what a button press did to the room
type Outcome int

const (
	OutcomeRefresh Outcome = iota // rebuild the panel from storage
	OutcomeClosed                 // the room is gone from this guild's view
	OutcomeHandled                // the action already responded
)

// Action runs a button press. message is shown in place of the panel when
// the outcome is OutcomeClosed.
type Action func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, v View) (outcome Outcome, message string, err error)

// Button is one panel control
type Button struct {
	ID    string
	Name  string
	Emoji string
	Style discordgo.ButtonStyle
	Value func(v View) string
	Run   Action
}

// CustomID is the component custom id for the button
func (b *Button) CustomID() string {
	return customIDPrefix + b.ID
}

// buttonID strips the panel prefix from a component custom id
func buttonID(customID string) (string, bool) {
	if !strings.HasPrefix(customID, customIDPrefix) {
		return "", false
	}
	return strings.TrimPrefix(customID, customIDPrefix), true
}

// buttons builds the lookup of every panel button. Owner and member panels
// draw their rows from it by id.
func (f *Feature) newButtons() map[string]*Button {
	return map[string]*Button{
		"password": {
			ID:    "password",
			Name:  "Password",
			Emoji: "🔑",
			Style: discordgo.PrimaryButton,
			Value: func(v View) string {
				return strings.Repeat("•", len([]rune(v.State.Room.Pass)))
			},
			Run: f.changePassword,
		},
		"members": {
			ID:    "members",
			Name:  "Members",
			Emoji: "👥",
			Style: discordgo.SecondaryButton,
			Value: func(v View) string {
				return strconv.Itoa(v.State.MemberCount)
			},
			Run: f.refresh,
		},
		"disband": {
			ID:    "disband",
			Name:  "Disband",
			Emoji: "💣",
			Style: discordgo.DangerButton,
			Value: func(View) string {
				return "Delete the room"
			},
			Run: f.disband,
		},
		"owner": {
			ID:    "owner",
			Name:  "Owner",
			Emoji: "👑",
			Style: discordgo.SecondaryButton,
			Value: func(v View) string {
				return v.OwnerName
			},
			Run: f.refresh,
		},
		"leave": {
			ID:    "leave",
			Name:  "Leave",
			Emoji: "🚪",
			Style: discordgo.DangerButton,
			Value: func(View) string {
				return "Leave the room"
			},
			Run: f.leave,
		},
	}
}

// Button layouts per viewer
var (
	ownerLayout  = []string{"password", "members", "disband"}
	memberLayout = []string{"owner", "members", "leave"}
)

// layout returns the button ids shown to the viewing guild
func layout(v View) []string {
	if v.State.IsOwner() {
		return ownerLayout
	}
	return memberLayout
}
