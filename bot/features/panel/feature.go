package panel

import (
	"context"
	"errors"

	"roomrelay/bot/common"
	"roomrelay/models"
	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
)

// Feature renders the room control panel and runs its buttons
type Feature struct {
	roomService service.RoomService
	lookupGuild func(guildID string) *discordgo.Guild
	buttons     map[string]*Button
}

// NewFeature creates a new panel feature instance
func NewFeature(session *discordgo.Session, roomService service.RoomService) *Feature {
	f := &Feature{
		roomService: roomService,
		lookupGuild: func(guildID string) *discordgo.Guild {
			return common.LookupGuild(session, guildID)
		},
	}
	f.buttons = f.newButtons()
	return f
}

// errPanelRefused is returned to members below the admin level
var errPanelRefused = common.NewUserError("Only the server owner and room admins can use this panel.", "panel used without permission")

// loadView reads the room state for guildID and resolves the Discord-side
// names and icons the panel shows
func (f *Feature) loadView(ctx context.Context, guildID int64) (View, error) {
	state, err := f.roomService.GetRoomState(ctx, guildID)
	if err != nil {
		return View{}, err
	}

	v := View{State: state, OwnerName: "Unknown"}
	if g := f.lookupGuild(common.FormatSnowflake(guildID)); g != nil {
		v.GuildIconURL = g.IconURL("")
	}
	if owner := f.lookupGuild(common.FormatSnowflake(state.Room.Owner)); owner != nil {
		v.OwnerName = owner.Name
		v.OwnerIconURL = owner.IconURL("")
	}
	return v, nil
}

// access loads the panel for guildID and checks the member may use it.
// level computes the member's permission level against the guild config.
func (f *Feature) access(ctx context.Context, guildID int64, level func(guild *models.Guild) int) (View, error) {
	v, err := f.loadView(ctx, guildID)
	if err != nil {
		return View{}, err
	}
	if level(v.State.Guild) < common.LevelAdmin {
		return View{}, errPanelRefused
	}
	return v, nil
}

// applyPassword stores pass on the guild's room. changed is false when the
// password was rejected, reply is what the member is told either way.
func (f *Feature) applyPassword(ctx context.Context, guildID int64, pass string) (reply string, changed bool, err error) {
	err = f.roomService.ChangePassword(ctx, guildID, pass)
	if errors.Is(err, service.ErrInvalidPassword) {
		return "Password cannot contain spaces.", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return "Successfully changed password.", true, nil
}

func (f *Feature) refresh(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, v View) (Outcome, string, error) {
	return OutcomeRefresh, "", nil
}

func (f *Feature) changePassword(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, v View) (Outcome, string, error) {
	if err := common.RespondWithModal(s, i, PasswordModalID, "Change room password", passwordModal()); err != nil {
		return OutcomeHandled, "", common.NewSystemError(err, "failed to open password modal")
	}
	return OutcomeHandled, "", nil
}

func (f *Feature) disband(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, v View) (Outcome, string, error) {
	room, err := f.roomService.DisbandRoom(ctx, v.State.Guild.ID)
	if err != nil {
		return OutcomeHandled, "", err
	}
	return OutcomeClosed, "Room **" + room + "** has been disbanded.", nil
}

func (f *Feature) leave(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, v View) (Outcome, string, error) {
	room, err := f.roomService.LeaveRoom(ctx, v.State.Guild.ID)
	if err != nil {
		return OutcomeHandled, "", err
	}
	return OutcomeClosed, "Left room **" + room + "**.", nil
}
