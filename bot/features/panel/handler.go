package panel

import (
	"context"
	"errors"
	"slices"

	"roomrelay/bot/common"
	"roomrelay/models"
	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Open handles /room panel
func (f *Feature) Open(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "invalid guild ID"), "panel")
		return
	}

	v, err := f.loadView(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, err, "panel")
		return
	}

	embed, components := Build(v, f.buttons)
	if err := common.RespondWithEmbed(s, i, embed, components, false); err != nil {
		log.Errorf("Failed to send control panel: %v", err)
	}
}

// HandleInteraction handles panel buttons and the password modal
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		f.handleButton(s, i)
	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == PasswordModalID {
			f.handlePasswordModal(s, i)
		}
	}
}

// authorize loads the panel view and checks the member may use it. It
// responds to the interaction itself when the answer is no.
func (f *Feature) authorize(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (View, bool) {
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "invalid guild ID"), "panel")
		return View{}, false
	}

	v, err := f.access(ctx, guildID, func(guild *models.Guild) int {
		return common.InteractionLevel(s, i, guild)
	})
	if errors.Is(err, service.ErrNotInRoom) && i.Type == discordgo.InteractionMessageComponent {
		if err := common.UpdateComponentMessage(s, i, "`You are not currently in a room`", nil, nil); err != nil {
			log.Errorf("Failed to retire stale panel: %v", err)
		}
		return View{}, false
	}
	if err != nil {
		common.HandleError(s, i, err, "panel")
		return View{}, false
	}
	return v, true
}

func (f *Feature) handleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	id, ok := buttonID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	b, ok := f.buttons[id]
	if !ok {
		log.Warnf("Unknown panel button %q", id)
		return
	}

	v, ok := f.authorize(ctx, s, i)
	if !ok {
		return
	}

	// Ownership may have changed since the panel was drawn
	if !slices.Contains(layout(v), id) {
		f.redraw(s, i, v)
		return
	}

	outcome, message, err := b.Run(ctx, s, i, v)
	if err != nil {
		common.HandleError(s, i, err, "panel_"+id)
		return
	}

	switch outcome {
	case OutcomeRefresh:
		v, err = f.loadView(ctx, v.State.Guild.ID)
		if err != nil {
			common.HandleError(s, i, err, "panel_"+id)
			return
		}
		f.redraw(s, i, v)
	case OutcomeClosed:
		if err := common.UpdateComponentMessage(s, i, message, nil, nil); err != nil {
			log.Errorf("Failed to close control panel: %v", err)
		}
	}
}

// redraw replaces the clicked panel with a fresh render of v
func (f *Feature) redraw(s *discordgo.Session, i *discordgo.InteractionCreate, v View) {
	embed, components := Build(v, f.buttons)
	if err := common.UpdateComponentMessage(s, i, "", embed, components); err != nil {
		log.Errorf("Failed to update control panel: %v", err)
	}
}

func (f *Feature) handlePasswordModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	v, ok := f.authorize(ctx, s, i)
	if !ok {
		return
	}

	pass := passwordInput(i.ModalSubmitData())
	reply, changed, err := f.applyPassword(ctx, v.State.Guild.ID, pass)
	if err != nil {
		common.HandleError(s, i, err, "panel_password")
		return
	}

	common.RespondWithMessage(s, i, reply, true)
	if !changed || i.Message == nil {
		return
	}
	v, err = f.loadView(ctx, v.State.Guild.ID)
	if err != nil {
		log.Errorf("Failed to reload panel after password change: %v", err)
		return
	}
	embed, components := Build(v, f.buttons)
	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    i.Message.ChannelID,
		ID:         i.Message.ID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		log.Errorf("Failed to update control panel: %v", err)
	}
}

// passwordInput reads the password field out of a submitted modal
func passwordInput(data discordgo.ModalSubmitInteractionData) string {
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok && input.CustomID == "password" {
				return input.Value
			}
		}
	}
	return ""
}
