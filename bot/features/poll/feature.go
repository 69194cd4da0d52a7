package poll

import (
	"context"
	"errors"
	"time"

	"roomrelay/bot/common"
	"roomrelay/models"
	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Feature handles room-wide polls
type Feature struct {
	session        *discordgo.Session
	relayService   service.RelayService
	tracker        *Tracker
	defaultTimeout time.Duration
}

// NewFeature creates a new poll feature instance
func NewFeature(session *discordgo.Session, relayService service.RelayService, tracker *Tracker, defaultTimeout time.Duration) *Feature {
	return &Feature{
		session:        session,
		relayService:   relayService,
		tracker:        tracker,
		defaultTimeout: defaultTimeout,
	}
}

// Tracker exposes the running polls
func (f *Feature) Tracker() *Tracker {
	return f.tracker
}

// origin describes where a poll command came from
type origin struct {
	guildID   string
	guild     *models.Guild
	level     int
	initiator string
}

// startPoll checks the caller may run a poll and posts it across the room
func (f *Feature) startPoll(ctx context.Context, o origin, req Request) error {
	if o.level < common.LevelAdmin {
		return common.NewUserError("You need the room admin role to start a poll.", "poll by non-admin")
	}
	if o.guild == nil || !o.guild.InRoom() {
		return service.ErrNotInRoom
	}

	p := New(uuid.NewString(), req.Name, o.guild.RoomName(), req.Choices)
	p.OriginGuildID = o.guild.ID
	p.OriginChannel = o.guild.Channel
	p.Initiator = o.initiator
	if g := common.LookupGuild(f.session, o.guildID); g != nil {
		p.GuildName = g.Name
		p.GuildIconURL = g.IconURL("")
	}

	err := f.tracker.Start(ctx, p, req.Timeout)
	if errors.Is(err, ErrTrackerClosed) {
		return common.NewUserError("The bot is shutting down, try again in a moment.", "poll during shutdown")
	}
	if err != nil {
		return common.NewSystemError(err, "failed to post ballot")
	}
	return nil
}
