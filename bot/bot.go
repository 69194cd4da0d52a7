package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roomrelay/bot/common"
	"roomrelay/bot/features/panel"
	"roomrelay/bot/features/poll"
	"roomrelay/bot/features/relay"
	"roomrelay/bot/features/rooms"
	"roomrelay/events"
	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	CommandPrefix       string
	PollRefreshInterval time.Duration
	PollDefaultTimeout  time.Duration
}

type Bot struct {
	config       Config
	session      *discordgo.Session
	roomService  service.RoomService
	relayService service.RelayService
	eventBus     *events.Bus

	rooms *rooms.Feature
	panel *panel.Feature
	poll  *poll.Feature
	relay *relay.Feature
}

// NewSession creates the Discord session. It is not connected until New
// opens it, so services can be handed the session first.
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return dg, nil
}

// New wires the features onto dg and connects to Discord
func New(config Config, dg *discordgo.Session, roomService service.RoomService, relayService service.RelayService, eventBus *events.Bus) (*Bot, error) {
	tracker := poll.NewTracker(relayService, dg, eventBus, config.PollRefreshInterval)
	panelFeature := panel.NewFeature(dg, roomService)

	bot := &Bot{
		config:       config,
		session:      dg,
		roomService:  roomService,
		relayService: relayService,
		eventBus:     eventBus,
		rooms:        rooms.NewFeature(dg, roomService, relayService, panelFeature),
		panel:        panelFeature,
		poll:         poll.NewFeature(dg, relayService, tracker, config.PollDefaultTimeout),
		relay:        relay.NewFeature(relayService),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component and modal handlers
	dg.AddHandler(bot.handleInteractions)

	// Register gateway event handlers
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleGuildDelete)

	// Announce membership changes to the affected rooms
	bot.registerSubscriptions()

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close ends every open poll and disconnects from Discord
func (b *Bot) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	b.poll.Tracker().Shutdown(ctx)

	return b.session.Close()
}

func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("error creating command %s: %w", cmd.Name, err)
		}
	}

	log.Info("Slash commands registered successfully")
	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.GuildID == "" {
		common.RespondWithError(s, i, "Rooms only work inside a server.")
		return
	}

	switch i.ApplicationCommandData().Name {
	case "room":
		b.rooms.HandleCommand(s, i)
	case "poll":
		b.poll.HandleCommand(s, i)
	}
}

// handleInteractions routes component clicks and modal submissions by custom id prefix
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var customID string
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		customID = i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		customID = i.ModalSubmitData().CustomID
	default:
		return
	}

	switch {
	case strings.HasPrefix(customID, "panel_"):
		b.panel.HandleInteraction(s, i)
	case strings.HasPrefix(customID, "poll_") && i.Type == discordgo.InteractionMessageComponent:
		b.poll.HandleInteraction(s, i)
	}
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	if s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	if args, ok := textCommand(m.Content, b.config.CommandPrefix, "poll"); ok {
		b.poll.HandleTextCommand(s, m, args)
		return
	}

	b.relay.HandleMessage(s, m)
}

// textCommand reports whether content invokes name with prefix and returns its arguments
func textCommand(content, prefix, name string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(content, prefix+name)
	if !ok {
		return "", false
	}
	if rest != "" && rest[0] != ' ' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// handleGuildDelete forgets guilds the bot was removed from. Outages also
// deliver GuildDelete, flagged unavailable, and are ignored.
func (b *Bot) handleGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return
	}

	guildID, err := common.ParseSnowflake(g.ID)
	if err != nil {
		return
	}

	if err := b.roomService.RemoveGuild(context.Background(), guildID); err != nil {
		log.WithFields(log.Fields{
			"guildID": guildID,
			"error":   err,
		}).Error("Failed to remove guild")
		return
	}

	log.WithField("guildID", guildID).Info("Removed guild after the bot left it")
}
