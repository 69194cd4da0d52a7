package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"roomrelay/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// OwnerMarker prefixes messages relayed from the room's owning guild
const OwnerMarker = "👑 "

// relayService implements the RelayService interface. It only reads, so it
// works against the pool directly instead of a unit of work.
type relayService struct {
	guildRepo   GuildRepository
	roomRepo    RoomRepository
	messenger   Messenger
	concurrency int
}

// NewRelayService creates a new relay service. concurrency bounds how many
// channel sends a single transmission runs at once.
func NewRelayService(guildRepo GuildRepository, roomRepo RoomRepository, messenger Messenger, concurrency int) RelayService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &relayService{
		guildRepo:   guildRepo,
		roomRepo:    roomRepo,
		messenger:   messenger,
		concurrency: concurrency,
	}
}

// Compile builds the relayed text for msg. It fails with ErrNotInRoom when
// the guild has no room or msg was not posted in the display channel, and
// with ErrMessageTooLong when the result would exceed MaxRelayLength.
func (s *relayService) Compile(ctx context.Context, msg InboundMessage) (*Transmission, error) {
	guild, err := s.guildRepo.GetByID(ctx, msg.GuildID)
	if err != nil {
		return nil, err
	}
	if guild == nil || !guild.InRoom() || guild.Channel != msg.ChannelID {
		return nil, ErrNotInRoom
	}

	room, err := s.roomRepo.GetByName(ctx, guild.RoomName())
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrNotInRoom
	}

	var b strings.Builder
	if room.IsOwnedBy(msg.GuildID) {
		b.WriteString(OwnerMarker)
	}
	b.WriteString("*" + guild.Abbreviation + "* **" + msg.AuthorTag + "**")
	if msg.Content != "" {
		b.WriteString(" " + msg.Content)
	}
	for _, url := range msg.AttachmentURLs {
		b.WriteString("\n" + url)
	}

	content := b.String()
	if utf8.RuneCountInString(content) > MaxRelayLength {
		return nil, ErrMessageTooLong
	}

	return &Transmission{
		Room:           room.Name,
		Content:        content,
		ExcludeGuildID: msg.GuildID,
	}, nil
}

// Transmit sends payload to the display channel of every guild in room
// except excludeGuildID. A failed send is logged and skipped so one broken
// channel never blocks the rest of the room. The returned messages are in
// recipient order; nil means nobody received anything.
func (s *relayService) Transmit(ctx context.Context, room string, payload *discordgo.MessageSend, excludeGuildID int64) ([]*discordgo.Message, error) {
	recipients, err := s.guildRepo.GetByRoom(ctx, room, excludeGuildID)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, nil
	}

	// Each goroutine owns one slot so no locking is needed
	sent := make([]*discordgo.Message, len(recipients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, recipient := range recipients {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			channelID := strconv.FormatInt(recipient.Channel, 10)
			message, err := s.messenger.ChannelMessageSendComplex(channelID, payload)
			if err != nil {
				log.WithFields(log.Fields{
					"room":    room,
					"guild":   recipient.ID,
					"channel": channelID,
					"error":   err,
				}).Warn("Failed to relay message to guild")
				return nil
			}

			sent[i] = message
			return nil
		})
	}
	_ = g.Wait()

	delivered := sent[:0]
	for _, message := range sent {
		if message != nil {
			delivered = append(delivered, message)
		}
	}
	if len(delivered) == 0 {
		return nil, nil
	}

	return delivered, nil
}

// GuildConfig returns the guild's stored configuration, nil if the guild
// was never set up
func (s *relayService) GuildConfig(ctx context.Context, guildID int64) (*models.Guild, error) {
	return s.guildRepo.GetByID(ctx, guildID)
}
