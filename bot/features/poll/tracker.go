package poll

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"roomrelay/events"
	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ErrTrackerClosed is returned by Start once shutdown has begun
var ErrTrackerClosed = errors.New("poll tracker is shut down")

// Broadcaster fans a message out across a room. service.RelayService satisfies it.
type Broadcaster interface {
	Transmit(ctx context.Context, room string, payload *discordgo.MessageSend, excludeGuildID int64) ([]*discordgo.Message, error)
}

// Channel is the part of the Discord session the tracker posts and edits
// ballots through. *discordgo.Session satisfies it.
type Channel interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// running is a poll together with the ballots posted for it
type running struct {
	poll    *Poll
	origin  *discordgo.Message
	ballots []*discordgo.Message

	// renderMu orders ballot edits so a slow refresh can never land after
	// the final closed render
	renderMu sync.Mutex
	stop     chan struct{}
}

// Tracker owns every open poll. Each poll gets one goroutine that refreshes
// its ballots on an interval and closes it when the timeout fires.
type Tracker struct {
	relay     Broadcaster
	channel   Channel
	publisher service.EventPublisher
	interval  time.Duration

	mu     sync.Mutex
	polls  map[string]*running
	closed bool
	wg     sync.WaitGroup
}

// NewTracker creates a tracker. publisher may be nil.
func NewTracker(relay Broadcaster, channel Channel, publisher service.EventPublisher, interval time.Duration) *Tracker {
	return &Tracker{
		relay:     relay,
		channel:   channel,
		publisher: publisher,
		interval:  interval,
		polls:     make(map[string]*running),
	}
}

// Start registers the poll, posts the ballot to the origin guild and the
// rest of the room, then refreshes it until timeout. The poll accepts votes
// as soon as its first ballot exists.
func (t *Tracker) Start(ctx context.Context, p *Poll, timeout time.Duration) error {
	p.ClosesAt = time.Now().Add(timeout)
	snap := p.Snapshot()

	r := &running{
		poll: p,
		stop: make(chan struct{}),
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTrackerClosed
	}
	t.polls[p.ID] = r
	t.wg.Add(1)
	t.mu.Unlock()

	// A close racing the fan-out waits here and renders every posted ballot
	r.renderMu.Lock()
	origin, err := t.channel.ChannelMessageSendComplex(strconv.FormatInt(p.OriginChannel, 10), ballotMessage(p, snap, true))
	if err != nil {
		r.renderMu.Unlock()
		t.mu.Lock()
		delete(t.polls, p.ID)
		t.mu.Unlock()
		t.wg.Done()
		return err
	}
	r.origin = origin

	ballots, err := t.relay.Transmit(ctx, p.Room, ballotMessage(p, snap, false), p.OriginGuildID)
	if err != nil {
		log.WithFields(log.Fields{
			"pollID": p.ID,
			"room":   p.Room,
			"error":  err,
		}).Warn("Failed to post ballot to the rest of the room")
	}
	r.ballots = ballots
	r.renderMu.Unlock()

	log.WithFields(log.Fields{
		"pollID":  p.ID,
		"room":    p.Room,
		"ballots": len(ballots) + 1,
		"timeout": timeout,
	}).Info("Poll started")

	// Votes cast while ballots were posting are picked up on the first tick
	go t.run(r, timeout, snap.Version)
	return nil
}

func (t *Tracker) run(r *running, timeout time.Duration, rendered int) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			rendered = t.refresh(r, rendered)
		case <-timer.C:
			t.Close(context.Background(), r.poll.ID)
		}
	}
}

// refresh re-renders the ballots if votes arrived since version rendered
func (t *Tracker) refresh(r *running, rendered int) int {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()

	snap := r.poll.Snapshot()
	if snap.State != StateOpen || snap.Version == rendered {
		return rendered
	}

	t.render(r, snap)
	return snap.Version
}

func (t *Tracker) render(r *running, snap Snapshot) {
	if r.origin != nil {
		t.edit(r.poll, r.origin, BallotEmbed(r.poll, snap), BallotComponents(r.poll, snap, true))
	}

	embed := BallotEmbed(r.poll, snap)
	components := BallotComponents(r.poll, snap, false)
	for _, ballot := range r.ballots {
		t.edit(r.poll, ballot, embed, components)
	}
}

func (t *Tracker) edit(p *Poll, msg *discordgo.Message, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	_, err := t.channel.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    msg.ChannelID,
		ID:         msg.ID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"pollID":    p.ID,
			"channelID": msg.ChannelID,
			"messageID": msg.ID,
			"error":     err,
		}).Warn("Failed to update ballot")
	}
}

// Vote records a vote on an open poll. Unknown polls report ErrPollClosed
// since their state does not survive a restart.
func (t *Tracker) Vote(pollID, userID string, index int) (*Poll, error) {
	r := t.lookup(pollID)
	if r == nil {
		return nil, ErrPollClosed
	}
	if err := r.poll.Vote(userID, index); err != nil {
		return r.poll, err
	}
	return r.poll, nil
}

// Get returns an open poll, nil once it is closed
func (t *Tracker) Get(pollID string) *Poll {
	if r := t.lookup(pollID); r != nil {
		return r.poll
	}
	return nil
}

func (t *Tracker) lookup(pollID string) *running {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.polls[pollID]
}

// Close ends a poll: the refresh loop stops, every ballot is rendered closed
// and the results go to the whole room. Only the first call for a poll does
// anything; later calls and late timer fires return false.
func (t *Tracker) Close(ctx context.Context, pollID string) bool {
	r := t.lookup(pollID)
	if r == nil || !r.poll.beginClose() {
		return false
	}

	t.mu.Lock()
	delete(t.polls, pollID)
	t.mu.Unlock()
	close(r.stop)

	r.renderMu.Lock()
	snap := r.poll.Snapshot()
	t.render(r, snap)
	r.renderMu.Unlock()

	if _, err := t.relay.Transmit(ctx, r.poll.Room, resultsMessage(r.poll, snap), 0); err != nil {
		log.WithFields(log.Fields{
			"pollID": pollID,
			"room":   r.poll.Room,
			"error":  err,
		}).Error("Failed to announce poll results")
	}

	r.poll.finishClose()

	log.WithFields(log.Fields{
		"pollID": pollID,
		"room":   r.poll.Room,
		"votes":  snap.Total,
	}).Info("Poll closed")

	if t.publisher != nil {
		t.publisher.Publish(events.PollClosedEvent{
			PollID:  pollID,
			Room:    r.poll.Room,
			GuildID: r.poll.OriginGuildID,
			Votes:   snap.Total,
		})
	}
	return true
}

// Shutdown closes every open poll and waits for their goroutines to exit.
// Start fails with ErrTrackerClosed afterwards.
func (t *Tracker) Shutdown(ctx context.Context) {
	t.mu.Lock()
	t.closed = true
	ids := make([]string, 0, len(t.polls))
	for id := range t.polls {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	for _, id := range ids {
		t.Close(ctx, id)
	}
	t.wg.Wait()
}

// Open returns how many polls are currently running
func (t *Tracker) Open() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.polls)
}
