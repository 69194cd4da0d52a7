package poll

import (
	"errors"
	"sync"
	"time"
)

// MaxChoices is the number of keycap buttons a ballot can carry
const MaxChoices = 9

var (
	ErrPollClosed    = errors.New("poll is closed")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrAlreadyVoted  = errors.New("already voted")
)

// State is where a poll is in its lifecycle
type State int

const (
	StateOpen    State = iota // accepting votes
	StateClosing              // final render in progress
	StateClosed               // results published
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Choice is one ballot option and its tally
type Choice struct {
	Label string
	Votes int
}

// Poll is a ballot running across every guild in a room. Each user gets
// one vote. All methods are safe for concurrent use.
type Poll struct {
	ID            string
	Name          string
	Room          string
	OriginGuildID int64
	OriginChannel int64
	GuildName     string
	GuildIconURL  string
	Initiator     string
	ClosesAt      time.Time

	mu      sync.Mutex
	state   State
	choices []Choice
	voters  map[string]int
	version int
}

// New creates an open poll. labels must hold between 1 and MaxChoices entries.
func New(id, name, room string, labels []string) *Poll {
	choices := make([]Choice, len(labels))
	for i, label := range labels {
		choices[i] = Choice{Label: label}
	}
	return &Poll{
		ID:      id,
		Name:    name,
		Room:    room,
		choices: choices,
		voters:  make(map[string]int),
	}
}

// Vote records userID's vote for choice index. A user's first vote is
// final; later votes return ErrAlreadyVoted.
func (p *Poll) Vote(userID string, index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateOpen {
		return ErrPollClosed
	}
	if index < 0 || index >= len(p.choices) {
		return ErrInvalidChoice
	}
	if _, voted := p.voters[userID]; voted {
		return ErrAlreadyVoted
	}

	p.voters[userID] = index
	p.choices[index].Votes++
	p.version++
	return nil
}

// Snapshot is a consistent copy of a poll's mutable state
type Snapshot struct {
	State   State
	Choices []Choice
	Version int
	Total   int
}

// Snapshot copies the tally under the lock
func (p *Poll) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	choices := make([]Choice, len(p.choices))
	copy(choices, p.choices)
	return Snapshot{
		State:   p.state,
		Choices: choices,
		Version: p.version,
		Total:   len(p.voters),
	}
}

// State returns the current lifecycle state
func (p *Poll) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// beginClose moves an open poll to closing. Only the first caller wins.
func (p *Poll) beginClose() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateOpen {
		return false
	}
	p.state = StateClosing
	return true
}

func (p *Poll) finishClose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateClosed
}
