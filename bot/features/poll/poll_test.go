package poll

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_Vote(t *testing.T) {
	p := New("id", "Lunch", "lobby", []string{"pizza", "tacos"})

	require.NoError(t, p.Vote("u1", 0))
	require.NoError(t, p.Vote("u2", 1))
	require.NoError(t, p.Vote("u3", 1))

	snap := p.Snapshot()
	assert.Equal(t, StateOpen, snap.State)
	assert.Equal(t, 1, snap.Choices[0].Votes)
	assert.Equal(t, 2, snap.Choices[1].Votes)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 3, snap.Version)
}

func TestPoll_VoteRejections(t *testing.T) {
	p := New("id", "Lunch", "lobby", []string{"pizza", "tacos"})
	require.NoError(t, p.Vote("u1", 0))

	assert.ErrorIs(t, p.Vote("u1", 1), ErrAlreadyVoted)
	assert.ErrorIs(t, p.Vote("u2", 2), ErrInvalidChoice)
	assert.ErrorIs(t, p.Vote("u2", -1), ErrInvalidChoice)

	snap := p.Snapshot()
	assert.Equal(t, 1, snap.Choices[0].Votes)
	assert.Equal(t, 0, snap.Choices[1].Votes)
	assert.Equal(t, 1, snap.Version)
}

func TestPoll_CloseIsOneShot(t *testing.T) {
	p := New("id", "Lunch", "lobby", []string{"pizza"})

	assert.True(t, p.beginClose())
	assert.False(t, p.beginClose())
	assert.Equal(t, StateClosing, p.State())
	assert.ErrorIs(t, p.Vote("u1", 0), ErrPollClosed)

	p.finishClose()
	assert.Equal(t, StateClosed, p.State())
	assert.False(t, p.beginClose())
}

func TestPoll_ConcurrentVotes(t *testing.T) {
	p := New("id", "Lunch", "lobby", []string{"pizza", "tacos", "soup"})

	var wg sync.WaitGroup
	for i := 0; i < 90; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = p.Vote(string(rune('A'+i%45)), i%3)
		}(i)
	}
	wg.Wait()

	snap := p.Snapshot()
	sum := 0
	for _, c := range snap.Choices {
		sum += c.Votes
	}
	assert.Equal(t, 45, snap.Total)
	assert.Equal(t, 45, sum)
}

func TestPoll_SnapshotIsACopy(t *testing.T) {
	p := New("id", "Lunch", "lobby", []string{"pizza"})
	snap := p.Snapshot()
	snap.Choices[0].Votes = 99

	assert.Equal(t, 0, p.Snapshot().Choices[0].Votes)
}
