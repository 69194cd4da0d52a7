package repository

import (
	"context"
	"testing"

	"roomrelay/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestGuildRepository_Upsert(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing guild", func(t *testing.T) {
		guild, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, guild)
	})

	t.Run("insert then refresh channel", func(t *testing.T) {
		guild := testutil.CreateTestGuild(1, 10, "AB")
		require.NoError(t, repo.Upsert(ctx, guild))
		assert.False(t, guild.CreatedAt.IsZero())

		again := testutil.CreateTestGuild(1, 11, "ZZ")
		require.NoError(t, repo.Upsert(ctx, again))

		stored, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, int64(11), stored.Channel)
		assert.Equal(t, "AB", stored.Abbreviation, "abbreviation is only set on insert")
		assert.Equal(t, "AB", again.Abbreviation, "upsert returns the stored row")
		assert.False(t, stored.InRoom())
		assert.Nil(t, stored.AdminRole)
	})
}

func TestGuildRepository_Setters(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	guildRepo := NewGuildRepository(testDB.DB)
	roomRepo := NewRoomRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, guildRepo.Upsert(ctx, testutil.CreateTestGuild(1, 10, "AB")))
	require.NoError(t, roomRepo.Create(ctx, testutil.CreateTestRoom("lobby", 1)))

	require.NoError(t, guildRepo.SetRoom(ctx, 1, strPtr("lobby")))
	require.NoError(t, guildRepo.SetChannel(ctx, 1, 12))
	require.NoError(t, guildRepo.SetAbbreviation(ctx, 1, "XY"))
	role := int64(555)
	require.NoError(t, guildRepo.SetAdminRole(ctx, 1, &role))

	guild, err := guildRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "lobby", guild.RoomName())
	assert.Equal(t, int64(12), guild.Channel)
	assert.Equal(t, "XY", guild.Abbreviation)
	require.NotNil(t, guild.AdminRole)
	assert.Equal(t, role, *guild.AdminRole)

	require.NoError(t, guildRepo.SetRoom(ctx, 1, nil))
	require.NoError(t, guildRepo.SetAdminRole(ctx, 1, nil))
	guild, err = guildRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, guild.InRoom())
	assert.Nil(t, guild.AdminRole)

	t.Run("unknown guild", func(t *testing.T) {
		assert.Error(t, guildRepo.SetChannel(ctx, 999, 1))
	})

	t.Run("unknown room", func(t *testing.T) {
		assert.Error(t, guildRepo.SetRoom(ctx, 1, strPtr("nowhere")))
	})
}

func TestGuildRepository_GetByRoom(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	guildRepo := NewGuildRepository(testDB.DB)
	roomRepo := NewRoomRepository(testDB.DB)
	ctx := context.Background()

	for id := int64(1); id <= 4; id++ {
		require.NoError(t, guildRepo.Upsert(ctx, testutil.CreateTestGuild(id, id*10, "G")))
	}
	require.NoError(t, roomRepo.Create(ctx, testutil.CreateTestRoom("lobby", 1)))
	require.NoError(t, roomRepo.Create(ctx, testutil.CreateTestRoom("other", 4)))
	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, guildRepo.SetRoom(ctx, id, strPtr("lobby")))
	}
	require.NoError(t, guildRepo.SetRoom(ctx, 4, strPtr("other")))

	t.Run("excludes the sender", func(t *testing.T) {
		guilds, err := guildRepo.GetByRoom(ctx, "lobby", 1)
		require.NoError(t, err)
		require.Len(t, guilds, 2)
		assert.Equal(t, int64(2), guilds[0].ID)
		assert.Equal(t, int64(3), guilds[1].ID)
	})

	t.Run("zero excludes nobody", func(t *testing.T) {
		guilds, err := guildRepo.GetByRoom(ctx, "lobby", 0)
		require.NoError(t, err)
		assert.Len(t, guilds, 3)
	})

	t.Run("empty room", func(t *testing.T) {
		guilds, err := guildRepo.GetByRoom(ctx, "nowhere", 0)
		require.NoError(t, err)
		assert.Empty(t, guilds)
	})
}

func TestGuildRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestGuild(1, 10, "AB")))
	require.NoError(t, repo.Delete(ctx, 1))
	require.NoError(t, repo.Delete(ctx, 1))

	guild, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, guild)
}
