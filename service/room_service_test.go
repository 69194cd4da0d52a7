package service

import (
	"context"
	"testing"

	"roomrelay/events"
	"roomrelay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestRoomService() (RoomService, *MockUnitOfWork, *MockGuildRepository, *MockRoomRepository, *MockEventPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	guildRepo := new(MockGuildRepository)
	roomRepo := new(MockRoomRepository)
	publisher := new(MockEventPublisher)

	mockUoW.SetRepositories(guildRepo, roomRepo, publisher)
	mockFactory.On("Create").Return(mockUoW)

	return NewRoomService(mockFactory), mockUoW, guildRepo, roomRepo, publisher
}

func setupBasicTransactionMocks(mockUoW *MockUnitOfWork) {
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
}

func setupFailingTransactionMocks(mockUoW *MockUnitOfWork) {
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)
}

var alpha = GuildRef{ID: 1, ChannelID: 10, Name: "Alpha Base"}

func TestRoomService_CreateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the room and binds the owner", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, publisher := createTestRoomService()
		setupBasicTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(1)).Return(nil, nil)
		guildRepo.On("Upsert", ctx, mock.MatchedBy(func(g *models.Guild) bool {
			return g.ID == 1 && g.Channel == 10 && g.Abbreviation == "AB"
		})).Return(nil)
		roomRepo.On("Create", ctx, mock.MatchedBy(func(r *models.Room) bool {
			return r.Name == "lobby" && r.Owner == 1 && r.Pass == "secret"
		})).Return(nil)
		guildRepo.On("SetChannel", ctx, int64(1), int64(10)).Return(nil)
		guildRepo.On("SetRoom", ctx, int64(1), strPtr("lobby")).Return(nil)
		publisher.On("Publish", events.RoomCreatedEvent{Room: "lobby", GuildID: 1}).Return()

		room, err := service.CreateRoom(ctx, alpha, " lobby ", "secret")

		require.NoError(t, err)
		assert.Equal(t, "lobby", room.Name)
		assert.Equal(t, int64(1), room.Owner)
		mockUoW.AssertCalled(t, "Commit")
		guildRepo.AssertExpectations(t)
		roomRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("password with spaces never reaches storage", func(t *testing.T) {
		service, mockUoW, _, roomRepo, _ := createTestRoomService()

		_, err := service.CreateRoom(ctx, alpha, "lobby", "two words")

		assert.ErrorIs(t, err, ErrInvalidPassword)
		mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
		roomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("guild already in a room", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, _ := createTestRoomService()
		setupFailingTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(1)).Return(lobbyGuild(1, 10, "AB"), nil)

		_, err := service.CreateRoom(ctx, alpha, "other", "secret")

		assert.ErrorIs(t, err, ErrAlreadyInRoom)
		roomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("name taken", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, publisher := createTestRoomService()
		setupFailingTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(1)).Return(&models.Guild{ID: 1, Channel: 10, Abbreviation: "AB"}, nil)
		roomRepo.On("Create", ctx, mock.Anything).Return(models.ErrDuplicateRoom)

		_, err := service.CreateRoom(ctx, alpha, "lobby", "secret")

		assert.ErrorIs(t, err, ErrRoomNameTaken)
		publisher.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("empty name", func(t *testing.T) {
		service, mockUoW, _, _, _ := createTestRoomService()

		_, err := service.CreateRoom(ctx, alpha, "   ", "secret")

		assert.ErrorIs(t, err, ErrInvalidRoomName)
		mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
	})
}

func TestRoomService_JoinRoom(t *testing.T) {
	ctx := context.Background()
	beta := GuildRef{ID: 2, ChannelID: 20, Name: "Beta"}
	lobby := &models.Room{Name: "lobby", Owner: 1, Pass: "secret"}

	t.Run("joins with the right password", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, publisher := createTestRoomService()
		setupBasicTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(2)).Return(&models.Guild{ID: 2, Channel: 21, Abbreviation: "B"}, nil)
		roomRepo.On("GetByName", ctx, "lobby").Return(lobby, nil)
		guildRepo.On("SetChannel", ctx, int64(2), int64(20)).Return(nil)
		guildRepo.On("SetRoom", ctx, int64(2), strPtr("lobby")).Return(nil)
		publisher.On("Publish", events.RoomJoinedEvent{Room: "lobby", GuildID: 2}).Return()

		room, err := service.JoinRoom(ctx, beta, "lobby", "secret")

		require.NoError(t, err)
		assert.Equal(t, lobby, room)
		publisher.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, publisher := createTestRoomService()
		setupFailingTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(2)).Return(&models.Guild{ID: 2, Channel: 20, Abbreviation: "B"}, nil)
		roomRepo.On("GetByName", ctx, "lobby").Return(lobby, nil)

		_, err := service.JoinRoom(ctx, beta, "lobby", "guess")

		assert.ErrorIs(t, err, ErrWrongPassword)
		guildRepo.AssertNotCalled(t, "SetRoom", mock.Anything, mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("unknown room", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, _ := createTestRoomService()
		setupFailingTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(2)).Return(&models.Guild{ID: 2, Channel: 20, Abbreviation: "B"}, nil)
		roomRepo.On("GetByName", ctx, "nowhere").Return(nil, nil)

		_, err := service.JoinRoom(ctx, beta, "nowhere", "secret")

		assert.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestRoomService_LeaveRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("member leaves", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, publisher := createTestRoomService()
		setupBasicTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(2)).Return(lobbyGuild(2, 20, "B"), nil)
		roomRepo.On("GetByName", ctx, "lobby").Return(&models.Room{Name: "lobby", Owner: 1}, nil)
		guildRepo.On("SetRoom", ctx, int64(2), (*string)(nil)).Return(nil)
		publisher.On("Publish", events.RoomLeftEvent{Room: "lobby", GuildID: 2}).Return()

		room, err := service.LeaveRoom(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, "lobby", room)
		guildRepo.AssertExpectations(t)
	})

	t.Run("owner must disband", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, _ := createTestRoomService()
		setupFailingTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(1)).Return(lobbyGuild(1, 10, "AB"), nil)
		roomRepo.On("GetByName", ctx, "lobby").Return(&models.Room{Name: "lobby", Owner: 1}, nil)

		_, err := service.LeaveRoom(ctx, 1)

		assert.ErrorIs(t, err, ErrOwnerCannotLeave)
		guildRepo.AssertNotCalled(t, "SetRoom", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not in a room", func(t *testing.T) {
		service, mockUoW, guildRepo, _, _ := createTestRoomService()
		setupFailingTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(3)).Return(nil, nil)

		_, err := service.LeaveRoom(ctx, 3)
		assert.ErrorIs(t, err, ErrNotInRoom)
	})
}

func TestRoomService_DisbandRoom(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, guildRepo, roomRepo, publisher := createTestRoomService()
	setupBasicTransactionMocks(mockUoW)

	lobby := &models.Room{Name: "lobby", Owner: 1}
	roomRepo.On("GetByOwner", ctx, int64(1)).Return(lobby, nil)
	guildRepo.On("GetByRoom", ctx, "lobby", int64(1)).Return([]*models.Guild{
		lobbyGuild(2, 20, "B"),
		lobbyGuild(3, 30, "C"),
	}, nil)
	roomRepo.On("Delete", ctx, "lobby").Return(nil)
	publisher.On("Publish", events.RoomDisbandedEvent{
		Room:           "lobby",
		OwnerGuildID:   1,
		MemberChannels: []int64{20, 30},
	}).Return()

	room, err := service.DisbandRoom(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "lobby", room)
	roomRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRoomService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("password with a space is rejected and storage untouched", func(t *testing.T) {
		service, mockUoW, _, roomRepo, _ := createTestRoomService()

		err := service.ChangePassword(ctx, 1, "new pass")

		assert.ErrorIs(t, err, ErrInvalidPassword)
		assert.Equal(t, "password cannot contain spaces", err.Error())
		mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
		roomRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("owner changes password", func(t *testing.T) {
		service, mockUoW, _, roomRepo, _ := createTestRoomService()
		setupBasicTransactionMocks(mockUoW)

		roomRepo.On("GetByOwner", ctx, int64(1)).Return(&models.Room{Name: "lobby", Owner: 1, Pass: "old"}, nil)
		roomRepo.On("UpdatePassword", ctx, "lobby", "newpass").Return(nil)

		require.NoError(t, service.ChangePassword(ctx, 1, "newpass"))
		roomRepo.AssertExpectations(t)
	})

	t.Run("non owner", func(t *testing.T) {
		service, mockUoW, _, roomRepo, _ := createTestRoomService()
		setupFailingTransactionMocks(mockUoW)

		roomRepo.On("GetByOwner", ctx, int64(2)).Return(nil, nil)

		err := service.ChangePassword(ctx, 2, "newpass")
		assert.ErrorIs(t, err, ErrNotRoomOwner)
	})
}

func TestRoomService_SetAbbreviation(t *testing.T) {
	ctx := context.Background()

	t.Run("too long", func(t *testing.T) {
		service, mockUoW, _, _, _ := createTestRoomService()

		err := service.SetAbbreviation(ctx, 1, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")

		assert.ErrorIs(t, err, ErrInvalidAbbr)
		mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("unconfigured guild", func(t *testing.T) {
		service, mockUoW, guildRepo, _, _ := createTestRoomService()
		setupFailingTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(1)).Return(nil, nil)

		err := service.SetAbbreviation(ctx, 1, "AB")
		assert.ErrorIs(t, err, ErrGuildNotConfigured)
	})

	t.Run("updates", func(t *testing.T) {
		service, mockUoW, guildRepo, _, _ := createTestRoomService()
		setupBasicTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(1)).Return(lobbyGuild(1, 10, "AB"), nil)
		guildRepo.On("SetAbbreviation", ctx, int64(1), "XY").Return(nil)

		require.NoError(t, service.SetAbbreviation(ctx, 1, " XY "))
		guildRepo.AssertExpectations(t)
	})
}

func TestRoomService_RemoveGuild(t *testing.T) {
	ctx := context.Background()

	t.Run("owner disbands its room", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, publisher := createTestRoomService()
		setupBasicTransactionMocks(mockUoW)

		lobby := &models.Room{Name: "lobby", Owner: 1}
		guildRepo.On("GetByID", ctx, int64(1)).Return(lobbyGuild(1, 10, "AB"), nil)
		roomRepo.On("GetByOwner", ctx, int64(1)).Return(lobby, nil)
		guildRepo.On("GetByRoom", ctx, "lobby", int64(1)).Return([]*models.Guild{lobbyGuild(2, 20, "B")}, nil)
		roomRepo.On("Delete", ctx, "lobby").Return(nil)
		publisher.On("Publish", mock.AnythingOfType("events.RoomDisbandedEvent")).Return()
		guildRepo.On("Delete", ctx, int64(1)).Return(nil)

		require.NoError(t, service.RemoveGuild(ctx, 1))
		guildRepo.AssertExpectations(t)
		roomRepo.AssertExpectations(t)
	})

	t.Run("member leaves", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, publisher := createTestRoomService()
		setupBasicTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(2)).Return(lobbyGuild(2, 20, "B"), nil)
		roomRepo.On("GetByOwner", ctx, int64(2)).Return(nil, nil)
		publisher.On("Publish", events.RoomLeftEvent{Room: "lobby", GuildID: 2}).Return()
		guildRepo.On("Delete", ctx, int64(2)).Return(nil)

		require.NoError(t, service.RemoveGuild(ctx, 2))
		publisher.AssertExpectations(t)
	})

	t.Run("unknown guild is a no-op", func(t *testing.T) {
		service, mockUoW, guildRepo, _, _ := createTestRoomService()
		setupBasicTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(9)).Return(nil, nil)

		require.NoError(t, service.RemoveGuild(ctx, 9))
		guildRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestRoomService_GetRoomState(t *testing.T) {
	ctx := context.Background()

	t.Run("member view", func(t *testing.T) {
		service, mockUoW, guildRepo, roomRepo, _ := createTestRoomService()
		setupBasicTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(2)).Return(lobbyGuild(2, 20, "B"), nil)
		roomRepo.On("GetByName", ctx, "lobby").Return(&models.Room{Name: "lobby", Owner: 1, Pass: "secret"}, nil)
		roomRepo.On("CountMembers", ctx, "lobby").Return(3, nil)

		state, err := service.GetRoomState(ctx, 2)

		require.NoError(t, err)
		assert.False(t, state.IsOwner())
		assert.Equal(t, 3, state.MemberCount)
	})

	t.Run("not in a room", func(t *testing.T) {
		service, mockUoW, guildRepo, _, _ := createTestRoomService()
		setupFailingTransactionMocks(mockUoW)

		guildRepo.On("GetByID", ctx, int64(2)).Return(&models.Guild{ID: 2, Channel: 20}, nil)

		_, err := service.GetRoomState(ctx, 2)
		assert.ErrorIs(t, err, ErrNotInRoom)
	})
}
