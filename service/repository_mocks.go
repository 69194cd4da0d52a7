package service

import (
	"context"

	"roomrelay/events"
	"roomrelay/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

// MockGuildRepository is a mock implementation of GuildRepository
type MockGuildRepository struct {
	mock.Mock
}

func (m *MockGuildRepository) GetByID(ctx context.Context, guildID int64) (*models.Guild, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guild), args.Error(1)
}

func (m *MockGuildRepository) GetByRoom(ctx context.Context, room string, excludeGuildID int64) ([]*models.Guild, error) {
	args := m.Called(ctx, room, excludeGuildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Guild), args.Error(1)
}

func (m *MockGuildRepository) Upsert(ctx context.Context, guild *models.Guild) error {
	args := m.Called(ctx, guild)
	return args.Error(0)
}

func (m *MockGuildRepository) SetRoom(ctx context.Context, guildID int64, room *string) error {
	args := m.Called(ctx, guildID, room)
	return args.Error(0)
}

func (m *MockGuildRepository) SetChannel(ctx context.Context, guildID int64, channelID int64) error {
	args := m.Called(ctx, guildID, channelID)
	return args.Error(0)
}

func (m *MockGuildRepository) SetAbbreviation(ctx context.Context, guildID int64, abbreviation string) error {
	args := m.Called(ctx, guildID, abbreviation)
	return args.Error(0)
}

func (m *MockGuildRepository) SetAdminRole(ctx context.Context, guildID int64, roleID *int64) error {
	args := m.Called(ctx, guildID, roleID)
	return args.Error(0)
}

func (m *MockGuildRepository) Delete(ctx context.Context, guildID int64) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

// MockRoomRepository is a mock implementation of RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByName(ctx context.Context, name string) (*models.Room, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByOwner(ctx context.Context, guildID int64) (*models.Room, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) UpdatePassword(ctx context.Context, name string, pass string) error {
	args := m.Called(ctx, name, pass)
	return args.Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockRoomRepository) CountMembers(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockMessenger is a mock implementation of Messenger
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return whatever was installed with SetRepositories.
type MockUnitOfWork struct {
	mock.Mock
	guildRepo GuildRepository
	roomRepo  RoomRepository
	eventBus  EventPublisher
}

// SetRepositories installs the repositories handed out by the getters
func (m *MockUnitOfWork) SetRepositories(guildRepo GuildRepository, roomRepo RoomRepository, eventBus EventPublisher) {
	m.guildRepo = guildRepo
	m.roomRepo = roomRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GuildRepository() GuildRepository {
	return m.guildRepo
}

func (m *MockUnitOfWork) RoomRepository() RoomRepository {
	return m.roomRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockRoomService is a mock implementation of RoomService
type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) EnsureGuild(ctx context.Context, guild GuildRef) (*models.Guild, error) {
	args := m.Called(ctx, guild)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guild), args.Error(1)
}

func (m *MockRoomService) CreateRoom(ctx context.Context, guild GuildRef, name, pass string) (*models.Room, error) {
	args := m.Called(ctx, guild, name, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomService) JoinRoom(ctx context.Context, guild GuildRef, name, pass string) (*models.Room, error) {
	args := m.Called(ctx, guild, name, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomService) LeaveRoom(ctx context.Context, guildID int64) (string, error) {
	args := m.Called(ctx, guildID)
	return args.String(0), args.Error(1)
}

func (m *MockRoomService) DisbandRoom(ctx context.Context, guildID int64) (string, error) {
	args := m.Called(ctx, guildID)
	return args.String(0), args.Error(1)
}

func (m *MockRoomService) ChangePassword(ctx context.Context, guildID int64, pass string) error {
	args := m.Called(ctx, guildID, pass)
	return args.Error(0)
}

func (m *MockRoomService) SetChannel(ctx context.Context, guild GuildRef) error {
	args := m.Called(ctx, guild)
	return args.Error(0)
}

func (m *MockRoomService) SetAbbreviation(ctx context.Context, guildID int64, abbreviation string) error {
	args := m.Called(ctx, guildID, abbreviation)
	return args.Error(0)
}

func (m *MockRoomService) SetAdminRole(ctx context.Context, guildID int64, roleID *int64) error {
	args := m.Called(ctx, guildID, roleID)
	return args.Error(0)
}

func (m *MockRoomService) RemoveGuild(ctx context.Context, guildID int64) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockRoomService) GetRoomState(ctx context.Context, guildID int64) (*RoomState, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RoomState), args.Error(1)
}
