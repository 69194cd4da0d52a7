package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"roomrelay/events"
	"roomrelay/models"

	log "github.com/sirupsen/logrus"
)

// MaxRoomNameLength matches the rooms.name column
const MaxRoomNameLength = 100

// roomService implements the RoomService interface
type roomService struct {
	uowFactory UnitOfWorkFactory
}

// NewRoomService creates a new room service
func NewRoomService(uowFactory UnitOfWorkFactory) RoomService {
	return &roomService{
		uowFactory: uowFactory,
	}
}

// withUnitOfWork runs fn inside a transaction, committing only when fn succeeds
func (s *roomService) withUnitOfWork(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ensureGuild loads the guild row, creating it with a default abbreviation
func ensureGuild(ctx context.Context, repo GuildRepository, ref GuildRef) (*models.Guild, error) {
	guild, err := repo.GetByID(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	if guild != nil {
		return guild, nil
	}

	abbreviation := models.Abbreviate(ref.Name)
	if abbreviation == "" {
		abbreviation = "?"
	}

	guild = &models.Guild{
		ID:           ref.ID,
		Channel:      ref.ChannelID,
		Abbreviation: abbreviation,
	}
	if err := repo.Upsert(ctx, guild); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guild":        ref.ID,
		"abbreviation": abbreviation,
	}).Info("Registered guild")

	return guild, nil
}

func validateRoomName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > MaxRoomNameLength {
		return ErrInvalidRoomName
	}
	return nil
}

func (s *roomService) EnsureGuild(ctx context.Context, ref GuildRef) (*models.Guild, error) {
	var guild *models.Guild
	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		guild, err = ensureGuild(ctx, uow.GuildRepository(), ref)
		return err
	})
	if err != nil {
		return nil, err
	}
	return guild, nil
}

// CreateRoom creates a room owned by the guild. The invoking channel becomes
// the guild's display channel.
func (s *roomService) CreateRoom(ctx context.Context, ref GuildRef, name, pass string) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if err := validateRoomName(name); err != nil {
		return nil, err
	}
	if !models.ValidPassword(pass) {
		return nil, ErrInvalidPassword
	}

	room := &models.Room{Name: name, Owner: ref.ID, Pass: pass}

	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		guild, err := ensureGuild(ctx, uow.GuildRepository(), ref)
		if err != nil {
			return err
		}
		if guild.InRoom() {
			return ErrAlreadyInRoom
		}

		if err := uow.RoomRepository().Create(ctx, room); err != nil {
			if errors.Is(err, models.ErrDuplicateRoom) {
				return ErrRoomNameTaken
			}
			return err
		}

		if err := uow.GuildRepository().SetChannel(ctx, ref.ID, ref.ChannelID); err != nil {
			return err
		}
		if err := uow.GuildRepository().SetRoom(ctx, ref.ID, &room.Name); err != nil {
			return err
		}

		uow.EventBus().Publish(events.RoomCreatedEvent{Room: room.Name, GuildID: ref.ID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

// JoinRoom binds the guild to an existing room
func (s *roomService) JoinRoom(ctx context.Context, ref GuildRef, name, pass string) (*models.Room, error) {
	var room *models.Room

	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		guild, err := ensureGuild(ctx, uow.GuildRepository(), ref)
		if err != nil {
			return err
		}
		if guild.InRoom() {
			return ErrAlreadyInRoom
		}

		room, err = uow.RoomRepository().GetByName(ctx, strings.TrimSpace(name))
		if err != nil {
			return err
		}
		if room == nil {
			return ErrRoomNotFound
		}
		if room.Pass != pass {
			return ErrWrongPassword
		}

		if err := uow.GuildRepository().SetChannel(ctx, ref.ID, ref.ChannelID); err != nil {
			return err
		}
		if err := uow.GuildRepository().SetRoom(ctx, ref.ID, &room.Name); err != nil {
			return err
		}

		uow.EventBus().Publish(events.RoomJoinedEvent{Room: room.Name, GuildID: ref.ID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

// LeaveRoom unbinds a member guild. Owners have to disband instead.
func (s *roomService) LeaveRoom(ctx context.Context, guildID int64) (string, error) {
	var roomName string

	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		guild, err := uow.GuildRepository().GetByID(ctx, guildID)
		if err != nil {
			return err
		}
		if guild == nil || !guild.InRoom() {
			return ErrNotInRoom
		}
		roomName = guild.RoomName()

		room, err := uow.RoomRepository().GetByName(ctx, roomName)
		if err != nil {
			return err
		}
		if room != nil && room.IsOwnedBy(guildID) {
			return ErrOwnerCannotLeave
		}

		if err := uow.GuildRepository().SetRoom(ctx, guildID, nil); err != nil {
			return err
		}

		uow.EventBus().Publish(events.RoomLeftEvent{Room: roomName, GuildID: guildID})
		return nil
	})
	if err != nil {
		return "", err
	}

	return roomName, nil
}

// DisbandRoom deletes the room owned by the guild
func (s *roomService) DisbandRoom(ctx context.Context, guildID int64) (string, error) {
	var roomName string

	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		room, err := uow.RoomRepository().GetByOwner(ctx, guildID)
		if err != nil {
			return err
		}
		if room == nil {
			return ErrNotRoomOwner
		}
		roomName = room.Name

		return disband(ctx, uow, room)
	})
	if err != nil {
		return "", err
	}

	return roomName, nil
}

// disband deletes room and queues the notice for its remaining members
func disband(ctx context.Context, uow UnitOfWork, room *models.Room) error {
	members, err := uow.GuildRepository().GetByRoom(ctx, room.Name, room.Owner)
	if err != nil {
		return err
	}

	channels := make([]int64, 0, len(members))
	for _, member := range members {
		channels = append(channels, member.Channel)
	}

	if err := uow.RoomRepository().Delete(ctx, room.Name); err != nil {
		return err
	}

	uow.EventBus().Publish(events.RoomDisbandedEvent{
		Room:           room.Name,
		OwnerGuildID:   room.Owner,
		MemberChannels: channels,
	})
	return nil
}

// ChangePassword replaces the password of the room owned by the guild. An
// invalid password leaves the stored one untouched.
func (s *roomService) ChangePassword(ctx context.Context, guildID int64, pass string) error {
	if !models.ValidPassword(pass) {
		return ErrInvalidPassword
	}

	return s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		room, err := uow.RoomRepository().GetByOwner(ctx, guildID)
		if err != nil {
			return err
		}
		if room == nil {
			return ErrNotRoomOwner
		}
		return uow.RoomRepository().UpdatePassword(ctx, room.Name, pass)
	})
}

func (s *roomService) SetChannel(ctx context.Context, ref GuildRef) error {
	return s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		guild, err := ensureGuild(ctx, uow.GuildRepository(), ref)
		if err != nil {
			return err
		}
		if guild.Channel == ref.ChannelID {
			return nil
		}
		return uow.GuildRepository().SetChannel(ctx, ref.ID, ref.ChannelID)
	})
}

func (s *roomService) SetAbbreviation(ctx context.Context, guildID int64, abbreviation string) error {
	abbreviation = strings.TrimSpace(abbreviation)
	if abbreviation == "" || utf8.RuneCountInString(abbreviation) > models.MaxAbbreviationLength {
		return ErrInvalidAbbr
	}

	return s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		guild, err := uow.GuildRepository().GetByID(ctx, guildID)
		if err != nil {
			return err
		}
		if guild == nil {
			return ErrGuildNotConfigured
		}
		return uow.GuildRepository().SetAbbreviation(ctx, guildID, abbreviation)
	})
}

func (s *roomService) SetAdminRole(ctx context.Context, guildID int64, roleID *int64) error {
	return s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		guild, err := uow.GuildRepository().GetByID(ctx, guildID)
		if err != nil {
			return err
		}
		if guild == nil {
			return ErrGuildNotConfigured
		}
		return uow.GuildRepository().SetAdminRole(ctx, guildID, roleID)
	})
}

// RemoveGuild deletes the guild's configuration. A room it owned is
// disbanded, a room it was a member of is told it left.
func (s *roomService) RemoveGuild(ctx context.Context, guildID int64) error {
	return s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		guild, err := uow.GuildRepository().GetByID(ctx, guildID)
		if err != nil {
			return err
		}
		if guild == nil {
			return nil
		}

		owned, err := uow.RoomRepository().GetByOwner(ctx, guildID)
		if err != nil {
			return err
		}
		if owned != nil {
			if err := disband(ctx, uow, owned); err != nil {
				return err
			}
		} else if guild.InRoom() {
			uow.EventBus().Publish(events.RoomLeftEvent{Room: guild.RoomName(), GuildID: guildID})
		}

		return uow.GuildRepository().Delete(ctx, guildID)
	})
}

// GetRoomState loads the guild, its room and the member count. A guild
// without a room, or pointing at a missing one, gets ErrNotInRoom.
func (s *roomService) GetRoomState(ctx context.Context, guildID int64) (*RoomState, error) {
	state := &RoomState{}

	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		guild, err := uow.GuildRepository().GetByID(ctx, guildID)
		if err != nil {
			return err
		}
		if guild == nil || !guild.InRoom() {
			return ErrNotInRoom
		}

		room, err := uow.RoomRepository().GetByName(ctx, guild.RoomName())
		if err != nil {
			return err
		}
		if room == nil {
			return ErrNotInRoom
		}

		count, err := uow.RoomRepository().CountMembers(ctx, room.Name)
		if err != nil {
			return err
		}

		state.Guild = guild
		state.Room = room
		state.MemberCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}
