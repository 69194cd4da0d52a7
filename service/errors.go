package service

import "errors"

// User-facing failures. The bot maps each to a reply, none of them are retried.
var (
	ErrNotInRoom          = errors.New("guild is not in a room")
	ErrMessageTooLong     = errors.New("message is too long to relay")
	ErrInvalidPassword    = errors.New("password cannot contain spaces")
	ErrInvalidRoomName    = errors.New("invalid room name")
	ErrInvalidAbbr        = errors.New("invalid abbreviation")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomNameTaken      = errors.New("room name already taken")
	ErrWrongPassword      = errors.New("wrong room password")
	ErrAlreadyInRoom      = errors.New("guild is already in a room")
	ErrNotRoomOwner       = errors.New("guild does not own the room")
	ErrOwnerCannotLeave   = errors.New("room owner must disband instead of leaving")
	ErrGuildNotConfigured = errors.New("guild has no relay configuration")
)

// MaxRelayLength is Discord's message content limit
const MaxRelayLength = 2000
