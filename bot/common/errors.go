package common

import (
	"errors"
	"fmt"

	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error  // Underlying error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (bad password, not in a room, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Err:         err,
	}
}

// userMessages maps service errors to what the invoking user is told
var userMessages = []struct {
	err     error
	message string
}{
	{service.ErrNotInRoom, "`You are not currently in a room`"},
	{service.ErrInvalidPassword, "Password cannot contain spaces."},
	{service.ErrInvalidRoomName, "Room names must be between 1 and 100 characters."},
	{service.ErrInvalidAbbr, "Abbreviations must be between 1 and 20 characters."},
	{service.ErrRoomNotFound, "That room does not exist."},
	{service.ErrRoomNameTaken, "A room with that name already exists."},
	{service.ErrWrongPassword, "Incorrect password."},
	{service.ErrAlreadyInRoom, "This server is already in a room. Leave it first."},
	{service.ErrNotRoomOwner, "Only the server that owns the room can do that."},
	{service.ErrOwnerCannotLeave, "The owning server cannot leave its room. Disband it instead."},
	{service.ErrGuildNotConfigured, "This server has not been set up yet. Create or join a room first."},
}

// UserMessage returns the reply for err. Errors that are not the user's
// fault produce a generic message and ok=false so callers can log them.
func UserMessage(err error) (message string, ok bool) {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.UserMessage, botErr.Err == nil
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.message, true
		}
	}
	return "Something went wrong. Please try again later.", false
}

// RespondWithError sends an error message as an ephemeral interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// HandleError logs err when it is unexpected and tells the user what went wrong
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, action string) {
	message, ok := UserMessage(err)
	fields := log.Fields{
		"guild_id": i.GuildID,
		"user_id":  InteractionUserID(i),
		"action":   action,
		"error":    err,
	}
	if ok {
		log.WithFields(fields).Debug("Rejected interaction")
	} else {
		log.WithFields(fields).Error("Interaction failed")
	}
	RespondWithError(s, i, message)
}
