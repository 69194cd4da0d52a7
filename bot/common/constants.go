package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorInfo    = 0x3498DB // Blue

	ColorPanelOwner  = 4980889  // Panel viewed from the owning guild
	ColorPanelMember = 0x3498DB // Panel viewed from a member guild
	ColorTooLong     = 16777010 // Relay rejection notice

	ColorBallotOpen   = 0xFFFF00
	ColorBallotClosed = 0xFF0000
	ColorPollResults  = 0x00FFFF
)

// UI constants
const (
	MaxButtonsPerRow = 5
	MaxActionRows    = 5
)
