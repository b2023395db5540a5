package core

import "strings"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandBroadcast delivers a message to the sender's channel.
	CommandBroadcast CommandKind = iota
	// CommandPrivateMessage delivers a message to one user.
	CommandPrivateMessage
	// CommandJoinChannel switches the sender's channel.
	CommandJoinChannel
	// CommandListUsers lists online usernames.
	CommandListUsers
	// CommandListChannels lists occupied channels.
	CommandListChannels
	// CommandProfileView shows the sender's profile.
	CommandProfileView
	// CommandChangeRole promotes the sender to moderator.
	CommandChangeRole
	// CommandKickUser removes another user (moderators only).
	CommandKickUser
	// CommandCloseConnection ends the session.
	CommandCloseConnection
	// CommandUnknown is anything unrecognized; answered with help text.
	CommandUnknown
)

func (k CommandKind) String() string {
	switch k {
	case CommandBroadcast:
		return "broadcast"
	case CommandPrivateMessage:
		return "msg"
	case CommandJoinChannel:
		return "join"
	case CommandListUsers:
		return "list"
	case CommandListChannels:
		return "channels"
	case CommandProfileView:
		return "profile"
	case CommandChangeRole:
		return "role"
	case CommandKickUser:
		return "kick"
	case CommandCloseConnection:
		return "close"
	default:
		return "unknown"
	}
}

// Command is one parsed line of client input. Ephemeral: constructed and
// consumed within a single dispatch.
type Command struct {
	Kind    CommandKind
	Target  string // /msg and /kick
	Channel string // /join
	Text    string // broadcast and /msg body
}

// ParseCommand splits the trimmed line on the first two spaces and maps
// the tokens to a command. Unrecognized slash input and empty lines are
// Unknown; everything else is a broadcast of the full line.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	parts := strings.SplitN(line, " ", 3)

	switch {
	case len(parts) == 3 && parts[0] == "/msg" && parts[1] != "" && parts[2] != "":
		return Command{Kind: CommandPrivateMessage, Target: parts[1], Text: parts[2]}
	case len(parts) == 2 && parts[0] == "/kick" && parts[1] != "":
		return Command{Kind: CommandKickUser, Target: parts[1]}
	case len(parts) == 2 && parts[0] == "/join" && parts[1] != "":
		return Command{Kind: CommandJoinChannel, Channel: parts[1]}
	case line == "/list":
		return Command{Kind: CommandListUsers}
	case line == "/channels":
		return Command{Kind: CommandListChannels}
	case line == "/profile":
		return Command{Kind: CommandProfileView}
	case line == "/role":
		return Command{Kind: CommandChangeRole}
	case line == "/close":
		return Command{Kind: CommandCloseConnection}
	case line == "" || line == "/help" || strings.HasPrefix(line, "/"):
		return Command{Kind: CommandUnknown}
	default:
		return Command{Kind: CommandBroadcast, Text: line}
	}
}
