package core

import "fmt"

// DefaultChannel is the channel every session starts in.
const DefaultChannel = "general"

// Role gates moderation commands.
type Role int

const (
	// RoleMember is the default role.
	RoleMember Role = iota
	// RoleModerator may kick other users.
	RoleModerator
)

func (r Role) String() string {
	if r == RoleModerator {
		return "Moderator"
	}
	return "Member"
}

// Session is the server-side state for one authenticated, connected client.
// Channel and Role are mutated only while the registry lock is held.
type Session struct {
	Username string
	Channel  string
	Role     Role
	Mailbox  *Mailbox
}

// NewSession builds a member session in the default channel.
func NewSession(username string, mailbox *Mailbox) *Session {
	return &Session{
		Username: username,
		Channel:  DefaultChannel,
		Role:     RoleMember,
		Mailbox:  mailbox,
	}
}

// ProfileLines are the lines shown by /profile.
func (s *Session) ProfileLines() []string {
	return []string{
		fmt.Sprintf("Username: %s", s.Username),
		fmt.Sprintf("Channel: %s", s.Channel),
		fmt.Sprintf("Role: %s", s.Role),
	}
}
