package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/netchat-server/internal/metrics"
)

// Signal tells the session driver what to do with the connection after
// a command has executed.
type Signal int

const (
	// SignalContinue keeps the session alive.
	SignalContinue Signal = iota
	// SignalClose ends the session.
	SignalClose
)

var helpLines = []string{
	"Available commands:",
	"/msg <user> <message> - Send private message",
	"/join <channel> - Switch channels",
	"/list - List online users",
	"/channels - List active channels",
	"/profile - Show your profile",
	"/role - Become a moderator",
	"/kick <user> - Kick a user (moderators only)",
	"/close - Close the connection",
	"/help - Show this message",
}

// Executor turns parsed commands into registry state transitions and
// mailbox deliveries. Mailbox send errors mean the recipient is gone;
// they are ignored because the recipient's own driver cleans up.
type Executor struct {
	registry *Registry
	metrics  metrics.Collector
	log      *zerolog.Logger
}

// NewExecutor builds an executor over the given registry.
func NewExecutor(registry *Registry, collector metrics.Collector, logger *zerolog.Logger) *Executor {
	return &Executor{
		registry: registry,
		metrics:  collector,
		log:      logger,
	}
}

// Execute parses one line of input from username and runs it. The
// returned signal is Continue for everything except /close.
func (e *Executor) Execute(username, line string) Signal {
	cmd := ParseCommand(line)
	e.metrics.RecordCommand(cmd.Kind.String())

	switch cmd.Kind {
	case CommandBroadcast:
		e.broadcast(username, cmd.Text)
	case CommandPrivateMessage:
		e.privateMessage(username, cmd.Target, cmd.Text)
	case CommandJoinChannel:
		e.joinChannel(username, cmd.Channel)
	case CommandListUsers:
		e.listUsers(username)
	case CommandListChannels:
		e.listChannels(username)
	case CommandProfileView:
		e.profileView(username)
	case CommandChangeRole:
		e.changeRole(username)
	case CommandKickUser:
		e.kickUser(username, cmd.Target)
	case CommandCloseConnection:
		e.closeConnection(username)
		return SignalClose
	default:
		e.sendHelp(username)
	}
	return SignalContinue
}

// broadcast delivers text to every other session in the sender's
// channel. The sender does not receive its own broadcast.
func (e *Executor) broadcast(sender, text string) {
	var delivered int
	e.registry.View(func(online map[string]*Session) {
		from, ok := online[sender]
		if !ok {
			return
		}
		line := fmt.Sprintf("[%s] %s: %s", from.Channel, sender, text)
		for name, s := range online {
			if name == sender || s.Channel != from.Channel {
				continue
			}
			if err := s.Mailbox.Send(line); err == nil {
				delivered++
			}
		}
	})
	e.metrics.RecordBroadcast(delivered)
	e.log.Debug().Str("sender", sender).Int("recipients", delivered).Msg("broadcast")
}

func (e *Executor) privateMessage(sender, target, text string) {
	var delivered bool
	e.registry.View(func(online map[string]*Session) {
		if to, ok := online[target]; ok {
			_ = to.Mailbox.Send(fmt.Sprintf("[DM] %s: %s", sender, text))
			delivered = true
			return
		}
		if from, ok := online[sender]; ok {
			_ = from.Mailbox.Send(fmt.Sprintf("User %s not found.", target))
		}
	})
	if delivered {
		e.metrics.RecordDirectMessage()
	}
}

func (e *Executor) joinChannel(username, channel string) {
	e.registry.WithSession(username, func(s *Session) {
		old := s.Channel
		s.Channel = channel
		_ = s.Mailbox.Send(fmt.Sprintf("Switched from %s to %s", old, channel))
	})
}

func (e *Executor) listUsers(username string) {
	e.registry.View(func(online map[string]*Session) {
		names := make([]string, 0, len(online))
		for name := range online {
			names = append(names, name)
		}
		sort.Strings(names)
		if s, ok := online[username]; ok {
			_ = s.Mailbox.Send("Connected users: " + strings.Join(names, ", "))
		}
	})
}

func (e *Executor) listChannels(username string) {
	e.registry.View(func(online map[string]*Session) {
		seen := make(map[string]struct{})
		for _, s := range online {
			seen[s.Channel] = struct{}{}
		}
		channels := make([]string, 0, len(seen))
		for name := range seen {
			channels = append(channels, name)
		}
		sort.Strings(channels)
		if s, ok := online[username]; ok {
			_ = s.Mailbox.Send("Active channels: " + strings.Join(channels, ", "))
		}
	})
}

func (e *Executor) profileView(username string) {
	e.registry.WithSession(username, func(s *Session) {
		for _, line := range s.ProfileLines() {
			_ = s.Mailbox.Send(line)
		}
	})
}

// changeRole promotes the caller to moderator. There is no demotion
// path and no authorization check on the promotion itself.
func (e *Executor) changeRole(username string) {
	e.registry.WithSession(username, func(s *Session) {
		s.Role = RoleModerator
		_ = s.Mailbox.Send("You changed your role")
	})
}

// kickUser removes target from the registry, notifies it, and closes
// its mailbox so the victim's connection is torn down once the notice
// has drained. A target that disconnected between check and removal is
// a no-op success.
func (e *Executor) kickUser(kicker, target string) {
	var kicked bool
	e.registry.View(func(online map[string]*Session) {
		from, ok := online[kicker]
		if !ok {
			return
		}
		if from.Role != RoleModerator {
			_ = from.Mailbox.Send("You don't have the privileges to kick users...")
			return
		}
		if target == kicker {
			_ = from.Mailbox.Send("You cannot kick yourself...")
			return
		}
		victim, ok := online[target]
		if !ok {
			_ = from.Mailbox.Send(fmt.Sprintf("%s not found...", target))
			return
		}
		delete(online, target)
		_ = victim.Mailbox.Send("You have been kicked out of the server...")
		victim.Mailbox.Close()
		kicked = true
	})
	if kicked {
		e.metrics.RecordKick()
		e.log.Info().Str("kicker", kicker).Str("target", target).Msg("user kicked")
	}
}

func (e *Executor) closeConnection(username string) {
	e.registry.WithSession(username, func(s *Session) {
		_ = s.Mailbox.Send("GOODBYE!")
	})
}

func (e *Executor) sendHelp(username string) {
	e.registry.WithSession(username, func(s *Session) {
		for _, line := range helpLines {
			_ = s.Mailbox.Send(line)
		}
	})
}
