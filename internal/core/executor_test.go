package core

import (
	"strings"
	"testing"

	"github.com/vovakirdan/netchat-server/internal/log"
	"github.com/vovakirdan/netchat-server/internal/metrics"
)

func newTestExecutor(t *testing.T) (*Executor, *Registry) {
	t.Helper()

	r := NewRegistry()
	return NewExecutor(r, metrics.Noop{}, log.Nop()), r
}

func addSession(t *testing.T, r *Registry, username, channel string) *Session {
	t.Helper()

	s := NewSession(username, NewMailbox())
	s.Channel = channel
	if err := r.Register(s); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return s
}

func TestExecuteBroadcastScopedToChannel(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")
	bob := addSession(t, r, "bob", "x")
	carol := addSession(t, r, "carol", "y")

	if sig := e.Execute("alice", "hello"); sig != SignalContinue {
		t.Fatalf("broadcast signal = %v, want continue", sig)
	}

	want := "[x] alice: hello"
	if got := lastQueued(t, bob.Mailbox); got != want {
		t.Fatalf("bob got %q, want %q", got, want)
	}
	if got := queued(t, carol.Mailbox); len(got) != 0 {
		t.Fatalf("carol should get nothing, got %v", got)
	}
	if got := queued(t, alice.Mailbox); len(got) != 0 {
		t.Fatalf("sender must not receive own broadcast, got %v", got)
	}
}

func TestExecutePrivateMessage(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")
	bob := addSession(t, r, "bob", "y")

	e.Execute("alice", "/msg bob psst")

	if got := lastQueued(t, bob.Mailbox); got != "[DM] alice: psst" {
		t.Fatalf("bob got %q", got)
	}
	if got := queued(t, alice.Mailbox); len(got) != 0 {
		t.Fatalf("sender should get nothing on success, got %v", got)
	}
}

func TestExecutePrivateMessageUnknownTarget(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")

	e.Execute("alice", "/msg ghost hello")

	if got := lastQueued(t, alice.Mailbox); got != "User ghost not found." {
		t.Fatalf("alice got %q", got)
	}
	if got := queued(t, alice.Mailbox); len(got) != 1 {
		t.Fatalf("expected exactly one notice, got %v", got)
	}
}

func TestExecuteJoinChangesOnlyCaller(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", DefaultChannel)
	bob := addSession(t, r, "bob", DefaultChannel)

	e.Execute("alice", "/join newchan")

	if alice.Channel != "newchan" {
		t.Fatalf("alice channel = %q, want newchan", alice.Channel)
	}
	if bob.Channel != DefaultChannel {
		t.Fatalf("bob channel changed to %q", bob.Channel)
	}
	if got := lastQueued(t, alice.Mailbox); got != "Switched from general to newchan" {
		t.Fatalf("confirmation = %q", got)
	}

	// Broadcasts from alice are now invisible to bob.
	e.Execute("alice", "anyone here?")
	if got := queued(t, bob.Mailbox); len(got) != 0 {
		t.Fatalf("bob should not see broadcasts from newchan, got %v", got)
	}
}

func TestExecuteListUsers(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")
	addSession(t, r, "bob", "y")

	e.Execute("alice", "/list")

	if got := lastQueued(t, alice.Mailbox); got != "Connected users: alice, bob" {
		t.Fatalf("list = %q", got)
	}
}

func TestExecuteListChannels(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")
	addSession(t, r, "bob", "y")
	addSession(t, r, "carol", "x")

	e.Execute("alice", "/channels")

	if got := lastQueued(t, alice.Mailbox); got != "Active channels: x, y" {
		t.Fatalf("channels = %q", got)
	}
}

func TestExecuteProfileView(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")

	e.Execute("alice", "/profile")

	got := queued(t, alice.Mailbox)
	want := []string{"Username: alice", "Channel: x", "Role: Member"}
	if len(got) != len(want) {
		t.Fatalf("profile = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("profile = %v, want %v", got, want)
		}
	}
}

func TestExecuteChangeRolePromotes(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")

	e.Execute("alice", "/role")

	if alice.Role != RoleModerator {
		t.Fatalf("role = %v, want moderator", alice.Role)
	}
	if got := lastQueued(t, alice.Mailbox); got != "You changed your role" {
		t.Fatalf("notice = %q", got)
	}
}

func TestExecuteKickRequiresModerator(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")
	addSession(t, r, "bob", "x")

	e.Execute("alice", "/kick bob")

	if got := lastQueued(t, alice.Mailbox); got != "You don't have the privileges to kick users..." {
		t.Fatalf("notice = %q", got)
	}
	if r.Count() != 2 {
		t.Fatalf("registry mutated by unauthorized kick")
	}
}

func TestExecuteKickRemovesTargetAndClosesMailbox(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")
	bob := addSession(t, r, "bob", "x")
	alice.Role = RoleModerator

	e.Execute("alice", "/kick bob")

	if got := r.Snapshot(); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("registry after kick = %v", got)
	}
	if got := lastQueued(t, bob.Mailbox); got != "You have been kicked out of the server..." {
		t.Fatalf("victim notice = %q", got)
	}
	waitClosed(t, bob.Mailbox)
}

func TestExecuteKickSelfRejected(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")
	alice.Role = RoleModerator

	e.Execute("alice", "/kick alice")

	if got := lastQueued(t, alice.Mailbox); got != "You cannot kick yourself..." {
		t.Fatalf("notice = %q", got)
	}
	if r.Count() != 1 {
		t.Fatalf("self-kick mutated registry")
	}
}

func TestExecuteKickUnknownTarget(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")
	alice.Role = RoleModerator

	e.Execute("alice", "/kick ghost")

	if got := lastQueued(t, alice.Mailbox); got != "ghost not found..." {
		t.Fatalf("notice = %q", got)
	}
}

func TestExecuteCloseSignalsAndSendsFarewell(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")

	if sig := e.Execute("alice", "/close"); sig != SignalClose {
		t.Fatalf("signal = %v, want close", sig)
	}
	if got := lastQueued(t, alice.Mailbox); got != "GOODBYE!" {
		t.Fatalf("farewell = %q", got)
	}
}

func TestExecuteUnknownSendsHelp(t *testing.T) {
	e, r := newTestExecutor(t)
	alice := addSession(t, r, "alice", "x")

	e.Execute("alice", "/dance")

	got := queued(t, alice.Mailbox)
	if len(got) != len(helpLines) {
		t.Fatalf("help = %d lines, want %d", len(got), len(helpLines))
	}
	if !strings.Contains(got[0], "Available commands") {
		t.Fatalf("help starts with %q", got[0])
	}
}

func TestExecuteFromDeregisteredSenderIsNoop(t *testing.T) {
	e, r := newTestExecutor(t)
	bob := addSession(t, r, "bob", "x")

	// Sender disconnected between read and dispatch.
	e.Execute("ghost", "hello")
	e.Execute("ghost", "/list")

	if got := queued(t, bob.Mailbox); len(got) != 0 {
		t.Fatalf("ghost sender delivered messages: %v", got)
	}
}
