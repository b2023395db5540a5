package core

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{
			name:  "private message",
			input: "/msg bob hello there",
			want:  Command{Kind: CommandPrivateMessage, Target: "bob", Text: "hello there"},
		},
		{
			name:  "private message keeps body spaces intact",
			input: "/msg bob one two three",
			want:  Command{Kind: CommandPrivateMessage, Target: "bob", Text: "one two three"},
		},
		{
			name:  "private message without body",
			input: "/msg bob",
			want:  Command{Kind: CommandUnknown},
		},
		{
			name:  "kick",
			input: "/kick bob",
			want:  Command{Kind: CommandKickUser, Target: "bob"},
		},
		{
			name:  "kick without target",
			input: "/kick",
			want:  Command{Kind: CommandUnknown},
		},
		{
			name:  "join",
			input: "/join gaming",
			want:  Command{Kind: CommandJoinChannel, Channel: "gaming"},
		},
		{
			name:  "join with extra token",
			input: "/join a b",
			want:  Command{Kind: CommandUnknown},
		},
		{
			name:  "list",
			input: "/list",
			want:  Command{Kind: CommandListUsers},
		},
		{
			name:  "channels",
			input: "/channels",
			want:  Command{Kind: CommandListChannels},
		},
		{
			name:  "profile",
			input: "/profile",
			want:  Command{Kind: CommandProfileView},
		},
		{
			name:  "role",
			input: "/role",
			want:  Command{Kind: CommandChangeRole},
		},
		{
			name:  "close",
			input: "/close",
			want:  Command{Kind: CommandCloseConnection},
		},
		{
			name:  "help",
			input: "/help",
			want:  Command{Kind: CommandUnknown},
		},
		{
			name:  "empty line",
			input: "",
			want:  Command{Kind: CommandUnknown},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  Command{Kind: CommandUnknown},
		},
		{
			name:  "unrecognized slash command",
			input: "/dance",
			want:  Command{Kind: CommandUnknown},
		},
		{
			name:  "plain text is a broadcast",
			input: "hello everyone",
			want:  Command{Kind: CommandBroadcast, Text: "hello everyone"},
		},
		{
			name:  "leading whitespace trimmed before parsing",
			input: "  /list\r",
			want:  Command{Kind: CommandListUsers},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.input)
			if got != tt.want {
				t.Fatalf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCommandBroadcastKeepsSecondToken(t *testing.T) {
	got := ParseCommand("msg bob hi")
	if got.Kind != CommandBroadcast || got.Text != "msg bob hi" {
		t.Fatalf("expected full-line broadcast, got %+v", got)
	}
}
