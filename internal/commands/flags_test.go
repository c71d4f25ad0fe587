package commands_test

import (
	"flag"
	"io"
	"testing"

	"taskchat/internal/commands"
	"taskchat/internal/testutil"
)

// setFlags parses args into cmd's flags the way the dispatcher does.
func setFlags(t *testing.T, cmd commands.Command, args ...string) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags %v: %v", args, err)
	}
}

func TestUserFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"long", []string{"--user", "alice"}},
		{"short", []string{"-u", "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStoreWithTask("alice", "Alice's task")
			cmd := &commands.TasksCmd{}
			setFlags(t, cmd, tt.args...)

			stdout, _, _ := runCommand(t, cmd, svc, nil, false)
			expected := "   1  [ ] Alice's task\n"
			if stdout != expected {
				t.Errorf("expected %q, got %q", expected, stdout)
			}
		})
	}
}

func newStoreWithTask(userID, title string) *testutil.FakeStore {
	s := testutil.NewFakeStore()
	s.AddTask(userID, title)
	return s
}
