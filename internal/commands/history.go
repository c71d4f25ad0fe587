package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchat/internal/chat"
	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/output"
	"taskchat/internal/service"
)

func init() {
	Register(&HistoryCmd{})
}

// HistoryCmd prints the turns of one conversation.
type HistoryCmd struct {
	user         string
	conversation string
}

func (c *HistoryCmd) Name() string      { return "history" }
func (c *HistoryCmd) Aliases() []string { return nil }
func (c *HistoryCmd) Synopsis() string  { return "Print a conversation" }
func (c *HistoryCmd) Usage() string {
	return "taskchat history [common flags] [--user <id>] --conversation <id>"
}
func (c *HistoryCmd) NeedsStore() bool { return true }

func (c *HistoryCmd) RegisterFlags(fs *flag.FlagSet) {
	registerUserFlag(fs, &c.user)
	fs.StringVar(&c.conversation, "conversation", "", "")
	fs.StringVar(&c.conversation, "c", "", "")
}

func (c *HistoryCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref := c.conversation
	if ref == "" && len(args) == 1 {
		ref = args[0]
	}
	if ref == "" {
		fmt.Fprintln(errOut, "error: conversation id required")
		return exitcode.UserError
	}

	convID, err := chat.ParseConversationID(ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid conversation id: %s\n", ref)
		return exitcode.UserError
	}

	turns, err := svc.ListTurns(ctx, convID, resolveUser(cfg, c.user))
	if err != nil {
		return storeError(errOut, err)
	}

	for _, turn := range turns {
		output.FormatTurn(out, turn)
	}
	return exitcode.Success
}
