package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/output"
	"taskchat/internal/service"
)

func init() {
	Register(&ConversationsCmd{})
	Register(&NewConversationCmd{})
}

// ConversationsCmd prints the user's conversations, most recent first.
type ConversationsCmd struct {
	user string
}

func (c *ConversationsCmd) Name() string      { return "conversations" }
func (c *ConversationsCmd) Aliases() []string { return []string{"convs"} }
func (c *ConversationsCmd) Synopsis() string  { return "Print all conversations" }
func (c *ConversationsCmd) Usage() string     { return "taskchat conversations [common flags] [--user <id>]" }
func (c *ConversationsCmd) NeedsStore() bool  { return true }

func (c *ConversationsCmd) RegisterFlags(fs *flag.FlagSet) {
	registerUserFlag(fs, &c.user)
}

func (c *ConversationsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	convs, err := svc.ListConversations(ctx, resolveUser(cfg, c.user))
	if err != nil {
		return storeError(errOut, err)
	}

	if len(convs) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no conversations")
	}
	for _, conv := range convs {
		output.FormatConversation(out, conv)
	}
	return exitcode.Success
}

// NewConversationCmd starts an empty conversation and prints its id.
type NewConversationCmd struct {
	user string
}

func (c *NewConversationCmd) Name() string      { return "new" }
func (c *NewConversationCmd) Aliases() []string { return nil }
func (c *NewConversationCmd) Synopsis() string  { return "Start a new conversation" }
func (c *NewConversationCmd) Usage() string     { return "taskchat new [common flags] [--user <id>]" }
func (c *NewConversationCmd) NeedsStore() bool  { return true }

func (c *NewConversationCmd) RegisterFlags(fs *flag.FlagSet) {
	registerUserFlag(fs, &c.user)
}

func (c *NewConversationCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	conv, err := svc.CreateConversation(ctx, resolveUser(cfg, c.user))
	if err != nil {
		return storeError(errOut, err)
	}
	fmt.Fprintln(out, conv.ID)
	return exitcode.Success
}
