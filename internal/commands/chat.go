package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"taskchat/internal/chat"
	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/logging"
	"taskchat/internal/service"
)

func init() {
	Register(&ChatCmd{})
}

// ChatCmd sends messages to the assistant. With arguments it sends one
// message; without, it reads one message per line from stdin.
type ChatCmd struct {
	user         string
	conversation string
	in           io.Reader
}

// SetInput sets the reader used in interactive mode (for testing).
func (c *ChatCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ChatCmd) Name() string      { return "chat" }
func (c *ChatCmd) Aliases() []string { return []string{"say"} }
func (c *ChatCmd) Synopsis() string  { return "Talk to the task assistant" }
func (c *ChatCmd) Usage() string {
	return "taskchat chat [common flags] [--user <id>] [--conversation <id>] [message...]"
}
func (c *ChatCmd) NeedsStore() bool { return true }

func (c *ChatCmd) RegisterFlags(fs *flag.FlagSet) {
	registerUserFlag(fs, &c.user)
	fs.StringVar(&c.conversation, "conversation", "", "")
	fs.StringVar(&c.conversation, "c", "", "")
}

func (c *ChatCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	model, err := newModel(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	session := &chatSession{
		orchestrator: chat.New(svc, svc, model, nil, logging.FromContext(ctx)),
		cfg:          cfg,
		user:         resolveUser(cfg, c.user),
		conversation: c.conversation,
		out:          out,
		errOut:       errOut,
	}

	if len(args) > 0 {
		message := strings.TrimSpace(strings.Join(args, " "))
		if message == "" {
			fmt.Fprintln(errOut, "error: message required")
			return exitcode.UserError
		}
		return session.send(ctx, message)
	}

	in := c.in
	if in == nil {
		in = os.Stdin
	}
	return session.loop(ctx, in)
}

// chatSession tracks the conversation across messages of one run.
type chatSession struct {
	orchestrator *chat.Orchestrator
	cfg          *config.Config
	user         string
	conversation string
	out          io.Writer
	errOut       io.Writer
}

func (s *chatSession) send(ctx context.Context, message string) int {
	reply, err := s.orchestrator.Chat(ctx, s.user, s.conversation, message)
	if errors.Is(err, chat.ErrInvalidConversationID) {
		fmt.Fprintf(s.errOut, "error: invalid conversation id: %s\n", s.conversation)
		return exitcode.UserError
	}
	if reply.Created && !s.cfg.Quiet {
		fmt.Fprintf(s.errOut, "conversation: %d\n", reply.ConversationID)
	}
	if reply.ConversationID > 0 {
		s.conversation = strconv.FormatInt(reply.ConversationID, 10)
	}
	if reply.Text != "" {
		fmt.Fprintln(s.out, reply.Text)
	}
	if err != nil {
		return storeError(s.errOut, err)
	}
	return exitcode.Success
}

// loop sends each non-blank line until EOF, "exit" or "quit".
func (s *chatSession) loop(ctx context.Context, in io.Reader) int {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return exitcode.Success
		}
		if !s.cfg.Quiet {
			fmt.Fprint(s.errOut, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return exitcode.Success
		}
		if code := s.send(ctx, line); code != exitcode.Success {
			return code
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(s.errOut, "error: failed to read input: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
