package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskchat help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskchat chat [common flags] [-u <user>] [-c <conversation>] <message...>
  taskchat chat [common flags] [-u <user>] [-c <conversation>]   Read messages from stdin
  taskchat tasks [common flags] [-u <user>]
  taskchat conversations [common flags] [-u <user>]
  taskchat history [common flags] [-u <user>] -c <conversation>
  taskchat new [common flags] [-u <user>]
  taskchat login [common flags]
  taskchat logout [common flags]
  taskchat help
  taskchat version

Examples:
  taskchat chat add buy milk
  taskchat chat -c 3 "delete buy milk"
  taskchat chat -c 3 yes

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
