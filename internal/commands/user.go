package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/llm"
	"taskchat/internal/service"
)

// registerUserFlag registers --user and its short form -u.
func registerUserFlag(fs *flag.FlagSet, user *string) {
	fs.StringVar(user, "user", "", "")
	fs.StringVar(user, "u", "", "")
}

// resolveUser returns the flag value, or the configured user.
func resolveUser(cfg *config.Config, flagValue string) string {
	if u := strings.TrimSpace(flagValue); u != "" {
		return u
	}
	return cfg.User()
}

// newModel builds the language model client from settings.
// A nil client means keyword classification only.
func newModel(cfg *config.Config) (llm.Client, error) {
	s := cfg.Settings.LLM
	return llm.New(llm.Config{
		Provider: s.Provider,
		Model:    s.Model,
		APIKey:   s.APIKey,
		BaseURL:  s.BaseURL,
		Timeout:  s.Timeout,
	})
}

// storeError reports a backend failure and returns its exit code.
func storeError(errOut io.Writer, err error) int {
	if errors.Is(err, service.ErrUnauthorized) {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
