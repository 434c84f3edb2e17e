package cli

import (
	"errors"
	"fmt"

	"vitae-cli/internal/store"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

var errNotConfirmed = errors.New("aborted")

// askConfirm is swapped out in tests; survey needs a real terminal.
var askConfirm = func(message string, def bool) (bool, error) {
	out := def
	prompt := &survey.Confirm{Message: message, Default: def}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, err
	}
	return out, nil
}

// confirmDelete asks before a destructive command unless --yes was passed or the user chose
// not to be asked again. Answering the follow-up question stores that choice.
func confirmDelete(cmd *cobra.Command, yes bool, what string) error {
	if yes {
		return nil
	}
	if cfg, err := store.LoadConfig(); err == nil && cfg.SkipItemDeleteConfirmation {
		return nil
	}
	ok, err := askConfirm(fmt.Sprintf("Delete %s?", what), false)
	if err != nil {
		return fmt.Errorf("confirm (pass --yes to skip): %w", err)
	}
	if !ok {
		return errNotConfirmed
	}
	again, err := askConfirm("Don't ask again?", false)
	if err == nil && again {
		if _, err := store.UpdateConfig(func(cfg *store.GlobalConfig) {
			cfg.SkipItemDeleteConfirmation = true
		}); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "could not save preference:", err)
		}
	}
	return nil
}
