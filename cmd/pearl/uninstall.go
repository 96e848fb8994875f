package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/conn-castle/pearl/internal/install"
	"github.com/conn-castle/pearl/internal/messages"
)

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// confirmFunc asks a yes/no question on the terminal. Esc and Ctrl+C answer no.
var confirmFunc = func(title string) (bool, error) {
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(&confirmed),
	))
	form.WithKeyMap(confirmKeyMap())
	form.WithProgramOptions(tea.WithOutput(os.Stderr))
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return confirmed, err
}

func confirmKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
	return km
}

func newUninstallCmd(global *globalFlags) *cobra.Command {
	var (
		channel string
		yes     bool
		noDeps  bool
	)
	cmd := &cobra.Command{
		Use:   messages.UninstallUse,
		Short: messages.UninstallShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, global)
			if err != nil {
				return err
			}
			name := args[0]
			if channel == "" {
				channel = env.cfg.DefaultChannel()
			}
			if !yes {
				pkg, err := env.registry.Package(name, channel)
				if err != nil {
					return err
				}
				if !isTerminal() {
					return errors.New(messages.UninstallNeedsConfirm)
				}
				ok, err := confirmFunc(fmt.Sprintf(messages.UninstallConfirmFmt, pkg.Key(), pkg.Version, len(pkg.InstalledFiles())))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.UninstallCancelled)
					return nil
				}
			}

			inst, err := env.installer()
			if err != nil {
				return err
			}
			res, err := inst.Uninstall(cmd.Context(), name, channel, install.Options{InstallRoot: env.root, NoDeps: noDeps})
			if res != nil {
				printWarnings(cmd.ErrOrStderr(), res.Warnings, env.cfg.NoiseMode(), global.quiet)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.UninstallDoneFmt, res.Package.Key())
			return nil
		},
	}
	cmd.Flags().StringVarP(&channel, "channel", "c", "", messages.FlagChannel)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.FlagYes)
	cmd.Flags().BoolVarP(&noDeps, "nodeps", "n", false, messages.FlagNoDeps)
	return cmd
}
