package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/pearl/internal/install"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/warnings"
)

// installFlags mirror install.Options.
type installFlags struct {
	force        bool
	registerOnly bool
	soft         bool
	noDeps       bool
	noBuild      bool
	ignoreErrors bool
	group        string
}

func (f installFlags) options(root string, upgrade bool) install.Options {
	return install.Options{
		InstallRoot:    root,
		Force:          f.force,
		RegisterOnly:   f.registerOnly,
		Upgrade:        upgrade,
		Soft:           f.soft,
		NoDeps:         f.noDeps,
		NoBuild:        f.noBuild,
		IgnoreErrors:   f.ignoreErrors,
		RequestedGroup: f.group,
	}
}

func newInstallCmd(global *globalFlags, upgrade bool) *cobra.Command {
	var flags installFlags
	use, short := messages.InstallUse, messages.InstallShort
	if upgrade {
		use, short = messages.UpgradeUse, messages.UpgradeShort
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, global)
			if err != nil {
				return err
			}
			inst, err := env.installer()
			if err != nil {
				return err
			}
			descriptor, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			res, err := inst.Install(cmd.Context(), install.FromFile(descriptor), flags.options(env.root, upgrade))
			if res != nil {
				printWarnings(cmd.ErrOrStderr(), res.Warnings, env.cfg.NoiseMode(), global.quiet)
			}
			if err != nil {
				return err
			}
			printInstallResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, messages.FlagForce)
	cmd.Flags().BoolVarP(&flags.registerOnly, "register-only", "r", false, messages.FlagRegisterOnly)
	cmd.Flags().BoolVarP(&flags.soft, "soft", "s", false, messages.FlagSoft)
	cmd.Flags().BoolVarP(&flags.noDeps, "nodeps", "n", false, messages.FlagNoDeps)
	cmd.Flags().BoolVarP(&flags.noBuild, "nobuild", "B", false, messages.FlagNoBuild)
	cmd.Flags().BoolVar(&flags.ignoreErrors, "ignore-errors", false, messages.FlagIgnoreErrors)
	cmd.Flags().StringVarP(&flags.group, "group", "g", "", messages.FlagGroup)
	return cmd
}

func printInstallResult(out io.Writer, res *install.Result) {
	for _, b := range res.Built {
		_, _ = fmt.Fprintf(out, messages.BuiltModuleFmt, filepath.Base(b.File))
	}
	if len(res.Skipped) > 0 {
		_, _ = fmt.Fprintf(out, messages.SkippedFilesFmt, len(res.Skipped))
	}
	pkg := res.Package
	if res.Upgraded {
		_, _ = fmt.Fprintf(out, messages.UpgradeDoneFmt, pkg.Key(), pkg.Version, res.Previous)
		return
	}
	_, _ = fmt.Fprintf(out, messages.InstallDoneFmt, pkg.Key(), pkg.Version)
}

// printWarnings renders warnings after noise control. quiet drops them all.
func printWarnings(out io.Writer, items []warnings.Warning, noiseMode string, quiet bool) {
	if quiet {
		noiseMode = warnings.NoiseModeQuiet
	}
	items = warnings.ApplyNoiseControl(items, noiseMode)
	warnColor := color.New(color.FgYellow)
	critColor := color.New(color.FgRed)
	for _, w := range items {
		c := warnColor
		if w.Severity == warnings.SeverityCritical {
			c = critColor
		}
		_, _ = c.Fprintln(out, w.String())
		_, _ = fmt.Fprintln(out)
	}
}
