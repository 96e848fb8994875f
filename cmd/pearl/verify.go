package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/pearl/internal/install"
	"github.com/conn-castle/pearl/internal/messages"
)

func newVerifyCmd(global *globalFlags) *cobra.Command {
	var diffLines int
	cmd := &cobra.Command{
		Use:   messages.VerifyUse,
		Short: messages.VerifyShort,
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
			previews, err := inst.Verify(install.FromFile(descriptor), install.VerifyOptions{
				InstallRoot:  env.root,
				DiffMaxLines: diffLines,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dirty := 0
			for _, p := range previews {
				state := string(p.State)
				switch p.State {
				case install.FileModified, install.FileMissing:
					dirty++
					state = color.RedString(state)
				case install.FileUnchecked:
					state = color.YellowString(state)
				default:
					state = color.GreenString(state)
				}
				_, _ = fmt.Fprintf(out, messages.VerifyLineFmt, state, p.InstalledAs)
				if p.UnifiedDiff != "" {
					_, _ = fmt.Fprint(out, p.UnifiedDiff)
				}
			}
			if dirty > 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), messages.VerifyFailed)
				return &SilentExitError{Code: 1}
			}
			_, _ = fmt.Fprintf(out, messages.VerifyCleanFmt, filepath.Base(descriptor), len(previews))
			return nil
		},
	}
	cmd.Flags().IntVar(&diffLines, "diff-lines", install.DefaultDiffMaxLines, messages.FlagDiffLines)
	return cmd
}

