package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/packagexml"
)

func newInfoCmd(global *globalFlags) *cobra.Command {
	var (
		channel string
		asXML   bool
	)
	cmd := &cobra.Command{
		Use:   messages.InfoUse,
		Short: messages.InfoShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := resolveInfoPackage(cmd, global, args[0], channel)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asXML {
				data, err := packagexml.Marshal(pkg)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}
			printPackageInfo(out, pkg)
			return nil
		},
	}
	cmd.Flags().StringVarP(&channel, "channel", "c", "", messages.FlagChannel)
	cmd.Flags().BoolVar(&asXML, "xml", false, messages.FlagXML)
	return cmd
}

// resolveInfoPackage reads a descriptor file when arg names one and falls back
// to the registry otherwise.
func resolveInfoPackage(cmd *cobra.Command, global *globalFlags, arg string, channel string) (*descriptor.Package, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return packagexml.ParseFile(arg)
	}
	env, err := loadEnvironment(cmd, global)
	if err != nil {
		return nil, err
	}
	if channel == "" {
		channel = env.cfg.DefaultChannel()
	}
	return env.registry.Package(arg, channel)
}

func printPackageInfo(out io.Writer, pkg *descriptor.Package) {
	field := func(label, value string) {
		if value != "" {
			_, _ = fmt.Fprintf(out, messages.InfoFieldFmt, label, value)
		}
	}
	field("Package", pkg.Key())
	field("Version", pkg.Version)
	field("State", pkg.ReleaseState)
	field("Released", pkg.ReleaseDate)
	field("License", pkg.ReleaseLicense)
	field("Summary", pkg.Summary)
	for _, m := range pkg.Maintainers {
		field("Maintainer", fmt.Sprintf("%s <%s> (%s)", m.Handle, m.Email, m.Role))
	}
	if len(pkg.Files) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, "Files:")
	for _, f := range pkg.Files {
		target := f.Path
		if f.InstalledAs != "" {
			target = f.InstalledAs
		}
		_, _ = fmt.Fprintf(out, messages.InfoFileFmt, f.Role, target)
	}
}

func newListCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, global)
			if err != nil {
				return err
			}
			pkgs, err := env.registry.Packages()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pkgs) == 0 {
				_, _ = fmt.Fprintln(out, messages.ListEmpty)
				return nil
			}
			sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Key() < pkgs[j].Key() })
			width := len("PACKAGE")
			for _, p := range pkgs {
				width = max(width, len(p.Key()))
			}
			_, _ = fmt.Fprintf(out, messages.ListHeaderFmt, width, "PACKAGE", "VERSION", "STATE")
			for _, p := range pkgs {
				_, _ = fmt.Fprintf(out, messages.ListHeaderFmt, width, p.Key(), p.Version, p.ReleaseState)
			}
			return nil
		},
	}
}
