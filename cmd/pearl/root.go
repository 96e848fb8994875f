package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/conn-castle/pearl/internal/config"
	"github.com/conn-castle/pearl/internal/install"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/registry"
	"github.com/conn-castle/pearl/internal/role"
	"github.com/conn-castle/pearl/internal/terminal"
)

var (
	isTerminal        = terminal.IsInteractive
	defaultConfigPath = config.DefaultPath
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	installRoot string
	verbose     bool
	quiet       bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.Flags().BoolP("version", "V", false, messages.RootVersionFlag)
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", messages.RootFlagConfig)
	cmd.PersistentFlags().StringVar(&flags.installRoot, "install-root", "", messages.RootFlagInstallRoot)
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, messages.RootFlagVerbose)
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, messages.RootFlagQuiet)

	cmd.AddCommand(
		newInstallCmd(flags, false),
		newInstallCmd(flags, true),
		newUninstallCmd(flags),
		newInfoCmd(flags),
		newListCmd(flags),
		newVerifyCmd(flags),
		newConfigCmd(flags),
	)
	return cmd
}

// environment is everything a command needs, loaded from the global flags.
type environment struct {
	cfg      *config.Config
	registry *registry.FileStore
	logger   *log.Logger
	root     string
}

func loadEnvironment(cmd *cobra.Command, flags *globalFlags) (*environment, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	root := strings.TrimSpace(flags.installRoot)
	reg, err := registry.NewFileStore(role.PrependRoot(cfg.Get(config.KeyRegistryDir, ""), root))
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, registry: reg, logger: newLogger(cmd.ErrOrStderr(), flags), root: root}, nil
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	path := strings.TrimSpace(flags.configPath)
	if path == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.Load(path, os.Getenv(config.EnvPrefix))
}

func newLogger(w io.Writer, flags *globalFlags) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: messages.RootUse})
	switch {
	case flags.verbose:
		logger.SetLevel(log.DebugLevel)
	case flags.quiet:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func (e *environment) installer() (*install.Installer, error) {
	return install.New(install.Deps{
		Config:   e.cfg,
		Registry: e.registry,
		Logger:   e.logger,
	})
}
