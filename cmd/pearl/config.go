package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/pearl/internal/config"
	"github.com/conn-castle/pearl/internal/messages"
)

func newConfigCmd(global *globalFlags) *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   messages.ConfigUse,
		Short: messages.ConfigShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&channel, "channel", "c", "", messages.ConfigChannelFlag)

	get := &cobra.Command{
		Use:   messages.ConfigGetUse,
		Short: messages.ConfigGetShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			if _, ok := config.LookupField(args[0]); !ok {
				return fmt.Errorf(messages.ConfigUnknownKeyFmt, args[0])
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cfg.Get(args[0], channel))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   messages.ConfigSetUse,
		Short: messages.ConfigSetShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1], channel); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.ConfigSavedFmt, args[0], cfg.Get(args[0], channel))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   messages.ConfigListUse,
		Short: messages.ConfigListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			for _, f := range config.Fields() {
				if channel != "" && !f.PerChannel {
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.ConfigListLineFmt, f.Key, cfg.Get(f.Key, channel))
			}
			return nil
		},
	}

	cmd.AddCommand(get, set, list)
	return cmd
}
