package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v   *viper.Viper
	cfg *Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          "matter-setup",
		Short:        "Encode, decode and extract Matter onboarding payloads",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.String("log-level", "warn", "log level: disabled, error, warn, info, debug, trace")
	pf.StringP("output", "o", outputText, "output format: text, yaml, json")

	root.AddCommand(a.newGenerateCmd(), a.newParseCmd(), a.newLoadCmd())
	return root
}

// load merges flags, environment and the optional config file.
func (a *app) load(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("MATTER_SETUP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return err
		}
	}

	cfg, err := LoadConfigFromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
