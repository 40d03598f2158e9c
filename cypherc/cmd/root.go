/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cmd

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hypermodeinc/cypherhttp/cypherc/cmd/query"
	"github.com/hypermodeinc/cypherhttp/cypherc/cmd/shell"
	"github.com/hypermodeinc/cypherhttp/cypherc/cmd/version"
	"github.com/hypermodeinc/cypherhttp/x"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cypherc",
	Short: "cypherc: run Cypher statements over HTTP",
	Long: `
cypherc sends Cypher statements to a graph database's HTTP transaction commit
endpoint and prints the results as tables or JSON. All statements of one
invocation are committed together, or not at all.
` + x.BuildDetails(),
	PersistentPreRunE: cobra.NoArgs,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// glog complains unless the go flag set has been parsed.
	x.Check(goflag.CommandLine.Parse([]string{}))
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootConf = viper.New()

// subcommands initialized in this file.
var subcommands = []*x.SubCommand{
	&query.Query, &shell.Shell, &version.Version,
}

func init() {
	RootCmd.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
	x.Check(rootConf.BindPFlags(RootCmd.PersistentFlags()))

	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	// Log to stderr. Only failures and -v output are logged by default.
	x.Check(flag.Set("logtostderr", "true"))

	for _, sc := range subcommands {
		RootCmd.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		x.Check(sc.Conf.BindPFlags(sc.Cmd.Flags()))
		x.Check(sc.Conf.BindPFlags(RootCmd.PersistentFlags()))
		sc.Conf.AutomaticEnv()
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)
	}
	cobra.OnInitialize(func() {
		cfg := rootConf.GetString("config")
		if cfg == "" {
			return
		}
		for _, sc := range subcommands {
			sc.Conf.SetConfigFile(cfg)
			x.Checkf(sc.Conf.ReadInConfig(), "while reading config %s", cfg)
		}
	})
}
