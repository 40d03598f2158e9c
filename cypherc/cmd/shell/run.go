/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package shell

import (
	"context"
	"io"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hypermodeinc/cypherhttp/cypherc/cmd/common"
	"github.com/hypermodeinc/cypherhttp/x"
)

// Shell is the sub-command invoked when running "cypherc shell".
var Shell x.SubCommand

func init() {
	Shell.Cmd = &cobra.Command{
		Use:   "shell",
		Short: "Run statements interactively",
		Long: `
Starts an interactive shell. A statement may span several lines and is sent
once a line ends with ';'. Every statement is committed on its own. Type :help
for the list of shell commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), Shell.Conf, cmd.OutOrStdout())
		},
		Annotations: map[string]string{"group": "tool"},
	}
	Shell.EnvPrefix = "CYPHERC_SHELL"
	Shell.Cmd.SetHelpTemplate(x.NonRootTemplate)

	flag := Shell.Cmd.Flags()
	common.FillConnFlags(flag)
	flag.String("history", "", "File to keep the shell history in. Disabled when empty.")
}

func run(ctx context.Context, conf *viper.Viper, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format := conf.GetString("format")
	if format != "table" && format != "json" {
		return errors.Errorf("unknown format %q, want one of [table, json]", format)
	}
	c, closer, err := common.NewClient(conf)
	if err != nil {
		return err
	}
	defer closer()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptFirst,
		HistoryFile:     conf.GetString("history"),
		InterruptPrompt: "^C",
		EOFPrompt:       ":exit",
		Stdout:          out,
	})
	if err != nil {
		return errors.Wrap(err, "while starting shell")
	}
	defer rl.Close()

	s := newSession(c, out, format)
	s.printf("Connected to %s as %s. Type :help for help.\n",
		c.CommitURL(), conf.GetString("user"))
	for {
		line, err := rl.Readline()
		switch {
		case err == readline.ErrInterrupt:
			// Drop the statement being typed, exit on an empty line.
			if s.pending() == 0 && len(line) == 0 {
				return nil
			}
			s.reset()
			rl.SetPrompt(s.prompt())
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return errors.Wrap(err, "while reading line")
		}
		if exit := s.handle(ctx, line); exit {
			return nil
		}
		rl.SetPrompt(s.prompt())
	}
}
