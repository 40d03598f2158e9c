/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package query

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/hypermodeinc/cypherhttp/client"
	"github.com/hypermodeinc/cypherhttp/cypherc/cmd/common"
	"github.com/hypermodeinc/cypherhttp/x"
)

// Query is the sub-command invoked when running "cypherc query".
var Query x.SubCommand

func init() {
	Query.Cmd = &cobra.Command{
		Use:   "query",
		Short: "Run statements against the transaction commit endpoint",
		Long: `
Runs the statements given with -s as one transaction. Every file given with -f
is run as a transaction of its own. Files are submitted concurrently, but their
results are printed in the order the files were given.`,
		Example: `  cypherc query -s 'MATCH (p:Person) WHERE p.age > $age RETURN p.name AS name' -p age=30
  cypherc query -f people.yaml -f movies.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), Query.Conf, cmd.OutOrStdout())
		},
		Annotations: map[string]string{"group": "tool"},
	}
	Query.EnvPrefix = "CYPHERC_QUERY"
	Query.Cmd.SetHelpTemplate(x.NonRootTemplate)

	flag := Query.Cmd.Flags()
	common.FillConnFlags(flag)
	flag.StringArrayP("statement", "s", nil,
		"Statement to run. Repeat to run several in one transaction.")
	flag.StringArrayP("param", "p", nil,
		"Parameter of the -s statements as name=value. The value is parsed as JSON, "+
			"falling back to a plain string.")
	flag.StringArrayP("file", "f", nil,
		"YAML file with a list of statements. Each file runs as its own transaction.")
	flag.Int("conc", 4, "Number of transactions submitted concurrently.")
}

// txn is a group of statements committed together.
type txn struct {
	name       string
	statements []client.Statement
}

type statementFile struct {
	Statements []client.Statement `yaml:"statements"`
}

func loadFile(path string) ([]client.Statement, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading %s", path)
	}
	var sf statementFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, errors.Wrapf(err, "while parsing %s", path)
	}
	if len(sf.Statements) == 0 {
		return nil, errors.Errorf("%s contains no statements", path)
	}
	for i, s := range sf.Statements {
		if strings.TrimSpace(s.Statement) == "" {
			return nil, errors.Errorf("%s: statement %d is empty", path, i+1)
		}
	}
	return sf.Statements, nil
}

func collect(conf *viper.Viper) ([]txn, error) {
	var txns []txn
	if texts := conf.GetStringSlice("statement"); len(texts) > 0 {
		params, err := common.ParseParams(conf.GetStringSlice("param"))
		if err != nil {
			return nil, err
		}
		t := txn{name: "command line"}
		for _, text := range texts {
			t.statements = append(t.statements, client.NewStatement(text, params))
		}
		txns = append(txns, t)
	} else if len(conf.GetStringSlice("param")) > 0 {
		return nil, errors.New("--param only applies to statements given with --statement")
	}

	for _, path := range conf.GetStringSlice("file") {
		stmts, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn{name: path, statements: stmts})
	}
	if len(txns) == 0 {
		return nil, errors.New("nothing to run, pass --statement or --file")
	}
	return txns, nil
}

func run(ctx context.Context, conf *viper.Viper, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format := conf.GetString("format")
	if format != "table" && format != "json" {
		return errors.Errorf("unknown format %q, want one of [table, json]", format)
	}
	txns, err := collect(conf)
	if err != nil {
		return err
	}
	c, closer, err := common.NewClient(conf)
	if err != nil {
		return err
	}
	defer closer()

	results := make([][]client.Result, len(txns))
	errs := make([]error, len(txns))
	var g errgroup.Group
	if conc := conf.GetInt("conc"); conc > 0 {
		g.SetLimit(conc)
	}
	for i, t := range txns {
		g.Go(func() error {
			glog.V(1).Infof("Running %d statements from %s", len(t.statements), t.name)
			results[i], errs[i] = c.Query(ctx, t.statements)
			return nil
		})
	}
	x.Ignore(g.Wait())

	var failed int
	for i, t := range txns {
		if len(txns) > 1 {
			fmt.Fprintf(out, "# %s\n", t.name)
		}
		if errs[i] != nil {
			failed++
			fmt.Fprintf(out, "Error: %v\n", errs[i])
			continue
		}
		if err := common.PrintResults(out, results[i], format); err != nil {
			return err
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d transactions failed", failed, len(txns))
	}
	return nil
}
