package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"homesearch/internal/catalog"
	"homesearch/internal/repository"
	"homesearch/internal/translator"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCmd() *cobra.Command {
	var catalogPath string

	root := &cobra.Command{
		Use:          "querytool",
		Short:        "Inspect how free-text property queries are translated",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML vocabulary file (defaults to the built-in catalog)")

	root.AddCommand(newTranslateCmd(&catalogPath), newCatalogCmd(&catalogPath))
	return root
}

func newTranslateCmd(catalogPath *string) *cobra.Command {
	var withSQL bool

	cmd := &cobra.Command{
		Use:   "translate [query...]",
		Short: "Translate a query and print the predicate as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadOrDefault(*catalogPath)
			if err != nil {
				return err
			}
			res := translator.New(cat).Translate(strings.Join(args, " "))

			out := struct {
				*translator.Result
				SQL  string        `json:"sql,omitempty"`
				Args []interface{} `json:"args,omitempty"`
			}{Result: res}

			if withSQL {
				where, sqlArgs, err := repository.Compile(res.Predicate)
				if err != nil {
					return fmt.Errorf("failed to compile predicate: %w", err)
				}
				out.SQL = where
				out.Args = sqlArgs
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&withSQL, "sql", false, "also print the compiled SQL WHERE clause")
	return cmd
}

func newCatalogCmd(catalogPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the active vocabulary as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.LoadOrDefault(*catalogPath)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cat.File())
		},
	}
}
