package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/internal/app"
)

var seedOnly []string

// catalog seed [--only products]
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		names := seedOnly
		if len(names) == 0 {
			names = seeders.Names()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Running seeders %v…\n", names)
		return seeders.Run(cmd.Context(), a.Repo, a.Log, seedOnly...)
	},
}

func init() {
	seedCmd.Flags().StringSliceVar(&seedOnly, "only", nil, "run only the named seeders")
}
