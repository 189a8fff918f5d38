package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flipradar-io/flipradar/internal/api/client"
	"github.com/flipradar-io/flipradar/internal/pipeline"
)

func scanCmd() *cobra.Command {
	var game string

	cmd := &cobra.Command{
		Use:   "scan <query>",
		Short: "Scan for flip opportunities",
		Long:  "Sends a scan request to the API server and displays ranked opportunities.",
		Example: `  flipradar scan "charizard 4/102"
  flipradar scan "black lotus" --game mtg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), game, args[0], false)
		},
	}
	cmd.Flags().StringVar(&game, "game", "pokemon", "game category (pokemon, mtg)")

	return cmd
}

func catalogCmd() *cobra.Command {
	var game string

	cmd := &cobra.Command{
		Use:   "catalog <query>",
		Short: "Scan against TCGplayer market price",
		Long:  "Anchors the card on its TCGplayer product and displays listings flippable at the catalog market price.",
		Example: `  flipradar catalog "charizard"
  flipradar catalog "black lotus" --game mtg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), game, args[0], true)
		},
	}
	cmd.Flags().StringVar(&game, "game", "pokemon", "game category (pokemon, mtg)")

	return cmd
}

func runScan(ctx context.Context, game, query string, catalog bool) error {
	c := client.New(viper.GetString("server"))
	req := client.ScanRequest{Game: game, Query: query}

	var (
		res *pipeline.Result
		err error
	)
	if catalog {
		res, err = c.CatalogScan(ctx, req)
	} else {
		res, err = c.Scan(ctx, req)
	}
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	fmt.Println(string(pretty))
	return nil
}
