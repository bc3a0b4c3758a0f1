package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/internal/storefront"
)

var browseFlags struct {
	apiURL      string
	query       string
	capacity    string
	energyClass string
	feature     string
	sort        string
	delay       time.Duration
	retries     int
}

// catalog browse: fetch the product list and print it as cards.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Fetch products from the API and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseFilters()
		if err != nil {
			return err
		}

		svc := storefront.NewProductService(browseFlags.apiURL,
			storefront.WithDelay(browseFlags.delay),
			storefront.WithRetries(browseFlags.retries),
		)
		out := cmd.OutOrStdout()

		loader := storefront.NewLoader(svc.GetAllProducts, func(s storefront.State) {
			if s.Loading() {
				_ = storefront.Render(out, s, filters)
			}
		})
		st := loader.Load(cmd.Context())
		return storefront.Render(out, st, filters)
	},
}

func parseFilters() (storefront.Filters, error) {
	var (
		f   = storefront.Filters{Query: browseFlags.query}
		err error
	)
	if f.Capacity, err = storefront.ParseCapacity(browseFlags.capacity); err != nil {
		return f, err
	}
	if f.EnergyClass, err = storefront.ParseEnergyClass(browseFlags.energyClass); err != nil {
		return f, err
	}
	if f.Feature, err = storefront.ParseFeature(browseFlags.feature); err != nil {
		return f, err
	}
	if f.Sort, err = storefront.ParseSortKey(browseFlags.sort); err != nil {
		return f, err
	}
	return f, nil
}

func init() {
	fs := browseCmd.Flags()
	fs.StringVar(&browseFlags.apiURL, "api-url", config.CatalogAPIURL(), "catalog API base URL")
	fs.StringVarP(&browseFlags.query, "query", "q", "", "filter by product code (case-insensitive substring)")
	fs.StringVar(&browseFlags.capacity, "capacity", "", "filter by capacity: 8, 9 or 10.5")
	fs.StringVar(&browseFlags.energyClass, "energy-class", "", "filter by energy class: A, B or C")
	fs.StringVar(&browseFlags.feature, "feature", "", "filter by feature label")
	fs.StringVar(&browseFlags.sort, "sort", "", "sort by price or capacity")
	fs.DurationVar(&browseFlags.delay, "delay", 0, "wait before fetching")
	fs.IntVar(&browseFlags.retries, "retries", 3, "attempts on network failure")
}
