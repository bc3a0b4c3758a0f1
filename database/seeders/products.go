package seeders

import (
	"context"
	"log/slog"
	"time"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/services"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts the demo catalog when the store is empty.
func SeedProducts(ctx context.Context, repo services.ProductRepository, log *slog.Logger) error {
	return services.NewSeedProducts(repo, Products(), log).Execute(ctx)
}

var (
	priceFrom = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	priceTo   = time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
)

func price(value, monthly float64) models.Price {
	return models.Price{
		Value:       value,
		Currency:    models.DefaultCurrency,
		Installment: models.Installment{Value: monthly, Period: 60},
		ValidFrom:   priceFrom,
		ValidTo:     priceTo,
	}
}

// Products returns a fresh copy of the demo washing-machine catalog.
func Products() []models.ProductData {
	return []models.ProductData{
		{
			Image:       "https://cdn.catalog.example/products/ww90t754abt.webp",
			Code:        "WW90T754ABT",
			Name:        "Pralka QuickDrive WW90T754ABT",
			Color:       "biała",
			Capacity:    models.Capacity9,
			Dimensions:  "55 x 60 x 85 cm",
			Features:    []models.Feature{models.FeatureAIControl, models.FeatureInverter, models.FeatureLEDDisplay},
			EnergyClass: models.EnergyClassA,
			Price:       price(2999.90, 50),
		},
		{
			Image:       "https://cdn.catalog.example/products/ww10t654dlh.webp",
			Code:        "WW10T654DLH",
			Name:        "Pralka AddWash WW10T654DLH",
			Color:       "biała",
			Capacity:    models.Capacity10_5,
			Dimensions:  "60 x 60 x 85 cm",
			Features:    []models.Feature{models.FeatureAddWash, models.FeatureAIControl, models.FeatureInverter, models.FeatureLEDDisplay},
			EnergyClass: models.EnergyClassA,
			Price:       price(3499.00, 58.32),
		},
		{
			Image:       "https://cdn.catalog.example/products/ww80t534dae.webp",
			Code:        "WW80T534DAE",
			Name:        "Pralka EcoBubble WW80T534DAE",
			Color:       "biała",
			Capacity:    models.Capacity8,
			Dimensions:  "55 x 60 x 85 cm",
			Features:    []models.Feature{models.FeatureInverter, models.FeatureLEDDisplay},
			EnergyClass: models.EnergyClassB,
			Price:       price(1999.00, 33.32),
		},
		{
			Image:       "https://cdn.catalog.example/products/ww90t986ash.webp",
			Code:        "WW90T986ASH",
			Name:        "Pralka QuickDrive WW90T986ASH",
			Color:       "srebrna",
			Capacity:    models.Capacity9,
			Dimensions:  "60 x 60 x 85 cm",
			Features:    []models.Feature{models.FeatureAddWash, models.FeatureAIControl, models.FeatureInverter},
			EnergyClass: models.EnergyClassA,
			Price:       price(4199.00, 69.98),
		},
		{
			Image:       "https://cdn.catalog.example/products/ww80ta046te.webp",
			Code:        "WW80TA046TE",
			Name:        "Pralka Slim WW80TA046TE",
			Color:       "biała",
			Capacity:    models.Capacity8,
			Dimensions:  "45 x 60 x 85 cm",
			Features:    []models.Feature{models.FeatureLEDDisplay},
			EnergyClass: models.EnergyClassC,
			Price:       price(1599.00, 26.65),
		},
		{
			Image:       "https://cdn.catalog.example/products/ww10t684dlh.webp",
			Code:        "WW10T684DLH",
			Name:        "Pralka AI Ecobubble WW10T684DLH",
			Color:       "grafitowa",
			Capacity:    models.Capacity10_5,
			Dimensions:  "60 x 60 x 85 cm",
			Features:    []models.Feature{models.FeatureAIControl, models.FeatureInverter},
			EnergyClass: models.EnergyClassB,
			Price:       price(3799.00, 63.32),
		},
		{
			Image:       "https://cdn.catalog.example/products/ww90ta046ae.webp",
			Code:        "WW90TA046AE",
			Name:        "Pralka Hygiene Steam WW90TA046AE",
			Color:       "biała",
			Capacity:    models.Capacity9,
			Dimensions:  "55 x 60 x 85 cm",
			Features:    []models.Feature{models.FeatureAddWash, models.FeatureLEDDisplay},
			EnergyClass: models.EnergyClassB,
			Price:       price(2499.00, 41.65),
		},
		{
			Image:       "https://cdn.catalog.example/products/ww80t304mbw.webp",
			Code:        "WW80T304MBW",
			Name:        "Pralka Classic WW80T304MBW",
			Color:       "biała",
			Capacity:    models.Capacity8,
			Dimensions:  "55 x 60 x 85 cm",
			Features:    []models.Feature{models.FeatureInverter},
			EnergyClass: models.EnergyClassC,
			Price:       price(1399.00, 23.32),
		},
		{
			Image:       "https://cdn.catalog.example/products/ww10t754abt.webp",
			Code:        "WW10T754ABT",
			Name:        "Pralka QuickDrive WW10T754ABT",
			Color:       "czarna",
			Capacity:    models.Capacity10_5,
			Dimensions:  "60 x 60 x 85 cm",
			Features:    []models.Feature{models.FeatureAddWash, models.FeatureAIControl, models.FeatureInverter, models.FeatureLEDDisplay},
			EnergyClass: models.EnergyClassA,
			Price:       price(4599.00, 76.65),
		},
	}
}
