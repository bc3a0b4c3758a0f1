package services

import (
	"time"

	"github.com/shashiranjanraj/catalog/app/models"
)

// ProductOutput is the application's view of a product, independent of the
// entity and of any wire format.
type ProductOutput struct {
	Image       string
	Code        string
	Name        string
	Color       string
	Capacity    float64
	Dimensions  string
	Features    []string
	EnergyClass string
	Price       PriceOutput
}

type PriceOutput struct {
	Value       float64
	Currency    string
	Installment InstallmentOutput
	ValidFrom   time.Time
	ValidTo     time.Time
}

type InstallmentOutput struct {
	Value  float64
	Period int
}

// ToOutput maps an entity. The entity's accessors already return copies,
// so the output owns its features slice.
func ToOutput(p *models.Product) ProductOutput {
	data := p.Data()

	features := make([]string, len(data.Features))
	for i, f := range data.Features {
		features[i] = string(f)
	}

	return ProductOutput{
		Image:       data.Image,
		Code:        data.Code,
		Name:        data.Name,
		Color:       data.Color,
		Capacity:    float64(data.Capacity),
		Dimensions:  data.Dimensions,
		Features:    features,
		EnergyClass: string(data.EnergyClass),
		Price: PriceOutput{
			Value:    data.Price.Value,
			Currency: data.Price.Currency,
			Installment: InstallmentOutput{
				Value:  data.Price.Installment.Value,
				Period: data.Price.Installment.Period,
			},
			ValidFrom: data.Price.ValidFrom,
			ValidTo:   data.Price.ValidTo,
		},
	}
}

// ToOutputs maps every entity; an empty input yields an empty, non-nil slice.
func ToOutputs(ps []*models.Product) []ProductOutput {
	out := make([]ProductOutput, len(ps))
	for i, p := range ps {
		out[i] = ToOutput(p)
	}
	return out
}
