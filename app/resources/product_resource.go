// Package resources shapes application output into the JSON the API
// returns. Each DTO owns its own copies of slices and formats timestamps
// with response.TimeLayout.
package resources

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

const (
	ProductRetrievedMessage  = "Product retrieved successfully"
	ProductsRetrievedMessage = "Products retrieved successfully"
)

type ProductDTO struct {
	Image       string   `json:"image"`
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Capacity    float64  `json:"capacity"`
	Dimensions  string   `json:"dimensions"`
	Features    []string `json:"features"`
	EnergyClass string   `json:"energyClass"`
	Price       PriceDTO `json:"price"`
}

type PriceDTO struct {
	Value       float64        `json:"value"`
	Currency    string         `json:"currency"`
	Installment InstallmentDTO `json:"installment"`
	ValidFrom   string         `json:"validFrom"`
	ValidTo     string         `json:"validTo"`
}

type InstallmentDTO struct {
	Value  float64 `json:"value"`
	Period int     `json:"period"`
}

// ProductResponse and ProductListResponse are the bodies of the detail and
// list endpoints.
type (
	ProductResponse     = response.Envelope[ProductDTO]
	ProductListResponse = response.Envelope[[]ProductDTO]
)

// NewProductDTO maps one output model.
func NewProductDTO(p services.ProductOutput) ProductDTO {
	features := make([]string, len(p.Features))
	copy(features, p.Features)

	return ProductDTO{
		Image:       p.Image,
		Code:        p.Code,
		Name:        p.Name,
		Color:       p.Color,
		Capacity:    p.Capacity,
		Dimensions:  p.Dimensions,
		Features:    features,
		EnergyClass: p.EnergyClass,
		Price: PriceDTO{
			Value:    p.Price.Value,
			Currency: p.Price.Currency,
			Installment: InstallmentDTO{
				Value:  p.Price.Installment.Value,
				Period: p.Price.Installment.Period,
			},
			ValidFrom: response.Timestamp(p.Price.ValidFrom),
			ValidTo:   response.Timestamp(p.Price.ValidTo),
		},
	}
}

// ToDTO wraps a single product in a 200 envelope.
func ToDTO(p services.ProductOutput) ProductResponse {
	return response.New(http.StatusOK, ProductRetrievedMessage, NewProductDTO(p))
}

// ToDTOList wraps a product list in a 200 envelope. An empty list encodes
// as "data": [].
func ToDTOList(ps []services.ProductOutput) ProductListResponse {
	dtos := make([]ProductDTO, len(ps))
	for i, p := range ps {
		dtos[i] = NewProductDTO(p)
	}
	return response.New(http.StatusOK, ProductsRetrievedMessage, dtos)
}

// ParseTimestamp reads a DTO timestamp back into an instant.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(response.TimeLayout, s)
}
