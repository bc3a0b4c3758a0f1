// Package storefront is the catalog client: it fetches products from the
// API, holds them in a loader with an idle/loading/success/error lifecycle,
// filters and sorts them in memory and renders them as text cards.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/resources"
	cataloghttp "github.com/shashiranjanraj/catalog/pkg/http"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

const fetchFailedMessage = "Failed to fetch products"

// ProductService reads the product list from the catalog API.
type ProductService struct {
	baseURL string
	delay   time.Duration
	timeout time.Duration
	retries int
}

type Option func(*ProductService)

// WithDelay waits d before every fetch, to make the loading state visible.
func WithDelay(d time.Duration) Option {
	return func(s *ProductService) { s.delay = d }
}

// WithTimeout bounds each request attempt.
func WithTimeout(d time.Duration) Option {
	return func(s *ProductService) { s.timeout = d }
}

// WithRetries sets the total number of attempts on transport failures.
func WithRetries(n int) Option {
	return func(s *ProductService) { s.retries = n }
}

// NewProductService targets baseURL, e.g. "http://localhost:3000/api".
func NewProductService(baseURL string, opts ...Option) *ProductService {
	s := &ProductService{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
		retries: 1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GetAllProducts fetches and maps every product. A non-2xx response or an
// envelope whose status is not 200 is an error.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.ProductData, error) {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	resp, err := cataloghttp.Get(s.baseURL+"/products").
		WithContext(ctx).
		Timeout(s.timeout).
		Retry(s.retries, 500*time.Millisecond).
		Send()
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%s: %s", fetchFailedMessage, http.StatusText(resp.StatusCode))
	}

	var env response.Envelope[[]resources.ProductDTO]
	if err := resp.JSON(&env); err != nil {
		return nil, err
	}
	if env.Status != http.StatusOK {
		if env.Message == "" {
			return nil, errors.New(fetchFailedMessage)
		}
		return nil, errors.New(env.Message)
	}

	out := make([]models.ProductData, 0, len(env.Data))
	for _, dto := range env.Data {
		p, err := fromDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", dto.Code, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func fromDTO(d resources.ProductDTO) (models.ProductData, error) {
	validFrom, err := resources.ParseTimestamp(d.Price.ValidFrom)
	if err != nil {
		return models.ProductData{}, fmt.Errorf("validFrom: %w", err)
	}
	validTo, err := resources.ParseTimestamp(d.Price.ValidTo)
	if err != nil {
		return models.ProductData{}, fmt.Errorf("validTo: %w", err)
	}

	features := make([]models.Feature, len(d.Features))
	for i, f := range d.Features {
		features[i] = models.Feature(f)
	}

	return models.ProductData{
		Image:       d.Image,
		Code:        d.Code,
		Name:        d.Name,
		Color:       d.Color,
		Capacity:    models.Capacity(d.Capacity),
		Dimensions:  d.Dimensions,
		Features:    features,
		EnergyClass: models.EnergyClass(d.EnergyClass),
		Price: models.Price{
			Value:    d.Price.Value,
			Currency: d.Price.Currency,
			Installment: models.Installment{
				Value:  d.Price.Installment.Value,
				Period: d.Price.Installment.Period,
			},
			ValidFrom: validFrom,
			ValidTo:   validTo,
		},
	}, nil
}
