package repositories

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// productDocument is the persisted shape of a product in the products
// collection. Field names match the JSON contract so the collection can be
// read by other tools without a translation table.
type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Image       string             `bson:"image"       validate:"required"`
	Code        string             `bson:"code"        validate:"required"`
	Name        string             `bson:"name"        validate:"required"`
	Color       string             `bson:"color"       validate:"required"`
	Capacity    float64            `bson:"capacity"    validate:"required,in=8,9,10.5"`
	Dimensions  string             `bson:"dimensions"  validate:"required"`
	Features    []string           `bson:"features"    validate:"required"`
	EnergyClass string             `bson:"energyClass" validate:"required,in=A,B,C"`
	Price       priceDocument      `bson:"price"`
	CreatedAt   *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt   *time.Time         `bson:"updatedAt,omitempty"`
}

type priceDocument struct {
	Value       float64             `bson:"value"`
	Currency    string              `bson:"currency"  validate:"required"`
	Installment installmentDocument `bson:"installment"`
	ValidFrom   time.Time           `bson:"validFrom" validate:"required"`
	ValidTo     time.Time           `bson:"validTo"   validate:"required"`
}

type installmentDocument struct {
	Value  float64 `bson:"value"`
	Period int     `bson:"period"`
}

// toEntity converts a stored document into a domain product. Features and
// timestamps are copied so the entity never aliases decoder buffers.
func toEntity(doc productDocument) *models.Product {
	features := make([]models.Feature, len(doc.Features))
	for i, f := range doc.Features {
		features[i] = models.Feature(f)
	}

	data := models.ProductData{
		Image:       doc.Image,
		Code:        doc.Code,
		Name:        doc.Name,
		Color:       doc.Color,
		Capacity:    models.Capacity(doc.Capacity),
		Dimensions:  doc.Dimensions,
		Features:    features,
		EnergyClass: models.EnergyClass(doc.EnergyClass),
		Price: models.Price{
			Value:    doc.Price.Value,
			Currency: doc.Price.Currency,
			Installment: models.Installment{
				Value:  doc.Price.Installment.Value,
				Period: doc.Price.Installment.Period,
			},
			ValidFrom: doc.Price.ValidFrom,
			ValidTo:   doc.Price.ValidTo,
		},
	}

	id := ""
	if !doc.ID.IsZero() {
		id = doc.ID.Hex()
	}
	return models.RestoreProduct(id, data, doc.CreatedAt, doc.UpdatedAt)
}

func toEntities(docs []productDocument) []*models.Product {
	out := make([]*models.Product, len(docs))
	for i, d := range docs {
		out[i] = toEntity(d)
	}
	return out
}

// toDocument converts a domain product into its persisted shape. The id and
// timestamps are left empty; Create assigns them.
func toDocument(p *models.Product) productDocument {
	data := p.Data()

	features := make([]string, len(data.Features))
	for i, f := range data.Features {
		features[i] = string(f)
	}

	currency := data.Price.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	return productDocument{
		Image:       data.Image,
		Code:        data.Code,
		Name:        data.Name,
		Color:       data.Color,
		Capacity:    float64(data.Capacity),
		Dimensions:  data.Dimensions,
		Features:    features,
		EnergyClass: string(data.EnergyClass),
		Price: priceDocument{
			Value:    data.Price.Value,
			Currency: currency,
			Installment: installmentDocument{
				Value:  data.Price.Installment.Value,
				Period: data.Price.Installment.Period,
			},
			ValidFrom: data.Price.ValidFrom,
			ValidTo:   data.Price.ValidTo,
		},
	}
}

// validate applies the collection schema: required fields and the capacity
// and energy-class enumerations.
func (d productDocument) validate() error {
	if errs := validate.Struct(d); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}
