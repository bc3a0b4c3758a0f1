package models

import "time"

// Capacity is the drum load in kilograms.
type Capacity float64

const (
	Capacity8    Capacity = 8
	Capacity9    Capacity = 9
	Capacity10_5 Capacity = 10.5
)

// Capacities lists every allowed capacity in ascending order.
var Capacities = []Capacity{Capacity8, Capacity9, Capacity10_5}

// EnergyClass is the EU energy label.
type EnergyClass string

const (
	EnergyClassA EnergyClass = "A"
	EnergyClassB EnergyClass = "B"
	EnergyClassC EnergyClass = "C"
)

// EnergyClasses lists every allowed energy class.
var EnergyClasses = []EnergyClass{EnergyClassA, EnergyClassB, EnergyClassC}

// Feature is one label from the fixed feature vocabulary.
type Feature string

const (
	FeatureAddWash    Feature = "Drzwi AddWash™"
	FeatureAIControl  Feature = "Panel AI Control"
	FeatureInverter   Feature = "Silnik inwerterowy"
	FeatureLEDDisplay Feature = "Wyświetlacz elektroniczny"
)

// Features lists the feature vocabulary.
var Features = []Feature{FeatureAddWash, FeatureAIControl, FeatureInverter, FeatureLEDDisplay}

// DefaultCurrency is applied by the store when a price has none.
const DefaultCurrency = "zł"

// Valid reports whether c is one of Capacities.
func (c Capacity) Valid() bool {
	for _, v := range Capacities {
		if v == c {
			return true
		}
	}
	return false
}

// Valid reports whether e is one of EnergyClasses.
func (e EnergyClass) Valid() bool {
	for _, v := range EnergyClasses {
		if v == e {
			return true
		}
	}
	return false
}

// Installment is a monthly instalment offer.
type Installment struct {
	Value  float64
	Period int
}

// Price is the current price of a product and its validity window.
// ValidFrom <= ValidTo is expected but not enforced.
type Price struct {
	Value       float64
	Currency    string
	Installment Installment
	ValidFrom   time.Time
	ValidTo     time.Time
}

// ProductData is the descriptive content of a product, without the
// store-assigned identity and timestamps.
type ProductData struct {
	Image       string
	Code        string
	Name        string
	Color       string
	Capacity    Capacity
	Dimensions  string
	Features    []Feature
	EnergyClass EnergyClass
	Price       Price
}

// Clone returns a deep copy of d. Every layer boundary passes data through
// Clone so no two layers share the Features backing array.
func (d ProductData) Clone() ProductData {
	out := d
	out.Features = CloneFeatures(d.Features)
	return out
}

// CloneFeatures copies fs; nil stays nil.
func CloneFeatures(fs []Feature) []Feature {
	if fs == nil {
		return nil
	}
	out := make([]Feature, len(fs))
	copy(out, fs)
	return out
}

// HasFeature reports whether f is in d.Features.
func (d ProductData) HasFeature(f Feature) bool {
	for _, v := range d.Features {
		if v == f {
			return true
		}
	}
	return false
}

// Product is one catalog item. It is immutable: every accessor returns a
// copy, and changing a product means constructing a new one.
type Product struct {
	id        string
	data      ProductData
	createdAt *time.Time
	updatedAt *time.Time
}

// NewProduct builds a transient product that has not been stored yet.
// The domain trusts its input; enumerations are checked by the store.
func NewProduct(data ProductData) *Product {
	return &Product{data: data.Clone()}
}

// RestoreProduct rebuilds a stored product with its identity and timestamps.
func RestoreProduct(id string, data ProductData, createdAt, updatedAt *time.Time) *Product {
	return &Product{
		id:        id,
		data:      data.Clone(),
		createdAt: cloneTime(createdAt),
		updatedAt: cloneTime(updatedAt),
	}
}

// ID is empty until the store assigns one.
func (p *Product) ID() string { return p.id }

func (p *Product) Image() string            { return p.data.Image }
func (p *Product) Code() string             { return p.data.Code }
func (p *Product) Name() string             { return p.data.Name }
func (p *Product) Color() string            { return p.data.Color }
func (p *Product) Capacity() Capacity       { return p.data.Capacity }
func (p *Product) Dimensions() string       { return p.data.Dimensions }
func (p *Product) EnergyClass() EnergyClass { return p.data.EnergyClass }
func (p *Product) Price() Price             { return p.data.Price }
func (p *Product) Features() []Feature      { return CloneFeatures(p.data.Features) }

// Data returns a deep copy of the product's content.
func (p *Product) Data() ProductData { return p.data.Clone() }

// CreatedAt and UpdatedAt are nil on transient products.
func (p *Product) CreatedAt() *time.Time { return cloneTime(p.createdAt) }
func (p *Product) UpdatedAt() *time.Time { return cloneTime(p.updatedAt) }

// IsTransient reports whether the product has not been stored yet.
func (p *Product) IsTransient() bool { return p.id == "" }

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
