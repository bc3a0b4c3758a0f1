package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() ProductData {
	return ProductData{
		Image:       "https://cdn.example.com/ww90.png",
		Code:        "WW90T754ABT",
		Name:        "Pralka QuickDrive",
		Color:       "biała",
		Capacity:    Capacity9,
		Dimensions:  "55 x 60 x 85 cm",
		Features:    []Feature{FeatureAddWash, FeatureInverter},
		EnergyClass: EnergyClassA,
		Price: Price{
			Value:       2199.99,
			Currency:    DefaultCurrency,
			Installment: Installment{Value: 55, Period: 40},
			ValidFrom:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			ValidTo:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestNewProduct(t *testing.T) {
	p := NewProduct(sampleData())

	assert.True(t, p.IsTransient())
	assert.Empty(t, p.ID())
	assert.Nil(t, p.CreatedAt())
	assert.Equal(t, "WW90T754ABT", p.Code())
	assert.Equal(t, Capacity9, p.Capacity())
	assert.Equal(t, []Feature{FeatureAddWash, FeatureInverter}, p.Features())
}

func TestProduct_IsolatedFromInput(t *testing.T) {
	data := sampleData()
	p := NewProduct(data)

	data.Features[0] = FeatureLEDDisplay
	data.Code = "CHANGED"

	assert.Equal(t, FeatureAddWash, p.Features()[0])
	assert.Equal(t, "WW90T754ABT", p.Code())
}

func TestProduct_AccessorsReturnCopies(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := RestoreProduct("65f0c0ffee", sampleData(), &created, &created)

	fs := p.Features()
	fs[0] = FeatureLEDDisplay
	assert.Equal(t, FeatureAddWash, p.Features()[0])

	d := p.Data()
	d.Features[1] = FeatureAIControl
	assert.Equal(t, FeatureInverter, p.Features()[1])

	ts := p.CreatedAt()
	*ts = ts.Add(time.Hour)
	assert.Equal(t, created, *p.CreatedAt())

	created = created.Add(24 * time.Hour)
	assert.NotEqual(t, created, *p.CreatedAt())
}

func TestProductData_Clone(t *testing.T) {
	d := sampleData()
	c := d.Clone()
	require.Equal(t, d, c)

	c.Features[0] = FeatureAIControl
	assert.Equal(t, FeatureAddWash, d.Features[0])

	var empty ProductData
	assert.Nil(t, empty.Clone().Features)
}

func TestEnumerations(t *testing.T) {
	for _, c := range Capacities {
		assert.True(t, c.Valid())
	}
	assert.False(t, Capacity(7).Valid())

	for _, e := range EnergyClasses {
		assert.True(t, e.Valid())
	}
	assert.False(t, EnergyClass("D").Valid())
}

func TestHasFeature(t *testing.T) {
	d := sampleData()
	assert.True(t, d.HasFeature(FeatureInverter))
	assert.False(t, d.HasFeature(FeatureAIControl))
}
