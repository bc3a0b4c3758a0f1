package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/internal/app"
	"github.com/shashiranjanraj/catalog/internal/storefront"
)

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, app.Routes()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "METHOD")
	assert.Contains(t, buf.String(), "/api/products/{code}")
	assert.Contains(t, buf.String(), "products.show")
}

func TestPrintRoutes_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, nil))
	assert.Equal(t, "No named routes registered.\n", buf.String())
}

func TestParseFilters(t *testing.T) {
	t.Cleanup(func() { browseFlags.capacity, browseFlags.energyClass, browseFlags.sort = "", "", "" })

	browseFlags.capacity = "10,5"
	browseFlags.energyClass = "a"
	browseFlags.sort = "price"

	f, err := parseFilters()
	require.NoError(t, err)
	assert.Equal(t, storefront.Filters{Capacity: models.Capacity10_5, EnergyClass: models.EnergyClassA, Sort: storefront.SortPrice}, f)

	browseFlags.energyClass = "Z"
	_, err = parseFilters()
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "seed", "route:list", "browse"} {
		assert.True(t, names[want], want)
	}
}
