package storefront

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

func product(code string, capacity models.Capacity, energy models.EnergyClass, price float64, features ...models.Feature) models.ProductData {
	return models.ProductData{
		Image:       "https://cdn.example.com/" + code,
		Code:        code,
		Name:        "Pralka " + code,
		Color:       "biała",
		Capacity:    capacity,
		Dimensions:  "55 x 60 x 85 cm",
		Features:    features,
		EnergyClass: energy,
		Price: models.Price{
			Value:       price,
			Currency:    models.DefaultCurrency,
			Installment: models.Installment{Value: 50, Period: 60},
			ValidFrom:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			ValidTo:     time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}
}

func catalog() []models.ProductData {
	return []models.ProductData{
		product("WW90T754ABT", models.Capacity9, models.EnergyClassA, 2999, models.FeatureAIControl),
		product("WW80T534DAE", models.Capacity8, models.EnergyClassB, 1999, models.FeatureInverter),
		product("WW10T654DLH", models.Capacity10_5, models.EnergyClassA, 3499, models.FeatureAddWash, models.FeatureInverter),
		product("WW90TA046AE", models.Capacity9, models.EnergyClassB, 1999, models.FeatureAddWash),
	}
}

func codes(ps []models.ProductData) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Code
	}
	return out
}

// ─── ProductService ───────────────────────────────────────────────────────────

const listBody = `{
  "status": 200,
  "message": "Products retrieved successfully",
  "data": [{
    "image": "https://cdn.example.com/WW90",
    "code": "WW90",
    "name": "Pralka WW90",
    "color": "biała",
    "capacity": 10.5,
    "dimensions": "55 x 60 x 85 cm",
    "features": ["Panel AI Control"],
    "energyClass": "A",
    "price": {
      "value": 2999.9,
      "currency": "zł",
      "installment": {"value": 50, "period": 60},
      "validFrom": "2026-01-01T00:00:00.000Z",
      "validTo": "2026-12-31T23:59:59.000Z"
    }
  }],
  "timestamp": "2026-05-01T10:00:00.000Z"
}`

func mockAPI(t *testing.T, status int, body string) *testkit.MockTransport {
	t.Helper()
	return testkit.MockHTTP(t, testkit.MockStep{
		Method:     "httprequest",
		IsMock:     true,
		MatchURL:   "http://catalog.test/api/products",
		ReturnData: testkit.MockReturnData{StatusCode: status, JSON: []byte(body)},
	})
}

func TestProductService_MapsProducts(t *testing.T) {
	mt := mockAPI(t, http.StatusOK, listBody)

	got, err := NewProductService("http://catalog.test/api/").GetAllProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	p := got[0]
	assert.Equal(t, "WW90", p.Code)
	assert.Equal(t, models.Capacity10_5, p.Capacity)
	assert.Equal(t, models.EnergyClassA, p.EnergyClass)
	assert.Equal(t, []models.Feature{models.FeatureAIControl}, p.Features)
	assert.Equal(t, time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC), p.Price.ValidTo)
	assert.Equal(t, 1, mt.Calls(0))
}

func TestProductService_HTTPError(t *testing.T) {
	mockAPI(t, http.StatusInternalServerError, `{"status":500,"message":"Internal server error","data":null}`)

	_, err := NewProductService("http://catalog.test/api").GetAllProducts(context.Background())

	assert.EqualError(t, err, "Failed to fetch products: Internal Server Error")
}

func TestProductService_EnvelopeStatusError(t *testing.T) {
	mockAPI(t, http.StatusOK, `{"status":503,"message":"Maintenance","data":null}`)

	_, err := NewProductService("http://catalog.test/api").GetAllProducts(context.Background())

	assert.EqualError(t, err, "Maintenance")
}

func TestProductService_NetworkError(t *testing.T) {
	testkit.MockHTTP(t, testkit.MockStep{
		Method:     "httprequest",
		IsMock:     true,
		ReturnData: testkit.MockReturnData{Error: "connection refused"},
	})

	_, err := NewProductService("http://catalog.test/api").GetAllProducts(context.Background())

	assert.ErrorContains(t, err, "connection refused")
}

func TestProductService_DelayHonoursCancellation(t *testing.T) {
	mt := mockAPI(t, http.StatusOK, listBody)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProductService("http://catalog.test/api", WithDelay(time.Hour)).GetAllProducts(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mt.Calls(0))
}

// ─── Loader ───────────────────────────────────────────────────────────────────

func TestLoader_Transitions(t *testing.T) {
	var seen []Status
	l := NewLoader(func(context.Context) ([]models.ProductData, error) {
		return catalog(), nil
	}, func(s State) { seen = append(seen, s.Status) })

	assert.Equal(t, StatusIdle, l.State().Status)

	st := l.Load(context.Background())

	assert.Equal(t, StatusSuccess, st.Status)
	assert.Len(t, st.Products, 4)
	assert.NoError(t, st.Err)
	assert.Equal(t, []Status{StatusLoading, StatusSuccess}, seen)
}

func TestLoader_ErrorClearsProducts(t *testing.T) {
	fail := false
	l := NewLoader(func(context.Context) ([]models.ProductData, error) {
		if fail {
			return nil, errors.New("Failed to fetch products: Bad Gateway")
		}
		return catalog(), nil
	}, nil)

	require.Equal(t, StatusSuccess, l.Load(context.Background()).Status)

	fail = true
	st := l.Refetch(context.Background())

	assert.Equal(t, StatusError, st.Status)
	assert.Empty(t, st.Products)
	assert.EqualError(t, st.Err, "Failed to fetch products: Bad Gateway")

	fail = false
	st = l.Refetch(context.Background())
	assert.Equal(t, StatusSuccess, st.Status)
	assert.NoError(t, st.Err)
}

func TestLoader_LastArrivalWins(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	calls := 0

	l := NewLoader(func(context.Context) ([]models.ProductData, error) {
		calls++
		if calls == 1 {
			close(slowStarted)
			<-releaseSlow
			return catalog()[:1], nil
		}
		return catalog(), nil
	}, nil)

	done := make(chan State)
	go func() { done <- l.Load(context.Background()) }()
	<-slowStarted

	fast := l.Refetch(context.Background())
	assert.Equal(t, StatusLoading, fast.Status, "first fetch still in flight")
	assert.Len(t, fast.Products, 4)

	close(releaseSlow)
	slow := <-done

	assert.Equal(t, StatusSuccess, slow.Status)
	assert.Len(t, l.State().Products, 1, "later arrival overwrites")
}

func TestLoader_StateIsACopy(t *testing.T) {
	l := NewLoader(func(context.Context) ([]models.ProductData, error) { return catalog(), nil }, nil)
	l.Load(context.Background())

	st := l.State()
	st.Products[0].Features[0] = "mutated"

	assert.Equal(t, models.FeatureAIControl, l.State().Products[0].Features[0])
}

// ─── Filters ──────────────────────────────────────────────────────────────────

func TestApply_NoFiltersKeepsOrder(t *testing.T) {
	assert.Equal(t, codes(catalog()), codes(Apply(catalog(), Filters{})))
}

func TestApply_QueryIsCaseInsensitiveSubstring(t *testing.T) {
	got := Apply(catalog(), Filters{Query: "t754"})
	assert.Equal(t, []string{"WW90T754ABT"}, codes(got))
}

func TestApply_Gates(t *testing.T) {
	got := Apply(catalog(), Filters{Capacity: models.Capacity9})
	assert.Equal(t, []string{"WW90T754ABT", "WW90TA046AE"}, codes(got))

	got = Apply(catalog(), Filters{Feature: models.FeatureInverter, EnergyClass: models.EnergyClassA})
	assert.Equal(t, []string{"WW10T654DLH"}, codes(got))

	got = Apply(catalog(), Filters{Capacity: models.Capacity10_5, EnergyClass: models.EnergyClassC})
	assert.Empty(t, got)
}

func TestApply_SortIsStable(t *testing.T) {
	got := Apply(catalog(), Filters{Sort: SortPrice})
	assert.Equal(t, []string{"WW80T534DAE", "WW90TA046AE", "WW90T754ABT", "WW10T654DLH"}, codes(got))

	got = Apply(catalog(), Filters{Sort: SortCapacity})
	assert.Equal(t, []string{"WW80T534DAE", "WW90T754ABT", "WW90TA046AE", "WW10T654DLH"}, codes(got))
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := catalog()
	Apply(in, Filters{Sort: SortPrice})
	assert.Equal(t, codes(catalog()), codes(in))
}

func TestParsers(t *testing.T) {
	c, err := ParseCapacity("10,5")
	require.NoError(t, err)
	assert.Equal(t, models.Capacity10_5, c)
	_, err = ParseCapacity("7")
	assert.Error(t, err)

	e, err := ParseEnergyClass("b")
	require.NoError(t, err)
	assert.Equal(t, models.EnergyClassB, e)
	_, err = ParseEnergyClass("D")
	assert.Error(t, err)

	f, err := ParseFeature("panel ai control")
	require.NoError(t, err)
	assert.Equal(t, models.FeatureAIControl, f)
	_, err = ParseFeature("Turbo")
	assert.Error(t, err)

	k, err := ParseSortKey("Price")
	require.NoError(t, err)
	assert.Equal(t, SortPrice, k)
	_, err = ParseSortKey("name")
	assert.Error(t, err)
}

// ─── View ─────────────────────────────────────────────────────────────────────

func render(t *testing.T, st State, f Filters) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, st, f))
	return buf.String()
}

func TestRender_Loading(t *testing.T) {
	out := render(t, State{Status: StatusLoading}, Filters{})
	assert.Equal(t, SkeletonCount, strings.Count(out, cardRule))
}

func TestRender_Error(t *testing.T) {
	out := render(t, State{Status: StatusError, Err: errors.New("Failed to fetch products: Not Found")}, Filters{})
	assert.Contains(t, out, LoadErrorMessage)
	assert.Contains(t, out, "Failed to fetch products: Not Found")
	assert.Contains(t, out, RetryHint)
}

func TestRender_NoResults(t *testing.T) {
	st := State{Status: StatusSuccess, Products: catalog()}
	out := render(t, st, Filters{Capacity: models.Capacity10_5, EnergyClass: models.EnergyClassB})
	assert.Equal(t, NoResultsMessage+"\n", out)
}

func TestRender_Cards(t *testing.T) {
	st := State{Status: StatusSuccess, Products: catalog()}
	out := render(t, st, Filters{Query: "WW10"})

	assert.Equal(t, 1, strings.Count(out, cardRule))
	assert.Contains(t, out, "Pralka WW10T654DLH")
	assert.Contains(t, out, "10,5 kg")
	assert.Contains(t, out, "3 499,00 zł")
	assert.Contains(t, out, "50,00 zł x 60 rat")
	assert.Contains(t, out, "01.01.2026 - 31.12.2026")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "2 999,90 zł", FormatMoney(2999.9, "zł"))
	assert.Equal(t, "999,00 zł", FormatMoney(999, ""))
}
