package storefront

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/shashiranjanraj/catalog/app/models"
)

const (
	SkeletonCount = 6

	LoadErrorMessage = "Wystąpił błąd podczas ładowania produktów"
	RetryHint        = "Spróbuj ponownie"
	NoResultsMessage = "Brak produktów spełniających kryteria wyszukiwania"

	dateLayout = "02.01.2006"
	cardRule   = "────────────────────────────────────────"
)

// Render writes the view for state with filters applied: skeleton cards
// while loading, the error with a retry hint, a no-results line when
// nothing matches, product cards otherwise.
func Render(w io.Writer, state State, f Filters) error {
	switch state.Status {
	case StatusIdle, StatusLoading:
		return renderSkeletons(w)
	case StatusError:
		msg := ""
		if state.Err != nil {
			msg = state.Err.Error()
		}
		_, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n", LoadErrorMessage, msg, RetryHint)
		return err
	}

	products := Apply(state.Products, f)
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, NoResultsMessage)
		return err
	}

	for _, p := range products {
		if err := renderCard(w, p); err != nil {
			return err
		}
	}
	return nil
}

func renderSkeletons(w io.Writer) error {
	long, short := strings.Repeat("░", 28), strings.Repeat("░", 14)
	for i := 0; i < SkeletonCount; i++ {
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n\n", cardRule, long, short, long); err != nil {
			return err
		}
	}
	return nil
}

func renderCard(w io.Writer, p models.ProductData) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", cardRule, p.Name); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	features := make([]string, len(p.Features))
	for i, f := range p.Features {
		features[i] = string(f)
	}
	rows := [][2]string{
		{"Kod", p.Code},
		{"Kolor", p.Color},
		{"Pojemność", FormatCapacity(p.Capacity)},
		{"Wymiary", p.Dimensions},
		{"Funkcje", strings.Join(features, ", ")},
		{"Klasa energetyczna", string(p.EnergyClass)},
		{"Cena", FormatMoney(p.Price.Value, p.Price.Currency)},
		{"Raty", fmt.Sprintf("%s x %d rat", FormatMoney(p.Price.Installment.Value, p.Price.Currency), p.Price.Installment.Period)},
		{"Cena obowiązuje", p.Price.ValidFrom.Format(dateLayout) + " - " + p.Price.ValidTo.Format(dateLayout)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// FormatMoney renders 2999.9 as "2 999,90 zł".
func FormatMoney(value float64, currency string) string {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return humanize.FormatFloat("# ###,##", value) + " " + currency
}

// FormatCapacity renders 10.5 as "10,5 kg".
func FormatCapacity(c models.Capacity) string {
	s := fmt.Sprintf("%g", float64(c))
	return strings.Replace(s, ".", ",", 1) + " kg"
}
