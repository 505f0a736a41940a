// Package report renders a comparison outcome for the console.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/iMarioChow/idle-cash/internal/engine"
)

// Render writes the market rates, the six-vehicle table, and the
// comparison summary. pref optionally selects the headline currency; an
// empty value skips the headline.
func Render(w io.Writer, rates engine.MarketRates, out *engine.Outcome, pref engine.Currency) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Best bond rate: %.4g%%\n", rates.BestBondRate())
	fmt.Fprintf(&b, "Current Fed rate: %.2f%%\n\n", rates.FedRate*100)

	tw := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Investment Option\tPrincipal\tReturn\tTotal")
	for _, r := range out.Results {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", r.Vehicle, r.Principal, r.Return, r.Total)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "Best USD outcome: %.2f USD (%s)\n", out.BestUSDTotal, out.BestUSDVehicle)
	fmt.Fprintf(&b, "Best HKD outcome: %.2f HKD (%s)\n", out.BestHKDTotal, out.BestHKDVehicle)

	if pref != "" {
		if err := renderHeadline(&b, out, pref); err != nil {
			return err
		}
	}

	fmt.Fprintf(&b, "The cutoff conversion rate where USD assets have a better return than HKD assets is: %.5f\n", out.ExchangeRateThreshold)
	fmt.Fprintln(&b, Verdict(out.OverallBest))

	_, err := io.WriteString(w, b.String())
	return err
}

// renderHeadline prints the preferred-currency best, plus the converted
// opposite-currency best when it comes out higher.
func renderHeadline(b *strings.Builder, out *engine.Outcome, pref engine.Currency) error {
	vehicle, total, err := out.Headline(pref)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "Best return in %s: %.2f %s (%s)\n", pref, total, pref, vehicle)

	if converted := out.ConvertedOpposite(pref); total < converted {
		opposite := engine.HKD
		if pref == engine.HKD {
			opposite = engine.USD
		}
		fmt.Fprintf(b, "Converted return from %s: %.2f %s at threshold rate %.5f\n",
			opposite, converted, pref, out.ExchangeRateThreshold)
	}
	return nil
}

// Verdict phrases the global winner as a recommendation sentence.
func Verdict(v engine.Vehicle) string {
	switch v {
	case engine.IBMoneyMarketUSD:
		return "IB offers the better return by investing in Money Market Fund (USD)."
	case engine.IBBondUSD:
		return "IB offers the better return by investing in Bond (USD)."
	case engine.FutuMoneyMarketUSD:
		return "FUTU offers the better return by investing in Money Market Fund (USD)."
	case engine.FutuBondUSD:
		return "FUTU offers the better return by investing in Bond (USD)."
	case engine.FutuMoneyMarketHKD:
		return "FUTU HK Money Market Fund offers the better return."
	default:
		return "SCB Preferential Rate offers the better return."
	}
}
