// idle-cash — compare after-fee returns on idle HKD cash across
// brokerages, currencies and instruments.
//
// Main CLI entrypoint using the cobra command framework.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iMarioChow/idle-cash/api"
	"github.com/iMarioChow/idle-cash/internal/config"
	"github.com/iMarioChow/idle-cash/internal/engine"
	"github.com/iMarioChow/idle-cash/internal/rates"
	"github.com/iMarioChow/idle-cash/internal/report"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "idlecash",
	Short: "idle-cash — where should idle HKD cash sit for a year?",
	Long: `idle-cash compares the one-year after-fee return of parking HKD cash in
six places: IB and FUTU money market funds and short-term government
bonds (USD), the SCB preferential deposit rate and the FUTU HK money
market fund (HKD). It also reports the HKD/USD rate at which the best
outcomes in both currencies break even.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(serveCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("idle-cash %s (%s)\n", version, commit)
	},
}

// --- Compare Command ---

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Fetch market rates and rank the six investment options",
	Long: `Fetch the effective federal funds rate and the 1y/10y Treasury yields,
then rank the six vehicles by one-year after-fee total. Any flag
overrides the configured default; supplying all three market rates
(--fed-rate, --bond-1y, --bond-10y) skips fetching entirely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cfg.Inputs()
		applyFloat(cmd, "capital", &in.CapitalHKD)
		applyFloat(cmd, "ib-fx", &in.IBFxRate)
		applyFloat(cmd, "futu-fx", &in.FutuFxRate)
		applyFloat(cmd, "futu-usd-return", &in.FutuReturnUSD)
		applyFloat(cmd, "futu-hkd-return", &in.FutuReturnHKD)
		applyFloat(cmd, "preferential-rate", &in.PreferentialRateHKD)
		if err := in.Validate(); err != nil {
			return err
		}

		pref, err := currencyPreference(cmd)
		if err != nil {
			return err
		}

		mkt, err := marketRates(cmd)
		if err != nil {
			return err
		}

		out, err := engine.Compare(engine.DefaultConfig(), mkt, in)
		if err != nil {
			return err
		}
		return report.Render(cmd.OutOrStdout(), mkt, out, pref)
	},
}

func init() {
	f := compareCmd.Flags()
	f.Float64("capital", 0, "capital in HKD")
	f.Float64("ib-fx", 0, "IB FX rate for 1 HKD to USD")
	f.Float64("futu-fx", 0, "FUTU FX rate for 1 HKD to USD")
	f.Float64("futu-usd-return", 0, "FUTU USD money market fund annualized return (%)")
	f.Float64("futu-hkd-return", 0, "FUTU HKD money market fund annualized return (%)")
	f.Float64("preferential-rate", 0, "SCB preferential HKD rate (%)")
	f.String("currency", "", "preferred result currency (USD or HKD)")
	addRateFlags(compareCmd)
}

// --- Rates Command ---

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Fetch and print the current market rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		mkt, err := marketRates(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Fed rate (EFFR):   %.4f%%\n", mkt.FedRate*100)
		fmt.Fprintf(cmd.OutOrStdout(), "1y Treasury yield: %.4g%%\n", mkt.BondRate1Y)
		fmt.Fprintf(cmd.OutOrStdout(), "10y Treasury yield: %.4g%%\n", mkt.BondRate10Y)
		fmt.Fprintf(cmd.OutOrStdout(), "Best bond rate:    %.4g%%\n", mkt.BestBondRate())
		return nil
	},
}

func init() {
	addRateFlags(ratesCmd)
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("idle-cash API listening on %s\n", addr)
		srv := api.NewServer(cfg, newSource())
		return srv.ListenAndServe(addr)
	},
}

// --- Helpers ---

func addRateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("fed-rate", 0, "effective federal funds rate as a fraction, e.g. 0.0433 (skips fetching)")
	f.Float64("bond-1y", 0, "1-year Treasury yield in percent (skips fetching)")
	f.Float64("bond-10y", 0, "10-year Treasury yield in percent (skips fetching)")
}

func applyFloat(cmd *cobra.Command, name string, dst *float64) {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetFloat64(name)
		*dst = v
	}
}

func currencyPreference(cmd *cobra.Command) (engine.Currency, error) {
	raw, _ := cmd.Flags().GetString("currency")
	if raw == "" {
		raw = cfg.Defaults.Currency
	}
	if raw == "" {
		return "", nil
	}
	return engine.ParseCurrency(raw)
}

func newSource() *rates.Source {
	opts := []rates.Option{
		rates.WithURLs(cfg.Sources.EFFRURL, cfg.Sources.US1YURL, cfg.Sources.US10YURL),
	}
	if cfg.Sources.CacheTTLSec > 0 {
		opts = append(opts, rates.WithCacheTTL(time.Duration(cfg.Sources.CacheTTLSec)*time.Second))
	}
	return rates.NewSource(opts...)
}

// marketRates returns the flag-supplied rates when all three are set,
// otherwise fetches the missing picture from the upstream sources.
func marketRates(cmd *cobra.Command) (engine.MarketRates, error) {
	f := cmd.Flags()
	if f.Changed("fed-rate") && f.Changed("bond-1y") && f.Changed("bond-10y") {
		fed, _ := f.GetFloat64("fed-rate")
		y1, _ := f.GetFloat64("bond-1y")
		y10, _ := f.GetFloat64("bond-10y")
		return engine.MarketRates{FedRate: fed, BondRate1Y: y1, BondRate10Y: y10}, nil
	}

	src := newSource()
	mkt, err := src.MarketRates(cmd.Context())
	if err != nil {
		return engine.MarketRates{}, err
	}

	// Individual flags still override fetched values.
	if f.Changed("fed-rate") {
		mkt.FedRate, _ = f.GetFloat64("fed-rate")
	}
	if f.Changed("bond-1y") {
		mkt.BondRate1Y, _ = f.GetFloat64("bond-1y")
	}
	if f.Changed("bond-10y") {
		mkt.BondRate10Y, _ = f.GetFloat64("bond-10y")
	}
	return mkt, nil
}
