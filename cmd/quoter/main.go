// Command quoter loads a pool snapshot and prints the best routes between
// two assets for a given amount.
package main

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/whale-guru-dev/uniswap-v3-sdk/cmd/quoter/config"
	"github.com/whale-guru-dev/uniswap-v3-sdk/entities"
	"github.com/whale-guru-dev/uniswap-v3-sdk/router"
)

func main() {
	root := &cobra.Command{
		Use:          "quoter",
		Short:        "Route and value trades over a pool snapshot",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Find the best routes for a trade",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("snapshot", "", "pool snapshot JSON path")
	quoteCmd.Flags().String("in", "", "input token (symbol or 0x address)")
	quoteCmd.Flags().String("out", "", "output token (symbol or 0x address)")
	quoteCmd.Flags().String("amount", "", "raw amount in smallest units")
	quoteCmd.Flags().Bool("exact-out", false, "treat amount as the exact output")
	quoteCmd.Flags().Int("max-hops", 3, "maximum pools per route")
	quoteCmd.Flags().Int("max-results", 3, "maximum routes to print")
	quoteCmd.Flags().Int64("slippage-bps", 50, "slippage tolerance in basis points")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Snapshot == "" {
		return fmt.Errorf("snapshot path is required")
	}
	if cfg.In == "" || cfg.Out == "" {
		return fmt.Errorf("both --in and --out tokens are required")
	}
	amountRaw, ok := new(big.Int).SetString(cfg.Amount, 10)
	if !ok || amountRaw.Sign() <= 0 {
		return fmt.Errorf("amount must be a positive integer, got %q", cfg.Amount)
	}
	if cfg.SlippageBPS < 0 {
		return fmt.Errorf("slippage-bps must be non-negative, got %d", cfg.SlippageBPS)
	}

	snap, err := loadSnapshot(cfg.Snapshot)
	if err != nil {
		return err
	}
	logger.Info("snapshot loaded",
		zap.String("path", cfg.Snapshot),
		zap.Int("tokens", len(snap.tokens)),
		zap.Int("pools", len(snap.pools)),
	)

	tokenIn, err := snap.tokenBySymbolOrAddress(cfg.In)
	if err != nil {
		return err
	}
	tokenOut, err := snap.tokenBySymbolOrAddress(cfg.Out)
	if err != nil {
		return err
	}

	opts := &router.BestTradeOptions{
		MaxHops:       cfg.MaxHops,
		MaxNumResults: cfg.MaxResults,
		Metrics:       router.NewMetrics(prometheus.NewRegistry()),
	}
	tolerance := entities.NewPercent(cfg.SlippageBPS, 10_000)

	var trades []*router.Trade
	if cfg.ExactOut {
		amountOut, err := entities.NewCurrencyAmount(tokenOut, amountRaw)
		if err != nil {
			return err
		}
		trades, err = router.BestTradeExactOut(snap.pools, tokenIn, amountOut, opts)
		if err != nil {
			return err
		}
	} else {
		amountIn, err := entities.NewCurrencyAmount(tokenIn, amountRaw)
		if err != nil {
			return err
		}
		trades, err = router.BestTradeExactIn(snap.pools, amountIn, tokenOut, opts)
		if err != nil {
			return err
		}
	}

	if len(trades) == 0 {
		logger.Warn("no viable route",
			zap.String("in", tokenIn.Symbol()),
			zap.String("out", tokenOut.Symbol()),
		)
		fmt.Println("no viable route")
		return nil
	}

	return printTrades(trades, tolerance)
}

func printTrades(trades []*router.Trade, tolerance entities.Percent) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPATH\tIN\tOUT\tPRICE\tWORST CASE")
	for i, trade := range trades {
		price, err := trade.ExecutionPrice()
		if err != nil {
			return err
		}

		var worst string
		if trade.Type() == router.ExactInput {
			minOut, err := trade.MinimumAmountOut(tolerance)
			if err != nil {
				return err
			}
			worst = fmt.Sprintf("min out %s", minOut)
		} else {
			maxIn, err := trade.MaximumAmountIn(tolerance)
			if err != nil {
				return err
			}
			worst = fmt.Sprintf("max in %s", maxIn)
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			pathString(trade.Route()),
			trade.InputAmount(),
			trade.OutputAmount(),
			price.ToDecimal(8),
			worst,
		)
	}
	return w.Flush()
}

func pathString(route *router.Route) string {
	tokens := route.TokenPath()
	symbols := make([]string, len(tokens))
	for i, tok := range tokens {
		symbols[i] = tok.Symbol()
	}
	return strings.Join(symbols, " > ")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
