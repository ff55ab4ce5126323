package main

import (
	"call-productivity/config"
	"call-productivity/filter"
	"call-productivity/formatter"
	"call-productivity/logging"
	"call-productivity/metrics"
	"call-productivity/parser"
	"call-productivity/pipeline"
	"call-productivity/roster"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"

	input       string
	sheet       string
	format      string
	table       string
	agent       string
	weekday     string
	locale      string
	timezone    string
	allWeekdays bool
	metricsAddr string
	pushGateway string
	wait        bool
	verbose     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "callprod",
	Short: "Daily call-center productivity and abandonment report",
	Long: `Reads a call log (CSV or Excel), attributes every call to the agents
responsible for it and reports per-agent productivity, daily totals,
calls by hour and weekday, and daily abandonment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.LogLevel, verbose, cfg.LogFile); err != nil {
			return err
		}
		applyConfigDefaults(cmd)

		log.Debug().Str("version", Version).Msg("callprod starting")
		return nil
	},
	RunE: run,
}

// applyConfigDefaults fills every flag the user did not set from the
// environment configuration.
func applyConfigDefaults(cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("sheet") {
		sheet = cfg.Sheet
	}
	if !flags.Changed("locale") {
		locale = cfg.Locale
	}
	if !flags.Changed("timezone") {
		timezone = cfg.Timezone
	}
	if !flags.Changed("metrics-addr") {
		metricsAddr = cfg.MetricsAddr
	}
	if !flags.Changed("push-url") {
		pushGateway = cfg.PushURL
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Validate format enum
	validFormats := map[string]bool{"text": true, "json": true, "csv": true}
	if !validFormats[format] {
		return fmt.Errorf("format must be one of: text, json, csv (got: %s)", format)
	}
	if !slices.Contains(formatter.Tables, table) {
		return fmt.Errorf("table must be one of: %s (got: %s)", strings.Join(formatter.Tables, ", "), table)
	}

	locale = strings.ToLower(locale)
	if err := filter.ValidateLocale(locale); err != nil {
		return err
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	weekdayFilter, err := filter.ParseWeekdayFilter(weekday, locale)
	if err != nil {
		return err
	}

	// Start metrics server if address provided
	if metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			log.Info().Str("addr", metricsAddr).Msg("metrics server listening on /metrics")
			if err := http.ListenAndServe(metricsAddr, nil); err != nil {
				log.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	raw, err := parser.ParseFile(input, sheet)
	if err != nil {
		return fmt.Errorf("error parsing file: %w", err)
	}

	report, err := pipeline.Run(raw, pipeline.Options{
		Location:    loc,
		Locale:      locale,
		Filter:      weekdayFilter,
		AllWeekdays: allWeekdays,
		Logger:      &log.Logger,
	})
	if err != nil {
		return err
	}

	if agent != "" {
		agent = roster.ResolveAgent(strings.TrimSpace(agent))
	}

	// Output based on format
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		fmt.Fprintln(out, formatter.FormatJSON(report, agent))
	case "csv":
		csvOut, err := formatter.FormatCSV(report, table, agent)
		if err != nil {
			return err
		}
		fmt.Fprint(out, csvOut)
	default: // "text"
		fmt.Fprint(out, formatter.FormatText(report, agent))
	}

	// Handle metrics pushing or waiting
	if pushGateway != "" {
		jobName := "call_productivity"
		if err := push.New(pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			log.Error().Err(err).Str("url", pushGateway).Msg("error pushing to Pushgateway")
		} else {
			log.Info().Str("url", pushGateway).Msg("metrics successfully pushed to Pushgateway")
		}
	}

	if wait && metricsAddr != "" {
		log.Info().Msg("process kept alive for metric scraping, press Ctrl+C to exit")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		log.Info().Msg("exiting")
	} else if metricsAddr != "" && pushGateway == "" {
		// Small delay to allow a final scrape
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&input, "input", "", "input call log (.csv, .xlsx or .xlsm)")
	flags.StringVar(&sheet, "sheet", "", "worksheet to read from an Excel workbook (default: first sheet)")
	flags.StringVar(&format, "format", "text", "output format: text|json|csv")
	flags.StringVar(&table, "table", formatter.TableDetail, "table written by --format csv: "+strings.Join(formatter.Tables, "|"))
	flags.StringVar(&agent, "agent", "", "restrict the per-agent detail to one agent")
	flags.StringVar(&weekday, "weekday", "", "weekday filter, e.g. Lunes or Monday (default: all days)")
	flags.StringVar(&locale, "locale", filter.DefaultLocale, "weekday label language: es|en")
	flags.StringVar(&timezone, "timezone", "UTC", "time zone for timestamps without an offset")
	flags.BoolVar(&allWeekdays, "all-weekdays", false, "show all seven weekday columns in the hour/weekday table")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "address to expose Prometheus metrics (e.g., :9090)")
	flags.StringVar(&pushGateway, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	flags.BoolVar(&wait, "wait", false, "keep process running after completion to allow for metric scraping")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	_ = rootCmd.MarkFlagRequired("input")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
