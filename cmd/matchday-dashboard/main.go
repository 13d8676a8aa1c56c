package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/matchday-dashboard/internal/config"
	"github.com/iwvelando/matchday-dashboard/internal/dashboard"
	"github.com/iwvelando/matchday-dashboard/internal/fixture"
	"github.com/iwvelando/matchday-dashboard/internal/logging"
	"github.com/iwvelando/matchday-dashboard/pkg/constants"
	"github.com/iwvelando/matchday-dashboard/pkg/output"
	"github.com/iwvelando/matchday-dashboard/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	date := flag.String("date", "", "match date to report (YYYY-MM-DD); defaults to the first fixture")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	d, err := dashboard.Load(logger, *conf)
	if err != nil {
		logger.Fatal("failed to load dashboard data",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	dates := d.Dates()
	selected := *date
	if selected == "" {
		if len(dates) == 0 {
			logger.Fatal("fixture schedule is empty", zap.String("op", "main"))
		}
		selected = dates[0]
	}

	report, err := output.NewReport(d, selected)
	if errors.Is(err, fixture.ErrDateNotFound) {
		logger.Fatal("no match on the selected date, pick one of validDates",
			zap.String("op", "main"),
			zap.String("date", selected),
			zap.Strings("validDates", dates),
		)
	}
	if err != nil {
		logger.Fatal("failed to build report",
			zap.String("op", "main"),
			zap.String("date", selected),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, report)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, report)
	}
	if err != nil {
		logger.Fatal("failed to write report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
