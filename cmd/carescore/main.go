package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/carescore/internal/batch"
	"github.com/iwvelando/carescore/internal/config"
	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/output"
	"github.com/iwvelando/carescore/pkg/validation"
	"go.uber.org/zap"
)

// readDocument reads path ("-" for stdin) and checks it against the schema for doc.
func readDocument(path string, doc validation.Document) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := validation.ValidateDocument(doc, data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// readMarkets accepts a single market object or an array of markets.
func readMarkets(path string) ([]market.Data, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raws []json.RawMessage
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else {
		raws = []json.RawMessage{data}
	}
	if len(raws) > constants.MaxBatchSize {
		return nil, fmt.Errorf("%s: %d markets exceeds the batch limit of %d", path, len(raws), constants.MaxBatchSize)
	}

	markets := make([]market.Data, len(raws))
	for i, raw := range raws {
		if err := validation.ValidateDocument(validation.DocumentMarket, raw); err != nil {
			return nil, fmt.Errorf("%s: market %d: %w", path, i, err)
		}
		if err := json.Unmarshal(raw, &markets[i]); err != nil {
			return nil, fmt.Errorf("%s: market %d: %w", path, i, err)
		}
	}
	return markets, nil
}

func loadConfiguration(path string) (*config.Configuration, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && path == constants.DefaultConfigFile {
		conf := config.Default()
		return &conf, nil
	}
	return config.LoadConfiguration(path)
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	dealFile := flag.String("deal", "", "deal JSON file to evaluate (- for stdin)")
	marketFile := flag.String("market", "", "market JSON file, a single market or an array (- for stdin)")
	facilityType := flag.String("facility-type", constants.FacilityTypeSNF, "facility type for market scoring: SNF or ALF")
	laborFile := flag.String("labor", "", "optional labor data JSON file applied to every market")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, markdown, html")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	writeBenchmarks := flag.String("write-benchmarks", "", "write the effective benchmark set to this path and exit")
	flag.Parse()

	conf, err := loadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
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

	if *writeBenchmarks != "" {
		if err := conf.WriteExample(*writeBenchmarks); err != nil {
			logger.Fatal("failed to write benchmarks",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info("benchmarks written",
			zap.String("op", "main"),
			zap.String("path", *writeBenchmarks),
		)
		return
	}

	switch {
	case *dealFile != "":
		err = runDeal(logger, conf, *dealFile, outputFormat)
	case *marketFile != "":
		err = runMarkets(logger, conf, *marketFile, *facilityType, *laborFile, outputFormat)
	default:
		err = errors.New("one of -deal or -market is required")
	}
	if err != nil {
		logger.Fatal("failed to score input",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func runDeal(logger *zap.Logger, conf *config.Configuration, path, outputFormat string) error {
	data, err := readDocument(path, validation.DocumentDeal)
	if err != nil {
		return err
	}
	var d deal.Deal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("failed to decode deal: %w", err)
	}

	ev, err := deal.NewEvaluator(logger, conf.Benchmarks.Deal).EvaluateDeal(d, nil)
	if err != nil {
		return err
	}
	return output.WriteEvaluation(os.Stdout, outputFormat, ev)
}

// newRunner builds a batch runner with both engines from the configured
// benchmarks.
func newRunner(logger *zap.Logger, conf *config.Configuration) *batch.Runner {
	return batch.NewRunner(logger,
		market.NewScorer(logger, conf.Benchmarks.Market),
		deal.NewEvaluator(logger, conf.Benchmarks.Deal),
		conf.Batch.Concurrency)
}

func runMarkets(logger *zap.Logger, conf *config.Configuration, path, facilityType, laborPath, outputFormat string) error {
	facilityType, err := market.ParseFacilityType(facilityType)
	if err != nil {
		return err
	}
	markets, err := readMarkets(path)
	if err != nil {
		return err
	}

	var labor *market.LaborData
	if laborPath != "" {
		data, err := readDocument(laborPath, validation.DocumentLabor)
		if err != nil {
			return err
		}
		labor = &market.LaborData{}
		if err := json.Unmarshal(data, labor); err != nil {
			return fmt.Errorf("failed to decode labor data: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := newRunner(logger, conf)

	reqs := make([]batch.MarketRequest, len(markets))
	for i, m := range markets {
		reqs[i] = batch.MarketRequest{FacilityType: facilityType, Market: m, LaborData: labor}
	}
	results, err := runner.ScoreMarkets(ctx, reqs)
	if err != nil {
		return err
	}

	reports := make([]market.Report, 0, len(results))
	for _, res := range results {
		if res.Report == nil {
			logger.Warn("market not scored",
				zap.String("op", "main.runMarkets"),
				zap.Int("index", res.Index),
				zap.String("error", res.Error),
			)
			continue
		}
		reports = append(reports, *res.Report)
	}
	if len(reports) == 0 {
		return errors.New("no market could be scored")
	}
	return output.WriteMarketReports(os.Stdout, outputFormat, reports)
}
