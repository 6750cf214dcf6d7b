package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ukcgt/cgtcalc/log"
	"github.com/ukcgt/cgtcalc/parser"
	ptf "github.com/ukcgt/cgtcalc/portfolio"
)

// Version follows 0.YY.MM[.i]: the year and month of the last update to the
// rules or rates, plus an optional minor increment.
var CgtCalcVersion = "0.25.04"

type DescribedReader struct {
	Desc   string
	Reader io.Reader
}

type OutputFormat string

const (
	TextFormat  OutputFormat = "text"
	TableFormat OutputFormat = "table"
)

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case TextFormat, TableFormat:
		return f, nil
	}
	return "", fmt.Errorf("invalid output format %q (want text or table)", s)
}

type Options struct {
	Format           OutputFormat
	RenderFullValues bool
	Humanize         bool
	// Upper bound on assets calculated at once. Zero means one per CPU.
	Concurrency int
}

func NewOptions() Options {
	return Options{
		Format:           TextFormat,
		RenderFullValues: false,
		Humanize:         false,
		Concurrency:      0,
	}
}

func (o Options) PrintHelper() ptf.PrintHelper {
	return ptf.PrintHelper{PrintAllDecimals: o.RenderFullValues, Humanize: o.Humanize}
}

// ParseInputs reads every reader into a single calculator input. IDs run on
// across readers so they stay unique.
func ParseInputs(readers []DescribedReader) (*ptf.CalculatorInput, error) {
	p := parser.NewParser()
	all := &ptf.CalculatorInput{}
	for _, r := range readers {
		input, err := p.Parse(r.Reader, r.Desc)
		if err != nil {
			return nil, err
		}
		all.Txs = append(all.Txs, input.Txs...)
		all.AssetEvents = append(all.AssetEvents, input.AssetEvents...)
	}
	return all, nil
}

func RunCalculator(
	readers []DescribedReader,
	options Options,
	logger logrus.FieldLogger) (*ptf.CalculatorResult, error) {

	input, err := ParseInputs(readers)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"transactions": len(input.Txs), "events": len(input.AssetEvents),
	}).Info("Parsed input")

	calculator := ptf.NewCalculator(input, logger)
	calculator.Concurrency = options.Concurrency
	return calculator.Process()
}

type AppRenderResult struct {
	TaxYearTable        *ptf.RenderTable
	AssetTables         map[string]*ptf.RenderTable
	AggregateGainsTable *ptf.RenderTable
	HoldingsTable       *ptf.RenderTable
	assets              []string
}

func RenderResult(result *ptf.CalculatorResult, options Options) *AppRenderResult {
	ph := options.PrintHelper()
	assetGains := make(map[string]*ptf.CumulativeCapitalGains)
	res := &AppRenderResult{
		TaxYearTable: ptf.RenderTaxYearSummaries(result.TaxYearSummaries, ph),
		AssetTables:  make(map[string]*ptf.RenderTable),
	}
	for _, ar := range result.AssetResults {
		assetGains[ar.Asset] = ar.Gains
		if len(ar.DisposalMatches) == 0 {
			continue
		}
		res.AssetTables[ar.Asset] = ptf.RenderDisposalsTableModel(ar.DisposalMatches, ar.Gains, ph)
		res.assets = append(res.assets, ar.Asset)
	}
	res.AggregateGainsTable = ptf.RenderAggregateCapitalGains(ptf.CalcCumulativeCapitalGains(assetGains), ph)
	res.HoldingsTable = ptf.RenderHoldings(result.AssetResults, ph)
	return res
}

func WriteRenderResult(renderRes *AppRenderResult, writer io.Writer) {
	ptf.PrintRenderTable("Tax Years", renderRes.TaxYearTable, writer)

	for _, asset := range renderRes.assets {
		fmt.Fprintln(writer, "")
		ptf.PrintRenderTable(fmt.Sprintf("Disposals of %s", asset), renderRes.AssetTables[asset], writer)
	}

	fmt.Fprintln(writer, "")
	ptf.PrintRenderTable("Aggregate Gains", renderRes.AggregateGainsTable, writer)
	fmt.Fprintln(writer, "")
	ptf.PrintRenderTable("Holdings", renderRes.HoldingsTable, writer)
}

// Returns an OK flag. Used to signal what exit code to use.
// All errors get printed to the errPrinter.
func RunCgtAppToWriter(
	writer io.Writer,
	readers []DescribedReader,
	options Options,
	logger logrus.FieldLogger,
	errPrinter log.ErrorPrinter) bool {

	result, err := RunCalculator(readers, options, logger)
	if err != nil {
		errPrinter.Ln("Error:", err)
		return false
	}

	switch options.Format {
	case TableFormat:
		WriteRenderResult(RenderResult(result, options), writer)
	default:
		report, err := ptf.RenderTextReport(result)
		if err != nil {
			errPrinter.Ln("Error:", err)
			return false
		}
		fmt.Fprint(writer, report)
	}
	return true
}

// Returns an OK flag. Used to signal what exit code to use.
func RunCgtAppToConsole(
	readers []DescribedReader,
	options Options,
	logger logrus.FieldLogger,
	errPrinter log.ErrorPrinter) bool {

	return RunCgtAppToWriter(os.Stdout, readers, options, logger, errPrinter)
}
