// Package marketdata loads daily closing price files. The on-disk format is a
// two-column CSV (date, close) with ISO dates, one row per trading day.
package marketdata

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

const dateLayout = "2006-01-02"

// csvDate parses and renders ISO calendar dates in CSV columns.
type csvDate struct {
	time.Time
}

func (d *csvDate) UnmarshalCSV(value string) error {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return err
	}
	d.Time = parsed

	return nil
}

func (d csvDate) MarshalCSV() (string, error) {
	return d.Format(dateLayout), nil
}

type priceRow struct {
	Date  csvDate `csv:"date"`
	Close float64 `csv:"close"`
}

// LoadCSV reads a price file and returns a validated price series.
func LoadCSV(path string) (types.PriceSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open price file %s", path)
	}
	defer file.Close()

	var rows []priceRow
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to parse price file %s", path)
	}

	series := make(types.PriceSeries, len(rows))
	for i, row := range rows {
		series[i] = types.PricePoint{Date: row.Date.Time, Close: row.Close}
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	return series, nil
}

// SaveCSV writes a price series to the given path, creating parent
// directories as needed.
func SaveCSV(path string, series types.PriceSeries) error {
	if err := series.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create directory for %s", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create price file %s", path)
	}
	defer file.Close()

	rows := make([]priceRow, len(series))
	for i, pt := range series {
		rows[i] = priceRow{Date: csvDate{pt.Date}, Close: pt.Close}
	}

	if err := gocsv.Marshal(rows, file); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write price file %s", path)
	}

	return nil
}

// PathForTicker maps a ticker symbol to its price file under dataDir. Index
// tickers carry a leading caret which is stripped for the filename.
func PathForTicker(dataDir, ticker string) string {
	name := strings.TrimPrefix(ticker, "^")

	return filepath.Join(dataDir, name+".csv")
}
