package chart

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
)

var csvHeader = []string{"date", "open", "high", "low", "close", "buy_point", "sell_point", "action"}

// WriteCSV writes records as CSV with a header row. Unset prices and markers
// are empty cells.
func WriteCSV(w io.Writer, records []backtest.ChartRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date,
			formatOptional(r.Open),
			formatOptional(r.High),
			formatOptional(r.Low),
			formatFloat(r.Close),
			formatOptional(r.BuyPoint),
			formatOptional(r.SellPoint),
			r.Action.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %s: %w", r.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// parquetRow is the on-disk layout of a chart record.
type parquetRow struct {
	Date      string   `parquet:"date"`
	Open      *float64 `parquet:"open,optional"`
	High      *float64 `parquet:"high,optional"`
	Low       *float64 `parquet:"low,optional"`
	Close     float64  `parquet:"close"`
	BuyPoint  *float64 `parquet:"buy_point,optional"`
	SellPoint *float64 `parquet:"sell_point,optional"`
	Action    string   `parquet:"action"`
}

// WriteParquet writes records to a parquet file at path.
func WriteParquet(path string, records []backtest.ChartRecord) error {
	rows := make([]parquetRow, len(records))
	for i, r := range records {
		rows[i] = parquetRow{
			Date:      r.Date,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			BuyPoint:  r.BuyPoint,
			SellPoint: r.SellPoint,
			Action:    r.Action.String(),
		}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("writing parquet %s: %w", path, err)
	}
	return nil
}

// ReadParquet loads records written by WriteParquet.
func ReadParquet(path string) ([]backtest.ChartRecord, error) {
	rows, err := parquet.ReadFile[parquetRow](path)
	if err != nil {
		return nil, fmt.Errorf("reading parquet %s: %w", path, err)
	}
	out := make([]backtest.ChartRecord, len(rows))
	for i, row := range rows {
		out[i] = backtest.ChartRecord{
			PricePoint: backtest.PricePoint{
				Date: row.Date, Open: row.Open, High: row.High, Low: row.Low, Close: row.Close,
			},
			BuyPoint:  row.BuyPoint,
			SellPoint: row.SellPoint,
			Action:    parseAction(row.Action),
		}
	}
	return out, nil
}

// ExportFormat picks an export format from a file extension.
func ExportFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return "csv", nil
	case ".parquet":
		return "parquet", nil
	default:
		return "", fmt.Errorf("unsupported export extension %q (use .csv or .parquet)", ext)
	}
}

func parseAction(s string) backtest.Action {
	switch s {
	case "BUY":
		return backtest.ActionBuy
	case "SELL":
		return backtest.ActionSell
	default:
		return backtest.ActionNone
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
