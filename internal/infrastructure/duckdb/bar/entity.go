package bar

import (
	"time"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
)

// Bar represents one OHLCV aggregate for an instrument over a fixed interval.
// Key = (symbol, exchange, interval, datetime). The store never mutates key
// fields, it only replaces whole rows sharing a key.
type Bar struct {
	Symbol   string
	Exchange market.Exchange
	Datetime time.Time
	Interval market.Interval

	Volume       float64
	Turnover     float64
	OpenInterest float64
	OpenPrice    float64
	HighPrice    float64
	LowPrice     float64
	ClosePrice   float64
}

// Overview summarizes the stored range for one (symbol, exchange, interval).
// It is a derived aggregate: absent when no rows exist for the key, and
// Start <= End whenever Count > 0.
type Overview struct {
	Symbol   string
	Exchange market.Exchange
	Interval market.Interval
	Count    int64
	Start    time.Time
	End      time.Time
}
