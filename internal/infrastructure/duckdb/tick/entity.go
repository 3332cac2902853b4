package tick

import (
	"time"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
)

// Tick represents a single quote/trade snapshot for an instrument at an
// instant. Key = (symbol, exchange, datetime).
type Tick struct {
	Symbol   string
	Exchange market.Exchange
	Datetime time.Time
	Name     string

	Volume       float64
	Turnover     float64
	OpenInterest float64
	LastPrice    float64
	LastVolume   float64
	LimitUp      float64
	LimitDown    float64

	OpenPrice  float64
	HighPrice  float64
	LowPrice   float64
	PreClose   float64

	BidPrice1 float64
	BidPrice2 float64
	BidPrice3 float64
	BidPrice4 float64
	BidPrice5 float64

	AskPrice1 float64
	AskPrice2 float64
	AskPrice3 float64
	AskPrice4 float64
	AskPrice5 float64

	BidVolume1 float64
	BidVolume2 float64
	BidVolume3 float64
	BidVolume4 float64
	BidVolume5 float64

	AskVolume1 float64
	AskVolume2 float64
	AskVolume3 float64
	AskVolume4 float64
	AskVolume5 float64

	// Localtime is the receive-side timestamp, when the feed provides one.
	Localtime *time.Time
}

// Overview summarizes the stored range for one (symbol, exchange). Absent
// when no rows exist for the key; Start <= End whenever Count > 0.
type Overview struct {
	Symbol   string
	Exchange market.Exchange
	Count    int64
	Start    time.Time
	End      time.Time
}
