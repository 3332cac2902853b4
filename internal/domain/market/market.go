package market

// Exchange identifies the trading venue an instrument is listed on.
type Exchange string

const (
	ExchangeNASDAQ  Exchange = "NASDAQ"
	ExchangeNYSE    Exchange = "NYSE"
	ExchangeSSE     Exchange = "SSE"
	ExchangeSZSE    Exchange = "SZSE"
	ExchangeCFFEX   Exchange = "CFFEX"
	ExchangeSHFE    Exchange = "SHFE"
	ExchangeDCE     Exchange = "DCE"
	ExchangeCZCE    Exchange = "CZCE"
	ExchangeBinance Exchange = "BINANCE"
	ExchangeLocal   Exchange = "LOCAL"
)

// Interval is the timeframe granularity of a bar.
type Interval string

const (
	IntervalMinute Interval = "1m"
	IntervalHour   Interval = "1h"
	IntervalDaily  Interval = "d"
	IntervalWeekly Interval = "w"
	IntervalTick   Interval = "tick"
)
