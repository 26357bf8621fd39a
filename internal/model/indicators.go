package model

// Indicators holds the locally computed technical summary of a series.
type Indicators struct {
	CurrentPrice float64 `json:"currentPrice"`
	MA20         float64 `json:"ma20"`
	MA50         float64 `json:"ma50"`
	RSI14        float64 `json:"rsi14"`
	High30d      float64 `json:"high30d"`
	Low30d       float64 `json:"low30d"`
	Position30d  float64 `json:"position30d"` // 0.0 ~ 1.0
	AvgVolume20  float64 `json:"avgVolume20"`
}

// Snapshot is one collected series with its indicators.
type Snapshot struct {
	Series     PriceSeries
	Indicators Indicators
}
