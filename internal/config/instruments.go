package config

import "StockAnalyst/internal/model"

// DefaultInstruments is the built-in NASDAQ large-cap watch list.
// Anchor prices sit inside each plausible range.
func DefaultInstruments() []model.Instrument {
	return []model.Instrument{
		{Ticker: "MSFT", Name: "Microsoft Corp.", AnchorPrice: 440, PriceRange: model.PriceRange{Low: 420, High: 460}},
		{Ticker: "AAPL", Name: "Apple Inc.", AnchorPrice: 215, PriceRange: model.PriceRange{Low: 200, High: 230}},
		{Ticker: "NVDA", Name: "NVIDIA Corp.", AnchorPrice: 128, PriceRange: model.PriceRange{Low: 115, High: 140}},
		{Ticker: "GOOGL", Name: "Alphabet Inc. (Class A)", AnchorPrice: 180, PriceRange: model.PriceRange{Low: 170, High: 190}},
		{Ticker: "GOOG", Name: "Alphabet Inc. (Class C)", AnchorPrice: 181, PriceRange: model.PriceRange{Low: 170, High: 190}},
		{Ticker: "AMZN", Name: "Amazon.com, Inc.", AnchorPrice: 190, PriceRange: model.PriceRange{Low: 180, High: 200}},
		{Ticker: "META", Name: "Meta Platforms, Inc.", AnchorPrice: 500, PriceRange: model.PriceRange{Low: 480, High: 520}},
		{Ticker: "AVGO", Name: "Broadcom Inc.", AnchorPrice: 1700, PriceRange: model.PriceRange{Low: 1600, High: 1800}},
		{Ticker: "TSLA", Name: "Tesla, Inc.", AnchorPrice: 185, PriceRange: model.PriceRange{Low: 170, High: 200}},
		{Ticker: "COST", Name: "Costco Wholesale Corp.", AnchorPrice: 850, PriceRange: model.PriceRange{Low: 820, High: 880}},
		{Ticker: "AMD", Name: "Advanced Micro Devices, Inc.", AnchorPrice: 160, PriceRange: model.PriceRange{Low: 150, High: 170}},
		{Ticker: "NFLX", Name: "Netflix, Inc.", AnchorPrice: 675, PriceRange: model.PriceRange{Low: 650, High: 700}},
		{Ticker: "PEP", Name: "PepsiCo, Inc.", AnchorPrice: 170, PriceRange: model.PriceRange{Low: 160, High: 180}},
		{Ticker: "ADBE", Name: "Adobe Inc.", AnchorPrice: 525, PriceRange: model.PriceRange{Low: 500, High: 550}},
		{Ticker: "LIN", Name: "Linde plc", AnchorPrice: 440, PriceRange: model.PriceRange{Low: 420, High: 460}},
		{Ticker: "CSCO", Name: "Cisco Systems, Inc.", AnchorPrice: 50, PriceRange: model.PriceRange{Low: 45, High: 55}},
		{Ticker: "TMUS", Name: "T-Mobile US, Inc.", AnchorPrice: 180, PriceRange: model.PriceRange{Low: 170, High: 190}},
		{Ticker: "INTC", Name: "Intel Corp.", AnchorPrice: 35, PriceRange: model.PriceRange{Low: 30, High: 40}},
		{Ticker: "QCOM", Name: "QUALCOMM Inc.", AnchorPrice: 215, PriceRange: model.PriceRange{Low: 200, High: 230}},
		{Ticker: "CMCSA", Name: "Comcast Corp.", AnchorPrice: 43, PriceRange: model.PriceRange{Low: 38, High: 48}},
		{Ticker: "INTU", Name: "Intuit Inc.", AnchorPrice: 625, PriceRange: model.PriceRange{Low: 600, High: 650}},
		{Ticker: "AMAT", Name: "Applied Materials, Inc.", AnchorPrice: 235, PriceRange: model.PriceRange{Low: 220, High: 250}},
		{Ticker: "TXN", Name: "Texas Instruments Inc.", AnchorPrice: 200, PriceRange: model.PriceRange{Low: 190, High: 210}},
		{Ticker: "ISRG", Name: "Intuitive Surgical, Inc.", AnchorPrice: 430, PriceRange: model.PriceRange{Low: 410, High: 450}},
		{Ticker: "AMGN", Name: "Amgen Inc.", AnchorPrice: 315, PriceRange: model.PriceRange{Low: 300, High: 330}},
	}
}
