package marketdata

import "stocksim/internal/model"

// DefaultListings is the simulated exchange's stock universe with listing
// prices.
func DefaultListings() []model.Stock {
	return []model.Stock{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: 175.50},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 140.25},
		{Symbol: "MSFT", Name: "Microsoft Corp.", Price: 380.75},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 145.30},
		{Symbol: "TSLA", Name: "Tesla Inc.", Price: 245.60},
	}
}
