package watchlist

import "time"

// Placeholder returns the fixed feed shown when live news is not available.
func Placeholder(now time.Time) []NewsItem {
	return []NewsItem{
		{
			ID:          "placeholder-1",
			Tag:         "AAPL",
			Headline:    "Apple explores new AI-driven portfolio insights",
			Summary:     "Analysts expect new tools to help retail investors track performance.",
			URL:         "https://finnhub.io",
			PublishedAt: now,
		},
		{
			ID:          "placeholder-2",
			Tag:         "TSLA",
			Headline:    "EV market sentiment shifts as deliveries update arrives",
			Summary:     "Watch how momentum names are reacting to the latest production figures.",
			URL:         "https://finnhub.io",
			PublishedAt: now.Add(-24 * time.Hour),
		},
		{
			ID:          "placeholder-3",
			Tag:         "BTC",
			Headline:    "Crypto market steadies ahead of macro data",
			Summary:     "Traders await macro headlines that could swing risk appetite.",
			URL:         "https://finnhub.io",
			PublishedAt: now.Add(-48 * time.Hour),
		},
	}
}
