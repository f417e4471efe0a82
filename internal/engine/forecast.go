package engine

import (
	"math"
	"time"
)

const (
	// DefaultForecastDays is the horizon used when the caller does not set one.
	DefaultForecastDays = 30
	// DefaultLeadTimeDays is the replenishment lead time assumed by default.
	DefaultLeadTimeDays = 7
	// forecastBandZ sizes the confidence band around each predicted value.
	forecastBandZ = 1.65
)

// ForecastOptions tunes ForecastDemand. Zero values fall back to the package
// defaults.
type ForecastOptions struct {
	DaysAhead    int
	LeadTimeDays int
	Alpha        float64
}

func (o ForecastOptions) withDefaults() ForecastOptions {
	if o.DaysAhead <= 0 {
		o.DaysAhead = DefaultForecastDays
	}
	if o.LeadTimeDays <= 0 {
		o.LeadTimeDays = DefaultLeadTimeDays
	}
	if o.Alpha <= 0 || o.Alpha > 1 {
		o.Alpha = DefaultSmoothingAlpha
	}
	return o
}

// ForecastDemand produces a per-day demand forecast for the product starting
// the day after the latest historical date. Each predicted value combines the
// smoothed daily average, the fitted trend and the seasonal index for the
// point's calendar month; the confidence band is a z-multiple of the demand
// standard deviation with the lower bound clamped at zero.
//
// DaysUntilStockout is the smallest day offset at which cumulative predicted
// demand reaches currentStock, nil when stock outlasts the horizon. The
// recommended reorder date is today when the stockout falls within the lead
// time, otherwise stockout minus lead time days from now.
func ForecastDemand(history ProductSalesHistory, currentStock float64, opts ForecastOptions) ForecastResult {
	opts = opts.withDefaults()

	quantities := history.Quantities()
	avg := Mean(quantities)
	std := StdDev(quantities)
	trend := DetectTrend(quantities)
	seasonality := seasonalityFromHistory(history.DailySales)

	result := ForecastResult{
		ProductID:        history.ProductID,
		ProductName:      history.ProductName,
		CurrentStock:     currentStock,
		AvgDailySales:    avg,
		Trend:            trend.Direction,
		TrendPercent:     trend.ChangePercent,
		SeasonalityIndex: seasonality,
	}

	if len(history.DailySales) == 0 {
		return result
	}

	// Smoothed level anchors the forecast; the last smoothed value reflects
	// the most recent demand more than the plain average does.
	smoothed := ExponentialSmoothing(quantities, opts.Alpha)
	level := smoothed[len(smoothed)-1]

	lastDate := history.DailySales[len(history.DailySales)-1].Date
	points := make([]ForecastPoint, 0, opts.DaysAhead)
	cumulative := 0.0
	stockoutDay := 0

	for day := 1; day <= opts.DaysAhead; day++ {
		date := lastDate.AddDate(0, 0, day)
		base := level + trend.Slope*float64(day)
		predicted := base * seasonality[int(date.Month())-1]
		if predicted < 0 {
			predicted = 0
		}

		lower := math.Max(0, predicted-forecastBandZ*std)
		upper := predicted + forecastBandZ*std

		points = append(points, ForecastPoint{
			Date:      date,
			Predicted: predicted,
			Lower:     lower,
			Upper:     upper,
		})

		cumulative += predicted
		if stockoutDay == 0 && cumulative >= currentStock {
			stockoutDay = day
		}
	}

	result.Forecast = points

	if stockoutDay > 0 {
		result.DaysUntilStockout = &stockoutDay

		today := truncateToDay(time.Now())
		reorder := today
		if stockoutDay > opts.LeadTimeDays {
			reorder = today.AddDate(0, 0, stockoutDay-opts.LeadTimeDays)
		}
		result.RecommendedReorderDate = &reorder
	}

	return result
}

// seasonalityFromHistory aggregates daily sales into calendar year-month
// totals and feeds them to CalculateSeasonality. Entries without a usable
// date are skipped from the grouping.
func seasonalityFromHistory(sales []DailySale) []float64 {
	type yearMonth struct {
		year  int
		month time.Month
	}

	totals := make(map[yearMonth]float64)
	var first, last yearMonth
	seen := false
	for _, s := range sales {
		if s.Date.IsZero() {
			continue
		}
		ym := yearMonth{s.Date.Year(), s.Date.Month()}
		totals[ym] += s.Quantity
		if !seen {
			first, last, seen = ym, ym, true
			continue
		}
		if ym.year < first.year || (ym.year == first.year && ym.month < first.month) {
			first = ym
		}
		if ym.year > last.year || (ym.year == last.year && ym.month > last.month) {
			last = ym
		}
	}

	if !seen {
		return CalculateSeasonality(nil, time.January)
	}

	// Contiguous month series from first to last; months without sales count
	// as zero totals.
	var series []float64
	for ym := first; ; {
		series = append(series, totals[ym])
		if ym == last {
			break
		}
		if ym.month == time.December {
			ym = yearMonth{ym.year + 1, time.January}
		} else {
			ym.month++
		}
	}

	return CalculateSeasonality(series, first.month)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
