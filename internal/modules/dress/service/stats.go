package service

import (
	"sort"
	"strings"
	"time"

	"anoa.com/weddingsalon/internal/entity"
	"anoa.com/weddingsalon/internal/modules/dress/dto"
)

// NoDataMonth is returned by MostPopularMonth when no dress has an arrival date.
const NoDataMonth = "NO_DATA"

// CountByArrivalDate counts dresses per arrival calendar date, in ascending
// date order. Dresses without an arrival date are skipped.
func CountByArrivalDate(dresses []*entity.Dress) []dto.DateCount {
	counts := make(map[string]int64)
	for _, d := range dresses {
		if day := d.ArrivalDay(); day != "" {
			counts[day]++
		}
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	// ISO dates sort chronologically as strings
	sort.Strings(days)

	out := make([]dto.DateCount, 0, len(days))
	for _, day := range days {
		out = append(out, dto.DateCount{Date: day, Count: counts[day]})
	}
	return out
}

// AveragePrice is the mean of all non-nil prices, or 0 when there are none.
func AveragePrice(dresses []*entity.Dress) float64 {
	var sum float64
	var n int
	for _, d := range dresses {
		if d.Price != nil {
			sum += *d.Price
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MostPopularMonth returns the upper-case English name of the month, across
// all years, in which most dresses arrived. Ties go to the earliest month of
// the calendar year.
func MostPopularMonth(dresses []*entity.Dress) string {
	var counts [13]int
	for _, d := range dresses {
		if d.ArrivalDate != nil {
			counts[d.ArrivalDate.Month()]++
		}
	}

	best := time.Month(0)
	for m := time.January; m <= time.December; m++ {
		if counts[m] > counts[best] {
			best = m
		}
	}

	if best == 0 {
		return NoDataMonth
	}
	return strings.ToUpper(best.String())
}

// Statistics computes every aggregation over a single snapshot.
func Statistics(dresses []*entity.Dress) *dto.DressStatistics {
	return &dto.DressStatistics{
		CountByDate:      CountByArrivalDate(dresses),
		AveragePrice:     AveragePrice(dresses),
		MostPopularMonth: MostPopularMonth(dresses),
		Total:            len(dresses),
	}
}
