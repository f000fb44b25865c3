package economy

import (
	"math"
)

// Prices move proportionally to the fraction of inventory a trade touches:
// buying 40% of the remaining stock raises the price 40%, selling into the
// pile pushes it down by the traded share of the resulting stock. Results
// clamp to the configured floor and ceiling.

func buyPrice(price, stockBefore, traded, floor, ceiling int) int {
	if stockBefore <= 0 {
		return clampPrice(price, floor, ceiling)
	}
	fraction := float64(traded) / float64(stockBefore)
	next := int(math.Round(float64(price) * (1 + fraction)))
	return clampPrice(next, floor, ceiling)
}

func sellPrice(price, stockBefore, traded, floor, ceiling int) int {
	stockAfter := stockBefore + traded
	if stockAfter <= 0 {
		return clampPrice(price, floor, ceiling)
	}
	fraction := float64(traded) / float64(stockAfter)
	next := int(math.Round(float64(price) * (1 - fraction)))
	return clampPrice(next, floor, ceiling)
}

func clampPrice(price, floor, ceiling int) int {
	if price < floor {
		return floor
	}
	if price > ceiling {
		return ceiling
	}
	return price
}
