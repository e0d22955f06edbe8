package fee

import (
	"context"
	"fmt"
	"math"

	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

const earthRadiusKm = 6371.0

// DistanceFeeCalculator charges a base fee plus a per started kilometre of
// great-circle distance from the shop.
type DistanceFeeCalculator struct {
	shop          domain.Coordinate
	base          decimal.Decimal
	perKm         decimal.Decimal
	maxDistanceKm float64
}

func NewDistanceFeeCalculator(cfg config.Fee) *DistanceFeeCalculator {
	return &DistanceFeeCalculator{
		shop:          domain.Coordinate{Lat: cfg.ShopLat, Lon: cfg.ShopLon},
		base:          decimal.NewFromFloat(cfg.Base),
		perKm:         decimal.NewFromFloat(cfg.PerKm),
		maxDistanceKm: cfg.MaxDistanceKm,
	}
}

func (c *DistanceFeeCalculator) ComputeFee(_ context.Context, coordinate domain.Coordinate) (decimal.Decimal, error) {
	if !coordinate.Valid() {
		return decimal.Zero, fmt.Errorf("%w: coordinate out of range", domain.ErrInvalidRequestBodyValue)
	}

	distance := Distance(c.shop, coordinate)
	if c.maxDistanceKm > 0 && distance > c.maxDistanceKm {
		return decimal.Zero, fmt.Errorf("%w: delivery distance %.1f km exceeds %.1f km",
			domain.ErrInvalidRequestBodyValue, distance, c.maxDistanceKm)
	}

	km := decimal.NewFromFloat(math.Ceil(distance))
	return c.base.Add(c.perKm.Mul(km)), nil
}

// Distance is the haversine distance in kilometres.
func Distance(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
