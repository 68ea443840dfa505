// Package geo provides great-circle distance and the bounding boxes used to
// narrow proximity queries before the exact distance check.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// points given in decimal degrees, using the Haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// BoundingBox is a latitude/longitude rectangle that contains every point
// within a radius of its center. It may contain points outside the radius.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// boxMargin widens the box slightly so float rounding never excludes a
// point that Distance would keep.
const boxMargin = 1.01

// NewBoundingBox returns the box around (lat, lon) for radiusKm. ok is false
// when the box would reach a pole or wrap the antimeridian; callers then
// fall back to an unfiltered scan.
func NewBoundingBox(lat, lon, radiusKm float64) (BoundingBox, bool) {
	if radiusKm < 0 || math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) {
		return BoundingBox{}, false
	}

	angular := radiusKm / EarthRadiusKm * boxMargin
	dLat := toDegrees(angular)

	minLat, maxLat := lat-dLat, lat+dLat
	if minLat <= -90 || maxLat >= 90 {
		return BoundingBox{}, false
	}

	ratio := math.Sin(angular) / math.Cos(toRadians(lat))
	if ratio >= 1 || angular >= math.Pi/2 {
		return BoundingBox{}, false
	}
	dLon := toDegrees(math.Asin(ratio))

	minLon, maxLon := lon-dLon, lon+dLon
	if minLon < -180 || maxLon > 180 {
		return BoundingBox{}, false
	}

	return BoundingBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}, true
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
