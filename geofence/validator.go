package geofence

import (
	"math"
	"time"
)

const earthRadiusMeters = 6371000

// Distance returns the great-circle distance in meters between two
// coordinates using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Match pairs a location with the caller's distance from its center.
type Match struct {
	Location *Location `json:"location"`
	Distance float64   `json:"distance_meters"`
}

// FindValidLocation returns the location the caller may check in at, or nil
// when no location qualifies. A location qualifies when it is active, the
// caller is within its radius (boundary inclusive), and the current time
// falls inside its valid-hours window. Locations with a misconfigured window
// are skipped rather than failing the whole scan. When several qualify the
// nearest wins.
func FindValidLocation(lat, lon float64, locations []*Location, now time.Time) *Match {
	var best *Match
	for _, l := range locations {
		if !l.IsActive {
			continue
		}
		d := Distance(lat, lon, l.Latitude, l.Longitude)
		if d > l.RadiusMeters {
			continue
		}
		if l.ValidHours != nil {
			open, err := l.ValidHours.Contains(now)
			if err != nil || !open {
				continue
			}
		}
		if best == nil || d < best.Distance {
			best = &Match{Location: l, Distance: d}
		}
	}
	return best
}

// NearestLocation returns the closest active location regardless of radius
// or hours. It exists for error reporting, so a rejected check-in can tell
// the user how far away the nearest site is.
func NearestLocation(lat, lon float64, locations []*Location) *Match {
	var best *Match
	for _, l := range locations {
		if !l.IsActive {
			continue
		}
		d := Distance(lat, lon, l.Latitude, l.Longitude)
		if best == nil || d < best.Distance {
			best = &Match{Location: l, Distance: d}
		}
	}
	return best
}
