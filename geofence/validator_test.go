package geofence

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

func testLocation(name string, lat, lon, radius float64) *Location {
	return &Location{
		ID:           id.NewLocationID(),
		Name:         name,
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: radius,
		IsActive:     true,
	}
}

func TestDistance(t *testing.T) {
	// Same point.
	if d := Distance(34.0522, -118.2437, 34.0522, -118.2437); d != 0 {
		t.Errorf("expected zero distance, got %v", d)
	}

	// Roughly 0.0018 degrees of latitude is about 200 meters.
	d := Distance(34.0522, -118.2437, 34.0540, -118.2437)
	if d < 195 || d > 205 {
		t.Errorf("expected ~200m, got %v", d)
	}

	// Symmetry.
	d2 := Distance(34.0540, -118.2437, 34.0522, -118.2437)
	if math.Abs(d-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d, d2)
	}
}

func TestTimeWindowContains(t *testing.T) {
	window := TimeWindow{Enabled: true, Start: "08:00", End: "18:00"}

	tests := []struct {
		clock string
		want  bool
	}{
		{"07:59", false},
		{"08:00", true},
		{"12:30", true},
		{"17:59", true},
		{"18:00", false},
		{"23:00", false},
	}
	for _, tt := range tests {
		now, err := time.Parse("15:04", tt.clock)
		if err != nil {
			t.Fatalf("parse clock %q: %v", tt.clock, err)
		}
		got, err := window.Contains(now)
		if err != nil {
			t.Fatalf("Contains(%s): %v", tt.clock, err)
		}
		if got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.clock, got, tt.want)
		}
	}
}

func TestTimeWindowDisabled(t *testing.T) {
	window := TimeWindow{Enabled: false, Start: "08:00", End: "18:00"}
	got, err := window.Contains(time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("disabled window should contain every instant")
	}
}

func TestTimeWindowInvalid(t *testing.T) {
	tests := []struct {
		name   string
		window TimeWindow
	}{
		{"end before start", TimeWindow{Enabled: true, Start: "18:00", End: "08:00"}},
		{"end equals start", TimeWindow{Enabled: true, Start: "08:00", End: "08:00"}},
		{"unparseable start", TimeWindow{Enabled: true, Start: "8am", End: "18:00"}},
		{"unparseable end", TimeWindow{Enabled: true, Start: "08:00", End: "6pm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.window.Contains(time.Now())
			if !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("expected ErrInvalidWindow, got %v", err)
			}
		})
	}
}

func TestFindValidLocation(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("within radius", func(t *testing.T) {
		shop := testLocation("Machine Shop", 34.0522, -118.2437, 100)
		m := FindValidLocation(34.0522, -118.2437, []*Location{shop}, now)
		if m == nil {
			t.Fatal("expected a match at the center")
		}
		if m.Location.Name != "Machine Shop" {
			t.Errorf("unexpected location %q", m.Location.Name)
		}
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		shop := testLocation("Machine Shop", 34.0522, -118.2437, 0)
		d := Distance(34.0530, -118.2437, shop.Latitude, shop.Longitude)
		shop.RadiusMeters = d
		if m := FindValidLocation(34.0530, -118.2437, []*Location{shop}, now); m == nil {
			t.Error("a point exactly on the boundary should match")
		}
	})

	t.Run("outside radius", func(t *testing.T) {
		// About 200m north of a 100m-radius fence.
		shop := testLocation("Machine Shop", 34.0522, -118.2437, 100)
		m := FindValidLocation(34.0540, -118.2437, []*Location{shop}, now)
		if m != nil {
			t.Errorf("expected no match, got %q at %vm", m.Location.Name, m.Distance)
		}

		nearest := NearestLocation(34.0540, -118.2437, []*Location{shop})
		if nearest == nil {
			t.Fatal("expected a nearest location")
		}
		if nearest.Distance < 195 || nearest.Distance > 205 {
			t.Errorf("expected nearest ~200m away, got %v", nearest.Distance)
		}
	})

	t.Run("inactive locations are skipped", func(t *testing.T) {
		shop := testLocation("Machine Shop", 34.0522, -118.2437, 100)
		shop.IsActive = false
		if m := FindValidLocation(34.0522, -118.2437, []*Location{shop}, now); m != nil {
			t.Error("inactive location must not match")
		}
		if m := NearestLocation(34.0522, -118.2437, []*Location{shop}); m != nil {
			t.Error("inactive location must not be nearest")
		}
	})

	t.Run("outside valid hours", func(t *testing.T) {
		shop := testLocation("Machine Shop", 34.0522, -118.2437, 100)
		shop.ValidHours = &TimeWindow{Enabled: true, Start: "08:00", End: "18:00"}
		late := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
		if m := FindValidLocation(34.0522, -118.2437, []*Location{shop}, late); m != nil {
			t.Error("check-in outside valid hours must not match")
		}
		during := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
		if m := FindValidLocation(34.0522, -118.2437, []*Location{shop}, during); m == nil {
			t.Error("check-in during valid hours should match")
		}
	})

	t.Run("misconfigured window is skipped", func(t *testing.T) {
		broken := testLocation("Broken", 34.0522, -118.2437, 100)
		broken.ValidHours = &TimeWindow{Enabled: true, Start: "18:00", End: "08:00"}
		ok := testLocation("Workshop", 34.0522, -118.2437, 100)
		m := FindValidLocation(34.0522, -118.2437, []*Location{broken, ok}, now)
		if m == nil || m.Location.Name != "Workshop" {
			t.Errorf("expected Workshop, got %+v", m)
		}
	})

	t.Run("nearest of several wins", func(t *testing.T) {
		far := testLocation("Far", 34.0530, -118.2437, 500)
		near := testLocation("Near", 34.0523, -118.2437, 500)
		m := FindValidLocation(34.0522, -118.2437, []*Location{far, near}, now)
		if m == nil || m.Location.Name != "Near" {
			t.Errorf("expected Near, got %+v", m)
		}
	})

	t.Run("no locations", func(t *testing.T) {
		if m := FindValidLocation(34.0522, -118.2437, nil, now); m != nil {
			t.Error("expected nil with no locations")
		}
		if m := NearestLocation(34.0522, -118.2437, nil); m != nil {
			t.Error("expected nil nearest with no locations")
		}
	})
}

func TestLocationValidate(t *testing.T) {
	valid := testLocation("Machine Shop", 34.0522, -118.2437, 100)
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Location)
		wantErr error
	}{
		{"empty name", func(l *Location) { l.Name = "" }, ErrInvalidLocation},
		{"zero radius", func(l *Location) { l.RadiusMeters = 0 }, ErrInvalidLocation},
		{"negative radius", func(l *Location) { l.RadiusMeters = -5 }, ErrInvalidLocation},
		{"latitude out of range", func(l *Location) { l.Latitude = 91 }, ErrInvalidLocation},
		{"longitude out of range", func(l *Location) { l.Longitude = -181 }, ErrInvalidLocation},
		{"inverted window", func(l *Location) {
			l.ValidHours = &TimeWindow{Enabled: true, Start: "18:00", End: "08:00"}
		}, ErrInvalidWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testLocation("Machine Shop", 34.0522, -118.2437, 100)
			tt.mutate(l)
			if err := l.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
