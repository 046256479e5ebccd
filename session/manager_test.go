package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
	"github.com/Team-Optix-3749/otoolkit-sub000/store/memory"
)

const (
	shopLat = 34.0522
	shopLon = -118.2437
)

func newFixture(t *testing.T) (*session.Manager, *memory.Store, *geofence.Location) {
	t.Helper()
	s := memory.New()
	shop := &geofence.Location{
		ID:           id.NewLocationID(),
		Name:         "Machine Shop",
		Latitude:     shopLat,
		Longitude:    shopLon,
		RadiusMeters: 100,
		IsActive:     true,
	}
	if err := s.CreateLocation(context.Background(), shop); err != nil {
		t.Fatalf("create location: %v", err)
	}
	m, err := session.NewManager(s, s)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m, s, shop
}

func TestCheckInWithinFence(t *testing.T) {
	m, _, shop := newFixture(t)
	ctx := context.Background()

	sess, err := m.CheckIn(ctx, "user-1", shopLat, shopLon)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if sess.LocationID != shop.ID {
		t.Errorf("expected location %s, got %s", shop.ID, sess.LocationID)
	}
	if !sess.Open() {
		t.Error("new session should be open")
	}
}

func TestCheckInOutsideFence(t *testing.T) {
	m, _, _ := newFixture(t)

	// About 200m north of the 100m fence.
	_, err := m.CheckIn(context.Background(), "user-1", 34.0540, shopLon)
	if !errors.Is(err, session.ErrNoValidLocation) {
		t.Fatalf("expected ErrNoValidLocation, got %v", err)
	}
}

func TestCheckInOutsideHours(t *testing.T) {
	m, s, shop := newFixture(t)
	ctx := context.Background()

	shop.ValidHours = &geofence.TimeWindow{Enabled: true, Start: "08:00", End: "18:00"}
	if err := s.UpdateLocation(ctx, shop); err != nil {
		t.Fatalf("update location: %v", err)
	}

	late := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	m2, err := session.NewManager(s, s, session.WithClock(func() time.Time { return late }))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := m2.CheckIn(ctx, "user-1", shopLat, shopLon); !errors.Is(err, session.ErrNoValidLocation) {
		t.Fatalf("expected ErrNoValidLocation, got %v", err)
	}
	_ = m
}

func TestSecondCheckInRejected(t *testing.T) {
	m, _, _ := newFixture(t)
	ctx := context.Background()

	if _, err := m.CheckIn(ctx, "user-1", shopLat, shopLon); err != nil {
		t.Fatalf("first check in: %v", err)
	}
	if _, err := m.CheckIn(ctx, "user-1", shopLat, shopLon); !errors.Is(err, session.ErrOpenSessionExists) {
		t.Fatalf("expected ErrOpenSessionExists, got %v", err)
	}
}

func TestConcurrentCheckInExactlyOneSucceeds(t *testing.T) {
	m, _, _ := newFixture(t)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.CheckIn(ctx, "user-1", shopLat, shopLon)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, session.ErrOpenSessionExists) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one successful check-in, got %d", succeeded)
	}
}

func TestStopComputesMinutes(t *testing.T) {
	_, s, shop := newFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	now := start
	m, err := session.NewManager(s, s, session.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	sess, err := m.Start(ctx, "user-1", shop.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	now = start.Add(45 * time.Minute)
	closed, err := m.Stop(ctx, sess.ID)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if closed.Open() {
		t.Error("stopped session should be closed")
	}
	if got := closed.ElapsedMinutes(now); got != 45 {
		t.Errorf("expected 45 minutes, got %d", got)
	}
}

func TestStopAlreadyClosed(t *testing.T) {
	m, _, shop := newFixture(t)
	ctx := context.Background()

	sess, err := m.Start(ctx, "user-1", shop.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := m.Stop(ctx, sess.ID); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := m.Stop(ctx, sess.ID); !errors.Is(err, session.ErrAlreadyClosed) {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}
}

func TestCheckOutAndReCheckIn(t *testing.T) {
	m, _, _ := newFixture(t)
	ctx := context.Background()

	if _, err := m.CheckIn(ctx, "user-1", shopLat, shopLon); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if _, err := m.CheckOut(ctx, "user-1"); err != nil {
		t.Fatalf("check out: %v", err)
	}
	if _, err := m.OpenSession(ctx, "user-1"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected no open session, got %v", err)
	}
	// Closing released the open slot.
	if _, err := m.CheckIn(ctx, "user-1", shopLat, shopLon); err != nil {
		t.Fatalf("second check in after close: %v", err)
	}
}

func TestElapsedMinutesTruncates(t *testing.T) {
	start := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(45*time.Minute + 59*time.Second)
	sess := &session.Session{StartedAt: start, EndedAt: &end}
	if got := sess.ElapsedMinutes(end); got != 45 {
		t.Errorf("expected 45 minutes, got %d", got)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	_, s, shop := newFixture(t)
	ctx := context.Background()

	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	m, err := session.NewManager(s, s, session.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	for i := 0; i < 3; i++ {
		sess, err := m.Start(ctx, "user-1", shop.ID)
		if err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		now = now.Add(30 * time.Minute)
		if _, err := m.Stop(ctx, sess.ID); err != nil {
			t.Fatalf("stop %d: %v", i, err)
		}
		now = now.Add(time.Hour)
	}

	history, err := m.History(ctx, "user-1", 0, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].StartedAt.After(history[i-1].StartedAt) {
			t.Error("history not sorted newest first")
		}
	}
}
