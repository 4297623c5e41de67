package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/services"
	"github.com/desertthunder/fstat/internal/shared"
	tu "github.com/desertthunder/fstat/internal/testing"
)

type stubProvider struct {
	mu         sync.Mutex
	profile    *models.ProfileSnapshot
	profileErr error
	stats      map[models.Variant]*models.GameVariantStats
	statsErr   map[models.Variant]error
	requested  []models.Variant
}

func (s *stubProvider) Profile(ctx context.Context, handle string) (*models.ProfileSnapshot, error) {
	return s.profile, s.profileErr
}

func (s *stubProvider) LifetimeStats(ctx context.Context, handle string, v models.Variant) (*models.GameVariantStats, error) {
	s.mu.Lock()
	s.requested = append(s.requested, v)
	s.mu.Unlock()
	return s.stats[v], s.statsErr[v]
}

func profileOf(games map[models.Variant]models.VariantProfile) *models.ProfileSnapshot {
	return &models.ProfileSnapshot{Handle: "g1", Games: games}
}

var (
	cs2Stats  = &models.GameVariantStats{Matches: 120, WinRatePct: 55, AvgKillDeathRatio: 1.12, AvgHeadshotPct: 48}
	csgoStats = &models.GameVariantStats{Matches: 900, WinRatePct: 49, AvgKillDeathRatio: 0.91, AvgHeadshotPct: 41}
)

func TestAggregator(t *testing.T) {
	ctx := context.Background()

	t.Run("Primary Wins When Both Usable", func(t *testing.T) {
		p := &stubProvider{
			profile: profileOf(map[models.Variant]models.VariantProfile{
				"cs2":  {SkillLevel: 5, Elo: 1800},
				"csgo": {SkillLevel: 9, Elo: 2100},
			}),
			stats: map[models.Variant]*models.GameVariantStats{"cs2": cs2Stats, "csgo": csgoStats},
		}

		got, err := services.NewAggregator(p, "cs2", "csgo").Aggregate(ctx, "g1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := models.NormalizedStats{Variant: "cs2", SkillLevel: 5, Elo: 1800, Matches: 120, WinRatePct: 55, AvgKillDeathRatio: 1.12, AvgHeadshotPct: 48}
		if *got != want {
			t.Errorf("Aggregate() = %+v, want %+v", *got, want)
		}
	})

	t.Run("Falls Back To Legacy", func(t *testing.T) {
		p := &stubProvider{
			profile: profileOf(map[models.Variant]models.VariantProfile{
				"cs2":  {SkillLevel: 5, Elo: 1800},
				"csgo": {SkillLevel: 9, Elo: 2100},
			}),
			stats: map[models.Variant]*models.GameVariantStats{"csgo": csgoStats},
		}

		got, err := services.NewAggregator(p, "cs2", "csgo").Aggregate(ctx, "g1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Variant != "csgo" || got.SkillLevel != 9 || got.Matches != 900 {
			t.Errorf("expected csgo figures, got %+v", *got)
		}
	})

	t.Run("Primary Stats Without Profile Entry Falls Back", func(t *testing.T) {
		p := &stubProvider{
			profile: profileOf(map[models.Variant]models.VariantProfile{"csgo": {SkillLevel: 9, Elo: 2100}}),
			stats:   map[models.Variant]*models.GameVariantStats{"cs2": cs2Stats, "csgo": csgoStats},
		}

		got, err := services.NewAggregator(p, "cs2", "csgo").Aggregate(ctx, "g1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Variant != "csgo" {
			t.Errorf("expected csgo, got %s", got.Variant)
		}
	})

	t.Run("No Usable Variant Is Not Found", func(t *testing.T) {
		p := &stubProvider{
			profile: profileOf(map[models.Variant]models.VariantProfile{"cs2": {SkillLevel: 5, Elo: 1800}}),
			stats:   map[models.Variant]*models.GameVariantStats{"csgo": csgoStats},
		}

		_, err := services.NewAggregator(p, "cs2", "csgo").Aggregate(ctx, "g1")
		if !errors.Is(err, shared.ErrPlayerNotFound) {
			t.Errorf("expected ErrPlayerNotFound, got %v", err)
		}
	})

	t.Run("Single Variant Configuration", func(t *testing.T) {
		p := &stubProvider{
			profile: profileOf(map[models.Variant]models.VariantProfile{"csgo": {SkillLevel: 9, Elo: 2100}}),
			stats:   map[models.Variant]*models.GameVariantStats{"csgo": csgoStats},
		}

		_, err := services.NewAggregator(p, "cs2").Aggregate(ctx, "g1")
		if !errors.Is(err, shared.ErrPlayerNotFound) {
			t.Errorf("expected ErrPlayerNotFound, got %v", err)
		}
		if len(p.requested) != 1 || p.requested[0] != "cs2" {
			t.Errorf("expected only cs2 stats to be requested, got %v", p.requested)
		}
	})

	t.Run("Default Variants", func(t *testing.T) {
		a := services.NewAggregator(&stubProvider{})
		if v := a.Variants(); len(v) != 2 || v[0] != "cs2" || v[1] != "csgo" {
			t.Errorf("unexpected default variants %v", v)
		}
	})

	t.Run("Profile Failure Fails Aggregation", func(t *testing.T) {
		p := &stubProvider{
			profileErr: &services.TransportError{URL: "x", Err: errors.New("timeout")},
			stats:      map[models.Variant]*models.GameVariantStats{"cs2": cs2Stats},
		}

		_, err := services.NewAggregator(p, "cs2").Aggregate(ctx, "g1")
		if !errors.Is(err, shared.ErrAPIRequest) || !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrAPIRequest wrapping ErrTransport, got %v", err)
		}
	})

	t.Run("Legacy Stats Failure Fails Aggregation Even When Primary Is Usable", func(t *testing.T) {
		p := &stubProvider{
			profile:  profileOf(map[models.Variant]models.VariantProfile{"cs2": {SkillLevel: 5, Elo: 1800}}),
			stats:    map[models.Variant]*models.GameVariantStats{"cs2": cs2Stats},
			statsErr: map[models.Variant]error{"csgo": errors.New("boom")},
		}

		_, err := services.NewAggregator(p, "cs2", "csgo").Aggregate(ctx, "g1")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestAggregatorConcurrency(t *testing.T) {
	profileURL := "https://data.test/players/g1"
	cs2URL := profileURL + "/stats/cs2"
	csgoURL := profileURL + "/stats/csgo"

	t.Run("Requests Are Issued Together", func(t *testing.T) {
		gate := make(chan struct{})
		tr := tu.NewScriptedTransport().
			Reply(profileURL, tu.Reply{Body: tu.PlayerBody("g1", map[string]tu.Game{"cs2": {SkillLevel: 5, Elo: 1800}}), Gate: gate}).
			Reply(cs2URL, tu.Reply{Body: tu.StatsBody(tu.Lifetime(120, 55, 1.12, 48)), Gate: gate}).
			Reply(csgoURL, tu.Reply{Body: tu.NotFoundBody, Gate: gate})

		type outcome struct {
			stats *models.NormalizedStats
			err   error
		}
		done := make(chan outcome, 1)
		go func() {
			s, err := services.NewAggregator(newClient(tr), "cs2", "csgo").Aggregate(context.Background(), "g1")
			done <- outcome{s, err}
		}()

		deadline := time.After(2 * time.Second)
		for len(tr.Calls()) < 3 {
			select {
			case <-deadline:
				t.Fatalf("expected 3 in-flight requests, saw %d", len(tr.Calls()))
			case <-time.After(5 * time.Millisecond):
			}
		}
		close(gate)

		res := <-done
		if res.err != nil {
			t.Fatalf("expected no error, got %v", res.err)
		}
		if res.stats.Variant != "cs2" || res.stats.Elo != 1800 {
			t.Errorf("unexpected stats %+v", *res.stats)
		}
	})

	t.Run("First Failure Cancels The Rest", func(t *testing.T) {
		never := make(chan struct{})
		tr := tu.NewScriptedTransport().
			Reply(profileURL, tu.Reply{Body: "{}", Gate: never}).
			Reply(cs2URL, tu.Reply{Body: "{}", Gate: never}).
			Fail(csgoURL, errors.New("connection refused"))

		errc := make(chan error, 1)
		go func() {
			_, err := services.NewAggregator(newClient(tr), "cs2", "csgo").Aggregate(context.Background(), "g1")
			errc <- err
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("aggregation did not fail fast")
		}
	})
}
