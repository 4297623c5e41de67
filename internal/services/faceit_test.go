package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/services"
	"github.com/desertthunder/fstat/internal/shared"
	tu "github.com/desertthunder/fstat/internal/testing"
	"golang.org/x/oauth2"
)

const (
	searchBase = "https://search.test/v1/"
	playerBase = "https://data.test/players/"
	steamID    = "76561198000000000"
	searchURL  = "https://search.test/v1/?limit=5&query=76561198000000000"
)

func newClient(tr services.Transport) *services.FaceitClient {
	return services.NewFaceitClient(services.FaceitOpts{
		SearchBaseURL: searchBase,
		PlayerBaseURL: playerBase,
		BearerToken:   "tok",
		Transport:     tr,
	})
}

func TestFaceitClientURLs(t *testing.T) {
	c := newClient(nil)

	t.Run("SearchURL", func(t *testing.T) {
		got, err := c.SearchURL(steamID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != searchURL {
			t.Errorf("expected %s, got %s", searchURL, got)
		}
	})

	t.Run("SearchURL Respects Cap", func(t *testing.T) {
		c := services.NewFaceitClient(services.FaceitOpts{SearchBaseURL: searchBase, SearchResultCap: 2})
		got, _ := c.SearchURL("abc")
		if got != "https://search.test/v1/?limit=2&query=abc" {
			t.Errorf("unexpected URL %s", got)
		}
	})

	t.Run("PlayerURL", func(t *testing.T) {
		if got := c.PlayerURL("g1"); got != "https://data.test/players/g1" {
			t.Errorf("unexpected URL %s", got)
		}
	})

	t.Run("StatsURL", func(t *testing.T) {
		if got := c.StatsURL("g1", "cs2"); got != "https://data.test/players/g1/stats/cs2" {
			t.Errorf("unexpected URL %s", got)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		c := services.NewFaceitClient(services.FaceitOpts{})
		if got := c.PlayerURL("g1"); got != services.DefaultPlayerBaseURL+"/g1" {
			t.Errorf("unexpected default player URL %s", got)
		}
	})
}

func TestFaceitClientSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps Results In Order", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(searchURL, tu.SearchBody(
			tu.Hit{GUID: "g1", Status: "OFFLINE"},
			tu.Hit{GUID: "g2", Status: "AVAILABLE"},
		))

		got, err := newClient(tr).Search(ctx, steamID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []models.Candidate{{Handle: "g1", Status: models.StatusOther}, {Handle: "g2", Status: models.StatusAvailable}}
		if len(got) != len(want) {
			t.Fatalf("expected %d candidates, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("candidate %d = %+v, want %+v", i, got[i], want[i])
			}
		}

		calls := tr.Calls()
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		if calls[0].Auth != nil {
			t.Error("search must not carry the bearer token")
		}
	})

	t.Run("Drops Results Past Cap", func(t *testing.T) {
		hits := make([]tu.Hit, 7)
		for i := range hits {
			hits[i] = tu.Hit{GUID: string(rune('a' + i)), Status: "OFFLINE"}
		}
		tr := tu.NewScriptedTransport().On(searchURL, tu.SearchBody(hits...))

		got, err := newClient(tr).Search(ctx, steamID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 5 {
			t.Errorf("expected 5 candidates, got %d", len(got))
		}
	})

	t.Run("Empty Results", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(searchURL, tu.SearchBody())

		got, err := newClient(tr).Search(ctx, steamID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no candidates, got %d", len(got))
		}
	})

	t.Run("Malformed Documents", func(t *testing.T) {
		for name, body := range map[string]string{
			"not json":        `<html>`,
			"missing payload": `{}`,
			"missing players": `{"payload":{}}`,
			"missing results": `{"payload":{"players":{}}}`,
		} {
			t.Run(name, func(t *testing.T) {
				tr := tu.NewScriptedTransport().On(searchURL, body)
				_, err := newClient(tr).Search(ctx, steamID)
				if !errors.Is(err, shared.ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
			})
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		tr := tu.NewScriptedTransport().Fail(searchURL, errors.New("dial tcp: timeout"))
		_, err := newClient(tr).Search(ctx, steamID)
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}

func TestFaceitClientProfile(t *testing.T) {
	ctx := context.Background()
	url := "https://data.test/players/g1"

	t.Run("Maps Games", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(url, tu.PlayerBody("g1", map[string]tu.Game{
			"cs2":  {SkillLevel: 5, Elo: 1800},
			"csgo": {SkillLevel: 7, Elo: 1500},
		}))

		p, err := newClient(tr).Profile(ctx, "g1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if g, ok := p.Game("cs2"); !ok || g.SkillLevel != 5 || g.Elo != 1800 {
			t.Errorf("unexpected cs2 entry %+v", g)
		}
		if g, ok := p.Game("csgo"); !ok || g.SkillLevel != 7 || g.Elo != 1500 {
			t.Errorf("unexpected csgo entry %+v", g)
		}

		if got := tu.AuthHeader(tr.Calls()[0]); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
	})

	t.Run("Accepts Numeric Strings", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(url, `{"games":{"cs2":{"skill_level":"4","faceit_elo":"1234"}}}`)

		p, err := newClient(tr).Profile(ctx, "g1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if g, _ := p.Game("cs2"); g.SkillLevel != 4 || g.Elo != 1234 {
			t.Errorf("unexpected entry %+v", g)
		}
	})

	t.Run("Skips Incomplete Entries", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(url, `{"games":{"cs2":{"skill_level":4},"csgo":{"skill_level":3,"faceit_elo":900}}}`)

		p, err := newClient(tr).Profile(ctx, "g1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := p.Game("cs2"); ok {
			t.Error("expected incomplete cs2 entry to be skipped")
		}
		if _, ok := p.Game("csgo"); !ok {
			t.Error("expected csgo entry")
		}
	})

	t.Run("No Games", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(url, tu.NotFoundBody)

		p, err := newClient(tr).Profile(ctx, "g1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(p.Games) != 0 {
			t.Errorf("expected no games, got %v", p.Games)
		}
	})

	t.Run("Fractional Level", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(url, `{"games":{"cs2":{"skill_level":4.5,"faceit_elo":1000}}}`)
		if _, err := newClient(tr).Profile(ctx, "g1"); !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("Unusable Token", func(t *testing.T) {
		body := tu.PlayerBody("g1", map[string]tu.Game{"cs2": {SkillLevel: 5, Elo: 1800}})

		tests := []struct {
			name string
			opts services.FaceitOpts
		}{
			{"empty bearer token", services.FaceitOpts{}},
			{"expired token source", services.FaceitOpts{TokenSource: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: "tok",
				Expiry:      time.Now().Add(-time.Hour),
			})}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tr := tu.NewScriptedTransport().On(url, body)
				tt.opts.PlayerBaseURL = playerBase
				tt.opts.Transport = tr

				_, err := services.NewFaceitClient(tt.opts).Profile(ctx, "g1")
				if !errors.Is(err, shared.ErrTransport) {
					t.Errorf("expected ErrTransport, got %v", err)
				}
			})
		}
	})

	t.Run("Token Source Replaces Bearer Token", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(url, tu.PlayerBody("g1", nil))
		c := services.NewFaceitClient(services.FaceitOpts{
			PlayerBaseURL: playerBase,
			BearerToken:   "ignored",
			TokenSource:   oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "rotated", TokenType: "Bearer"}),
			Transport:     tr,
		})

		if _, err := c.Profile(ctx, "g1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := tu.AuthHeader(tr.Calls()[0]); got != "Bearer rotated" {
			t.Errorf("expected rotated token, got %q", got)
		}
	})
}

func TestFaceitClientLifetimeStats(t *testing.T) {
	ctx := context.Background()
	url := "https://data.test/players/g1/stats/cs2"

	t.Run("Passes Figures Through", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(url, tu.StatsBody(tu.Lifetime(120, 55, 1.12, 48)))

		s, err := newClient(tr).LifetimeStats(ctx, "g1", "cs2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := models.GameVariantStats{Matches: 120, WinRatePct: 55, AvgKillDeathRatio: 1.12, AvgHeadshotPct: 48}
		if s == nil || *s != want {
			t.Errorf("LifetimeStats() = %+v, want %+v", s, want)
		}
	})

	t.Run("Accepts Numeric Strings", func(t *testing.T) {
		tr := tu.NewScriptedTransport().On(url, tu.StatsBody(map[string]any{
			"Matches": "310", "Win Rate %": "51", "Average K/D Ratio": "0.98", "Average Headshots %": "45",
			"Longest Win Streak": "9",
		}))

		s, err := newClient(tr).LifetimeStats(ctx, "g1", "cs2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s == nil || s.Matches != 310 || s.AvgKillDeathRatio != 0.98 {
			t.Errorf("unexpected stats %+v", s)
		}
	})

	t.Run("Absent Or Empty Lifetime", func(t *testing.T) {
		for name, body := range map[string]string{
			"not found document": tu.NotFoundBody,
			"empty section":      tu.StatsBody(nil),
			"null section":       `{"lifetime":null}`,
			"missing figure":     tu.StatsBody(map[string]any{"Matches": 3}),
		} {
			t.Run(name, func(t *testing.T) {
				tr := tu.NewScriptedTransport().On(url, body)
				s, err := newClient(tr).LifetimeStats(ctx, "g1", "cs2")
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if s != nil {
					t.Errorf("expected no stats, got %+v", s)
				}
			})
		}
	})

	t.Run("Invalid Figure", func(t *testing.T) {
		lifetime := tu.Lifetime(10, 50, 1, 40)
		lifetime["Average K/D Ratio"] = "n/a"
		tr := tu.NewScriptedTransport().On(url, tu.StatsBody(lifetime))

		if _, err := newClient(tr).LifetimeStats(ctx, "g1", "cs2"); !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}
