// FACEIT search and Data API client
//
// The search endpoint is public. Player and stats endpoints of the Data API v4 require a bearer token.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/shared"
	"golang.org/x/oauth2"
)

const (
	DefaultSearchBaseURL   = "https://api.faceit.com/search/v1/"
	DefaultPlayerBaseURL   = "https://open.faceit.com/data/v4/players"
	DefaultSearchResultCap = 5
)

// Lifetime section keys of the stats endpoint.
const (
	keyMatches  = "Matches"
	keyWinRate  = "Win Rate %"
	keyKDRatio  = "Average K/D Ratio"
	keyHeadshot = "Average Headshots %"
)

// number decodes either a JSON number or a numeric string; the Data API uses both.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		return fmt.Errorf("null is not a number")
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", string(b))
	}
	*n = number(f)
	return nil
}

func (n number) int() (int, bool) {
	f := float64(n)
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// SearchResponse is the search endpoint document.
type SearchResponse struct {
	Payload *struct {
		Players *struct {
			Results *[]SearchResult `json:"results"`
		} `json:"players"`
	} `json:"payload"`
}

// SearchResult is one player hit.
type SearchResult struct {
	GUID   string `json:"guid"`
	Status string `json:"status"`
}

// PlayerResponse is the player endpoint document.
type PlayerResponse struct {
	PlayerID string               `json:"player_id"`
	Nickname string               `json:"nickname"`
	Games    map[string]PlayerGame `json:"games"`
}

// PlayerGame is a per-variant entry of [PlayerResponse].
type PlayerGame struct {
	SkillLevel *number `json:"skill_level"`
	FaceitElo  *number `json:"faceit_elo"`
}

// StatsResponse is the lifetime stats endpoint document.
//
// Lifetime is kept raw: presence and emptiness of the section decide whether the variant is usable.
type StatsResponse struct {
	PlayerID string                     `json:"player_id"`
	GameID   string                     `json:"game_id"`
	Lifetime map[string]json.RawMessage `json:"lifetime"`
}

// FaceitOpts configures a [FaceitClient].
type FaceitOpts struct {
	SearchBaseURL   string
	PlayerBaseURL   string
	BearerToken     string
	SearchResultCap int
	Transport       Transport
	// TokenSource replaces BearerToken when set.
	TokenSource oauth2.TokenSource
}

// FaceitClient implements [Searcher] and [StatsProvider] against the FACEIT APIs.
type FaceitClient struct {
	searchBaseURL string
	playerBaseURL string
	credential    oauth2.TokenSource
	searchCap     int
	transport     Transport
}

// NewFaceitClient creates a client, filling unset options with defaults.
func NewFaceitClient(opts FaceitOpts) *FaceitClient {
	if opts.SearchBaseURL == "" {
		opts.SearchBaseURL = DefaultSearchBaseURL
	}
	if opts.PlayerBaseURL == "" {
		opts.PlayerBaseURL = DefaultPlayerBaseURL
	}
	if opts.SearchResultCap <= 0 {
		opts.SearchResultCap = DefaultSearchResultCap
	}
	if opts.Transport == nil {
		opts.Transport = NewHTTPTransport(nil, "")
	}
	if opts.TokenSource == nil {
		opts.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.BearerToken, TokenType: "Bearer"})
	}

	return &FaceitClient{
		searchBaseURL: opts.SearchBaseURL,
		playerBaseURL: strings.TrimRight(opts.PlayerBaseURL, "/"),
		credential:    opts.TokenSource,
		searchCap:     opts.SearchResultCap,
		transport:     opts.Transport,
	}
}

// NewFaceitClientFromConfig creates a client from the [shared.FaceitConfig] section.
func NewFaceitClientFromConfig(cfg shared.FaceitConfig, t Transport) *FaceitClient {
	return NewFaceitClient(FaceitOpts{
		SearchBaseURL:   cfg.SearchBaseURL,
		PlayerBaseURL:   cfg.PlayerBaseURL,
		BearerToken:     cfg.BearerToken,
		SearchResultCap: cfg.SearchResultCap,
		Transport:       t,
	})
}

// get fetches rawURL and decodes the JSON body into result. A nil auth sends the request unauthenticated.
func (c *FaceitClient) get(ctx context.Context, rawURL string, auth oauth2.TokenSource, result any) error {
	body, err := c.transport.Do(ctx, Request{Method: http.MethodGet, URL: rawURL, Auth: auth})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrMalformedResponse, rawURL, err)
	}
	return nil
}

// SearchURL returns the search URL for externalID: <base>?limit=<cap>&query=<id>.
func (c *FaceitClient) SearchURL(externalID string) (string, error) {
	u, err := url.Parse(c.searchBaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: search base URL: %v", shared.ErrInvalidConfig, err)
	}

	q := u.Query()
	q.Set("limit", strconv.Itoa(c.searchCap))
	q.Set("query", externalID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Search implements [Searcher]. Candidates past the cap are dropped.
func (c *FaceitClient) Search(ctx context.Context, externalID string) ([]models.Candidate, error) {
	searchURL, err := c.SearchURL(externalID)
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := c.get(ctx, searchURL, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Payload == nil || resp.Payload.Players == nil || resp.Payload.Players.Results == nil {
		return nil, fmt.Errorf("%w: %s: missing payload.players.results", shared.ErrMalformedResponse, searchURL)
	}

	results := *resp.Payload.Players.Results
	if len(results) > c.searchCap {
		results = results[:c.searchCap]
	}

	candidates := make([]models.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, models.Candidate{
			Handle: r.GUID,
			Status: models.ParseAvailabilityStatus(r.Status),
		})
	}
	return candidates, nil
}

// PlayerURL returns the player endpoint URL for handle.
func (c *FaceitClient) PlayerURL(handle string) string {
	return c.playerBaseURL + "/" + url.PathEscape(handle)
}

// StatsURL returns the lifetime stats endpoint URL for handle and variant.
func (c *FaceitClient) StatsURL(handle string, variant models.Variant) string {
	return c.PlayerURL(handle) + "/stats/" + url.PathEscape(string(variant))
}

// Profile implements [StatsProvider].
//
// Game entries without both skill level and elo are left out of the snapshot.
func (c *FaceitClient) Profile(ctx context.Context, handle string) (*models.ProfileSnapshot, error) {
	var resp PlayerResponse
	if err := c.get(ctx, c.PlayerURL(handle), c.credential, &resp); err != nil {
		return nil, err
	}

	snapshot := &models.ProfileSnapshot{
		Handle: handle,
		Games:  make(map[models.Variant]models.VariantProfile, len(resp.Games)),
	}
	for name, g := range resp.Games {
		if g.SkillLevel == nil || g.FaceitElo == nil {
			continue
		}
		level, ok := g.SkillLevel.int()
		if !ok {
			return nil, fmt.Errorf("%w: %s skill_level is not an integer", shared.ErrMalformedResponse, name)
		}
		elo, ok := g.FaceitElo.int()
		if !ok {
			return nil, fmt.Errorf("%w: %s faceit_elo is not an integer", shared.ErrMalformedResponse, name)
		}
		snapshot.Games[models.Variant(name)] = models.VariantProfile{SkillLevel: level, Elo: elo}
	}

	return snapshot, nil
}

// LifetimeStats implements [StatsProvider].
//
// An absent or empty lifetime section, or one lacking any of the four figures, yields (nil, nil).
func (c *FaceitClient) LifetimeStats(ctx context.Context, handle string, variant models.Variant) (*models.GameVariantStats, error) {
	statsURL := c.StatsURL(handle, variant)

	var resp StatsResponse
	if err := c.get(ctx, statsURL, c.credential, &resp); err != nil {
		return nil, err
	}

	if len(resp.Lifetime) == 0 {
		return nil, nil
	}

	var matches, winRate, kd, hs number
	for _, f := range []struct {
		key string
		dst *number
	}{
		{keyMatches, &matches},
		{keyWinRate, &winRate},
		{keyKDRatio, &kd},
		{keyHeadshot, &hs},
	} {
		raw, ok := resp.Lifetime[f.key]
		if !ok {
			return nil, nil
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("%w: %s: lifetime %q: %v", shared.ErrMalformedResponse, statsURL, f.key, err)
		}
	}

	count, ok := matches.int()
	if !ok {
		return nil, fmt.Errorf("%w: %s: lifetime %q is not an integer", shared.ErrMalformedResponse, statsURL, keyMatches)
	}

	return &models.GameVariantStats{
		Matches:           count,
		WinRatePct:        float64(winRate),
		AvgKillDeathRatio: float64(kd),
		AvgHeadshotPct:    float64(hs),
	}, nil
}
