package testing

import (
	"encoding/json"
	"fmt"
)

// NotFoundBody is the Data API error document returned for a variant the player never played.
const NotFoundBody = `{"errors":[{"message":"The resource was not found.","code":"err_nf0","http_status":404}]}`

// Hit is a search result entry.
type Hit struct {
	GUID   string
	Status string
}

// SearchBody renders a search endpoint document with the given hits.
func SearchBody(hits ...Hit) string {
	results := make([]map[string]any, 0, len(hits))
	for _, h := range hits {
		results = append(results, map[string]any{"guid": h.GUID, "status": h.Status, "nickname": "p-" + h.GUID})
	}
	return mustJSON(map[string]any{"payload": map[string]any{"players": map[string]any{"results": results}}})
}

// Game is a player endpoint game entry.
type Game struct {
	SkillLevel int
	Elo        int
}

// PlayerBody renders a player endpoint document with the given game entries.
func PlayerBody(handle string, games map[string]Game) string {
	g := make(map[string]any, len(games))
	for name, game := range games {
		g[name] = map[string]any{"skill_level": game.SkillLevel, "faceit_elo": game.Elo, "region": "EU"}
	}
	return mustJSON(map[string]any{"player_id": handle, "nickname": "p-" + handle, "games": g})
}

// StatsBody renders a lifetime stats document. A nil lifetime renders an empty section.
func StatsBody(lifetime map[string]any) string {
	if lifetime == nil {
		lifetime = map[string]any{}
	}
	return mustJSON(map[string]any{"player_id": "x", "game_id": "cs2", "lifetime": lifetime})
}

// Lifetime builds the four lifetime figures as JSON numbers.
func Lifetime(matches int, winRate, kd, hs float64) map[string]any {
	return map[string]any{
		"Matches":             matches,
		"Win Rate %":          winRate,
		"Average K/D Ratio":   kd,
		"Average Headshots %": hs,
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fixture: %v", err))
	}
	return string(b)
}
