package shared

import (
	"strings"

	"golang.org/x/text/language"
)

// MessageKey names a user-facing message in a [Catalog].
type MessageKey string

const (
	MsgPlayerNotFound  MessageKey = "playerNotFound"
	MsgSteamIDError    MessageKey = "steamIdError"
	MsgRequestAPIError MessageKey = "requestApiError"
	MsgErrorPrefix     MessageKey = "errorPrefix"

	MsgStatsTitle MessageKey = "statsTitle"
	MsgLevel      MessageKey = "level"
	MsgElo        MessageKey = "elo"
	MsgWinRate    MessageKey = "winRate"
	MsgMatches    MessageKey = "matches"
	MsgKD         MessageKey = "kd"
	MsgHS         MessageKey = "hs"
)

// Localizer resolves message keys to display strings.
type Localizer interface {
	Localize(key MessageKey) string
}

var supportedLocales = []language.Tag{language.English, language.Russian}

var localeMatcher = language.NewMatcher(supportedLocales)

var messages = map[language.Tag]map[MessageKey]string{
	language.English: {
		MsgPlayerNotFound:  "Player not found on Faceit",
		MsgSteamIDError:    "Error getting Steam ID from the page.",
		MsgRequestAPIError: "Error executing Faceit API request",
		MsgErrorPrefix:     "Error",
		MsgStatsTitle:      "FACEIT Statistics",
		MsgLevel:           "Level",
		MsgElo:             "ELO",
		MsgWinRate:         "Win Rate",
		MsgMatches:         "Matches",
		MsgKD:              "K/D",
		MsgHS:              "HS",
	},
	language.Russian: {
		MsgPlayerNotFound:  "Игрок не найден на Faceit",
		MsgSteamIDError:    "Ошибка получения Steam ID со страницы.",
		MsgRequestAPIError: "Ошибка выполнения запроса к API",
		MsgErrorPrefix:     "Ошибка",
		MsgStatsTitle:      "Статистика FACEIT",
		MsgLevel:           "Уровень",
		MsgElo:             "ELO",
		MsgWinRate:         "Винрейт",
		MsgMatches:         "Матчи",
	},
}

// Catalog is a [Localizer] backed by the built-in en/ru message tables.
type Catalog struct {
	tag   language.Tag
	table map[MessageKey]string
}

// NewCatalog picks the best supported locale for the given preferences.
//
// Preferences may be BCP 47 tags ("ru-RU"), Accept-Language headers ("ru;q=0.9, en")
// or POSIX locale names ("ru_RU.UTF-8"). Earlier preferences win; anything unsupported falls back to English.
func NewCatalog(prefs ...string) *Catalog {
	var tags []language.Tag
	for _, p := range prefs {
		parsed, _, err := language.ParseAcceptLanguage(normalizeLocale(p))
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}

	tag := language.English
	if _, idx, conf := localeMatcher.Match(tags...); conf != language.No {
		tag = supportedLocales[idx]
	}

	return &Catalog{tag: tag, table: messages[tag]}
}

// Tag returns the selected locale as a BCP 47 string.
func (c *Catalog) Tag() string {
	return c.tag.String()
}

// Localize returns the message for key, falling back to English and then to the key itself.
func (c *Catalog) Localize(key MessageKey) string {
	if msg, ok := c.table[key]; ok {
		return msg
	}
	if msg, ok := messages[language.English][key]; ok {
		return msg
	}
	return string(key)
}

// normalizeLocale turns POSIX names like "ru_RU.UTF-8" into "ru-RU".
func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}
