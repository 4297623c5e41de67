// Utilities for finding the external player identifier on a Steam profile page.
package shared

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// steamIDField is the hidden report-abuse input that carries the 64-bit Steam ID on profile pages.
const steamIDField = "abuseID"

// ExtractSteamIDFile reads a saved profile page and extracts the Steam ID.
func ExtractSteamIDFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read profile page: %w", err)
	}
	defer f.Close()

	return ExtractSteamID(f)
}

// ExtractSteamID scans profile page HTML for the abuseID input and returns its value.
func ExtractSteamID(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("failed to parse profile page: %w", err)
			}
			return "", fmt.Errorf("%w: no %s field on page", ErrInvalidInput, steamIDField)
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "input" {
				continue
			}

			var name, value string
			for _, attr := range tok.Attr {
				switch attr.Key {
				case "name":
					name = attr.Val
				case "value":
					value = strings.TrimSpace(attr.Val)
				}
			}

			if name != steamIDField {
				continue
			}
			if value == "" {
				return "", fmt.Errorf("%w: %s field is empty", ErrInvalidInput, steamIDField)
			}
			return value, nil
		}
	}
}

// SteamIDFromURL extracts the numeric ID from a steamcommunity.com/profiles/<id> URL.
//
// Vanity URLs (/id/<name>) carry no numeric ID and are rejected.
func SteamIDFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "profiles" || !isDigits(parts[1]) {
		return "", fmt.Errorf("%w: %q is not a profile URL", ErrInvalidInput, raw)
	}

	return parts[1], nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
