package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL appends databaseName to baseURL and defaults sslmode to
// disable. baseURL is returned untouched when databaseName is empty.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, _ := strings.Cut(baseURL, "?")
	base = strings.TrimRight(base, "/")

	databaseURL := base + "/" + databaseName
	if query != "" {
		databaseURL += "?" + query
	}

	if !strings.Contains(databaseURL, "sslmode=") {
		if strings.Contains(databaseURL, "?") {
			databaseURL += "&sslmode=disable"
		} else {
			databaseURL += "?sslmode=disable"
		}
	}

	return databaseURL
}

// RedactURL hides the password of a connection URL for logging
func RedactURL(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
