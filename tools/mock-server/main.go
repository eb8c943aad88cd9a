// Package main implements a mock Alt GraphQL server for local development.
// It serves auction listings from a JSON fixture and can be switched into the
// failure modes the proxy has to diagnose: WAF splash pages, GraphQL errors,
// login redirects, malformed envelopes and dropped connections.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/donaldgifford/auction-proxy/internal/alt"
)

// Failure modes selectable with -mode or per request with ?mode=.
const (
	modeOK        = "ok"
	modeHTML      = "html"
	modeErrors    = "errors"
	modeRedirect  = "redirect"
	modeMalformed = "malformed"
	modeDrop      = "drop"
)

var validModes = map[string]bool{
	modeOK:        true,
	modeHTML:      true,
	modeErrors:    true,
	modeRedirect:  true,
	modeMalformed: true,
	modeDrop:      true,
}

const splashPage = `<!DOCTYPE html>
<html lang="en-US">
<head><title>Attention Required! | Cloudflare</title></head>
<body><h1>Sorry, you have been blocked</h1><p>You are unable to access alt.xyz</p></body>
</html>`

// fixtureItem is a listing whose end time is stored relative to server start
// so the fixture never goes stale.
type fixtureItem struct {
	alt.RawListing
	EndsIn string `json:"endsIn"`
}

type fixtureFile struct {
	Items []fixtureItem `json:"items"`
}

type graphQLRequest struct {
	Query     string `json:"query"`
	Variables struct {
		Input struct {
			Query       string `json:"query"`
			Status      string `json:"status"`
			ListingType string `json:"listingType"`
			Limit       int    `json:"limit"`
			Offset      int    `json:"offset"`
		} `json:"input"`
	} `json:"variables"`
}

type searchCards struct {
	Total int              `json:"total"`
	Items []alt.RawListing `json:"items"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixturePath := flag.String("fixture", "tools/mock-server/testdata/search_response.json", "path to search response fixture")
	mode := flag.String("mode", modeOK, "default response mode: ok, html, errors, redirect, malformed, drop")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if !validModes[*mode] {
		logger.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}

	items, err := loadFixture(*fixturePath, time.Now())
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixturePath, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "items", len(items))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", graphQLHandler(logger, items, *mode))
	mux.HandleFunc("GET /login", loginHandler)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Alt server", "addr", addr, "mode", *mode)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// loadFixture reads the fixture and resolves relative end times against now.
func loadFixture(path string, now time.Time) ([]alt.RawListing, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	items := make([]alt.RawListing, 0, len(f.Items))
	for _, it := range f.Items {
		item := it.RawListing
		if it.EndsIn != "" {
			d, err := time.ParseDuration(it.EndsIn)
			if err != nil {
				return nil, fmt.Errorf("item %s: parsing endsIn: %w", item.ID, err)
			}
			end := now.Add(d).UTC().Format(time.RFC3339)
			item.EndAt = &end
		}
		items = append(items, item)
	}
	return items, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"origin", r.Header.Get("Origin"),
			"user_agent", r.Header.Get("User-Agent"),
		)
		next.ServeHTTP(w, r)
	})
}

func loginHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	w.Write([]byte(`<html><head><title>Log in | Alt</title></head><body>Log in to continue</body></html>`))
}

func graphQLHandler(logger *slog.Logger, items []alt.RawListing, defaultMode string) http.HandlerFunc {
	// Pre-lower titles for filtering.
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = strings.ToLower(it.Title)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		mode := defaultMode
		if m := r.URL.Query().Get("mode"); validModes[m] {
			mode = m
		}

		switch mode {
		case modeHTML:
			w.Header().Set("Content-Type", "text/html; charset=UTF-8")
			w.WriteHeader(http.StatusForbidden)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			w.Write([]byte(splashPage))
			logger.Info("served WAF splash")
			return
		case modeRedirect:
			w.Header().Set("Location", "/login")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusFound)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			w.Write([]byte(`<a href="/login">Found</a>`))
			logger.Info("redirected to login")
			return
		case modeDrop:
			dropConnection(w)
			logger.Info("dropped connection")
			return
		}

		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": []map[string]string{{"message": "request body must be a GraphQL document"}},
			})
			return
		}

		switch mode {
		case modeErrors:
			writeJSON(w, http.StatusOK, map[string]any{
				"data": nil,
				"errors": []map[string]any{{
					"message":    "Cannot query field \"searchCards\" on type \"Query\".",
					"extensions": map[string]string{"code": "GRAPHQL_VALIDATION_FAILED"},
				}},
			})
			logger.Info("served GraphQL errors")
			return
		case modeMalformed:
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{}})
			logger.Info("served malformed envelope")
			return
		}

		in := req.Variables.Input
		matched := filter(items, titles, in.Query)
		total := len(matched)
		page := paginate(matched, in.Limit, in.Offset)

		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"searchCards": searchCards{Total: total, Items: page},
			},
		})
		logger.Info("search",
			"query", in.Query,
			"matched", total,
			"returned", len(page),
			"offset", in.Offset,
			"limit", in.Limit,
		)
	}
}

// filter keeps items whose title contains every word of q, case-insensitively.
func filter(items []alt.RawListing, titles []string, q string) []alt.RawListing {
	words := strings.Fields(strings.ToLower(q))
	out := []alt.RawListing{}
	for i, it := range items {
		if containsAll(titles[i], words) {
			out = append(out, it)
		}
	}
	return out
}

func containsAll(title string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(title, w) {
			return false
		}
	}
	return true
}

func paginate(items []alt.RawListing, limit, offset int) []alt.RawListing {
	if offset >= len(items) || limit <= 0 {
		return []alt.RawListing{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// dropConnection closes the socket without a response so the client sees a
// transport failure and moves to its next endpoint.
func dropConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		return
	}
	//nolint:errcheck,gosec // closing a hijacked connection is best-effort
	conn.Close()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}
