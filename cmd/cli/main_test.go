package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command against srv and returns stdout.
func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected ab, got %q", got)
	}
}

func TestWaterfallCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/funds/fund-1/waterfall" || r.URL.Query().Get("amount") != "1200000" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"tiers": [
				{"tier": 1, "label": "return_of_capital", "lp_share": "1000000", "gp_share": "0"},
				{"tier": 2, "label": "preferred_return", "lp_share": "160000", "gp_share": "0"},
				{"tier": 3, "label": "gp_catchup", "lp_share": "0", "gp_share": "40000"}
			],
			"total_to_lp": "1160000",
			"total_to_gp": "40000"
		}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "waterfall", "fund-1", "--amount", "1200000")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	for _, want := range []string{"preferred_return", "160000.00", "1160000.00", "40000.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWaterfallCommandRejectsBadAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	if _, err := runCLI(t, srv, "waterfall", "fund-1", "--amount", "lots"); err == nil {
		t.Fatal("expected invalid amount error")
	}
}

func TestAPIErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"fund not found","message":"fund not found"}`))
	}))
	defer srv.Close()

	_, err := runCLI(t, srv, "metrics", "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestMetricsCommandFreshFlag(t *testing.T) {
	var fresh string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fresh = r.URL.Query().Get("fresh")
		_, _ = w.Write([]byte(`{"fund_id":"fund-1","tvpi":1.6}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "metrics", "fund-1", "--fresh")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if fresh != "true" {
		t.Errorf("expected fresh=true, got %q", fresh)
	}
	if !strings.Contains(out, "\"tvpi\": 1.6") {
		t.Errorf("expected indented json, got:\n%s", out)
	}
}

func TestFundListCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("expected limit 5, got %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"fund-1","name":"Growth Fund I","currency":"USD","target_size":"10000000","status":"fundraising"}],"count":1}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "fund", "list", "--limit", "5")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "Growth Fund I") || !strings.Contains(out, "10000000.00") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCallsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"01HZXCALL000000000000000","call_number":1,"total_call_amount":"250000","amount_outstanding":"50000","status":"partially_funded"}],"count":1}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "calls", "fund-1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "01HZXCALL...") || !strings.Contains(out, "partially_funded") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestReportCommandWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/funds/fund-1/reports/lp.xlsx" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("PK-fake-xlsx"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.xlsx")
	out, err := runCLI(t, srv, "report", "fund-1", "-o", path)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if string(data) != "PK-fake-xlsx" {
		t.Errorf("unexpected report contents %q", data)
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Errorf("unexpected output %q", out)
	}
}
