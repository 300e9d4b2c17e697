package updater

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"v1.2.3", "1.2.3"},
		{"1.2.3", "1.2.3"},
		{"", ""},
		{"v", ""},
		{"vv1.0.0", "v1.0.0"}, // only one leading v
	}
	for _, tt := range tests {
		if got := normalizeVersion(tt.input); got != tt.want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer patch", "0.2.0", "0.2.1", true},
		{"newer minor", "0.2.0", "0.3.0", true},
		{"newer major", "0.2.0", "1.0.0", true},
		{"same version", "0.2.0", "0.2.0", false},
		{"older version", "0.3.0", "0.2.0", false},
		{"empty current", "", "0.2.0", false},
		{"empty latest", "0.2.0", "", false},
		{"dev current", "dev", "0.2.0", false},
		{"two part latest", "0.2.0", "0.3", true},
		{"minor jump", "0.9.0", "0.10.0", true},
		{"prerelease is older", "1.0.0", "1.0.0-rc.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNewer(tt.current, tt.latest); got != tt.want {
				t.Errorf("isNewer(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
			}
		})
	}
}

func testChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Checker{endpoint: srv.URL, client: srv.Client()}
}

func TestCheck_UpdateAvailable(t *testing.T) {
	c := testChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "minglog/v0.1.0" {
			t.Errorf("User-Agent = %q", got)
		}
		_ = json.NewEncoder(w).Encode(Release{TagName: "v0.2.0", HTMLURL: "https://example.com/r/0.2.0"})
	})

	got, err := c.Check(context.Background(), "v0.1.0")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := &Result{
		CurrentVersion:  "0.1.0",
		LatestVersion:   "0.2.0",
		UpdateAvailable: true,
		ReleaseURL:      "https://example.com/r/0.2.0",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestCheck_UpToDate(t *testing.T) {
	c := testChecker(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Release{TagName: "v0.2.0"})
	})
	got, err := c.Check(context.Background(), "0.2.0")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got.UpdateAvailable {
		t.Error("same version should not report an update")
	}
}

func TestCheck_HTTPError(t *testing.T) {
	c := testChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	if _, err := c.Check(context.Background(), "0.1.0"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestCheck_BadJSON(t *testing.T) {
	c := testChecker(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})
	if _, err := c.Check(context.Background(), "0.1.0"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestCheck_CanceledContext(t *testing.T) {
	c := testChecker(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Release{TagName: "v9.9.9"})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Check(ctx, "0.1.0"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
