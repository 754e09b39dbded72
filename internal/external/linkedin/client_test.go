package linkedin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/httputil"
	"github.com/wonny/marketsnap/pkg/logger"
)

const aboutPageFixture = `
<html><body>
<h1>Apple Inc.</h1>
<section class="about"><p>We design consumer electronics and services.</p></section>
<dl>
  <dt>Industry</dt><dd>Consumer Electronics</dd>
  <dt>Website</dt><dd>https://www.apple.com</dd>
  <dt>Company size</dt><dd>10,001+</dd>
  <dt>Specialties</dt><dd>Hardware, Software, Services</dd>
</dl>
</body></html>`

const freeTextPageFixture = `
<html><body>
<h1>Globex Corp</h1>
<p class="about-description">A diversified holding company.</p>
<div>Globex Corp has 3,500 employees worldwide.</div>
</body></html>`

func TestParseProfileHTML(t *testing.T) {
	profile, err := parseProfileHTML(aboutPageFixture, "AAPL")
	if err != nil {
		t.Fatalf("parseProfileHTML() error = %v", err)
	}

	if profile.Name != "Apple Inc." {
		t.Errorf("Name = %q, want %q", profile.Name, "Apple Inc.")
	}

	if profile.Industry != "Consumer Electronics" {
		t.Errorf("Industry = %q, want %q", profile.Industry, "Consumer Electronics")
	}

	if profile.Website != "https://www.apple.com" {
		t.Errorf("Website = %q, want %q", profile.Website, "https://www.apple.com")
	}

	if profile.EmployeeCount == nil || *profile.EmployeeCount != 10001 {
		t.Errorf("EmployeeCount = %v, want 10001", profile.EmployeeCount)
	}

	wantSpecialties := []string{"Hardware", "Software", "Services"}
	if len(profile.Specialties) != len(wantSpecialties) {
		t.Fatalf("Specialties = %v, want %v", profile.Specialties, wantSpecialties)
	}
	for i, s := range wantSpecialties {
		if profile.Specialties[i] != s {
			t.Errorf("Specialties[%d] = %q, want %q", i, profile.Specialties[i], s)
		}
	}
}

func TestParseProfileHTML_FreeTextHeadcount(t *testing.T) {
	profile, err := parseProfileHTML(freeTextPageFixture, "GBX")
	if err != nil {
		t.Fatalf("parseProfileHTML() error = %v", err)
	}

	if profile.EmployeeCount == nil || *profile.EmployeeCount != 3500 {
		t.Errorf("EmployeeCount = %v, want 3500", profile.EmployeeCount)
	}

	if profile.Description != "A diversified holding company." {
		t.Errorf("Description = %q", profile.Description)
	}
}

func TestParseProfileHTML_EmptyPage(t *testing.T) {
	_, err := parseProfileHTML("<html><body><div>nothing here</div></body></html>", "AAPL")
	if !errors.Is(err, contracts.ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty page, got %v", err)
	}
}

func TestParseEmployeeCount(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOk bool
	}{
		{"10,001+", 10001, true},
		{"51-200", 51, true},
		{"3500", 3500, true},
		{"unknown", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseEmployeeCount(tt.input)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("parseEmployeeCount(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestFetchProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/aapl/about" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(aboutPageFixture))
	}))
	defer server.Close()

	cfg := &config.Config{
		Env:      "test",
		LogLevel: "error",
		LinkedIn: config.LinkedInConfig{BaseURL: server.URL},
	}
	log := logger.New(cfg)
	client := NewClient(cfg, httputil.New(cfg, log).DisableRetry(), log)

	profile, err := client.FetchProfile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchProfile() error = %v", err)
	}

	if profile.Name != "Apple Inc." {
		t.Errorf("Name = %q, want %q", profile.Name, "Apple Inc.")
	}
}

func TestFetchProfile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	cfg := &config.Config{
		Env:      "test",
		LogLevel: "error",
		LinkedIn: config.LinkedInConfig{BaseURL: server.URL},
	}
	log := logger.New(cfg)
	client := NewClient(cfg, httputil.New(cfg, log).DisableRetry(), log)

	_, err := client.FetchProfile(context.Background(), "NOPE")
	if !errors.Is(err, contracts.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
