package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"marketplace/internal/auth"
	"marketplace/internal/campaign"
	"marketplace/internal/domain"
	httpapi "marketplace/internal/http"
	"marketplace/internal/http/handlers"
	"marketplace/internal/infra"
)

func newTestServer(t *testing.T) (http.Handler, *memUserRepo) {
	t.Helper()
	users := newMemUserRepo()
	app := handlers.NewApp(
		zerolog.Nop(),
		users,
		newMemProductRepo(),
		newMemJobRepo(),
		campaign.NewService(newMemCampaignRepo(), zerolog.Nop(), 0),
		auth.NewTokenManager("test-secret", time.Hour),
	)
	cfg := &infra.Config{CORSAllowedOrigin: "*", RateLimitPerMin: 10000}
	return httpapi.NewRouter(app, cfg), users
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeCampaign(t *testing.T, rr *httptest.ResponseRecorder) domain.Campaign {
	t.Helper()
	var c domain.Campaign
	if err := json.NewDecoder(rr.Body).Decode(&c); err != nil {
		t.Fatalf("decode campaign: %v", err)
	}
	return c
}

func createCampaign(t *testing.T, h http.Handler, title string) domain.Campaign {
	t.Helper()
	rr := doJSON(t, h, "POST", "/investments", map[string]any{
		"title":      title,
		"goalAmount": 1000,
		"creator":    map[string]string{"id": "creator-1", "name": "Creator", "email": "c@example.com"},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create campaign: got %d, body %s", rr.Code, rr.Body.String())
	}
	return decodeCampaign(t, rr)
}

func TestCampaignCreateStartsEmpty(t *testing.T) {
	h, _ := newTestServer(t)
	c := createCampaign(t, h, "Solar Farm")

	if c.ID == "" {
		t.Fatal("campaign id not assigned")
	}
	if c.Backings == nil || len(c.Backings) != 0 {
		t.Fatalf("expected empty backings array, got %#v", c.Backings)
	}

	rr := doJSON(t, h, "GET", "/investments/"+c.ID+"/total", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("total: got %d", rr.Code)
	}
	var total map[string]float64
	if err := json.NewDecoder(rr.Body).Decode(&total); err != nil {
		t.Fatalf("decode total: %v", err)
	}
	if total["total"] != 0 {
		t.Fatalf("expected total 0, got %v", total["total"])
	}

	rr = doJSON(t, h, "GET", "/investments/"+c.ID+"/backings", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("backings: got %d", rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func TestCampaignCreateRejectsBadSpec(t *testing.T) {
	h, _ := newTestServer(t)
	rr := doJSON(t, h, "POST", "/investments", map[string]any{
		"title":      "No Goal",
		"goalAmount": -10,
		"creator":    map[string]string{"id": "creator-1", "name": "C"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAddBackingFlow(t *testing.T) {
	h, _ := newTestServer(t)
	c := createCampaign(t, h, "Wind Turbines")

	rr := doJSON(t, h, "POST", "/investments/"+c.ID+"/backings", map[string]any{
		"user":   map[string]string{"id": "u1", "name": "Ada", "image": "ada.png"},
		"amount": 100,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add backing: got %d, body %s", rr.Code, rr.Body.String())
	}
	updated := decodeCampaign(t, rr)
	if len(updated.Backings) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(updated.Backings))
	}
	entry := updated.Backings[0]
	if entry.ID != 1 || entry.UserID != "u1" || entry.UserName != "Ada" || entry.Amount != 100 {
		t.Fatalf("entry mismatch: %+v", entry)
	}

	rr = doJSON(t, h, "POST", "/investments/"+c.ID+"/backings", map[string]any{
		"user":   map[string]string{"id": "u2", "name": "Grace"},
		"amount": 250,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("second backing: got %d", rr.Code)
	}
	updated = decodeCampaign(t, rr)
	if len(updated.Backings) != 2 || updated.Backings[1].ID != 2 {
		t.Fatalf("second entry not id 2: %#v", updated.Backings)
	}

	rr = doJSON(t, h, "GET", "/investments/"+c.ID+"/total", nil)
	var total map[string]float64
	if err := json.NewDecoder(rr.Body).Decode(&total); err != nil {
		t.Fatalf("decode total: %v", err)
	}
	if total["total"] != 350 {
		t.Fatalf("expected total 350, got %v", total["total"])
	}
}

func TestAddBackingRejectsNegativeAmount(t *testing.T) {
	h, _ := newTestServer(t)
	c := createCampaign(t, h, "Orchard")

	rr := doJSON(t, h, "POST", "/investments/"+c.ID+"/backings", map[string]any{
		"user":   map[string]string{"id": "u1"},
		"amount": -5,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	rr = doJSON(t, h, "GET", "/investments/"+c.ID+"/backings", nil)
	if body := rr.Body.String(); body != "[]\n" {
		t.Fatalf("rejected pledge must leave ledger unchanged, got %q", body)
	}
}

func TestAddBackingUnknownCampaignIs404(t *testing.T) {
	h, _ := newTestServer(t)
	rr := doJSON(t, h, "POST", "/investments/nope/backings", map[string]any{
		"user":   map[string]string{"id": "u1"},
		"amount": 10,
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestReadsOnUnknownCampaignAre404(t *testing.T) {
	h, _ := newTestServer(t)
	for _, path := range []string{"/investments/nope", "/investments/nope/backings", "/investments/nope/total"} {
		rr := doJSON(t, h, "GET", path, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestUserBackingsAcrossCampaigns(t *testing.T) {
	h, _ := newTestServer(t)
	a := createCampaign(t, h, "Alpha")
	b := createCampaign(t, h, "Beta")

	for _, step := range []struct {
		campaignID string
		userID     string
		amount     float64
	}{
		{a.ID, "u1", 10},
		{a.ID, "u2", 20},
		{b.ID, "u1", 30},
	} {
		rr := doJSON(t, h, "POST", "/investments/"+step.campaignID+"/backings", map[string]any{
			"user":   map[string]string{"id": step.userID, "name": "N"},
			"amount": step.amount,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("seed backing: got %d", rr.Code)
		}
	}

	rr := doJSON(t, h, "GET", "/investments/users/u1/backings", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("user backings: got %d", rr.Code)
	}
	var records []domain.UserBacking
	if err := json.NewDecoder(rr.Body).Decode(&records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %#v", len(records), records)
	}
	seen := map[string]bool{}
	for _, rec := range records {
		if rec.UserID != "u1" {
			t.Fatalf("foreign record: %+v", rec)
		}
		if rec.CampaignID == "" || rec.CampaignTitle == "" {
			t.Fatalf("missing campaign annotation: %+v", rec)
		}
		seen[rec.CampaignID] = true
	}
	if !seen[a.ID] || !seen[b.ID] {
		t.Fatalf("records do not cover both campaigns: %#v", records)
	}
}

func TestUpdateIgnoresBackingsField(t *testing.T) {
	h, _ := newTestServer(t)
	c := createCampaign(t, h, "Patch Me")

	rr := doJSON(t, h, "POST", "/investments/"+c.ID+"/backings", map[string]any{
		"user":   map[string]string{"id": "u1"},
		"amount": 50,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed backing: got %d", rr.Code)
	}

	// A direct write to the ledger must be silently discarded.
	rr = doJSON(t, h, "PATCH", "/investments/"+c.ID, map[string]any{
		"title":    "Renamed",
		"backings": []map[string]any{{"id": 99, "amount": 1_000_000}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: got %d, body %s", rr.Code, rr.Body.String())
	}
	updated := decodeCampaign(t, rr)
	if updated.Title != "Renamed" {
		t.Fatalf("title not patched: %+v", updated)
	}
	if len(updated.Backings) != 1 || updated.Backings[0].Amount != 50 {
		t.Fatalf("ledger altered through update: %#v", updated.Backings)
	}
}

func TestDeleteCascadesToLedger(t *testing.T) {
	h, _ := newTestServer(t)
	c := createCampaign(t, h, "Ephemeral")

	rr := doJSON(t, h, "DELETE", "/investments/"+c.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d", rr.Code)
	}
	rr = doJSON(t, h, "GET", "/investments/"+c.ID+"/backings", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestCampaignsListByCreator(t *testing.T) {
	h, _ := newTestServer(t)
	createCampaign(t, h, "Mine")

	rr := doJSON(t, h, "POST", "/investments", map[string]any{
		"title":      "Theirs",
		"goalAmount": 500,
		"creator":    map[string]string{"id": "creator-2", "name": "Other"},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rr.Code)
	}

	rr = doJSON(t, h, "GET", "/investments/creator/creator-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list by creator: got %d", rr.Code)
	}
	var items []domain.Campaign
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Mine" {
		t.Fatalf("creator filter wrong: %#v", items)
	}
}

func TestBackingEntryTimestampsAreUTC(t *testing.T) {
	h, _ := newTestServer(t)
	c := createCampaign(t, h, "Times")

	rr := doJSON(t, h, "POST", fmt.Sprintf("/investments/%s/backings", c.ID), map[string]any{
		"user":   map[string]string{"id": "u1"},
		"amount": 10,
	})
	updated := decodeCampaign(t, rr)
	ts := updated.Backings[0].CreatedAt
	if ts.IsZero() {
		t.Fatal("createdAt not assigned")
	}
	if _, offset := ts.Zone(); offset != 0 {
		t.Fatalf("timestamp not UTC: %v", ts)
	}
}
