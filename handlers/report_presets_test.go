package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/funinthesundocs/epictours-sub001/services"
	"github.com/funinthesundocs/epictours-sub001/testhelpers"
)

func createPreset(t *testing.T, r *Report, owner, name string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := reportRequest(http.MethodPost, "/reports/master/presets", form("name="+name), ReportContext{Owner: owner})
	if err := HandlePresetCreate(r)(newTestRequestEvent(r.App, req, rec)); err != nil {
		t.Fatalf("create handler error: %v", err)
	}
	return rec
}

func TestHandlePresetCreate(t *testing.T) {
	r := newTestReport(t)
	r.View("user1").Apply(func(v services.ViewConfiguration) services.ViewConfiguration {
		return v.SetSearch("van")
	})

	rec := createPreset(t, r, "user1", "Vans")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	var got PresetSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.ID == "" || got.Name != "Vans" || got.Age == "" {
		t.Errorf("summary = %+v", got)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), `Preset \"Vans\" saved`) {
		t.Errorf("HX-Trigger = %s", rec.Header().Get("HX-Trigger"))
	}

	p, err := r.Presets.Get("user1", got.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Settings.SearchQuery != "van" {
		t.Errorf("preset did not capture the current view: %+v", p.Settings)
	}
}

func TestHandlePresetCreate_Validation(t *testing.T) {
	r := newTestReport(t)
	createPreset(t, r, "user1", "Vans")

	tests := []struct {
		name string
		in   string
		code int
	}{
		{"blank", "+++", http.StatusUnprocessableEntity},
		{"duplicate", "vans", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := createPreset(t, r, "user1", tt.in)
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap: none")
			}
		})
	}
}

func TestHandlePresetList(t *testing.T) {
	r := newTestReport(t)
	createPreset(t, r, "user1", "Zeta")
	createPreset(t, r, "user1", "Alpha")
	createPreset(t, r, "user2", "Hidden")

	rec := httptest.NewRecorder()
	req := reportRequest(http.MethodGet, "/reports/master/presets", nil, ReportContext{Owner: "user1"})
	if err := HandlePresetList(r)(newTestRequestEvent(r.App, req, rec)); err != nil {
		t.Fatal(err)
	}
	var got []PresetSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Alpha" || got[1].Name != "Zeta" {
		t.Errorf("presets = %+v", got)
	}
}

func TestHandlePresetLoad(t *testing.T) {
	r := newTestReport(t)
	r.View(GuestOwner).Apply(func(v services.ViewConfiguration) services.ViewConfiguration {
		return v.SetSearch("bob")
	})
	var created PresetSummary
	json.Unmarshal(createPreset(t, r, GuestOwner, "Bob only").Body.Bytes(), &created)

	r.View(GuestOwner).Apply(func(v services.ViewConfiguration) services.ViewConfiguration {
		return v.SetSearch("")
	})

	rec := httptest.NewRecorder()
	req := reportRequest(http.MethodPost, "/reports/master/presets/"+created.ID+"/load", nil, ReportContext{})
	req.SetPathValue("id", created.ID)
	if err := HandlePresetLoad(r)(newTestRequestEvent(r.App, req, rec)); err != nil {
		t.Fatal(err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Bob Lee", "Showing 1 of 2 bookings")
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), "Alice Johnson")
	if r.View(GuestOwner).Config().SearchQuery != "bob" {
		t.Error("loading a preset should replace the current view")
	}
}

func TestHandlePresetUpdate_KeepsName(t *testing.T) {
	r := newTestReport(t)
	var created PresetSummary
	json.Unmarshal(createPreset(t, r, GuestOwner, "Morning").Body.Bytes(), &created)

	r.View(GuestOwner).Apply(func(v services.ViewConfiguration) services.ViewConfiguration {
		return v.SetSearch("sunrise")
	})

	rec := httptest.NewRecorder()
	req := reportRequest(http.MethodPost, "/reports/master/presets/"+created.ID, form(""), ReportContext{})
	req.SetPathValue("id", created.ID)
	if err := HandlePresetUpdate(r)(newTestRequestEvent(r.App, req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	p, _ := r.Presets.Get(GuestOwner, created.ID)
	if p.Name != "Morning" || p.Settings.SearchQuery != "sunrise" {
		t.Errorf("preset = %+v", p)
	}
}

func TestHandlePresetDelete(t *testing.T) {
	r := newTestReport(t)
	var created PresetSummary
	json.Unmarshal(createPreset(t, r, "user1", "Temp").Body.Bytes(), &created)

	del := func(owner string) int {
		rec := httptest.NewRecorder()
		req := reportRequest(http.MethodDelete, "/reports/master/presets/"+created.ID, nil, ReportContext{Owner: owner})
		req.SetPathValue("id", created.ID)
		if err := HandlePresetDelete(r)(newTestRequestEvent(r.App, req, rec)); err != nil {
			t.Fatal(err)
		}
		return rec.Code
	}

	if code := del("user2"); code != http.StatusNotFound {
		t.Errorf("delete by another owner = %d, want 404", code)
	}
	if code := del("user1"); code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", code)
	}
	if code := del("user1"); code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", code)
	}
}
