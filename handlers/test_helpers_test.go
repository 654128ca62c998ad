package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"github.com/funinthesundocs/epictours-sub001/config"
	"github.com/funinthesundocs/epictours-sub001/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app core.App, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

func testConfig() *config.Config {
	return &config.Config{
		Title:               "Master Report",
		DefaultOrganization: "demo",
		Timezone:            "UTC",
		RowHeight:           36,
		ViewportHeight:      720,
		PDFOrientation:      "landscape",
		PDFLayout:           "flat",
	}
}

// newTestReport returns a report over a fresh app holding two demo bookings.
func newTestReport(t *testing.T) *Report {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestBooking(t, app, testhelpers.BookingFixture{
		Organization: "demo",
		Customer:     "Alice Johnson",
		Activity:     "Volcano Sunrise",
		Vehicle:      "Van 1",
		Status:       "confirmed",
		Pax:          2,
		Total:        250,
		Paid:         100,
	})
	testhelpers.CreateTestBooking(t, app, testhelpers.BookingFixture{
		Organization: "demo",
		Customer:     "Bob Lee",
		Activity:     "Snorkel Adventure",
		Vehicle:      "Van 2",
		Status:       "pending",
		Pax:          4,
		Total:        1400,
		Paid:         400,
	})
	return NewReport(app, testConfig())
}

// reportRequest builds a request already tagged by ReportContextMiddleware.
func reportRequest(method, target string, body *string, rc ReportContext) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(*body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if rc.Owner == "" {
		rc.Owner = GuestOwner
	}
	if rc.Organization == "" {
		rc.Organization = "demo"
	}
	return req.WithContext(context.WithValue(req.Context(), ReportContextKey, rc))
}

func form(s string) *string { return &s }
