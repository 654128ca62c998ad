package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const ReportContextKey contextKey = "reportContext"

// OrganizationCookie remembers the organization chosen with ?org=.
const OrganizationCookie = "organization"

// GuestOwner owns view settings and presets of unauthenticated requests.
const GuestOwner = "guest"

// ReportContext is resolved once per request by ReportContextMiddleware.
type ReportContext struct {
	RequestID    string
	Organization string
	Owner        string
	PreparedBy   string
}

// GetReportContext extracts the report context from the request context.
func GetReportContext(r *http.Request) ReportContext {
	if val, ok := r.Context().Value(ReportContextKey).(ReportContext); ok {
		return val
	}
	return ReportContext{Owner: GuestOwner}
}

// ReportContextMiddleware tags the request with an X-Request-ID and resolves
// the organization (query, then cookie, then defaultOrg) and the owner of
// view state (the authenticated record, or GuestOwner).
func ReportContextMiddleware(defaultOrg string) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := ReportContext{
			RequestID:    strings.TrimSpace(e.Request.Header.Get("X-Request-ID")),
			Organization: defaultOrg,
			Owner:        GuestOwner,
		}
		if _, err := uuid.Parse(rc.RequestID); err != nil {
			rc.RequestID = uuid.NewString()
		}
		e.Response.Header().Set("X-Request-ID", rc.RequestID)

		if org := strings.TrimSpace(e.Request.URL.Query().Get("org")); org != "" {
			rc.Organization = org
			http.SetCookie(e.Response, &http.Cookie{
				Name:     OrganizationCookie,
				Value:    org,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		} else if cookie, err := e.Request.Cookie(OrganizationCookie); err == nil && cookie.Value != "" {
			rc.Organization = cookie.Value
		}

		if e.Auth != nil {
			rc.Owner = e.Auth.Id
			rc.PreparedBy = e.Auth.GetString("name")
			if rc.PreparedBy == "" {
				rc.PreparedBy = e.Auth.Email()
			}
		}

		if rc.Organization == "" {
			log.Printf("middleware: request %s has no organization", rc.RequestID)
		}

		ctx := context.WithValue(e.Request.Context(), ReportContextKey, rc)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
