package handlers

import (
	"encoding/json"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// setHXTrigger adds event to the HX-Trigger response header. If an
// HX-Trigger header already exists, the payload is merged into the existing
// JSON object so several events can fire from one response.
func setHXTrigger(e *core.RequestEvent, event string, payload any) {
	merged := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			log.Printf("hx_trigger: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			merged = map[string]any{}
		}
	}
	merged[event] = payload

	data, err := json.Marshal(merged)
	if err != nil {
		log.Printf("hx_trigger: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// SetToast fires a showToast event through HX-Trigger. Plain navigations
// such as export downloads never see it; they get the response body.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	setHXTrigger(e, "showToast", map[string]string{"message": message, "type": toastType})
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
