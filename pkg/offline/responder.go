// Package offline provides the degraded-but-non-empty fallback layer:
// canned JSON payloads keyed by route pattern plus a versioned response
// cache, both independent of the live network path.
package offline

import "strings"

// Responder synthesizes canned responses for known routes when the
// network is unavailable.
type Responder struct {
	routes []route
}

type route struct {
	pattern string
	payload []byte
}

// NewResponder returns a responder pre-loaded with the advisory and
// updates payloads.
func NewResponder() *Responder {
	r := &Responder{}
	r.Register("/api/advisory", []byte(advisoryPayload))
	r.Register("/api/updates", []byte(updatesPayload))
	return r
}

// Register adds a canned payload for any path containing pattern.
// Earlier registrations win.
func (r *Responder) Register(pattern string, payload []byte) {
	r.routes = append(r.routes, route{pattern: pattern, payload: payload})
}

// Payload returns the canned body for a path, if one is registered.
func (r *Responder) Payload(path string) ([]byte, bool) {
	for _, rt := range r.routes {
		if strings.Contains(path, rt.pattern) {
			return rt.payload, true
		}
	}
	return nil, false
}

const advisoryPayload = `{
  "title": "Offline Advisory",
  "text": "You are currently offline. Please check your internet connection and try again for AI-powered advice.",
  "steps": [
    "Check your internet connection",
    "Retry when online for AI analysis",
    "Use basic farming practices in the meantime",
    "Save your question to ask later"
  ],
  "lang": "en",
  "source": "offline"
}`

const updatesPayload = `{
  "weather": {
    "temperatureC": null,
    "windKph": null,
    "description": "Weather unavailable offline"
  },
  "market": [
    {"crop": "Tomato", "pricePerKgInr": "N/A"},
    {"crop": "Onion", "pricePerKgInr": "N/A"}
  ],
  "schemes": [
    {"title": "Government Schemes", "status": "Check online for updates"}
  ]
}`
