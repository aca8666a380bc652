// internal/handlers/health.go
package handlers

import "net/http"

// HealthHandler answers the root route so load balancers and uptime
// checks can probe the process.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("signaling server active"))
}
