package middleware

import (
	"encoding/json"
	"net/http"
)

// HealthStatus is the body of the service health check.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthHandler always reports ok with the service name; it has no dependencies to probe.
func HealthHandler(service string) http.HandlerFunc {
	body, _ := json.Marshal(HealthStatus{Status: "ok", Service: service})
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}

// LivenessHandler creates a liveness check handler (simplest check)
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
