package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Problem types for RFC 7807 Problem Details responses.
const (
	ProblemTypeNotFound         = "https://hostpanel.dev/problems/not-found"
	ProblemTypeInternal         = "https://hostpanel.dev/problems/internal-error"
	ProblemTypeRateLimited      = "https://hostpanel.dev/problems/rate-limited"
	ProblemTypeMethodNotAllowed = "https://hostpanel.dev/problems/method-not-allowed"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type" example:"https://hostpanel.dev/problems/not-found"`
	Title    string `json:"title" example:"Not Found"`
	Status   int    `json:"status" example:"404"`
	Detail   string `json:"detail,omitempty" example:"no such endpoint"`
	Instance string `json:"instance,omitempty" example:"/api/v1/theme/colours"`
}

// WriteProblem writes p as application/problem+json. An empty Title is
// filled from the status text.
func WriteProblem(w http.ResponseWriter, p Problem) {
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NotFound writes a 404 problem response.
func NotFound(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, Problem{Type: ProblemTypeNotFound, Status: http.StatusNotFound, Detail: detail, Instance: instance})
}

// InternalError writes a 500 problem response.
func InternalError(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, Problem{Type: ProblemTypeInternal, Status: http.StatusInternalServerError, Detail: detail, Instance: instance})
}

// MethodNotAllowed writes a 405 problem response with an Allow header.
func MethodNotAllowed(w http.ResponseWriter, allow, detail, instance string) {
	w.Header().Set("Allow", allow)
	WriteProblem(w, Problem{Type: ProblemTypeMethodNotAllowed, Status: http.StatusMethodNotAllowed, Detail: detail, Instance: instance})
}

// RateLimited writes a 429 problem response advising the client to retry
// after wait.
func RateLimited(w http.ResponseWriter, detail, instance string, wait time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
	WriteProblem(w, Problem{Type: ProblemTypeRateLimited, Status: http.StatusTooManyRequests, Detail: detail, Instance: instance})
}
