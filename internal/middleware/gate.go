package middleware

import (
	"net/http"

	"craftopia-api/internal/model"
)

// Rejection is the response a gate sends instead of running the handler.
type Rejection struct {
	Status int
	Body   model.ErrorResponse
}

// Verdict is what a Gate decides for one request: either continue, possibly
// with an enriched request, or reject.
type Verdict struct {
	request   *http.Request
	rejection *Rejection
}

func Continue(r *http.Request) Verdict {
	return Verdict{request: r}
}

func Reject(status int, message string) Verdict {
	return Verdict{rejection: &Rejection{
		Status: status,
		Body:   model.ErrorResponse{Error: true, Message: message},
	}}
}

func (v Verdict) Rejected() (Rejection, bool) {
	if v.rejection == nil {
		return Rejection{}, false
	}
	return *v.rejection, true
}

// Gate inspects a request before the handler runs.
type Gate func(r *http.Request) Verdict

// Chain runs gates in order and stops at the first rejection. Each gate sees
// the request produced by the previous one.
func Chain(gates ...Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, gate := range gates {
				verdict := gate(r)
				if rejection, rejected := verdict.Rejected(); rejected {
					writeRejection(w, rejection)
					return
				}
				if verdict.request != nil {
					r = verdict.request
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeRejection(w http.ResponseWriter, rejection Rejection) {
	writeErrorJSON(w, rejection.Status, rejection.Body.Message)
}
