// Package apitest provides fixtures for testing code that pays L402
// challenges: a server that demands payment in a number of real-world
// shapes and a Payer that records what it was asked to pay.
package apitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const (
	MockInvoice  = "lnbc1mockinvoice"
	MockMacaroon = "m1"
	MockProof    = "paid"
	PaidContent  = "paid content"
)

// Shape selects how the Server words its 402 challenge.
type Shape int

const (
	ShapeHeaderL402 Shape = iota
	ShapeHeaderLSATComma
	ShapeHeaderMerged
	ShapeBodyTopLevel
	ShapeBodyNested
	ShapeBodyWithHint
	ShapePlainText
)

var shapeNames = map[Shape]string{
	ShapeHeaderL402:      "header L402",
	ShapeHeaderLSATComma: "header LSAT comma",
	ShapeHeaderMerged:    "header merged",
	ShapeBodyTopLevel:    "body top level",
	ShapeBodyNested:      "body nested",
	ShapeBodyWithHint:    "body with hint",
	ShapePlainText:       "plain text",
}

func (s Shape) String() string {
	return shapeNames[s]
}

// ProofHeader returns the header a client is expected to put the proof
// in when answering a challenge of this shape.
func (s Shape) ProofHeader() string {
	switch s {
	case ShapeHeaderL402, ShapeHeaderLSATComma, ShapeHeaderMerged:
		return "Authorization"
	case ShapeBodyWithHint:
		return "X-Payment-Proof"
	default:
		return "X-L402-Proof"
	}
}

func (s Shape) write(w http.ResponseWriter) {
	h := w.Header()

	var body string

	switch s {
	case ShapeHeaderL402:
		h.Set("WWW-Authenticate", `L402 macaroon="`+MockMacaroon+`", invoice="`+MockInvoice+`"`)
	case ShapeHeaderLSATComma:
		h.Set("WWW-Authenticate", `LSAT, macaroon=`+MockMacaroon+`, payreq=`+MockInvoice)
	case ShapeHeaderMerged:
		h.Add("WWW-Authenticate", `Bearer realm="api"`)
		h.Add("WWW-Authenticate", `L402 version="0"; invoice="`+MockInvoice+`"; macaroon="`+MockMacaroon+`"`)
	case ShapeBodyTopLevel:
		body = `{"invoice":"` + MockInvoice + `"}`
	case ShapeBodyNested:
		body = `{"error":{"code":402,"l402":{"payment_request":"` + MockInvoice + `"}}}`
	case ShapeBodyWithHint:
		body = `{"data":{"l402":{"bolt11":"` + MockInvoice + `","proof_header":"X-Payment-Proof"}}}`
	case ShapePlainText:
		body = "Payment Required"
	}

	if body != "" && s != ShapePlainText {
		h.Set("Content-Type", "application/json")
	}

	w.WriteHeader(http.StatusPaymentRequired)
	_, _ = io.WriteString(w, body)
}

// Request is what the Server saw of one incoming request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// Server answers with a 402 challenge of its Shape until a request
// carries the expected proof, then with 200 and PaidContent.
type Server struct {
	*httptest.Server

	shape Shape
	proof string

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a Server that is closed when the test ends.  A
// ShapePlainText server never accepts any proof.
func NewServer(t *testing.T, shape Shape, proof string) *Server {
	t.Helper()

	s := &Server{
		shape: shape,
		proof: proof,
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	s.mu.Unlock()

	if s.shape != ShapePlainText && r.Header.Get(s.shape.ProofHeader()) == s.proof {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, PaidContent)

		return
	}

	s.shape.write(w)
}

// Requests returns every request received so far, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// Hits returns the number of requests received so far.
func (s *Server) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}
