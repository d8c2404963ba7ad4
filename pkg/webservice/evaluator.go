package webservice

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/netapp-lib/webservice-go/pkg/httpclient"
)

const (
	// Built-in evaluator names.
	EvaluatorNone   = "none"
	EvaluatorStatus = "status"

	snippetLimit = 512
)

// ResponseEvaluator inspects a completed response before it is handed to the caller.
// A non-nil error is returned to the caller in place of the response.
type ResponseEvaluator interface {
	Evaluate(resp httpclient.Response) error
}

// EvaluatorFunc adapts a plain function to ResponseEvaluator.
type EvaluatorFunc func(resp httpclient.Response) error

func (f EvaluatorFunc) Evaluate(resp httpclient.Response) error { return f(resp) }

// NopEvaluator accepts every response.
type NopEvaluator struct{}

func (NopEvaluator) Evaluate(httpclient.Response) error { return nil }

// StatusEvaluator rejects responses with a 4xx or 5xx status.
type StatusEvaluator struct{}

func (StatusEvaluator) Evaluate(resp httpclient.Response) error {
	if resp == nil || resp.StatusCode() < 400 {
		return nil
	}
	return &StatusError{
		StatusCode: resp.StatusCode(),
		Snippet:    readBodySnippet(resp.Body()),
	}
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > snippetLimit {
		cut := snippetLimit
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return strings.TrimSpace(string(body))
}

// EvaluatorRegistry maps evaluator names to implementations.
type EvaluatorRegistry interface {
	Register(name string, ev ResponseEvaluator)
	EvaluatorFor(name string) (ResponseEvaluator, error)
}

type evaluatorRegistry struct {
	mu         sync.RWMutex
	evaluators map[string]ResponseEvaluator
}

// NewEvaluatorRegistry returns a registry with optional pre-registered evaluators.
func NewEvaluatorRegistry(evaluators map[string]ResponseEvaluator) EvaluatorRegistry {
	r := &evaluatorRegistry{
		evaluators: make(map[string]ResponseEvaluator),
	}
	for name, ev := range evaluators {
		r.Register(name, ev)
	}
	return r
}

// Register associates an evaluator with a name.
func (r *evaluatorRegistry) Register(name string, ev ResponseEvaluator) {
	if name = strings.TrimSpace(strings.ToLower(name)); name == "" || ev == nil {
		return
	}

	r.mu.Lock()
	r.evaluators[name] = ev
	r.mu.Unlock()
}

// EvaluatorFor returns the evaluator registered under name. An empty name
// resolves to NopEvaluator.
func (r *evaluatorRegistry) EvaluatorFor(name string) (ResponseEvaluator, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return NopEvaluator{}, nil
	}

	r.mu.RLock()
	ev := r.evaluators[name]
	r.mu.RUnlock()

	if ev == nil {
		return nil, fmt.Errorf("no response evaluator registered for %q", name)
	}
	return ev, nil
}

// DefaultEvaluators wires up the built-in evaluators.
func DefaultEvaluators() EvaluatorRegistry {
	return NewEvaluatorRegistry(map[string]ResponseEvaluator{
		EvaluatorNone:   NopEvaluator{},
		EvaluatorStatus: StatusEvaluator{},
	})
}
