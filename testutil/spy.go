// Package testutil provides test doubles shared by the package tests:
// a spy adapter that records every call and serves scripted responses.
package testutil

import (
	"context"
	"sync"

	"github.com/c360/writeflow/writer"
)

// ResponseFunc scripts a spy response. call is 1-based across the spy's
// lifetime, so scripts can fail the first attempts and succeed later.
type ResponseFunc func(call int, req writer.Request) (writer.Result, error)

// SpyWriter is a writer.Writer that records every Write call and returns
// scripted responses. Safe for concurrent use.
type SpyWriter struct {
	name  string
	match func(string) bool

	mu       sync.Mutex
	requests []writer.Request
	respond  ResponseFunc
}

// NewSpyWriter creates a spy claiming exactly the given targets. The
// default response is a successful result.
func NewSpyWriter(name string, targets ...string) *SpyWriter {
	return &SpyWriter{
		name:  name,
		match: writer.MatchTargets(targets...),
		respond: func(int, writer.Request) (writer.Result, error) {
			return writer.Result{Success: true, Message: "spy write ok"}, nil
		},
	}
}

// Respond replaces the scripted response
func (s *SpyWriter) Respond(fn ResponseFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respond = fn
}

// Name implements writer.Writer
func (s *SpyWriter) Name() string { return s.name }

// Supports implements writer.Writer
func (s *SpyWriter) Supports(target string) bool { return s.match(target) }

// Write records the request and returns the scripted response
func (s *SpyWriter) Write(_ context.Context, req writer.Request) (writer.Result, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	call := len(s.requests)
	respond := s.respond
	s.mu.Unlock()
	return respond(call, req)
}

// Calls returns how many times Write was invoked
func (s *SpyWriter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of the recorded requests
func (s *SpyWriter) Requests() []writer.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]writer.Request, len(s.requests))
	copy(out, s.requests)
	return out
}
