package services

import (
	"context"
	"fmt"
	"sync"
)

type scriptedReply struct {
	text string
	err  error
}

// scriptedLLM answers GenerateText calls from a fixed script and records
// every request it was given.
type scriptedLLM struct {
	mu       sync.Mutex
	replies  []scriptedReply
	requests []TextRequest
}

func newScriptedLLM(replies ...scriptedReply) *scriptedLLM {
	return &scriptedLLM{replies: replies}
}

func reply(text string) scriptedReply { return scriptedReply{text: text} }

func failure(err error) scriptedReply { return scriptedReply{err: err} }

func (s *scriptedLLM) GenerateText(_ context.Context, req TextRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	n := len(s.requests)
	if n > len(s.replies) {
		return "", fmt.Errorf("unexpected call %d", n)
	}
	r := s.replies[n-1]
	return r.text, r.err
}

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
