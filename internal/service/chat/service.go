// Package chat backs the AI sidebar: free-form questions answered by the
// text-generation collaborator, with short-lived per-session memory.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/chikere/bptracker-api/pkg/ai"
	"github.com/chikere/bptracker-api/pkg/circuitbreaker"
	"github.com/chikere/bptracker-api/pkg/logger"
	"github.com/chikere/bptracker-api/pkg/metrics"
)

const fallbackMessage = "I'm sorry, I couldn't process your question at the moment. Please try again later."

const (
	memoryTTL   = 30 * time.Minute
	maxExchange = 10
)

type exchange struct {
	Question string
	Answer   string
}

// Service answers user questions through the same breaker instance as the
// AI risk classifier, so both feel collaborator outages together. Its
// fallback is the apology string rather than a risk sentinel.
type Service struct {
	completer ai.Completer
	breaker   *circuitbreaker.CircuitBreaker
	memory    *cache.Cache
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(
	completer ai.Completer,
	breaker *circuitbreaker.CircuitBreaker,
	m *metrics.Metrics,
	l *logger.Logger,
) *Service {
	return &Service{
		completer: completer,
		breaker:   breaker,
		memory:    cache.New(memoryTTL, 10*time.Minute),
		metrics:   m,
		logger:    l,
	}
}

// Ask answers the question, weaving in the session's recent exchanges. It
// never returns an error: a failed or short-circuited call degrades to the
// fallback message.
func (s *Service) Ask(ctx context.Context, sessionID, question string) string {
	prompt := s.buildPrompt(sessionID, question)

	answer, err := s.breaker.Execute(func() (string, error) {
		return s.completer.Complete(ctx, prompt)
	})
	if err != nil {
		s.metrics.AIChatFailure.Inc()
		s.logger.Error(err, "chat completion failed",
			"session_id", sessionID, "breaker_state", s.breaker.State())
		return fallbackMessage
	}

	s.metrics.AIChatSuccess.Inc()
	s.remember(sessionID, question, answer)
	return answer
}

func (s *Service) buildPrompt(sessionID, question string) string {
	history := s.history(sessionID)
	if len(history) == 0 {
		return question
	}

	var sb strings.Builder
	sb.WriteString("Conversation so far:\n")
	for _, e := range history {
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n", e.Question, e.Answer)
	}
	sb.WriteString("\nNew question: ")
	sb.WriteString(question)
	return sb.String()
}

func (s *Service) history(sessionID string) []exchange {
	if v, ok := s.memory.Get(sessionID); ok {
		return v.([]exchange)
	}
	return nil
}

func (s *Service) remember(sessionID, question, answer string) {
	history := append(s.history(sessionID), exchange{Question: question, Answer: answer})
	if len(history) > maxExchange {
		history = history[len(history)-maxExchange:]
	}
	s.memory.Set(sessionID, history, cache.DefaultExpiration)
}
