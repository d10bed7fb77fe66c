package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikere/bptracker-api/pkg/circuitbreaker"
	"github.com/chikere/bptracker-api/pkg/logger"
	"github.com/chikere/bptracker-api/pkg/metrics"
)

var (
	testMetricsOnce sync.Once
	testMetricsInst *metrics.Metrics
)

func testMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetricsInst = metrics.NewMetrics("chat_test")
	})
	return testMetricsInst
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

type stubCompleter struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestService(completer *stubCompleter) *Service {
	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:         "chat-test",
		MinRequests:  1000,
		FailureRatio: 0.99,
		Timeout:      time.Minute,
	})
	return NewService(completer, breaker, testMetrics(), testLogger())
}

func TestAskReturnsAnswer(t *testing.T) {
	completer := &stubCompleter{response: "Reduce salt intake and measure twice daily."}
	svc := newTestService(completer)

	answer := svc.Ask(context.Background(), "session-1", "How do I lower my blood pressure?")
	assert.Equal(t, completer.response, answer)
	assert.Equal(t, 1, completer.calls)
}

func TestAskFirstQuestionSentVerbatim(t *testing.T) {
	completer := &stubCompleter{response: "ok"}
	svc := newTestService(completer)

	svc.Ask(context.Background(), "session-1", "What is a normal reading?")
	require.Len(t, completer.prompts, 1)
	assert.Equal(t, "What is a normal reading?", completer.prompts[0])
}

func TestAskWeavesSessionHistory(t *testing.T) {
	completer := &stubCompleter{response: "Around 120/80."}
	svc := newTestService(completer)

	svc.Ask(context.Background(), "session-1", "What is a normal reading?")
	svc.Ask(context.Background(), "session-1", "And for someone over 60?")

	require.Len(t, completer.prompts, 2)
	second := completer.prompts[1]
	assert.Contains(t, second, "Conversation so far:")
	assert.Contains(t, second, "Q: What is a normal reading?")
	assert.Contains(t, second, "A: Around 120/80.")
	assert.Contains(t, second, "New question: And for someone over 60?")
}

func TestAskSessionsAreIsolated(t *testing.T) {
	completer := &stubCompleter{response: "ok"}
	svc := newTestService(completer)

	svc.Ask(context.Background(), "session-1", "first question")
	svc.Ask(context.Background(), "session-2", "unrelated question")

	require.Len(t, completer.prompts, 2)
	assert.NotContains(t, completer.prompts[1], "first question")
}

func TestAskHistoryIsCapped(t *testing.T) {
	completer := &stubCompleter{response: "ok"}
	svc := newTestService(completer)

	for i := 0; i < maxExchange+1; i++ {
		svc.Ask(context.Background(), "session-1", fmt.Sprintf("question %d", i))
	}
	svc.Ask(context.Background(), "session-1", "final question")

	last := completer.prompts[len(completer.prompts)-1]
	assert.NotContains(t, last, "question 0")
	assert.Contains(t, last, fmt.Sprintf("question %d", maxExchange))
}

func TestAskFallbackOnFailure(t *testing.T) {
	completer := &stubCompleter{err: errors.New("upstream unavailable")}
	svc := newTestService(completer)

	answer := svc.Ask(context.Background(), "session-1", "Is 200/120 dangerous?")
	assert.Equal(t, fallbackMessage, answer)

	// A failed exchange must not poison the session history.
	completer.err = nil
	completer.response = "Yes, seek care immediately."
	svc.Ask(context.Background(), "session-1", "Should I go to hospital?")
	last := completer.prompts[len(completer.prompts)-1]
	assert.NotContains(t, last, "Is 200/120 dangerous?")
}

func TestAskFallbackWhenBreakerOpen(t *testing.T) {
	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:         "chat-open",
		MinRequests:  1,
		FailureRatio: 0.1,
		Timeout:      time.Hour,
	})
	_ = breaker.Do(func() error { return errors.New("boom") })

	completer := &stubCompleter{response: "never seen"}
	svc := NewService(completer, breaker, testMetrics(), testLogger())

	answer := svc.Ask(context.Background(), "session-1", "anything")
	assert.Equal(t, fallbackMessage, answer)
	assert.Zero(t, completer.calls)
}
