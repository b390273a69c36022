// Package llmtest provides a scripted llm.IModel for tests.
package llmtest

import (
	"context"
	"sync"
	"sync/atomic"

	"DrunkDetect/pkg/llm"
)

type ChatCall struct {
	SystemInstruction string
	History           []llm.Turn
	Message           string
}

// Model answers every call with Reply/Err. When Block is non-nil each call
// waits on it (or on ctx) before answering, which lets tests hold a call open.
type Model struct {
	Reply string
	Err   error
	Block chan struct{}

	mu         sync.Mutex
	chatCalls  []ChatCall
	imageCalls int
	inFlight   atomic.Int32
	maxFlight  atomic.Int32
	closed     bool
}

func (m *Model) enter(ctx context.Context) error {
	n := m.inFlight.Add(1)
	for {
		max := m.maxFlight.Load()
		if n <= max || m.maxFlight.CompareAndSwap(max, n) {
			break
		}
	}
	defer m.inFlight.Add(-1)

	if m.Block == nil {
		return nil
	}
	select {
	case <-m.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Model) AnalyzeImage(ctx context.Context, mimeType string, data []byte, prompt string) (string, error) {
	m.mu.Lock()
	m.imageCalls++
	m.mu.Unlock()

	if err := m.enter(ctx); err != nil {
		return "", err
	}
	return m.Reply, m.Err
}

func (m *Model) Chat(ctx context.Context, systemInstruction string, history []llm.Turn, message string) (string, error) {
	m.mu.Lock()
	m.chatCalls = append(m.chatCalls, ChatCall{
		SystemInstruction: systemInstruction,
		History:           append([]llm.Turn(nil), history...),
		Message:           message,
	})
	m.mu.Unlock()

	if err := m.enter(ctx); err != nil {
		return "", err
	}
	return m.Reply, m.Err
}

func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

func (m *Model) ImageCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.imageCalls
}

func (m *Model) ChatCalls() []ChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]ChatCall(nil), m.chatCalls...)
}

// MaxConcurrent is the highest number of calls that were open at once.
func (m *Model) MaxConcurrent() int {
	return int(m.maxFlight.Load())
}

func (m *Model) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}
