// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/puffgino/bookgen/pkg/llm"
	"github.com/puffgino/bookgen/pkg/prompt"
)

var _ llm.Client = (*Client)(nil)

// Call records one Complete invocation.
type Call struct {
	Kind      prompt.Kind
	Prompt    string
	MaxTokens int
}

type reply struct {
	text string
	err  error
}

// Client answers prompts by their template kind. Replies registered for a
// kind are returned in order and the last one repeats. Kinds without replies
// get an empty string.
type Client struct {
	mu      sync.Mutex
	replies map[prompt.Kind][]reply
	served  map[prompt.Kind]int
	calls   []Call
}

// New returns a client with no scripted replies.
func New() *Client {
	return &Client{
		replies: make(map[prompt.Kind][]reply),
		served:  make(map[prompt.Kind]int),
	}
}

// On queues text replies for kind.
func (c *Client) On(kind prompt.Kind, texts ...string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, text := range texts {
		c.replies[kind] = append(c.replies[kind], reply{text: text})
	}
	return c
}

// OnError queues a failing reply for kind.
func (c *Client) OnError(kind prompt.Kind, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies[kind] = append(c.replies[kind], reply{err: err})
	return c
}

func (c *Client) Name() string { return "scripted" }

func (c *Client) Complete(ctx context.Context, p string, maxTokens int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	kind := prompt.KindOf(p)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Kind: kind, Prompt: p, MaxTokens: maxTokens})

	queue := c.replies[kind]
	if len(queue) == 0 {
		return "", nil
	}
	i := c.served[kind]
	if i >= len(queue) {
		i = len(queue) - 1
	}
	c.served[kind]++
	return queue[i].text, queue[i].err
}

// Calls returns a copy of every recorded call in order.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Count reports how many calls used the given kind.
func (c *Client) Count(kind prompt.Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		if call.Kind == kind {
			n++
		}
	}
	return n
}
