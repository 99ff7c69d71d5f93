package llm

import "breathefree/internal/llmclient"

// Middleware wraps a client with a cross-cutting concern.
type Middleware func(next llmclient.Client) llmclient.Client

// Chain applies middlewares so the first listed is the outermost.
func Chain(base llmclient.Client, mws ...Middleware) llmclient.Client {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}
