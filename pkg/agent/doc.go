// Package agent wraps LLM backends behind a small set of ports and provides
// the two Agent Session variants used by conversations.
//
// Invariants:
//   - Every session is seeded with the Shared Preamble before any real exchange.
//   - An IncrementalSession exclusively owns its Chat handle.
//   - Respond never returns an error; failures become placeholder text.
//
// Usage:
//
//	provider, _ := (&agent.ProviderFactory{}).NewProvider(ctx, "gemini", apiKey)
//	s, _ := agent.NewIncrementalSession(ctx, "(AI1) gemini-2.5-flash", provider, "gemini-2.5-flash", logger)
//	reply := s.Respond(ctx, "You may begin when ready.")
package agent
