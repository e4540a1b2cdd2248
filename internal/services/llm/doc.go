// Package llm provides an OpenRouter-compatible chat client used as the
// subtitle translation boundary.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive a JSON payload.
// Client.Translate: translate one subtitle line, decoding {"translation": ...}.
// Client.HealthCheck: verify API key and model availability.
//
// Every call issues exactly one HTTP request. A failed translation is reported
// to the caller, which drops the affected subtitle rather than retrying.
package llm
