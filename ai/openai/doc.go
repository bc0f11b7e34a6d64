// Package openai provides ai service implementations backed by
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, OpenAI itself).
//
// All chat-based services share one JSON-mode completion helper with a
// bounded parse-retry loop, markdown fence stripping and JSON repair,
// because local models routinely return slightly malformed JSON.
package openai
