package services

import (
	"context"

	"debatefightclub-backend/internal/llm"
)

// Completer is the LLM gateway contract: a role-tagged message list in, one
// completion string out.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Synthesizer is the TTS gateway contract: text plus a speaker-voice
// selector in, a durable audio URL out.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, speaker string) (string, error)
}

// Transcriber is the STT gateway contract: an audio URL in, a transcript out.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}
