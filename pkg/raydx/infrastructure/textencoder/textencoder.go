package textencoder

import (
	"bytes"
	"fmt"
	"os/exec"

	"raydx.com/raydx/pkg/raydx/domain"
)

// Encoder shells out to a Python helper which embeds prompts with the checkpoint's text
// tower. Launching a subprocess per prompt is acceptable because the zero-shot backend caches
// prompt embeddings for the process lifetime.
// TODO replace with an in-process encoder once a Go tokenizer for the BiomedCLIP vocabulary exists
type Encoder struct {
	script string
}

func NewEncoder(script string) *Encoder {
	return &Encoder{
		script: script,
	}
}

func (e *Encoder) Encode(text string) (domain.Embedding, error) {
	if text == "" {
		return domain.Embedding{}, nil
	}
	cmd := exec.Command("python3", e.script, text)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return domain.Embedding{}, fmt.Errorf("text encoder: %w", err)
	}
	return domain.NewEmbeddingFromFormattedValues(out.String())
}

var _ domain.TextEncoder = (*Encoder)(nil)
