package analysis

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Timofejjj/healthai/internal/generate"
)

// Normalizer deduplicates free-text task names against an owner's known
// set by asking the language model for the canonical spelling.
//
// Fallback contract: on any failure — generation error, empty answer, or
// an answer outside the known set — the original input is returned
// unchanged. Normalization is an enhancement, never a gate.
type Normalizer struct {
	gen generate.Generator
}

// NewNormalizer creates a Normalizer backed by the given generator.
func NewNormalizer(gen generate.Generator) *Normalizer {
	return &Normalizer{gen: gen}
}

// Canonical maps name onto one of the known task names, or returns name
// unchanged per the fallback contract. Matching against the model's
// answer is case-insensitive and whitespace-trimmed.
func (n *Normalizer) Canonical(ctx context.Context, name string, known []string) string {
	if n == nil || n.gen == nil || len(known) == 0 {
		return name
	}

	prompt := fmt.Sprintf(
		"A user logs work sessions with free-text task names. Existing task names:\n%s\n\n"+
			"The user just typed: %q\n\n"+
			"If this refers to one of the existing tasks, answer with that exact existing name. "+
			"If it is a genuinely new task, answer NEW. Answer with the name only, nothing else.",
		"- "+strings.Join(known, "\n- "), name,
	)

	answer, err := n.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("WARNING: analysis: task normalization failed, keeping %q: %v", name, err)
		return name
	}

	answer = strings.TrimSpace(answer)
	for _, k := range known {
		if strings.EqualFold(answer, k) {
			return k
		}
	}
	return name
}
