package prompt

import (
	"fmt"
	"strings"

	"ambubot-be/internal/constant"
	"ambubot-be/pkg/rag/search"
)

// GroundedBuilder places retrieved reference excerpts ahead of a system prompt.
type GroundedBuilder struct {
	systemPrompt string
	passages     []search.Passage
}

func NewGroundedBuilder(systemPrompt string, passages []search.Passage) *GroundedBuilder {
	return &GroundedBuilder{
		systemPrompt: systemPrompt,
		passages:     passages,
	}
}

// Build returns the system prompt unchanged when there is nothing to ground on.
func (b *GroundedBuilder) Build() string {
	if len(b.passages) == 0 {
		return b.systemPrompt
	}

	var prompt strings.Builder
	b.writeReferenceMaterial(&prompt)
	b.writeTask(&prompt)
	return prompt.String()
}

func (b *GroundedBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString(constant.GroundingContextHeader)
	prompt.WriteString("\n<reference_material>\n")
	for i, p := range b.passages {
		prompt.WriteString(fmt.Sprintf("[%d] %s\n", i+1, p.Content))
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *GroundedBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString(b.systemPrompt)
	prompt.WriteString("\n</task>")
}
