package gateway

import "strings"

const (
	// AssistantDelimiter marks the start of the assistant turn in a templated transcript.
	AssistantDelimiter = "<|assistant|>"
	// EndOfSequence is emitted by the model after its reply.
	EndOfSequence = "</s>"
)

// CleanAnswer extracts the assistant reply from a raw model answer. Text after the
// first delimiter is kept when the delimiter is present, the whole answer otherwise;
// end markers are removed in both cases. Empty input is returned untouched.
func CleanAnswer(answer string) string {
	if answer == "" {
		return answer
	}

	if _, after, found := strings.Cut(answer, AssistantDelimiter); found {
		answer = strings.TrimSpace(after)
	}

	return strings.TrimSpace(strings.ReplaceAll(answer, EndOfSequence, ""))
}
