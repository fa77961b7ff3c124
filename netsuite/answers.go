package netsuite

import (
	"strings"
)

// Answers matches NetSuite security question prompts to the configured answer
// list. An entry may be a 'question = answer' pair, in which case it is matched
// against the prompt text, or a bare answer, in which case answers are handed
// out in the configured order - one per distinct prompt, advancing when the
// same prompt is re-asked after a rejected answer.
type Answers struct {
	pairs []pair
	queue []string
	next  int
}

type pair struct {
	question string
	answer   string
}

func NewAnswers(entries []string) *Answers {
	answers := Answers{}

	for _, entry := range entries {
		if q, a, found := strings.Cut(entry, "="); found {
			answers.pairs = append(answers.pairs, pair{
				question: normalise(q),
				answer:   strings.TrimSpace(a),
			})
		} else if a := strings.TrimSpace(entry); a != "" {
			answers.queue = append(answers.queue, a)
		}
	}

	return &answers
}

// For returns the answer for a security question prompt, or false when the
// configured answers are exhausted.
func (a *Answers) For(question string) (string, bool) {
	q := normalise(question)

	for _, p := range a.pairs {
		if p.question != "" && strings.Contains(q, p.question) {
			return p.answer, true
		}
	}

	if a.next < len(a.queue) {
		answer := a.queue[a.next]
		a.next++
		return answer, true
	}

	return "", false
}

// Empty returns true if no security answers were configured.
func (a *Answers) Empty() bool {
	return len(a.pairs) == 0 && len(a.queue) == 0
}

func normalise(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}
