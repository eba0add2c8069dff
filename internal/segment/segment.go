// Package segment provides the default sentence segmenter. Segmentation
// quality is deliberately modest: a terminator-based regexp split, good
// enough for plain prose. Callers needing a real sentencizer plug their
// own through the Segmenter option.
package segment

import (
	"regexp"
	"strings"
)

// Splitter splits text into sentences on ., ! and ? terminators,
// keeping the terminator with its sentence.
type Splitter struct {
	splitter *regexp.Regexp
}

// NewSplitter creates the default regexp-based splitter.
func NewSplitter() *Splitter {
	return &Splitter{
		splitter: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?]+)`),
	}
}

// Segment returns the trimmed, non-empty sentences of text in order.
// Text without any terminator comes back as a single sentence; a
// trailing fragment after the last terminator is kept as its own
// sentence.
func (s *Splitter) Segment(text string) []string {
	matches := s.splitter.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	sents := make([]string, 0, len(matches)+1)
	end := 0
	for _, m := range matches {
		if sent := strings.TrimSpace(text[m[0]:m[1]]); sent != "" {
			sents = append(sents, sent)
		}
		end = m[1]
	}
	if tail := strings.TrimSpace(text[end:]); tail != "" {
		sents = append(sents, tail)
	}
	return sents
}
