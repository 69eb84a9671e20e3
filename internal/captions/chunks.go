package captions

import "strings"

// WordsPerChunk is the fixed caption chunk size (short-form video style).
const WordsPerChunk = 3

// Chunks splits a script on whitespace and groups the words into chunks of
// WordsPerChunk; the final chunk may be shorter. An empty or
// whitespace-only script yields no chunks.
func Chunks(script string) []string {
	words := strings.Fields(script)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(words)+WordsPerChunk-1)/WordsPerChunk)
	for i := 0; i < len(words); i += WordsPerChunk {
		end := i + WordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
