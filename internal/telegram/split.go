package telegram

// MaxMessageLen is the Bot API limit on message text, in characters.
const MaxMessageLen = 4096

// SplitMessage cuts text into sequential chunks of at most MaxMessageLen
// characters. Concatenating the chunks reproduces the input exactly; a cut
// may fall inside a word but never inside a UTF-8 sequence.
func SplitMessage(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+MaxMessageLen-1)/MaxMessageLen)
	for len(runes) > MaxMessageLen {
		chunks = append(chunks, string(runes[:MaxMessageLen]))
		runes = runes[MaxMessageLen:]
	}
	return append(chunks, string(runes))
}
