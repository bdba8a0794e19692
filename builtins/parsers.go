package builtins

import (
	"sort"
	"sync"

	"calc/types"
)

// Builder receives the tokens a parser hook produces
type Builder interface {
	PushValue(v types.Value)
	PushOperator(symbol string)
}

// WordParser handles a reserved word or character. It is given the full
// input, the offset just past the matched word (or at the character) and
// the builder to emit into. It returns the offset where scanning resumes.
type WordParser func(input string, pos int, b Builder) (int, error)

// ParserMap holds reserved word and character hooks consulted by the
// expression parser
type ParserMap struct {
	mu    sync.RWMutex
	words map[string]WordParser
	chars map[rune]WordParser
}

// NewParserMap creates an empty hook table
func NewParserMap() *ParserMap {
	return &ParserMap{
		words: make(map[string]WordParser),
		chars: make(map[rune]WordParser),
	}
}

// AddWord registers a reserved word, replacing any earlier hook
func (p *ParserMap) AddWord(word string, fn WordParser) {
	p.mu.Lock()
	p.words[word] = fn
	p.mu.Unlock()
}

// AddChar registers a reserved character
func (p *ParserMap) AddChar(c rune, fn WordParser) {
	p.mu.Lock()
	p.chars[c] = fn
	p.mu.Unlock()
}

// FindWord returns the hook for word
func (p *ParserMap) FindWord(word string) (WordParser, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	fn, ok := p.words[word]
	return fn, ok
}

// FindChar returns the hook for c
func (p *ParserMap) FindChar(c rune) (WordParser, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	fn, ok := p.chars[c]
	return fn, ok
}

// Words returns the reserved words, sorted
func (p *ParserMap) Words() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	words := make([]string, 0, len(p.words))
	for w := range p.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// literal returns a hook that pushes v
func literal(v types.Value) WordParser {
	return func(input string, pos int, b Builder) (int, error) {
		b.PushValue(v)
		return pos, nil
	}
}

// alias returns a hook that pushes an operator token
func alias(symbol string) WordParser {
	return func(input string, pos int, b Builder) (int, error) {
		b.PushOperator(symbol)
		return pos, nil
	}
}

// skipLine consumes input up to the end of the line
func skipLine(input string, pos int, b Builder) (int, error) {
	for pos < len(input) && input[pos] != '\n' {
		pos++
	}
	return pos, nil
}
