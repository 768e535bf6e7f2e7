package engine

// memoizer keeps the outputs that filters asked to reuse, keyed by the
// occurrence's position in the document. It lives for one render.
type memoizer struct {
	outputs map[int]string
}

func newMemoizer() *memoizer {
	return &memoizer{outputs: make(map[int]string)}
}

func (m *memoizer) lookup(i int) (string, bool) {
	text, ok := m.outputs[i]
	return text, ok
}

func (m *memoizer) store(i int, text string) {
	m.outputs[i] = text
}

func (m *memoizer) clear() {
	clear(m.outputs)
}
