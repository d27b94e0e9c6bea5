package token

// ReadStream yields tokens one at a time.  Next returns nil when the stream
// is exhausted.
type ReadStream interface {
	Next() Token
}

// WriteStream receives tokens.
type WriteStream interface {
	Put(Token)
}

type SliceReadStream struct {
	toks []Token
}

var _ ReadStream = &SliceReadStream{}

func NewSliceReadStream(toks []Token) *SliceReadStream {
	return &SliceReadStream{toks: toks}
}

func (r *SliceReadStream) Next() (tok Token) {
	if len(r.toks) > 0 {
		tok = r.toks[0]
		r.toks = r.toks[1:]
	}
	return
}

// AccumulatorStream collects the tokens written to it.
type AccumulatorStream struct {
	toks []Token
}

var _ WriteStream = &AccumulatorStream{}

func NewAccumulatorStream() *AccumulatorStream {
	return &AccumulatorStream{}
}

func (w *AccumulatorStream) Put(tok Token) {
	w.toks = append(w.toks, tok)
}

func (w *AccumulatorStream) GetTokens() []Token {
	return w.toks
}

// Reset empties the accumulator so it can be reused for the next value.
func (w *AccumulatorStream) Reset() {
	w.toks = w.toks[:0]
}
