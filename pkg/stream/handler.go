package stream

// Handler receives the events of one streamed answer. Calls for a single
// session never overlap and arrive in the order the server sent them.
type Handler interface {
	// OnToken is called for every decoded fragment, including empty ones.
	OnToken(token string)

	// OnComplete is called once when the terminal sentinel arrives.
	OnComplete()

	// OnError is called with a *Error. Malformed events leave the stream open;
	// transport failures end it.
	OnError(err error)
}

// HandlerFuncs is a function adapter for the Handler interface
type HandlerFuncs struct {
	TokenFunc    func(token string)
	CompleteFunc func()
	ErrorFunc    func(err error)
}

// OnToken implements Handler
func (h HandlerFuncs) OnToken(token string) {
	if h.TokenFunc != nil {
		h.TokenFunc(token)
	}
}

// OnComplete implements Handler
func (h HandlerFuncs) OnComplete() {
	if h.CompleteFunc != nil {
		h.CompleteFunc()
	}
}

// OnError implements Handler
func (h HandlerFuncs) OnError(err error) {
	if h.ErrorFunc != nil {
		h.ErrorFunc(err)
	}
}

var _ Handler = HandlerFuncs{}
