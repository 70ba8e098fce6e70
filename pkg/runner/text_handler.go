package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/aretw0/concierge"
)

// TextHandler implements the plain text interface for people at a terminal.
type TextHandler struct {
	reader   *bufio.Reader
	writer   io.Writer
	renderer ContentRenderer
	prompt   bool

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption configures a TextHandler.
type TextHandlerOption func(*TextHandler)

// WithRenderer configures the content renderer.
func WithRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.renderer = renderer
	}
}

// WithPrompt forces the "> " prompt on or off. By default it is shown only when
// the input is a terminal.
func WithPrompt(enabled bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.prompt = enabled
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		reader: bufio.NewReader(r),
		writer: w,
		prompt: IsTerminal(r),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	if h.prompt {
		fmt.Fprint(h.writer, "> ")
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return res.text, nil
	}
}

func (h *TextHandler) Output(ctx context.Context, reply *concierge.Reply) error {
	output := reply.Message
	if h.renderer != nil {
		if rendered, err := h.renderer(output); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.writer, strings.TrimSpace(output))
	return err
}

func (h *TextHandler) Notice(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.writer, "[System] %s\n", msg)
	return err
}
