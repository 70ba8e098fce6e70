package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/concierge"
)

// JSONHandler speaks newline-delimited JSON. Each input line may be an object
// {"text": "..."}, a JSON string, or raw text. Each reply is written as one object.
type JSONHandler struct {
	reader  *bufio.Reader
	encoder *json.Encoder
}

type jsonInput struct {
	Text string `json:"text"`
}

type jsonNotice struct {
	Notice string `json:"notice"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		reader:  bufio.NewReader(r),
		encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := h.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, "{") {
		var in jsonInput
		if err := json.Unmarshal([]byte(line), &in); err == nil {
			return in.Text, nil
		}
	}
	var val string
	if err := json.Unmarshal([]byte(line), &val); err == nil {
		return val, nil
	}
	return line, nil
}

func (h *JSONHandler) Output(ctx context.Context, reply *concierge.Reply) error {
	return h.encoder.Encode(reply)
}

func (h *JSONHandler) Notice(ctx context.Context, msg string) error {
	return h.encoder.Encode(jsonNotice{Notice: msg})
}
