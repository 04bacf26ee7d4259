package streamio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"guessicon/internal/hook"
	"guessicon/internal/proplist"
)

// ErrMalformedEvent reports an input line that is not a valid stream event.
var ErrMalformedEvent = errors.New("malformed stream event")

const maxLineBytes = 1 << 20

type eventHeader struct {
	Index      *uint32         `json:"index"`
	Kind       string          `json:"kind"`
	Properties json.RawMessage `json:"properties"`
}

// Reader decodes one stream event per line. Blank lines are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next event, or io.EOF once the input is exhausted.
func (r *Reader) Next() (*hook.Stream, error) {
	for r.scanner.Scan() {
		r.line++
		raw := bytes.TrimSpace(r.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		stream, err := decodeEvent(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", r.line, ErrMalformedEvent, err)
		}
		return stream, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream events: %w", err)
	}
	return nil, io.EOF
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

func decodeEvent(raw []byte) (*hook.Stream, error) {
	var header eventHeader
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&header); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after event")
	}
	if header.Index == nil {
		return nil, errors.New("missing index")
	}
	kind, err := hook.ParseKind(header.Kind)
	if err != nil {
		return nil, err
	}
	props, err := decodeProperties(header.Properties)
	if err != nil {
		return nil, fmt.Errorf("properties: %w", err)
	}
	return &hook.Stream{Index: *header.Index, Kind: kind, Props: props}, nil
}

// decodeProperties walks the object token by token so key order survives.
func decodeProperties(raw json.RawMessage) (*proplist.Proplist, error) {
	props := proplist.New()
	if len(raw) == 0 || string(raw) == "null" {
		return props, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected an object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		props.Sets(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return props, nil
}

// Writer encodes stream events one per line, properties in list order.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewWriter returns a Writer producing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes stream as a single line.
func (w *Writer) Write(stream *hook.Stream) error {
	w.buf.Reset()
	fmt.Fprintf(&w.buf, `{"index":%d,"kind":%q,"properties":{`, stream.Index, stream.Kind.String())
	first := true
	var encodeErr error
	if stream.Props != nil {
		stream.Props.Each(func(key, value string) bool {
			if !first {
				w.buf.WriteByte(',')
			}
			first = false
			if encodeErr = writeJSONString(&w.buf, key); encodeErr != nil {
				return false
			}
			w.buf.WriteByte(':')
			encodeErr = writeJSONString(&w.buf, value)
			return encodeErr == nil
		})
	}
	if encodeErr != nil {
		return fmt.Errorf("encode stream %d: %w", stream.Index, encodeErr)
	}
	w.buf.WriteString("}}\n")
	if _, err := w.w.Write(w.buf.Bytes()); err != nil {
		return fmt.Errorf("write stream %d: %w", stream.Index, err)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

// FormatEvent renders stream as a single line without the trailing newline.
func FormatEvent(stream *hook.Stream) (string, error) {
	var sb strings.Builder
	if err := NewWriter(&sb).Write(stream); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}
