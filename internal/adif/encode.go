package adif

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Version is the ADIF version written into headers.
const Version = "3.1.4"

// Header is the preamble written before the first record.
type Header struct {
	// Text is free-form commentary. It must not begin with '<'.
	Text string

	// Fields are header fields such as adif_ver and programid, written in order.
	Fields []Field
}

// Encoder writes records in the format Decoder reads.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder returns an Encoder writing to w. Call Flush when done.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header text and fields followed by <eoh>.
func (e *Encoder) WriteHeader(h Header) error {
	text := strings.TrimSpace(h.Text)
	if text == "" {
		text = "ADIF export"
	}
	if strings.Contains(text, "<") {
		return fmt.Errorf("adif: header text must not contain '<'")
	}
	if _, err := e.w.WriteString(text + "\n"); err != nil {
		return err
	}
	for _, f := range h.Fields {
		if err := e.writeField(f); err != nil {
			return err
		}
		if err := e.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	_, err := e.w.WriteString("<eoh>\n\n")
	return err
}

// Encode writes one record with its fields ordered by name.
func (e *Encoder) Encode(rec Record) error {
	return e.EncodeFields(rec.Fields())
}

// EncodeFields writes one record with fields in the given order.
func (e *Encoder) EncodeFields(fields []Field) error {
	for _, f := range fields {
		if err := e.writeField(f); err != nil {
			return err
		}
		if err := e.w.WriteByte(' '); err != nil {
			return err
		}
	}
	_, err := e.w.WriteString("<eor>\n")
	return err
}

// Flush writes any buffered data to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

func (e *Encoder) writeField(f Field) error {
	if err := ValidName(f.Name); err != nil {
		return err
	}
	_, err := e.w.WriteString("<" + f.Name + ":" + strconv.Itoa(len(f.Value)) + ">" + f.Value)
	return err
}

// ValidName rejects field names an Encoder cannot write so that a Decoder
// reads them back unchanged.
func ValidName(name string) error {
	if name == "" {
		return fmt.Errorf("adif: empty field name")
	}
	if strings.ContainsAny(name, ":<>,{} \t\r\n") {
		return fmt.Errorf("adif: invalid field name %q", name)
	}
	if n := FoldName(name); n == "eor" || n == "eoh" {
		return fmt.Errorf("adif: reserved field name %q", name)
	}
	return nil
}
