package adif

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SyntaxError describes a malformed field tag.
type SyntaxError struct {
	Offset int64 // byte offset of the offending '<'
	Tag    string
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("adif: %s in tag <%s> at offset %d", e.Msg, e.Tag, e.Offset)
}

// Decoder reads records from an ADI stream in file order.
//
// The whole input is buffered on the first call to Next; a Decoder is not
// restartable once it has returned an error or io.EOF.
type Decoder struct {
	r    io.Reader
	data []byte
	pos  int
	err  error
	read bool
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next returns the next complete record. It returns io.EOF when no further
// record terminated by <eor> remains.
func (d *Decoder) Next() (Record, error) {
	if d.err != nil {
		return nil, d.err
	}
	if !d.read {
		d.read = true
		data, err := io.ReadAll(d.r)
		if err != nil {
			d.err = fmt.Errorf("adif: read: %w", err)
			return nil, d.err
		}
		d.data = data
		d.pos = headerEnd(data)
	}

	rec := Record{}
	for {
		start := bytes.IndexByte(d.data[d.pos:], '<')
		if start < 0 {
			// Anything collected without a closing <eor> is discarded.
			d.err = io.EOF
			return nil, d.err
		}
		start += d.pos

		end := bytes.IndexByte(d.data[start:], '>')
		if end < 0 {
			d.err = io.EOF
			return nil, d.err
		}
		end += start

		tag := string(d.data[start+1 : end])
		parts := strings.Split(tag, ":")
		name := FoldName(strings.TrimSpace(parts[0]))
		d.pos = end + 1

		if name == "eor" {
			Fixup(rec)
			return rec, nil
		}
		if len(parts) < 2 || name == "" {
			continue
		}

		length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || length < 0 {
			d.err = &SyntaxError{Offset: int64(start), Tag: tag, Msg: "invalid field length"}
			return nil, d.err
		}

		valueEnd := d.pos + length
		if valueEnd > len(d.data) {
			valueEnd = len(d.data)
		}
		rec[name] = string(d.data[d.pos:valueEnd])
		d.pos = valueEnd
	}
}

// ReadAll decodes every record in r.
func ReadAll(r io.Reader) ([]Record, error) {
	d := NewDecoder(r)
	records := []Record{}
	for {
		rec, err := d.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// headerEnd returns the offset just past the first <eoh> tag, or 0 if the
// input has no header. Input whose first non-blank byte is '<' has no header.
func headerEnd(data []byte) int {
	const eoh = "<eoh>"
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '<' {
		return 0
	}
	for i := 0; i+len(eoh) <= len(data); i++ {
		if data[i] != '<' {
			continue
		}
		if bytes.EqualFold(data[i:i+len(eoh)], []byte(eoh)) {
			return i + len(eoh)
		}
	}
	return 0
}
