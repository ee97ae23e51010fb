package lineserver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrLineTooLong is returned when a request line exceeds the limit.
var ErrLineTooLong = errors.New("lineserver: line too long")

// readLine reads one LF-terminated line of at most maxLen bytes, without
// its terminator.
func readLine(r *bufio.Reader, maxLen int) (string, error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		if err == nil {
			buf = append(buf, frag...)
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > maxLen {
				return "", fmt.Errorf("%w: limit %d", ErrLineTooLong, maxLen)
			}
			continue
		}
		return "", err
	}

	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if len(buf) > maxLen {
		return "", fmt.Errorf("%w: limit %d", ErrLineTooLong, maxLen)
	}
	return string(buf), nil
}

// writeLine writes s followed by CRLF. Embedded line breaks are escaped so
// a reply is always exactly one line.
func writeLine(w *bufio.Writer, s string) error {
	if strings.ContainsAny(s, "\r\n") {
		s = lineEscaper.Replace(s)
	}
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	_, err := w.WriteString("\r\n")
	return err
}

var lineEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)
