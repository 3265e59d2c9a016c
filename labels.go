package wavmark

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// maxSamplePosition is one past the largest sample index a cue point can
// address; positions are 32-bit on the wire.
const maxSamplePosition = float64(1 << 32)

var errZeroSampleRate = errors.New("can't convert label times with a zero sample rate")

// Label associates a sample-accurate position in the data chunk with raw
// label text. The text is treated as opaque bytes and is not re-encoded.
type Label struct {
	// Position is the sample frame index, floor(startTime * sampleRate).
	Position uint32
	// Text holds the label bytes without the trailing NUL.
	Text []byte
}

// storedLen is the length the label occupies in a labl sub-chunk: the raw
// byte count plus the trailing NUL. The on-wire size field counts the NUL.
func (l Label) storedLen() uint32 {
	return uint32(len(l.Text)) + 1
}

// LineError describes a label file line that was skipped.
type LineError struct {
	Line   int
	Reason string
}

func (e LineError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseLabels reads an Audacity label track export: one label per line as
// "startSeconds<sep>endSeconds<sep>text", where the end time is parsed and
// discarded. Unix, classic Mac, and Windows line endings are all accepted.
//
// Lines that don't yield two numeric fields, carry a negative start time, or
// place the label past the last addressable 32-bit sample at the given rate
// are skipped and reported in the returned LineError slice; only read
// failures are fatal. Labels keep file order.
func ParseLabels(r io.Reader, sampleRate uint32) ([]Label, []LineError, error) {
	if sampleRate == 0 {
		return nil, nil, errZeroSampleRate
	}

	var (
		labels  []Label
		skipped []LineError
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(scanLabelLines)

	line := 0
	for sc.Scan() {
		line++

		start, text, err := splitLabelLine(sc.Bytes())
		if err != nil {
			skipped = append(skipped, LineError{Line: line, Reason: err.Error()})

			continue
		}

		if start < 0 {
			skipped = append(skipped, LineError{
				Line:   line,
				Reason: fmt.Sprintf("negative start time %g", start),
			})

			continue
		}

		position := start * float64(sampleRate)
		if position >= maxSamplePosition {
			skipped = append(skipped, LineError{
				Line:   line,
				Reason: fmt.Sprintf("start time %g exceeds the maximum addressable sample at %d Hz", start, sampleRate),
			})

			continue
		}

		labels = append(labels, Label{
			// conversion truncates toward zero
			Position: uint32(position),
			Text:     append([]byte(nil), text...),
		})
	}

	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read label file: %w", err)
	}

	return labels, skipped, nil
}

// splitLabelLine extracts the start time and label text from one line. The
// end time field is validated but ignored. Only the single separator byte
// after the end time is consumed, so label text may contain tabs and spaces.
func splitLabelLine(raw []byte) (float64, []byte, error) {
	start, rest, err := takeFloat(raw)
	if err != nil {
		return 0, nil, fmt.Errorf("missing start time: %w", err)
	}

	_, rest, err = takeFloat(rest)
	if err != nil {
		return 0, nil, fmt.Errorf("missing end time: %w", err)
	}

	if len(rest) > 0 && (rest[0] == '\t' || rest[0] == ' ') {
		rest = rest[1:]
	}

	return start, rest, nil
}

func takeFloat(b []byte) (float64, []byte, error) {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}

	j := i
	for j < len(b) && b[j] != ' ' && b[j] != '\t' {
		j++
	}

	if i == j {
		return 0, nil, errors.New("empty field")
	}

	v, err := strconv.ParseFloat(string(b[i:j]), 64)
	if err != nil {
		return 0, nil, fmt.Errorf("bad numeric field %q", b[i:j])
	}

	return v, b[j:], nil
}

// scanLabelLines is a bufio.SplitFunc that treats \n, \r, and \r\n as line
// terminators. Terminators are not included in the token.
func scanLabelLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	i := bytes.IndexAny(data, "\r\n")
	if i < 0 {
		if atEOF {
			return len(data), data, nil
		}

		return 0, nil, nil
	}

	if data[i] == '\n' {
		return i + 1, data[:i], nil
	}

	// a trailing \r needs one more byte to tell \r from \r\n
	if i+1 == len(data) && !atEOF {
		return 0, nil, nil
	}

	if i+1 < len(data) && data[i+1] == '\n' {
		return i + 2, data[:i], nil
	}

	return i + 1, data[:i], nil
}
