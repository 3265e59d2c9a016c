package wavmark

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
)

// ErrNoLabels is returned when the label file yields zero usable entries.
var ErrNoLabels = errors.New("label file contains no usable entries")

// Result reports what a marker run did.
type Result struct {
	// Format describes the input audio.
	Format *audio.Format
	// Labels is the number of cue points written.
	Labels int
	// Skipped lists label file lines that were rejected.
	Skipped []LineError
	// DroppedCues and DroppedLabels count pre-existing cue and adtl LIST
	// chunks that were replaced.
	DroppedCues   int
	DroppedLabels int
}

// AddMarkers scans the WAV container read from in, parses the label track
// from labelFile, and writes a new container to out with a regenerated cue
// chunk and adtl LIST chunk. A Result is returned alongside most errors so
// callers can surface per-line label diagnostics.
//
// On failure the bytes already written to out are invalid and must be
// discarded; there is no partial mode.
func AddMarkers(in io.ReadSeeker, labelFile io.Reader, out io.Writer) (*Result, error) {
	scan, labels, res, err := prepare(in, labelFile)
	if err != nil {
		return res, err
	}

	err = writeContainer(in, out, scan, labels)
	if err != nil {
		return res, err
	}

	return res, nil
}

// AddMarkersFile is the file-path front end to AddMarkers. The output file
// is only created once the input container and the label file have been
// validated, so validation failures never leave an output file behind.
func AddMarkersFile(inPath, labelPath, outPath string) (*Result, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", inPath, err)
	}
	defer in.Close()

	labelFile, err := os.Open(labelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file %s: %w", labelPath, err)
	}
	defer labelFile.Close()

	scan, labels, res, err := prepare(in, labelFile)
	if err != nil {
		return res, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return res, fmt.Errorf("failed to create output file %s: %w", outPath, err)
	}

	err = writeContainer(in, out, scan, labels)
	if err != nil {
		out.Close()

		return res, err
	}

	err = out.Close()
	if err != nil {
		return res, fmt.Errorf("failed to close output file %s: %w", outPath, err)
	}

	return res, nil
}

func prepare(in io.ReadSeeker, labelFile io.Reader) (*Scanner, []Label, *Result, error) {
	scan := NewScanner(in)

	err := scan.Scan()
	if err != nil {
		return nil, nil, nil, err
	}

	labels, skipped, err := ParseLabels(labelFile, scan.FmtChunk.SampleRate)
	if err != nil {
		return nil, nil, nil, err
	}

	res := &Result{
		Format:        scan.Format(),
		Labels:        len(labels),
		Skipped:       skipped,
		DroppedCues:   scan.DroppedCues,
		DroppedLabels: scan.DroppedLabels,
	}

	if len(labels) == 0 {
		return nil, nil, res, ErrNoLabels
	}

	return scan, labels, res, nil
}
