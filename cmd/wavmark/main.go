// Command wavmark embeds the cue points described by an Audacity label track
// export into a WAV file, in a layout podcast and DAW tools understand.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/wavmark"
)

const usageMessage = "Usage: wavmark <input.wav> <labels.txt> <output.wav>"

var errBadArgCount = errors.New("wavmark needs exactly three arguments")

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		return
	}

	if errors.Is(err, errBadArgCount) {
		fmt.Println(usageMessage)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func run(args []string, out, errOut io.Writer) error {
	if len(args) != 3 {
		return errBadArgCount
	}

	res, err := wavmark.AddMarkersFile(args[0], args[1], args[2])
	if res != nil {
		for _, skipped := range res.Skipped {
			fmt.Fprintf(errOut, "skipping %s\n", skipped)
		}

		if res.DroppedCues > 0 {
			fmt.Fprintln(out, "Replacing existing cue chunk.")
		}

		if res.DroppedLabels > 0 {
			fmt.Fprintln(out, "Replacing existing label chunk.")
		}
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Input: %d Hz, %d channel(s)\n", res.Format.SampleRate, res.Format.NumChannels)
	fmt.Fprintf(out, "Wrote %d cue point(s) to %s\n", res.Labels, args[2])

	return nil
}
