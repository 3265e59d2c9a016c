// Package wavmark embeds cue-point markers into WAV files.
//
// The package reads an uncompressed WAV container and an Audacity label
// track export, and writes a new container with a freshly generated cue
// chunk and an associated data list (adtl/labl) chunk, one cue point per
// label. Sample data and every chunk the package does not interpret are
// copied to the output byte for byte; pre-existing cue and label chunks are
// replaced, never merged.
//
// Typical use goes through AddMarkersFile:
//
//	res, err := wavmark.AddMarkersFile("in.wav", "labels.txt", "out.wav")
//
// The lower level Scanner, ParseLabels, and AddMarkers entry points operate
// on streams for callers that manage their own files.
package wavmark
