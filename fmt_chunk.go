package wavmark

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3

	// fmtChunkCoreSize is the fixed part of the fmt chunk; anything beyond it
	// is an opaque extension copied verbatim.
	fmtChunkCoreSize = 16
)

// FmtChunk stores the fixed 16-byte core of the WAV fmt chunk. It is read
// once during scanning and written back unmodified.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
}

// uncompressed reports whether the format tag is one of the two accepted
// uncompressed encodings (PCM or IEEE float).
func (f *FmtChunk) uncompressed() bool {
	return f.FormatTag == wavFormatPCM || f.FormatTag == wavFormatIEEEFloat
}
