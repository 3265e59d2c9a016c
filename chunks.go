package wavmark

// chunkHeaderSize is the 4-byte ID plus the 4-byte size field every RIFF
// chunk starts with.
const chunkHeaderSize = 8

var (
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDCue is the chunk ID for the cue chunk.
	CIDCue = [4]byte{'c', 'u', 'e', 0x20}
	// CIDAdtl is the LIST form type for associated data lists.
	CIDAdtl = [4]byte{'a', 'd', 't', 'l'}
	// CIDLabl is the sub-chunk ID for cue point labels.
	CIDLabl = [4]byte{'l', 'a', 'b', 'l'}
	// CIDData is the chunk ID of the sample data chunk, also referenced by
	// every cue point.
	CIDData = [4]byte{'d', 'a', 't', 'a'}
)

// ByteRange identifies a contiguous region of the input file. Ranges are
// descriptive only; the bytes are streamed to the output at write time and
// never buffered.
type ByteRange struct {
	Offset int64
	Size   uint32
}

func (r ByteRange) empty() bool {
	return r.Size == 0
}

// paddedSize returns the on-disk footprint of the range including the
// word-alignment pad byte for odd sizes.
func (r ByteRange) paddedSize() uint32 {
	return r.Size + r.Size%2
}

// PreservedChunk records a chunk the scanner does not interpret so it can be
// copied verbatim to the output, in discovery order.
type PreservedChunk struct {
	ID    [4]byte
	Range ByteRange
}
