package wavmark

import (
	"bytes"
	"encoding/binary"
)

// cuePointSize is the fixed wire size of one cue point record.
const cuePointSize = 24

// cueChunkPayload builds the cue chunk payload: a point count followed by
// one 24-byte cue point per label. Cue point IDs are 1..N in label order;
// ties in position keep label order.
func cueChunkPayload(labels []Label) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 4+cuePointSize*len(labels)))

	binary.Write(buf, binary.LittleEndian, uint32(len(labels)))

	for i, label := range labels {
		// ID, play order position, data chunk reference, then the two
		// locator fields that stay zero without a wave list, and the
		// sample frame offset.
		binary.Write(buf, binary.LittleEndian, uint32(i+1))
		binary.Write(buf, binary.LittleEndian, label.Position)
		buf.Write(CIDData[:])
		binary.Write(buf, binary.LittleEndian, uint32(0))
		binary.Write(buf, binary.LittleEndian, uint32(0))
		binary.Write(buf, binary.LittleEndian, label.Position)
	}

	return buf.Bytes()
}

// adtlChunkPayload builds the LIST chunk payload: the adtl form type
// followed by one labl sub-chunk per label. Each sub-chunk carries the cue
// point ID it annotates and the NUL-terminated text; the declared sub-chunk
// size counts the NUL, and odd-sized records get a pad byte that the size
// field does not count.
func adtlChunkPayload(labels []Label) []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write(CIDAdtl[:])

	for i, label := range labels {
		buf.Write(CIDLabl[:])
		binary.Write(buf, binary.LittleEndian, 4+label.storedLen())
		binary.Write(buf, binary.LittleEndian, uint32(i+1))
		buf.Write(label.Text)
		buf.WriteByte(0)

		if label.storedLen()%2 == 1 {
			buf.WriteByte(0)
		}
	}

	return buf.Bytes()
}
