package wavmark

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

type testCuePoint struct {
	id          uint32
	position    uint32
	dataChunkID string
	chunkStart  uint32
	blockStart  uint32
	frameOffset uint32
}

type testLabel struct {
	cueID        uint32
	declaredSize uint32
	text         []byte
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
	errTruncatedPayload     = errors.New("truncated payload")
)

func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, size: size, data: payload})

		offset = end
		if size%2 == 1 {
			offset++
		}
	}

	return chunks, nil
}

func findChunk(chunks []testChunk, id string) (*testChunk, int) {
	for i := range chunks {
		if chunks[i].id == id {
			return &chunks[i], i
		}
	}

	return nil, -1
}

// buildWav assembles a synthetic container with correct padding and header
// size field from raw chunks.
func buildWav(chunks ...testChunk) []byte {
	body := bytes.NewBuffer(nil)
	body.WriteString("WAVE")

	for _, ch := range chunks {
		body.WriteString(ch.id)
		binary.Write(body, binary.LittleEndian, uint32(len(ch.data)))
		body.Write(ch.data)

		if len(ch.data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	out := bytes.NewBuffer(nil)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

// fmtChunkData builds a 16-byte fmt chunk payload, optionally followed by
// extension bytes.
func fmtChunkData(formatTag, channels uint16, sampleRate uint32, bitsPerSample uint16, extra ...byte) []byte {
	blockAlign := channels * bitsPerSample / 8

	buf := bytes.NewBuffer(nil)
	binary.Write(buf, binary.LittleEndian, formatTag)
	binary.Write(buf, binary.LittleEndian, channels)
	binary.Write(buf, binary.LittleEndian, sampleRate)
	binary.Write(buf, binary.LittleEndian, sampleRate*uint32(blockAlign))
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, bitsPerSample)
	buf.Write(extra)

	return buf.Bytes()
}

func parseCuePayload(data []byte) ([]testCuePoint, error) {
	if len(data) < 4 {
		return nil, errTruncatedPayload
	}

	count := binary.LittleEndian.Uint32(data[0:4])
	if len(data) != 4+24*int(count) {
		return nil, fmt.Errorf("%w: %d cue points in %d bytes", errTruncatedPayload, count, len(data))
	}

	points := make([]testCuePoint, 0, count)

	for off := 4; off < len(data); off += 24 {
		points = append(points, testCuePoint{
			id:          binary.LittleEndian.Uint32(data[off : off+4]),
			position:    binary.LittleEndian.Uint32(data[off+4 : off+8]),
			dataChunkID: string(data[off+8 : off+12]),
			chunkStart:  binary.LittleEndian.Uint32(data[off+12 : off+16]),
			blockStart:  binary.LittleEndian.Uint32(data[off+16 : off+20]),
			frameOffset: binary.LittleEndian.Uint32(data[off+20 : off+24]),
		})
	}

	return points, nil
}

func parseAdtlPayload(data []byte) ([]testLabel, error) {
	if len(data) < 4 || string(data[0:4]) != "adtl" {
		return nil, fmt.Errorf("%w: missing adtl form type", errTruncatedPayload)
	}

	labels := make([]testLabel, 0)

	off := 4
	for off+8 <= len(data) {
		if string(data[off:off+4]) != "labl" {
			return nil, fmt.Errorf("unexpected sub-chunk %q", data[off:off+4])
		}

		size := binary.LittleEndian.Uint32(data[off+4 : off+8])
		off += 8

		if size < 4 || off+int(size) > len(data) {
			return nil, fmt.Errorf("%w: labl record of %d bytes", errTruncatedPayload, size)
		}

		labels = append(labels, testLabel{
			cueID:        binary.LittleEndian.Uint32(data[off : off+4]),
			declaredSize: size,
			text:         append([]byte(nil), data[off+4:off+int(size)]...),
		})

		off += int(size)
		if size%2 == 1 {
			off++
		}
	}

	return labels, nil
}
