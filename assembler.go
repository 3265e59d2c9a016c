package wavmark

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// copyBufferSize bounds the memory used when relocating chunk payloads from
// input to output.
const copyBufferSize = 32 * 1024

var errShortRangeCopy = errors.New("input ended before the end of a chunk")

// assembler writes the output container in a single append-only pass. All
// sizes are known before the first byte is written, so no seek-back patching
// is needed; a failed write leaves the output invalid and unusable.
type assembler struct {
	in  io.ReadSeeker
	w   io.Writer
	buf []byte
}

// writeContainer assembles the output: header, fmt chunk with its preserved
// extension, the relocated data chunk, the regenerated cue and adtl LIST
// chunks, then every preserved chunk in discovery order.
func writeContainer(in io.ReadSeeker, w io.Writer, scan *Scanner, labels []Label) error {
	cue := cueChunkPayload(labels)
	list := adtlChunkPayload(labels)

	a := &assembler{in: in, w: w, buf: make([]byte, copyBufferSize)}

	err := a.writeHeader(outputDataSize(scan, len(cue), len(list)))
	if err != nil {
		return err
	}

	err = a.writeFmtChunk(scan)
	if err != nil {
		return err
	}

	err = a.copyRange(scan.Data)
	if err != nil {
		return fmt.Errorf("failed to copy the data chunk: %w", err)
	}

	err = a.writeChunk(CIDCue, cue)
	if err != nil {
		return err
	}

	err = a.writeChunk(CIDList, list)
	if err != nil {
		return err
	}

	for _, preserved := range scan.Preserved {
		err = a.copyRange(preserved.Range)
		if err != nil {
			return fmt.Errorf("failed to copy chunk %q: %w", preserved.ID, err)
		}
	}

	return nil
}

// outputDataSize computes the header's size field: everything after the
// size field itself, including the 4-byte form type and every pad byte.
func outputDataSize(scan *Scanner, cueLen, listLen int) uint32 {
	size := uint32(4) // the form type "WAVE"
	size += chunkHeaderSize + fmtChunkCoreSize + scan.FmtExtra.paddedSize()
	size += scan.Data.paddedSize()
	size += chunkHeaderSize + paddedLen(cueLen)
	size += chunkHeaderSize + paddedLen(listLen)

	for _, preserved := range scan.Preserved {
		size += preserved.Range.paddedSize()
	}

	return size
}

func paddedLen(n int) uint32 {
	return uint32(n + n%2)
}

func (a *assembler) writeHeader(dataSize uint32) error {
	err := a.writeLE(riff.RiffID)
	if err != nil {
		return fmt.Errorf("failed to write the RIFF header: %w", err)
	}

	err = a.writeLE(dataSize)
	if err != nil {
		return fmt.Errorf("failed to write the header size field: %w", err)
	}

	err = a.writeLE(riff.WavFormatID)
	if err != nil {
		return fmt.Errorf("failed to write the WAVE form type: %w", err)
	}

	return nil
}

// writeFmtChunk re-emits the fmt chunk with its original declared size and
// copies the opaque extension region, if any, straight from the input.
func (a *assembler) writeFmtChunk(scan *Scanner) error {
	err := a.writeLE(riff.FmtID)
	if err != nil {
		return fmt.Errorf("failed to write the fmt chunk ID: %w", err)
	}

	err = a.writeLE(scan.FmtDeclSize)
	if err != nil {
		return fmt.Errorf("failed to write the fmt chunk size: %w", err)
	}

	err = a.writeLE(scan.FmtChunk)
	if err != nil {
		return fmt.Errorf("failed to write the fmt chunk fields: %w", err)
	}

	if scan.FmtExtra.empty() {
		return nil
	}

	err = a.copyRange(scan.FmtExtra)
	if err != nil {
		return fmt.Errorf("failed to copy the fmt extension: %w", err)
	}

	return nil
}

func (a *assembler) writeChunk(id [4]byte, payload []byte) error {
	err := a.writeLE(id)
	if err != nil {
		return fmt.Errorf("failed to write chunk ID %q: %w", id, err)
	}

	err = a.writeLE(uint32(len(payload)))
	if err != nil {
		return fmt.Errorf("failed to write chunk size %q: %w", id, err)
	}

	_, err = a.w.Write(payload)
	if err != nil {
		return fmt.Errorf("failed to write chunk payload %q: %w", id, err)
	}

	if len(payload)%2 == 1 {
		return a.writePad()
	}

	return nil
}

// copyRange relocates a byte range from the input to the output through the
// bounded copy buffer, then pads odd-sized ranges to the word boundary.
func (a *assembler) copyRange(r ByteRange) error {
	if r.empty() {
		return nil
	}

	_, err := a.in.Seek(r.Offset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("failed to seek input to offset %d: %w", r.Offset, err)
	}

	n, err := io.CopyBuffer(a.w, io.LimitReader(a.in, int64(r.Size)), a.buf)
	if err != nil {
		return fmt.Errorf("failed to copy %d bytes from offset %d: %w", r.Size, r.Offset, err)
	}

	if n != int64(r.Size) {
		return fmt.Errorf("%w: copied %d of %d bytes", errShortRangeCopy, n, r.Size)
	}

	if r.Size%2 == 1 {
		return a.writePad()
	}

	return nil
}

func (a *assembler) writeLE(src any) error {
	err := binary.Write(a.w, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

func (a *assembler) writePad() error {
	_, err := a.w.Write([]byte{0})
	if err != nil {
		return fmt.Errorf("failed to write padding byte: %w", err)
	}

	return nil
}
