package wavmark

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

var (
	// ErrNotRIFF is returned when the input does not start with a RIFF header.
	ErrNotRIFF = errors.New("input is not a RIFF file")
	// ErrNotWAVE is returned when the RIFF form type is not WAVE.
	ErrNotWAVE = errors.New("input is not a WAVE file")
	// ErrEmptyPayload is returned when the header declares no content beyond
	// the form type.
	ErrEmptyPayload = errors.New("input is an empty WAVE file")
	// ErrUnsupportedFormat is returned for any compression code other than
	// PCM (1) or IEEE float (3).
	ErrUnsupportedFormat = errors.New("compressed audio formats are not supported")
	// ErrIncompleteInput is returned when the container holds no fmt chunk or
	// no data chunk.
	ErrIncompleteInput = errors.New("input has no format chunk or no sample data")

	errFmtChunkTooShort = errors.New("fmt chunk shorter than 16 bytes")
)

// Scanner indexes the top-level chunks of a WAV container. It decodes the
// fmt chunk, records the data chunk and every unrecognized chunk as byte
// ranges for later verbatim copy, and drops pre-existing cue and adtl LIST
// chunks. Payload bytes are never buffered.
type Scanner struct {
	r      io.ReadSeeker
	parser *riff.Parser

	FmtChunk *FmtChunk
	// FmtDeclSize is the fmt chunk size as declared by the input, preserved
	// on output (16 plus any extension bytes).
	FmtDeclSize uint32
	// FmtExtra locates the opaque fmt extension region, if any.
	FmtExtra ByteRange
	// Data covers the data chunk including its 8-byte header.
	Data ByteRange
	// Preserved lists unrecognized chunks in discovery order.
	Preserved []PreservedChunk

	// DroppedCues and DroppedLabels count pre-existing cue chunks and adtl
	// LIST chunks that were discarded during the scan.
	DroppedCues   int
	DroppedLabels int

	scanned bool
}

// NewScanner creates a scanner for the passed WAV reader.
// Note that the reader is not rewound as the container is processed.
func NewScanner(r io.ReadSeeker) *Scanner {
	return &Scanner{
		r:      r,
		parser: riff.New(r),
	}
}

// Scan reads the container once, front to back. It is safe to call multiple
// times; subsequent calls are no-ops.
func (s *Scanner) Scan() error {
	if s == nil {
		return ErrIncompleteInput
	}

	if s.scanned {
		return nil
	}

	s.scanned = true

	err := s.readHeader()
	if err != nil {
		return err
	}

	for {
		id, size, err := s.parser.IDnSize()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("failed to read chunk header: %w", err)
		}

		switch id {
		case riff.FmtID:
			err = s.readFmtChunk(size)
		case riff.DataFormatID:
			err = s.recordDataChunk(size)
		case CIDCue:
			s.DroppedCues++
			err = s.skipPayload(size)
		case CIDList:
			err = s.classifyListChunk(size)
		default:
			err = s.preserveChunk(id, size)
		}

		if err != nil {
			return err
		}
	}

	if s.FmtChunk == nil || s.Data.empty() {
		return ErrIncompleteInput
	}

	return nil
}

// Format returns the audio format described by the scanned fmt chunk.
func (s *Scanner) Format() *audio.Format {
	if s == nil || s.FmtChunk == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(s.FmtChunk.NumChannels),
		SampleRate:  int(s.FmtChunk.SampleRate),
	}
}

func (s *Scanner) readHeader() error {
	id, size, err := s.parser.IDnSize()
	if err != nil {
		return fmt.Errorf("failed to read the RIFF header: %w", err)
	}

	if id != riff.RiffID {
		return fmt.Errorf("%q: %w", id, ErrNotRIFF)
	}

	s.parser.ID = id
	s.parser.Size = size

	err = binary.Read(s.r, binary.BigEndian, &s.parser.Format)
	if err != nil {
		return fmt.Errorf("failed to read the RIFF form type: %w", err)
	}

	if s.parser.Format != riff.WavFormatID {
		return fmt.Errorf("%q: %w", s.parser.Format, ErrNotWAVE)
	}

	// the declared size counts the 4-byte form type; anything at or below
	// that leaves no room for chunks.
	if size <= 4 {
		return ErrEmptyPayload
	}

	return nil
}

func (s *Scanner) readFmtChunk(size uint32) error {
	if size < fmtChunkCoreSize {
		return fmt.Errorf("%w: declared %d bytes", errFmtChunkTooShort, size)
	}

	fmtChunk := &FmtChunk{}

	err := binary.Read(s.r, binary.LittleEndian, fmtChunk)
	if err != nil {
		return fmt.Errorf("failed to read the fmt chunk: %w", err)
	}

	if !fmtChunk.uncompressed() {
		return fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, fmtChunk.FormatTag)
	}

	s.FmtChunk = fmtChunk
	s.FmtDeclSize = size

	s.parser.NumChannels = fmtChunk.NumChannels
	s.parser.SampleRate = fmtChunk.SampleRate
	s.parser.AvgBytesPerSec = fmtChunk.AvgBytesPerSec
	s.parser.BlockAlign = fmtChunk.BlockAlign
	s.parser.BitsPerSample = fmtChunk.BitsPerSample
	s.parser.WavAudioFormat = fmtChunk.FormatTag

	if size == fmtChunkCoreSize {
		return nil
	}

	start, err := s.pos()
	if err != nil {
		return err
	}

	s.FmtExtra = ByteRange{Offset: start, Size: size - fmtChunkCoreSize}

	return s.skipPayload(size - fmtChunkCoreSize)
}

func (s *Scanner) recordDataChunk(size uint32) error {
	start, err := s.pos()
	if err != nil {
		return err
	}

	s.Data = ByteRange{Offset: start - chunkHeaderSize, Size: chunkHeaderSize + size}

	return s.skipPayload(size)
}

// classifyListChunk drops adtl lists (labels are always regenerated) and
// preserves every other LIST form verbatim.
func (s *Scanner) classifyListChunk(size uint32) error {
	if size < 4 {
		return s.preserveChunk(CIDList, size)
	}

	var formType [4]byte

	_, err := io.ReadFull(s.r, formType[:])
	if err != nil {
		return fmt.Errorf("failed to read the LIST form type: %w", err)
	}

	if formType == CIDAdtl {
		s.DroppedLabels++

		// the pad byte depends on the full chunk size, whose parity the
		// consumed form type does not change.
		return s.skipPayload(size - 4)
	}

	start, err := s.pos()
	if err != nil {
		return err
	}

	s.Preserved = append(s.Preserved, PreservedChunk{
		ID:    CIDList,
		Range: ByteRange{Offset: start - chunkHeaderSize - 4, Size: chunkHeaderSize + size},
	})

	return s.skipPayload(size - 4)
}

func (s *Scanner) preserveChunk(id [4]byte, size uint32) error {
	start, err := s.pos()
	if err != nil {
		return err
	}

	s.Preserved = append(s.Preserved, PreservedChunk{
		ID:    id,
		Range: ByteRange{Offset: start - chunkHeaderSize, Size: chunkHeaderSize + size},
	})

	return s.skipPayload(size)
}

// skipPayload advances past n payload bytes plus the word-alignment pad byte
// odd payloads carry.
func (s *Scanner) skipPayload(n uint32) error {
	_, err := s.r.Seek(int64(n+n%2), io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("failed to skip chunk payload: %w", err)
	}

	return nil
}

func (s *Scanner) pos() (int64, error) {
	p, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("failed to query input position: %w", err)
	}

	return p, nil
}
