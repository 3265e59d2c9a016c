package wavmark

import (
	"bytes"
	"testing"
)

func TestCueChunkPayloadLayout(t *testing.T) {
	labels := []Label{
		{Position: 44100, Text: []byte("Intro")},
		{Position: 132300, Text: []byte("Outro")},
	}

	payload := cueChunkPayload(labels)

	if len(payload) != 4+2*cuePointSize {
		t.Fatalf("payload length %d, want %d", len(payload), 4+2*cuePointSize)
	}

	points, err := parseCuePayload(payload)
	if err != nil {
		t.Fatalf("parse cue payload: %v", err)
	}

	for i, p := range points {
		if p.id != uint32(i+1) {
			t.Fatalf("point %d: id %d, want %d", i, p.id, i+1)
		}

		if p.position != labels[i].Position || p.frameOffset != labels[i].Position {
			t.Fatalf("point %d: position %d / frame offset %d, want %d", i, p.position, p.frameOffset, labels[i].Position)
		}

		if p.dataChunkID != "data" {
			t.Fatalf("point %d: data chunk ID %q", i, p.dataChunkID)
		}

		if p.chunkStart != 0 || p.blockStart != 0 {
			t.Fatalf("point %d: locator fields must be zero, got %d/%d", i, p.chunkStart, p.blockStart)
		}
	}
}

func TestCueChunkPayloadGolden(t *testing.T) {
	payload := cueChunkPayload([]Label{{Position: 0x01020304, Text: []byte("x")}})

	want := []byte{
		0x01, 0x00, 0x00, 0x00, // count
		0x01, 0x00, 0x00, 0x00, // cue point ID
		0x04, 0x03, 0x02, 0x01, // play order position
		'd', 'a', 't', 'a',
		0x00, 0x00, 0x00, 0x00, // chunk start
		0x00, 0x00, 0x00, 0x00, // block start
		0x04, 0x03, 0x02, 0x01, // frame offset
	}
	if !bytes.Equal(payload, want) {
		t.Fatalf("payload mismatch:\ngot  %v\nwant %v", payload, want)
	}
}

func TestCueChunkPayloadKeepsTiesInInputOrder(t *testing.T) {
	labels := []Label{
		{Position: 100, Text: []byte("first")},
		{Position: 100, Text: []byte("second")},
		{Position: 50, Text: []byte("third")},
	}

	points, err := parseCuePayload(cueChunkPayload(labels))
	if err != nil {
		t.Fatalf("parse cue payload: %v", err)
	}

	wantPositions := []uint32{100, 100, 50}
	for i, p := range points {
		if p.id != uint32(i+1) || p.position != wantPositions[i] {
			t.Fatalf("point %d out of input order: %+v", i, p)
		}
	}
}

func TestAdtlChunkPayloadPadding(t *testing.T) {
	tests := []struct {
		text       string
		storedLen  uint32
		recordSize int // labl header + cue ID + stored text + pad
	}{
		{text: "Intro", storedLen: 6, recordSize: 8 + 4 + 6},    // even, no pad
		{text: "Odds", storedLen: 5, recordSize: 8 + 4 + 5 + 1}, // odd, one pad
		{text: "", storedLen: 1, recordSize: 8 + 4 + 1 + 1},
	}

	for _, tc := range tests {
		payload := adtlChunkPayload([]Label{{Position: 7, Text: []byte(tc.text)}})

		if len(payload) != 4+tc.recordSize {
			t.Fatalf("%q: payload length %d, want %d", tc.text, len(payload), 4+tc.recordSize)
		}

		parsed, err := parseAdtlPayload(payload)
		if err != nil {
			t.Fatalf("%q: parse adtl payload: %v", tc.text, err)
		}

		if len(parsed) != 1 {
			t.Fatalf("%q: expected 1 labl record, got %d", tc.text, len(parsed))
		}

		if parsed[0].declaredSize != 4+tc.storedLen {
			t.Fatalf("%q: declared size %d, want %d", tc.text, parsed[0].declaredSize, 4+tc.storedLen)
		}

		wantText := append([]byte(tc.text), 0)
		if !bytes.Equal(parsed[0].text, wantText) {
			t.Fatalf("%q: stored text %v, want %v", tc.text, parsed[0].text, wantText)
		}
	}
}

func TestAdtlChunkPayloadBackReferences(t *testing.T) {
	labels := []Label{
		{Position: 1, Text: []byte("a")},
		{Position: 2, Text: []byte("bb")},
		{Position: 3, Text: []byte("ccc")},
	}

	parsed, err := parseAdtlPayload(adtlChunkPayload(labels))
	if err != nil {
		t.Fatalf("parse adtl payload: %v", err)
	}

	if len(parsed) != 3 {
		t.Fatalf("expected 3 labl records, got %d", len(parsed))
	}

	for i, rec := range parsed {
		if rec.cueID != uint32(i+1) {
			t.Fatalf("record %d: cue ID %d, want %d", i, rec.cueID, i+1)
		}
	}
}

func TestAdtlChunkPayloadSizeFormula(t *testing.T) {
	labels := []Label{
		{Position: 1, Text: []byte("ab")},
		{Position: 2, Text: []byte("cdef")},
		{Position: 3, Text: []byte("g")},
	}

	var want uint32 = 4
	for _, l := range labels {
		want += 12 + l.storedLen() + l.storedLen()%2
	}

	payload := adtlChunkPayload(labels)
	if uint32(len(payload)) != want {
		t.Fatalf("payload length %d, want %d", len(payload), want)
	}

	// the regenerated LIST payload is always even, it never needs an outer pad
	if len(payload)%2 != 0 {
		t.Fatalf("payload length %d is odd", len(payload))
	}
}
