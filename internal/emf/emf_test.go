package emf

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"testing/quick"
)

// buildHeader assembles a minimal EMR_HEADER with the given frame rectangle
// in 0.01mm units.
func buildHeader(left, top, right, bottom int32) []byte {
	data := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(data[0:4], recordTypeHeader)
	binary.LittleEndian.PutUint32(data[4:8], headerSize)
	binary.LittleEndian.PutUint32(data[frameOffset:frameOffset+4], uint32(left))
	binary.LittleEndian.PutUint32(data[frameOffset+4:frameOffset+8], uint32(top))
	binary.LittleEndian.PutUint32(data[frameOffset+8:frameOffset+12], uint32(right))
	binary.LittleEndian.PutUint32(data[frameOffset+12:frameOffset+16], uint32(bottom))
	binary.LittleEndian.PutUint32(data[signatureOffset:signatureOffset+4], signature)
	return data
}

func TestIsEMF(t *testing.T) {
	if !IsEMF(buildHeader(0, 0, 100, 100)) {
		t.Error("valid header not recognized")
	}
	if IsEMF(nil) {
		t.Error("nil input recognized")
	}
	if IsEMF([]byte("definitely not a metafile, just text padding out 44B")) {
		t.Error("text input recognized")
	}
	broken := buildHeader(0, 0, 100, 100)
	binary.LittleEndian.PutUint32(broken[signatureOffset:], 0xDEADBEEF)
	if IsEMF(broken) {
		t.Error("corrupt signature recognized")
	}
}

func TestProbeSize(t *testing.T) {
	// 2540 units = 25.4mm = 1in = 96px.
	w, h := ProbeSize(buildHeader(0, 0, 2540, 5080))
	if math.Abs(w-96) > 1e-9 || math.Abs(h-192) > 1e-9 {
		t.Errorf("ProbeSize = %v×%v, want 96×192", w, h)
	}

	// Non-zero origin only shifts the frame, the extent is what counts.
	w2, h2 := ProbeSize(buildHeader(1000, 1000, 3540, 6080))
	if w2 != w || h2 != h {
		t.Errorf("shifted frame changed the size: %v×%v vs %v×%v", w2, h2, w, h)
	}
}

func TestProbeSize_Fallback(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("short"),
		buildHeader(0, 0, 0, 0),
		buildHeader(100, 100, 50, 50),
	}
	for i, data := range cases {
		if w, h := ProbeSize(data); w != defaultWidth || h != defaultHeight {
			t.Errorf("case %d: ProbeSize = %v×%v, want defaults", i, w, h)
		}
	}
}

func TestEncodeDataURI_RoundTrip(t *testing.T) {
	payload := buildHeader(0, 0, 2540, 2540)
	uri, err := EncodeDataURI(payload)
	if err != nil {
		t.Fatalf("EncodeDataURI: %v", err)
	}
	data, mime, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if mime != MimeType {
		t.Errorf("mime = %q, want %q", mime, MimeType)
	}
	if !bytes.Equal(data, payload) {
		t.Error("round trip modified the payload")
	}
}

func TestEncodeDataURI_Rejects(t *testing.T) {
	if _, err := EncodeDataURI(nil); err == nil {
		t.Error("empty payload accepted")
	}
	if _, err := EncodeDataURI(make([]byte, maxPayloadSize+1)); err == nil {
		t.Error("oversized payload accepted")
	}
}

func TestDecodeDataURI_Rejects(t *testing.T) {
	for _, uri := range []string{
		"",
		"http://example.com/x.emf",
		"data:image/emf;base64",
		"data:image/emf,plain",
		"data:image/emf;base64,@@@@",
	} {
		if _, _, err := DecodeDataURI(uri); err == nil {
			t.Errorf("DecodeDataURI(%q) should fail", uri)
		}
	}
}

func TestProperty_EncodePreservesBytes(t *testing.T) {
	f := func(payload []byte) bool {
		if len(payload) == 0 {
			return true
		}
		uri, err := EncodeDataURI(payload)
		if err != nil {
			return false
		}
		data, _, err := DecodeDataURI(uri)
		return err == nil && bytes.Equal(data, payload)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
