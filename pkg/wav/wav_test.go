package wav

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeHeader(t *testing.T) {
	left := []float64{0, 0.5, -0.5, 1.0}
	right := []float64{0, -0.5, 0.5, -1.0}

	var buf bytes.Buffer
	if err := Encode(&buf, left, right, 44100); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if len(b) != 44+4*4 {
		t.Fatalf("encoded size = %d, want %d", len(b), 44+16)
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE magic")
	}
	if rate := binary.LittleEndian.Uint32(b[24:28]); rate != 44100 {
		t.Errorf("sample rate = %d", rate)
	}
	if bits := binary.LittleEndian.Uint16(b[34:36]); bits != 16 {
		t.Errorf("bits per sample = %d", bits)
	}
	if size := binary.LittleEndian.Uint32(b[40:44]); size != 16 {
		t.Errorf("data size = %d", size)
	}

	// Full scale clips to the int16 extremes.
	last := int16(binary.LittleEndian.Uint16(b[44+12 : 44+14]))
	if last != 32767 {
		t.Errorf("full-scale sample = %d, want 32767", last)
	}
}

func TestEncodeChannelMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, make([]float64, 3), make([]float64, 4), 44100); err == nil {
		t.Fatal("expected error for mismatched channels")
	}
}

func TestToPCM16Interleaved(t *testing.T) {
	out := ToPCM16Interleaved([]float64{1.0, -1.0}, []float64{0, 0.5})
	want := []int16{32767, 0, -32767, 16384}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("frame %d = %d, want %d", i, out[i], want[i])
		}
	}
}
