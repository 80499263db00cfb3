// Package wav encodes stereo float64 PCM as a 16-bit RIFF/WAVE file.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Encode writes interleaved 16-bit stereo PCM. Samples outside [-1,1] are
// clipped during conversion.
func Encode(w io.Writer, left, right []float64, sampleRate int) error {
	if len(left) != len(right) {
		return fmt.Errorf("channel length mismatch: %d vs %d", len(left), len(right))
	}
	const (
		channels      = 2
		bitsPerSample = 16
	)
	blockAlign := channels * bitsPerSample / 8
	dataSize := len(left) * blockAlign

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], channels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	frame := make([]byte, blockAlign)
	for i := range left {
		binary.LittleEndian.PutUint16(frame[0:2], uint16(toPCM16(left[i])))
		binary.LittleEndian.PutUint16(frame[2:4], uint16(toPCM16(right[i])))
		if _, err := w.Write(frame); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile encodes to a file path.
func WriteFile(path string, left, right []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, left, right, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toPCM16(s float64) int16 {
	v := math.Round(s * 32767.0)
	if v > 32767 {
		v = 32767
	} else if v < -32768 {
		v = -32768
	}
	return int16(v)
}

// ToPCM16Interleaved converts the channels to the interleaved int16 frames
// the playback device consumes.
func ToPCM16Interleaved(left, right []float64) []int16 {
	out := make([]int16, 2*len(left))
	for i := range left {
		out[2*i] = toPCM16(left[i])
		out[2*i+1] = toPCM16(right[i])
	}
	return out
}
