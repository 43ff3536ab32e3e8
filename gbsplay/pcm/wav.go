// Package pcm supplies concrete audio.Sink implementations: a WAV file
// writer for offline rendering and an oto-backed live sink for real-time
// playback (spec.md §5/§6.3 leave the sink "out of scope" beyond the
// []int16 contract; this package is where gbsplay actually satisfies it).
package pcm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WAVWriter is an audio.Sink that writes interleaved stereo int16
// samples to a standard RIFF/WAVE file as they arrive. A placeholder
// header is written up front and rewritten on Close once the final
// sample count is known, the same
// struct-to-bytes-then-seek-back approach the teacher uses for its
// save-state header (jeebie/memory/cartridge.go's fixed-offset layout).
type WAVWriter struct {
	w          io.WriteSeeker
	sampleRate int
	channels   int
	dataBytes  uint32
}

const wavHeaderSize = 44

// NewWAVWriter writes a placeholder header immediately and returns a
// sink ready to accept samples; call Close to patch in the final sizes.
func NewWAVWriter(w io.WriteSeeker, sampleRate int) (*WAVWriter, error) {
	ww := &WAVWriter{w: w, sampleRate: sampleRate, channels: 2}
	if err := ww.writeHeader(); err != nil {
		return nil, fmt.Errorf("pcm: write wav header: %w", err)
	}
	return ww, nil
}

func (w *WAVWriter) writeHeader() error {
	const bitsPerSample = 16
	byteRate := w.sampleRate * w.channels * bitsPerSample / 8
	blockAlign := w.channels * bitsPerSample / 8

	var header [wavHeaderSize]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+w.dataBytes)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(w.channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(w.sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], w.dataBytes)

	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := w.w.Write(header[:])
	return err
}

// Write appends interleaved stereo samples to the file, implementing
// audio.Sink.
func (w *WAVWriter) Write(samples []int16) error {
	if _, err := w.w.Seek(int64(wavHeaderSize+w.dataBytes), io.SeekStart); err != nil {
		return fmt.Errorf("pcm: seek to data end: %w", err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("pcm: write samples: %w", err)
	}
	w.dataBytes += uint32(len(samples)) * 2
	return nil
}

// Close patches the RIFF/data chunk sizes now that the final length is
// known. It does not close the underlying writer.
func (w *WAVWriter) Close() error {
	return w.writeHeader()
}
