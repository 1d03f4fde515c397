// Package audio reads, writes and mixes uncompressed PCM chime samples.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/wav"
)

// ErrFormatMismatch is returned when two PCM buffers cannot be combined or a
// decoded WAV carries an unusable format.
var ErrFormatMismatch = errors.New("WAV format mismatch")

// PCM is a decoded sample buffer. Samples are interleaved by channel and
// scaled to [-1, 1].
type PCM struct {
	Samples    []float32
	SampleRate int
	Channels   int
	BitDepth   int
}

// DecodeWAV decodes WAV bytes into a PCM buffer, keeping the source format.
func DecodeWAV(data []byte) (PCM, error) {
	if len(data) == 0 {
		return PCM{}, errors.New("empty WAV input")
	}

	r := bytes.NewReader(data)
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return PCM{}, errors.New("invalid WAV file")
	}

	if dec.SampleRate == 0 {
		return PCM{}, fmt.Errorf("%w: sample rate 0", ErrFormatMismatch)
	}
	if dec.NumChans == 0 {
		return PCM{}, fmt.Errorf("%w: zero channels", ErrFormatMismatch)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return PCM{}, fmt.Errorf("reading PCM data: %w", err)
	}

	return PCM{
		Samples:    buf.Data,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, nil
}

// DecodeWAVFile reads and decodes the WAV file at path.
func DecodeWAVFile(path string) (PCM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PCM{}, err
	}

	pcm, err := DecodeWAV(data)
	if err != nil {
		return PCM{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return pcm, nil
}
