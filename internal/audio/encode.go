package audio

import (
	"bytes"
	"fmt"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

// OutputBitDepth is the integer depth every encoded WAV is written with.
const OutputBitDepth = 16

// EncodeWAV encodes a PCM buffer as 16-bit integer WAV bytes using the
// buffer's sample rate and channel count. Samples outside [-1, 1] are clipped.
func EncodeWAV(pcm PCM) ([]byte, error) {
	if pcm.SampleRate < 1 {
		return nil, fmt.Errorf("invalid sample rate: %d", pcm.SampleRate)
	}
	if pcm.Channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", pcm.Channels)
	}
	if len(pcm.Samples)%pcm.Channels != 0 {
		return nil, fmt.Errorf("%w: %d samples do not divide into %d channels",
			ErrFormatMismatch, len(pcm.Samples), pcm.Channels)
	}

	var buf bytes.Buffer

	// wav.NewEncoder requires an io.WriteSeeker; bytes.Buffer is not one.
	sw := &seekBuffer{buf: &buf}

	enc := wav.NewEncoder(sw, pcm.SampleRate, OutputBitDepth, pcm.Channels, 1) // 1 = PCM

	pcmBuf := &goaudio.Float32Buffer{
		Data:           clip(pcm.Samples),
		Format:         &goaudio.Format{SampleRate: pcm.SampleRate, NumChannels: pcm.Channels},
		SourceBitDepth: OutputBitDepth,
	}

	if err := enc.Write(pcmBuf); err != nil {
		return nil, fmt.Errorf("writing PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing encoder: %w", err)
	}

	return buf.Bytes(), nil
}

func clip(samples []float32) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		switch {
		case s > 1:
			out[i] = 1
		case s < -1:
			out[i] = -1
		default:
			out[i] = s
		}
	}

	return out
}

// seekBuffer wraps a bytes.Buffer to satisfy io.WriteSeeker.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if s.pos == s.buf.Len() {
		n, err := s.buf.Write(p)
		s.pos += n
		return n, err
	}
	// Writing in the middle: overwrite existing bytes, then extend.
	data := s.buf.Bytes()
	n := copy(data[s.pos:], p)
	if n < len(p) {
		data = append(data, p[n:]...)
		s.buf.Reset()
		s.buf.Write(data)
		n = len(p)
	}
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case 0: // io.SeekStart
		newPos = int(offset)
	case 1: // io.SeekCurrent
		newPos = s.pos + int(offset)
	case 2: // io.SeekEnd
		newPos = s.buf.Len() + int(offset)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("seek before start")
	}
	s.pos = newPos
	return int64(newPos), nil
}
