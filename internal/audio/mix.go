package audio

import (
	"math"
	"time"
)

// Frames returns the number of sample frames (one sample per channel).
func (p PCM) Frames() int {
	if p.Channels < 1 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Duration returns the playback length of the buffer.
func (p PCM) Duration() time.Duration {
	if p.SampleRate < 1 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.SampleRate)
}

// FrameAt converts a time offset into a frame index, truncating.
func (p PCM) FrameAt(d time.Duration) int {
	return int(d * time.Duration(p.SampleRate) / time.Second)
}

// Peak returns the largest absolute sample value.
func (p PCM) Peak() float32 {
	var peak float64
	for _, s := range p.Samples {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	return float32(peak)
}

// Window returns the frames in [from, to), clamped to the buffer. The
// returned buffer shares storage with p.
func (p PCM) Window(from, to time.Duration) PCM {
	start := min(max(p.FrameAt(from), 0), p.Frames())
	end := min(max(p.FrameAt(to), start), p.Frames())

	out := p
	out.Samples = p.Samples[start*p.Channels : end*p.Channels]
	return out
}

// DelayMix sums one copy of src per offset, each copy starting offset into
// the result. The result is as long as the latest-ending copy. Copies are
// added at unity gain; nothing is normalized or clipped here.
func DelayMix(src PCM, offsets []time.Duration) PCM {
	out := PCM{SampleRate: src.SampleRate, Channels: src.Channels, BitDepth: src.BitDepth}
	if len(offsets) == 0 || src.Channels < 1 {
		return out
	}

	frames := src.Frames()
	total := 0
	starts := make([]int, len(offsets))
	for i, off := range offsets {
		starts[i] = max(src.FrameAt(off), 0)
		total = max(total, starts[i]+frames)
	}

	out.Samples = make([]float32, total*src.Channels)
	for _, start := range starts {
		dst := out.Samples[start*src.Channels:]
		for i, s := range src.Samples[:frames*src.Channels] {
			dst[i] += s
		}
	}

	return out
}
