package audio

import "time"

// Waveform is mono PCM audio normalized to [-1, 1].
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length.
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	seconds := float64(len(w.Samples)) / float64(w.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// Seconds returns the waveform length in seconds.
func (w *Waveform) Seconds() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Slice returns the samples between start and end (seconds), clamped to
// the waveform bounds.
func (w *Waveform) Slice(start, end float64) []float64 {
	startFrame := int(start * float64(w.SampleRate))
	endFrame := int(end * float64(w.SampleRate))
	if startFrame < 0 {
		startFrame = 0
	}
	if endFrame > len(w.Samples) {
		endFrame = len(w.Samples)
	}
	if startFrame >= endFrame {
		return nil
	}
	return w.Samples[startFrame:endFrame]
}

// Downmix averages multi-channel samples into one mono channel.
// Channels must be equal length; extra samples in longer channels are
// ignored.
func Downmix(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	if len(channels) == 1 {
		return channels[0]
	}

	n := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}

	mono := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for _, ch := range channels {
			sum += ch[i]
		}
		mono[i] = sum / float64(len(channels))
	}
	return mono
}
