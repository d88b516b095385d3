package cluster

import (
	"math"

	"github.com/kbukum/chatalign/audio"
)

const (
	// windowSeconds is the length of each candidate speech window.
	windowSeconds = 3.0
	// hopSeconds is the stride between window starts (50% overlap).
	hopSeconds = 1.5
	// frameSeconds is the length of each energy frame inside a window.
	frameSeconds = 0.025
	// energyRatio marks a frame active when its energy exceeds this
	// fraction of the peak frame energy.
	energyRatio = 0.05
	// activeRatio keeps a window when more than this fraction of its
	// frames are active.
	activeRatio = 0.20
)

// window is a candidate speech region in seconds.
type window struct {
	Start float64
	End   float64
}

// detectSpeech runs energy-based voice activity detection over the
// waveform and returns overlapping windows that contain speech. When
// no window passes the energy test the audio is tiled uniformly so a
// non-empty waveform always yields at least one window.
func detectSpeech(wf *audio.Waveform) []window {
	total := wf.Seconds()
	if total <= 0 {
		return nil
	}

	peak := peakFrameEnergy(wf)
	threshold := peak * energyRatio

	var windows []window
	for start := 0.0; start < total; start += hopSeconds {
		end := start + windowSeconds
		if end > total {
			end = total
		}
		if end-start < frameSeconds {
			break
		}
		seg := wf.Slice(start, end)
		if activeFraction(seg, wf.SampleRate, threshold) > activeRatio {
			windows = append(windows, window{Start: start, End: end})
		}
		if end >= total {
			break
		}
	}

	if len(windows) == 0 {
		windows = tileUniform(total)
	}
	return windows
}

// tileUniform covers the waveform with back-to-back fixed-length
// windows, used when the energy detector finds no speech.
func tileUniform(total float64) []window {
	var windows []window
	for start := 0.0; start < total; start += windowSeconds {
		end := start + windowSeconds
		if end > total {
			end = total
		}
		windows = append(windows, window{Start: start, End: end})
	}
	return windows
}

// peakFrameEnergy returns the maximum mean-square energy across all
// frames of the waveform.
func peakFrameEnergy(wf *audio.Waveform) float64 {
	frameLen := int(frameSeconds * float64(wf.SampleRate))
	if frameLen <= 0 {
		frameLen = 1
	}
	peak := 0.0
	for i := 0; i < len(wf.Samples); i += frameLen {
		end := i + frameLen
		if end > len(wf.Samples) {
			end = len(wf.Samples)
		}
		e := frameEnergy(wf.Samples[i:end])
		if e > peak {
			peak = e
		}
	}
	return peak
}

// activeFraction returns the fraction of frames in the sample slice
// whose energy exceeds the threshold.
func activeFraction(samples []float64, sampleRate int, threshold float64) float64 {
	frameLen := int(frameSeconds * float64(sampleRate))
	if frameLen <= 0 {
		frameLen = 1
	}
	total := 0
	active := 0
	for i := 0; i+frameLen <= len(samples); i += frameLen {
		total++
		if frameEnergy(samples[i:i+frameLen]) > threshold {
			active++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(active) / float64(total)
}

// frameEnergy is the mean-square energy of a sample frame.
func frameEnergy(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return sum / float64(len(samples))
}

// roundHalf rounds to the nearest integer with ties away from zero.
func roundHalf(v float64) int {
	return int(math.Round(v))
}
