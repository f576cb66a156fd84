package audio

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// Cue parameters. The beep is a short square-wave blip for a failed attempt;
// the applause is three band-filtered noise bursts for a near-perfect one.
const (
	beepFrequency = 320.0 // Hz
	beepDuration  = 0.36  // seconds, oscillator stop time
	beepAttackEnd = 0.02  // seconds, end of the attack ramp
	beepDecayEnd  = 0.35  // seconds, end of the decay ramp
	beepPeakGain  = 0.25
	beepFloorGain = 0.001

	applauseBurstDuration = 0.8 // seconds per noise burst
	applauseBurstGain     = 0.6
	applauseBandpassFreq  = 1800.0 // Hz
	applauseBandpassQ     = 0.7
)

// applauseOnsets are the start times of the three noise bursts in seconds.
var applauseOnsets = []float64{0, 0.12, 0.25}

// ErrorBeep renders the failure cue as 16-bit mono PCM at the given sample
// rate: a 320 Hz square wave with a fast exponential attack and a long
// exponential decay.
func ErrorBeep(sampleRate int) []byte {
	n := int(beepDuration * float64(sampleRate))
	out := make([]byte, n*2)

	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)

		// Square oscillator.
		phase := math.Mod(t*beepFrequency, 1)
		s := 1.0
		if phase >= 0.5 {
			s = -1.0
		}

		s *= beepEnvelope(t)

		binary.LittleEndian.PutUint16(out[i*2:], uint16(toInt16(s)))
	}
	return out
}

// beepEnvelope follows the exponential gain ramps of the cue: floor to peak
// over the attack window, peak back to floor over the decay window, silent
// after.
func beepEnvelope(t float64) float64 {
	switch {
	case t < beepAttackEnd:
		return expRamp(beepFloorGain, beepPeakGain, t/beepAttackEnd)
	case t < beepDecayEnd:
		return expRamp(beepPeakGain, beepFloorGain, (t-beepAttackEnd)/(beepDecayEnd-beepAttackEnd))
	default:
		return 0
	}
}

// expRamp interpolates exponentially from v0 to v1 as x goes 0 → 1.
func expRamp(v0, v1, x float64) float64 {
	return v0 * math.Pow(v1/v0, x)
}

// Applause renders the success cue as 16-bit mono PCM at the given sample
// rate: three overlapping noise bursts, each with a squared decay envelope,
// shaped by a band-pass filter centred at 1.8 kHz to sound like clapping.
func Applause(sampleRate int) []byte {
	lastOnset := applauseOnsets[len(applauseOnsets)-1]
	total := int((lastOnset + applauseBurstDuration) * float64(sampleRate))
	mix := make([]float64, total)

	burstSamples := int(applauseBurstDuration * float64(sampleRate))
	for _, onset := range applauseOnsets {
		start := int(onset * float64(sampleRate))
		burst := noiseBurst(burstSamples, sampleRate)
		for i, s := range burst {
			if start+i < total {
				mix[start+i] += s * applauseBurstGain
			}
		}
	}

	out := make([]byte, total*2)
	for i, s := range mix {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(toInt16(s)))
	}
	return out
}

// noiseBurst generates one band-passed noise burst with a (1-t)² decay.
func noiseBurst(n, sampleRate int) []float64 {
	raw := make([]float64, n)
	for i := range raw {
		t := float64(i) / float64(n)
		env := (1 - t) * (1 - t)
		raw[i] = (rand.Float64()*2 - 1) * env * 0.6
	}

	f := newBandpass(applauseBandpassFreq, applauseBandpassQ, sampleRate)
	for i, s := range raw {
		raw[i] = f.process(s)
	}
	return raw
}

// bandpass is a biquad band-pass filter (constant skirt gain form from the
// Audio EQ Cookbook).
type bandpass struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newBandpass(freq, q float64, sampleRate int) *bandpass {
	w0 := 2 * math.Pi * freq / float64(sampleRate)
	alpha := math.Sin(w0) / (2 * q)
	cosW0 := math.Cos(w0)
	a0 := 1 + alpha
	return &bandpass{
		b0: alpha / a0,
		b1: 0,
		b2: -alpha / a0,
		a1: -2 * cosW0 / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *bandpass) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

// toInt16 clips a [-1, 1] float sample to the int16 range.
func toInt16(s float64) int16 {
	s = max(-1, min(1, s))
	return int16(s * 32767)
}
