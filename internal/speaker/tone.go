package speaker

import (
	"encoding/binary"
	"io"
	"math"
	"time"
)

const (
	ToneSampleRate = 44100
	ToneAmplitude  = 12000
	// fadeSamples ramps the tone in and out so playback does not click.
	fadeSamples = ToneSampleRate / 100
)

// GenerateSineWave produces a sine wave at the given frequency and duration
// as mono int16 PCM samples at ToneSampleRate.
func GenerateSineWave(duration time.Duration, frequency float64) []int16 {
	numSamples := int(duration.Seconds() * ToneSampleRate)
	if numSamples < 0 {
		numSamples = 0
	}
	samples := make([]int16, numSamples)
	for i := range samples {
		t := float64(i) / ToneSampleRate
		gain := 1.0
		if i < fadeSamples {
			gain = float64(i) / fadeSamples
		} else if tail := numSamples - 1 - i; tail < fadeSamples {
			gain = float64(tail) / fadeSamples
		}
		samples[i] = int16(gain * ToneAmplitude * math.Sin(2*math.Pi*frequency*t))
	}
	return samples
}

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// WriteWAV encodes mono 16-bit PCM samples as a RIFF/WAVE stream.
func WriteWAV(w io.Writer, samples []int16, sampleRate int) error {
	dataSize := uint32(len(samples) * 2)
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * 2),
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, samples)
}
