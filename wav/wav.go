package wav

// Minimal PCM WAV codec for diagnosis recordings.
//
// Field recordings arrive either as uploaded WAV files or as raw PCM bytes
// captured in the browser. Only 16-bit PCM is supported; everything the
// analysis core consumes is mono float64 in [-1, 1].

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

const (
	riffHeaderSize = 44
	pcmFormat      = 1
)

// WavInfo describes a decoded WAV file.
type WavInfo struct {
	Channels   int
	SampleRate int
	BitsPerSec int
	Data       []byte // raw PCM payload
	Duration   float64
}

// WriteWavFile wraps raw PCM bytes in a canonical RIFF header and writes the file.
func WriteWavFile(filePath string, data []byte, sampleRate, channels, bitsPerSample int) error {
	if len(data) == 0 {
		return errors.New("data is empty")
	}
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid wav parameters (rate=%d, channels=%d)", sampleRate, channels)
	}
	if bitsPerSample != 16 {
		return fmt.Errorf("unsupported bits per sample: %d", bitsPerSample)
	}

	buf := new(bytes.Buffer)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(pcmFormat))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return os.WriteFile(filePath, buf.Bytes(), 0o644)
}

// ReadWavInfo parses a WAV file and returns its format info and PCM payload.
func ReadWavInfo(filePath string) (*WavInfo, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav file: %w", err)
	}
	return ParseWavBytes(raw)
}

// ParseWavBytes parses in-memory WAV bytes.
func ParseWavBytes(raw []byte) (*WavInfo, error) {
	if len(raw) < riffHeaderSize {
		return nil, errors.New("file too small to be a wav")
	}
	if string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return nil, errors.New("missing RIFF/WAVE header")
	}

	info := &WavInfo{}
	offset := 12
	for offset+8 <= len(raw) {
		chunkID := string(raw[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(raw[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(raw) {
			chunkSize = len(raw) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, errors.New("fmt chunk truncated")
			}
			format := binary.LittleEndian.Uint16(raw[body : body+2])
			if format != pcmFormat {
				return nil, fmt.Errorf("unsupported wav format code: %d", format)
			}
			info.Channels = int(binary.LittleEndian.Uint16(raw[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(raw[body+4 : body+8]))
			info.BitsPerSec = int(binary.LittleEndian.Uint16(raw[body+14 : body+16]))
		case "data":
			info.Data = raw[body : body+chunkSize]
		}

		// chunks are word aligned
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if info.SampleRate == 0 || info.Channels == 0 {
		return nil, errors.New("wav file missing fmt chunk")
	}
	if len(info.Data) == 0 {
		return nil, errors.New("wav file missing data chunk")
	}
	if info.BitsPerSec != 16 {
		return nil, fmt.Errorf("unsupported bits per sample: %d", info.BitsPerSec)
	}

	frameBytes := info.Channels * 2
	info.Duration = float64(len(info.Data)/frameBytes) / float64(info.SampleRate)
	return info, nil
}

// WavBytesToSamples converts 16-bit PCM bytes into float64 samples in [-1, 1].
// Multi-channel input must be downmixed with DownmixMono first.
func WavBytesToSamples(data []byte) ([]float64, error) {
	if len(data) < 2 {
		return nil, errors.New("pcm payload is empty")
	}

	sampleCount := len(data) / 2
	samples := make([]float64, sampleCount)
	for i := 0; i < sampleCount; i++ {
		v := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		samples[i] = float64(v) / 32768.0
	}
	return samples, nil
}

// DownmixMono averages interleaved channels into a single channel.
func DownmixMono(samples []float64, channels int) []float64 {
	if channels <= 1 || len(samples) == 0 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
