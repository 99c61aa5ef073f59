package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// wavHeader is the canonical 44-byte PCM WAV header
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16  // Number of channels
	SampleRate    uint32  // Sample rate
	ByteRate      uint32  // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16  // NumChannels * BitsPerSample / 8
	BitsPerSample uint16  // Bits per sample
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

const wavHeaderSize = 44

// LoadFile decodes an audio file into a normalized float sample sequence.
// Dispatch is by file extension; only 16-bit integer PCM WAV is implemented.
// Recognized-but-unimplemented containers (mp3, flac) and unknown extensions
// fail with ErrUnsupportedFormat rather than returning partial data.
func LoadFile(path string) ([]float64, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, path, err)
		}
		samples, _, err := DecodeWAV(data)
		return samples, err
	case ".mp3":
		return nil, fmt.Errorf("%w: mp3 decoding not implemented", ErrUnsupportedFormat)
	case ".flac":
		return nil, fmt.Errorf("%w: flac decoding not implemented", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadBytes decodes an in-memory audio buffer. The buffer is assumed to be
// a WAV container; there is no extension to dispatch on.
func LoadBytes(data []byte) ([]float64, error) {
	samples, _, err := DecodeWAV(data)
	return samples, err
}

// DecodeWAV decodes a 16-bit integer PCM WAV container into normalized
// floats (value / 32768.0) and returns the container's sample rate.
// Multi-channel data is returned interleaved.
func DecodeWAV(data []byte) ([]float64, int, error) {
	if len(data) < wavHeaderSize {
		return nil, 0, fmt.Errorf("%w: need at least %d bytes, got %d", ErrDecode, wavHeaderSize, len(data))
	}

	var header wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("%w: reading header: %v", ErrDecode, err)
	}

	if string(header.ChunkID[:]) != "RIFF" {
		return nil, 0, fmt.Errorf("%w: missing RIFF header", ErrDecode)
	}
	if string(header.Format[:]) != "WAVE" {
		return nil, 0, fmt.Errorf("%w: missing WAVE format", ErrDecode)
	}
	if string(header.Subchunk1ID[:]) != "fmt " {
		return nil, 0, fmt.Errorf("%w: missing fmt chunk", ErrDecode)
	}
	if string(header.Subchunk2ID[:]) != "data" {
		return nil, 0, fmt.Errorf("%w: missing data chunk", ErrDecode)
	}

	// A valid container carrying an encoding we do not implement is
	// reported distinctly from a broken container.
	if header.AudioFormat != 1 {
		return nil, 0, fmt.Errorf("%w: audio format %d (only integer PCM is supported)", ErrUnsupportedFormat, header.AudioFormat)
	}
	if header.BitsPerSample != 16 {
		return nil, 0, fmt.Errorf("%w: bit depth %d (only 16-bit is supported)", ErrUnsupportedFormat, header.BitsPerSample)
	}
	if header.NumChannels < 1 {
		return nil, 0, fmt.Errorf("%w: channel count %d", ErrDecode, header.NumChannels)
	}

	numSamples := int(header.Subchunk2Size) / 2
	if len(data)-wavHeaderSize < numSamples*2 {
		return nil, 0, fmt.Errorf("%w: data chunk declares %d bytes, only %d present",
			ErrDecode, header.Subchunk2Size, len(data)-wavHeaderSize)
	}

	samples := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		raw := int16(binary.LittleEndian.Uint16(data[wavHeaderSize+i*2:]))
		samples[i] = float64(raw) / 32768.0
	}

	return samples, int(header.SampleRate), nil
}

// EncodeWAV encodes a float sample sequence into a 16-bit integer PCM WAV
// container. Each output sample is clamp(round(x * 32767), -32768, 32767).
func EncodeWAV(samples []float64, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("channel count must be at least 1, got %d", channels)
	}

	numChannels := uint16(channels)
	bitsPerSample := uint16(16)
	dataSize := uint32(len(samples) * 2)

	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(samples)*2))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("writing WAV header: %w", err)
	}

	pcm := make([]int16, len(samples))
	for i, x := range samples {
		v := math.Round(x * 32767.0)
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		pcm[i] = int16(v)
	}
	if err := binary.Write(buf, binary.LittleEndian, pcm); err != nil {
		return nil, fmt.Errorf("writing WAV data: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile encodes samples as PCM16 WAV and writes them to path
func WriteFile(path string, samples []float64, sampleRate, channels int) error {
	data, err := EncodeWAV(samples, sampleRate, channels)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, path, err)
	}
	return nil
}
