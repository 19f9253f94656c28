// Package audioconv decodes audio files into mono float32 PCM at the rate a
// recognizer wants.
package audioconv

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

const TargetRate = 16000

// Clip is interleaved float32 PCM in [-1, 1].
type Clip struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

type Options struct {
	MaxSamples int
}

var ErrUnsupported = errors.New("unsupported audio format")

// FileTo16k decodes path and returns mono samples at 16 kHz.
func FileTo16k(_ context.Context, path string, opt Options) ([]float32, error) {
	clip, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}

	x := clip.Mono().Resample(TargetRate).Samples
	if opt.MaxSamples > 0 && len(x) > opt.MaxSamples {
		x = x[:opt.MaxSamples]
	}
	return x, nil
}

func DecodeFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	case ".ogg", ".oga", ".opus":
		return decodeOgg(f)
	}

	magic, _ := bufio.NewReader(f).Peek(4)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Clip{}, err
	}
	switch string(magic) {
	case "RIFF":
		return decodeWAV(f)
	case "OggS":
		return decodeOgg(f)
	}
	return Clip{}, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

// Mono averages interleaved channels.
func (c Clip) Mono() Clip {
	if c.Channels <= 1 {
		c.Channels = 1
		return c
	}
	n := len(c.Samples) / c.Channels
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		var sum float64
		for ch := 0; ch < c.Channels; ch++ {
			sum += float64(c.Samples[i*c.Channels+ch])
		}
		out[i] = float32(sum / float64(c.Channels))
	}
	return Clip{Samples: out, SampleRate: c.SampleRate, Channels: 1}
}

// Resample converts a mono clip to rate with linear interpolation.
func (c Clip) Resample(rate int) Clip {
	if c.SampleRate == rate || len(c.Samples) == 0 || c.SampleRate <= 0 {
		return c
	}

	in := c.Samples
	ratio := float64(rate) / float64(c.SampleRate)
	out := make([]float32, int(math.Ceil(float64(len(in))*ratio)))
	last := len(in) - 1
	for i := range out {
		src := float64(i) / ratio
		i0 := int(src)
		if i0 >= last {
			out[i] = in[last]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i0+1]*a
	}
	return Clip{Samples: out, SampleRate: rate, Channels: c.Channels}
}

func decodeWAV(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("read wav: %w", err)
	}
	if pb == nil || len(pb.Data) == 0 {
		return Clip{}, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	clip := Clip{Channels: 1, SampleRate: 44100}
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			clip.Channels = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			clip.SampleRate = pb.Format.SampleRate
		}
	}

	scale := 1.0 / float64(int64(1)<<(depth-1))
	clip.Samples = make([]float32, len(pb.Data))
	for i, v := range pb.Data {
		clip.Samples[i] = float32(math.Max(-1, math.Min(1, float64(v)*scale)))
	}
	return clip, nil
}

func decodeMP3(r io.Reader) (Clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return Clip{}, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return Clip{}, err
	}
	ints := make([]int16, len(raw)/2)
	if err := binary.Read(bytes.NewReader(raw[:len(ints)*2]), binary.LittleEndian, ints); err != nil {
		return Clip{}, err
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	// go-mp3 always emits 16-bit stereo
	return Clip{Samples: int16ToFloat32(ints), SampleRate: rate, Channels: 2}, nil
}

// decodeOgg tries Vorbis first, then Opus.
func decodeOgg(r io.ReadSeeker) (Clip, error) {
	clip, verr := decodeVorbis(r)
	if verr == nil {
		return clip, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Clip{}, err
	}
	clip, oerr := decodeOpus(r)
	if oerr != nil {
		return Clip{}, fmt.Errorf("ogg: not vorbis (%v), not opus: %w", verr, oerr)
	}
	return clip, nil
}

func decodeVorbis(r io.Reader) (Clip, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return Clip{}, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return Clip{}, errors.New("invalid ogg/vorbis stream")
	}
	return Clip{Samples: pcm, SampleRate: format.SampleRate, Channels: format.Channels}, nil
}

func decodeOpus(r io.ReadSeeker) (Clip, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return Clip{}, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	var (
		pcm []float32
		buf = make([]int16, 48000*ch/2)
	)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			pcm = append(pcm, int16ToFloat32(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Clip{}, err
		}
	}
	// libopusfile always decodes at 48 kHz
	return Clip{Samples: pcm, SampleRate: 48000, Channels: ch}, nil
}

func int16ToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v) / 32768.0
	}
	return out
}
