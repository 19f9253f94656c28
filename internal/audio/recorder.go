package audio

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	DefaultDuration   = 4 * time.Second
	DefaultSampleRate = 44100
)

type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record captures dur of mono 16-bit audio from the default input device.
// It always blocks for the full duration.
func (r *Recorder) Record(ctx context.Context, dur time.Duration, sampleRate int) ([]int16, error) {
	if dur <= 0 {
		dur = DefaultDuration
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	const frameSize = 1024

	total := int(dur.Seconds() * float64(sampleRate))
	buf := make([]int16, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	out := make([]int16, 0, total+frameSize)
	for len(out) < total {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}
		out = append(out, buf...)
	}

	if len(out) == 0 {
		return nil, errors.New("no audio recorded")
	}

	return out[:total], nil
}

// RMS is the normalized root mean square level of pcm, in [0, 1].
func RMS(pcm []int16) float64 {
	if len(pcm) == 0 {
		return 0
	}
	var s float64
	for _, x := range pcm {
		f := float64(x) / 32768.0
		s += f * f
	}
	return math.Sqrt(s / float64(len(pcm)))
}
