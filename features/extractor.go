package features

import (
	"context"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-age/algorithms/common"
	"github.com/RyanBlaney/sonido-age/algorithms/spectral"
	"github.com/RyanBlaney/sonido-age/algorithms/temporal"
	"github.com/RyanBlaney/sonido-age/algorithms/windowing"
	"github.com/RyanBlaney/sonido-age/transcode"
)

// deltaWidth is the half-width of the delta regression window (9 frames)
const deltaWidth = 4

// Params controls how a clip is reduced to a feature vector
type Params struct {
	NumFeatures     int     `json:"number_of_features"`
	FrameDurationMs int     `json:"frame_duration_ms"`
	HopPercent      int     `json:"hop_duration"`
	TopDB           float64 `json:"top_db"`
}

// VectorLength is the length of every vector produced with these params:
// mean and median of each coefficient and of its delta.
func (p Params) VectorLength() int {
	return 4 * p.NumFeatures
}

// FrameLength converts the frame duration to samples
func (p Params) FrameLength(sampleRate int) int {
	return int(math.Round(float64(p.FrameDurationMs) / 1000 * float64(sampleRate)))
}

// HopLength converts the hop percentage of a frame to samples, at least 1
func (p Params) HopLength(frameLength int) int {
	return max(1, int(math.Round(float64(frameLength)*float64(p.HopPercent)/100)))
}

// VectorExtractor turns one clip into a fixed-length feature vector.
// Implementations must be safe for concurrent use.
type VectorExtractor interface {
	Extract(ctx context.Context, path string, params Params) ([]float64, error)
}

// ExtractorFunc adapts a function to VectorExtractor
type ExtractorFunc func(ctx context.Context, path string, params Params) ([]float64, error)

func (f ExtractorFunc) Extract(ctx context.Context, path string, params Params) ([]float64, error) {
	return f(ctx, path, params)
}

// AudioDecoder is the decoding capability MFCCExtractor needs
type AudioDecoder interface {
	DecodeFile(ctx context.Context, filename string) (*transcode.AudioData, error)
}

// MFCCExtractor decodes a clip with ffmpeg and summarizes its MFCCs
type MFCCExtractor struct {
	decoder AudioDecoder
}

// NewMFCCExtractor creates an extractor on top of decoder
func NewMFCCExtractor(decoder AudioDecoder) *MFCCExtractor {
	return &MFCCExtractor{decoder: decoder}
}

func (e *MFCCExtractor) Extract(ctx context.Context, path string, params Params) ([]float64, error) {
	audio, err := e.decoder.DecodeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return VectorFromPCM(audio.PCM, audio.SampleRate, params)
}

// VectorFromPCM trims silence from mono pcm, computes the MFCC matrix and its
// delta, and reduces both to [mean(mfcc), median(mfcc), mean(delta), median(delta)].
func VectorFromPCM(pcm []float64, sampleRate int, params Params) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if params.NumFeatures <= 0 {
		return nil, fmt.Errorf("invalid feature count %d", params.NumFeatures)
	}

	trimmed := temporal.NewSilenceTrimmer(params.TopDB).Trim(pcm)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("clip is silent")
	}

	frameLength := params.FrameLength(sampleRate)
	if frameLength < 4 {
		return nil, fmt.Errorf("frame of %dms is only %d samples at %d Hz", params.FrameDurationMs, frameLength, sampleRate)
	}

	stft, err := spectral.NewSTFT(frameLength, params.HopLength(frameLength), windowing.NewHann(frameLength, false))
	if err != nil {
		return nil, err
	}
	spectrogram, err := stft.Magnitude(trimmed)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	coeffs, err := spectral.NewMFCC(sampleRate, params.NumFeatures).ComputeFrames(spectrogram)
	if err != nil {
		return nil, err
	}
	deltas := spectral.Delta(coeffs, deltaWidth)

	n := params.NumFeatures
	vector := make([]float64, params.VectorLength())
	for c := 0; c < n; c++ {
		col := common.Column(coeffs, c)
		dcol := common.Column(deltas, c)
		vector[c] = common.Mean(col)
		vector[n+c] = common.Median(col)
		vector[2*n+c] = common.Mean(dcol)
		vector[3*n+c] = common.Median(dcol)
	}

	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("feature %d is not finite", i)
		}
	}

	return vector, nil
}
