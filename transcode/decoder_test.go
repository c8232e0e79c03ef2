package transcode

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFFprobeOutput(t *testing.T) {
	tests := map[string]struct {
		json    string
		want    *AudioMetadata
		wantErr bool
	}{
		"mp3-mono": {
			json: `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"48000","channels":1,"duration":"4.32","bit_rate":"64000"}]}`,
			want: &AudioMetadata{SampleRate: 48000, Channels: 1, Codec: "mp3", Duration: 4.32, Bitrate: 64000},
		},
		"no-streams": {
			json:    `{"streams":[]}`,
			wantErr: true,
		},
		"video-stream": {
			json:    `{"streams":[{"codec_type":"video","sample_rate":"48000","channels":1}]}`,
			wantErr: true,
		},
		"bad-sample-rate": {
			json:    `{"streams":[{"codec_type":"audio","sample_rate":"n/a","channels":1}]}`,
			wantErr: true,
		},
		"too-many-channels": {
			json:    `{"streams":[{"codec_type":"audio","sample_rate":"44100","channels":12}]}`,
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseFFprobeOutput([]byte(tt.json))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildFFmpegArgs_KeepsNativeRate(t *testing.T) {
	d := NewDecoder(nil)
	args := d.buildFFmpegArgs(&AudioMetadata{SampleRate: 32000, Channels: 2})

	assert.Equal(t, []string{"-f", "f64le", "-ac", "1", "-ar", "32000", "-v", "error"}, args)
}

func TestBuildFFmpegArgs_Resamples(t *testing.T) {
	cfg := DefaultDecoderConfig()
	cfg.TargetSampleRate = 16000
	d := NewDecoder(cfg)
	args := d.buildFFmpegArgs(&AudioMetadata{SampleRate: 48000, Channels: 1})

	assert.Contains(t, args, "16000")
	assert.Contains(t, args, "aresample=resampler=soxr:precision=20")
}

func TestProcessFFmpegOutput(t *testing.T) {
	raw := make([]byte, 0, 8*4+3)
	for _, v := range []float64{0.5, -0.25, 1, 0} {
		raw = binary.LittleEndian.AppendUint64(raw, math.Float64bits(v))
	}
	raw = append(raw, 1, 2, 3) // partial trailing sample

	d := NewDecoder(nil)
	audio, err := d.processFFmpegOutput(raw, &AudioMetadata{SampleRate: 4, Codec: "pcm"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.25, 1, 0}, audio.PCM)
	assert.Equal(t, 4, audio.SampleRate)
	assert.Equal(t, "1s", audio.Duration.String())

	_, err = d.processFFmpegOutput([]byte{1, 2}, &AudioMetadata{SampleRate: 4})
	assert.Error(t, err)
}
