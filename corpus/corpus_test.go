package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-age/features"
	"github.com/RyanBlaney/sonido-age/logging"
)

func TestMain(m *testing.M) {
	logging.SetGlobalLogger(&logging.NoOpLogger{})
	os.Exit(m.Run())
}

const validated = "client_id\tpath\tsentence\tup_votes\tdown_votes\tage\tgender\n" +
	"c1\tclip_1.mp3\tDzień dobry\t2\t0\ttwenties\tmale\n" +
	"c2\tclip_2.mp3\t\"Quoted\" text\t2\t0\tthirties\tfemale\n" +
	"c3\tclip_3.mp3\tNo age\t2\t0\t\t\n" +
	"c4\tclip_4.mp3\tOld\t2\t0\tseventies\tmale\n" +
	"c5\tclip_5.mp3\tShort row\n" +
	"c6\tclip_6.mp3\tSixty\t3\t1\tsixties\tfemale\n"

func TestRead(t *testing.T) {
	clips, err := Read(strings.NewReader(validated), DefaultExcludedLabels)
	require.NoError(t, err)

	assert.Equal(t, []Clip{
		{Path: "clip_1.mp3", Label: "twenties"},
		{Path: "clip_2.mp3", Label: "thirties"},
	}, clips)
}

func TestRead_MissingColumns(t *testing.T) {
	_, err := Read(strings.NewReader("path\tsentence\nclip.mp3\thello\n"), nil)
	assert.ErrorIs(t, err, ErrMetadata)

	_, err = Read(strings.NewReader(""), nil)
	assert.ErrorIs(t, err, ErrMetadata)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validated.tsv")
	require.NoError(t, os.WriteFile(path, []byte(validated), 0o644))

	clips, err := Load(path, nil)
	require.NoError(t, err)
	assert.Len(t, clips, 4, "nothing excluded besides empty labels")

	_, err = Load(filepath.Join(t.TempDir(), "missing.tsv"), nil)
	assert.Error(t, err)
}

func labelled(label string, n int) []Clip {
	clips := make([]Clip, n)
	for i := range clips {
		clips[i] = Clip{Path: fmt.Sprintf("%s_%d.mp3", label, i), Label: label}
	}
	return clips
}

func TestStratify(t *testing.T) {
	var clips []Clip
	clips = append(clips, labelled("teens", 30)...)
	clips = append(clips, labelled("twenties", 7)...)
	clips = append(clips, labelled("thirties", 12)...)

	split, err := Stratify(clips, SplitOptions{PerLabel: 10, LearnPercent: 80, Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, []Quota{
		{Label: "teens", Train: 8, Eval: 2},
		{Label: "twenties", Train: 6, Eval: 1},
		{Label: "thirties", Train: 8, Eval: 2},
	}, split.Quotas)
	assert.Len(t, split.Train, 22)
	assert.Len(t, split.Eval, 5)

	inTrain := make(map[string]bool)
	for _, c := range split.Train {
		inTrain[c.Path] = true
	}
	for _, c := range split.Eval {
		assert.False(t, inTrain[c.Path], "%s is in both partitions", c.Path)
	}

	again, err := Stratify(clips, SplitOptions{PerLabel: 10, LearnPercent: 80, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, split, again, "same seed, same split")
}

func TestStratify_RoundsHalfToEven(t *testing.T) {
	// 5 × 50% = 2.5 → 2
	split, err := Stratify(labelled("teens", 5), SplitOptions{PerLabel: 5, LearnPercent: 50})
	require.NoError(t, err)
	assert.Equal(t, []Quota{{Label: "teens", Train: 2, Eval: 3}}, split.Quotas)
}

func TestStratify_Rejects(t *testing.T) {
	clips := labelled("teens", 4)

	_, err := Stratify(clips, SplitOptions{PerLabel: 0, LearnPercent: 50})
	assert.Error(t, err)
	_, err = Stratify(clips, SplitOptions{PerLabel: 4, LearnPercent: 100})
	assert.Error(t, err)
	_, err = Stratify(nil, SplitOptions{PerLabel: 4, LearnPercent: 50})
	assert.Error(t, err)
}

func TestSplit_Jobs(t *testing.T) {
	split := &Split{
		Train: []Clip{{Path: "a.mp3", Label: "teens"}},
		Eval:  []Clip{{Path: "b.mp3", Label: "twenties"}},
	}

	jobs := split.Jobs("/data/clips")
	assert.Equal(t, []features.Job{
		{ClipID: "a.mp3", Path: filepath.Join("/data/clips", "a.mp3"), Label: "teens", Partition: features.Train},
		{ClipID: "b.mp3", Path: filepath.Join("/data/clips", "b.mp3"), Label: "twenties", Partition: features.Eval},
	}, jobs)
}
