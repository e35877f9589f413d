package replay

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portal-engine/internal/engineconfig"
	"portal-engine/internal/world"
)

func corridor() engineconfig.Config {
	c := engineconfig.Default()
	c.World = engineconfig.World{
		Scenes: []engineconfig.Scene{{Name: "a"}, {Name: "b"}},
		Portals: []engineconfig.Portal{
			{ID: "p", Scene: "a", Shape: "square", Size: 5},
			{ID: "q", Scene: "b", Shape: "square", Size: 5, Position: engineconfig.Vec3{100, 0, 0}},
		},
		Pairs:  [][2]string{{"p", "q"}},
		Player: engineconfig.Player{Scene: "a", Position: engineconfig.Vec3{0, 0, 3}},
	}
	return c
}

func build(t *testing.T, c engineconfig.Config) *world.World {
	t.Helper()
	w, err := world.Build(c, nil)
	require.NoError(t, err)
	return w
}

var walk = Trace{Frames: []Frame{
	{DT: 16 * time.Millisecond, Move: [3]float32{0, 0, 1}, Repeat: 40},
}}

func TestDecodeTrace(t *testing.T) {
	src := `
frames:
  - {dt: 16ms, move: [0, 0, 1], repeat: 30}
  - {dt: 20ms, look: [0.1, 0]}
`
	tr, err := DecodeTrace(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, tr.Frames, 2)
	assert.Equal(t, 16*time.Millisecond, tr.Frames[0].DT)
	assert.Equal(t, [3]float32{0, 0, 1}, tr.Frames[0].Move)
	assert.Equal(t, [2]float32{0.1, 0}, tr.Frames[1].Look)
	assert.Equal(t, 31, tr.Len())
}

func TestDecodeTrace_Rejects(t *testing.T) {
	_, err := DecodeTrace(strings.NewReader("frames: []\n"))
	assert.ErrorIs(t, err, ErrEmptyTrace)

	_, err = DecodeTrace(strings.NewReader("frames:\n  - {dt: 16ms, jump: true}\n"))
	assert.Error(t, err)
}

func TestLoadTrace_Missing(t *testing.T) {
	_, err := LoadTrace(t.TempDir() + "/none.yaml")
	assert.Error(t, err)
}

func TestRun_WalkThroughPortal(t *testing.T) {
	res, err := Run(build(t, corridor()), walk, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Frames)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "p", res.Events[0].From)
	assert.Equal(t, "b", res.LastScene)
	assert.Positive(t, res.Rendered, "the view through p is composed before crossing")
}

func TestRun_Deterministic(t *testing.T) {
	a, err := Run(build(t, corridor()), walk, 0, nil)
	require.NoError(t, err)
	b, err := Run(build(t, corridor()), walk, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, a.Digest, b.Digest)

	turn := Trace{Frames: append([]Frame{{DT: 16 * time.Millisecond, Look: [2]float32{5, 0}}}, walk.Frames...)}
	c, err := Run(build(t, corridor()), turn, 0, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, c.Digest)
}

func TestRun_DemoWorldIsDeterministic(t *testing.T) {
	idle := Trace{Frames: []Frame{{DT: 16 * time.Millisecond, Repeat: 20}}}
	a, err := Run(build(t, engineconfig.Default()), idle, 60, nil)
	require.NoError(t, err)
	b, err := Run(build(t, engineconfig.Default()), idle, 60, nil)
	require.NoError(t, err)
	assert.Equal(t, a.Digest, b.Digest)
	assert.Equal(t, "main", a.LastScene)
	assert.Empty(t, a.Events)
}

func TestRun_EmptyTrace(t *testing.T) {
	_, err := Run(build(t, corridor()), Trace{}, 0, nil)
	assert.ErrorIs(t, err, ErrEmptyTrace)
}

func TestRun_CorridorSample(t *testing.T) {
	cfg, err := engineconfig.Load("../../config/corridor.yaml")
	require.NoError(t, err)
	tr, err := LoadTrace("../../config/walk.trace.yaml")
	require.NoError(t, err)

	res, err := Run(build(t, cfg), tr, cfg.Prefs.Fovy, nil)
	require.NoError(t, err)
	assert.Equal(t, 150, res.Frames)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "door", res.Events[0].From)
	assert.Equal(t, "vault", res.LastScene)
}
