package replay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"portal-engine/internal/compositor"
	"portal-engine/internal/observer"
	"portal-engine/internal/portal"
	"portal-engine/internal/world"
)

var ErrEmptyTrace = errors.New("replay: trace has no frames")

// Frame is one recorded input, applied Repeat times (at least once).
type Frame struct {
	DT     time.Duration `yaml:"dt"`
	Move   [3]float32    `yaml:"move,flow,omitempty"`
	Look   [2]float32    `yaml:"look,flow,omitempty"`
	Repeat int           `yaml:"repeat,omitempty"`
}

// Trace is a recorded input sequence.
type Trace struct {
	Frames []Frame `yaml:"frames"`
}

// Len is the number of simulated frames once repeats are expanded.
func (t Trace) Len() int {
	n := 0
	for _, f := range t.Frames {
		n += max(f.Repeat, 1)
	}
	return n
}

// LoadTrace reads a YAML trace file.
func LoadTrace(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trace{}, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()
	return DecodeTrace(f)
}

// DecodeTrace reads a YAML trace.
func DecodeTrace(r io.Reader) (Trace, error) {
	var t Trace
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Trace{}, fmt.Errorf("replay: %w", err)
	}
	if len(t.Frames) == 0 {
		return Trace{}, ErrEmptyTrace
	}
	return t, nil
}

// Result summarises a replay.
type Result struct {
	Frames    int
	Events    []portal.Event
	Rendered  int // portal views drawn by the compositor
	Digest    uint64
	LastScene string
}

// Run drives w with every frame of t headlessly. Each frame it steps the world, composes
// portal views into a null renderer and folds the observable state into a digest. The
// same world config and trace always produce the same digest.
func Run(w *world.World, t Trace, fovy float64, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(t.Frames) == 0 {
		return Result{}, ErrEmptyTrace
	}
	log = log.Named("replay")
	comp := compositor.New(w.Portals, nullRenderer{}, log)
	d := xxhash.New()
	var res Result

	for _, f := range t.Frames {
		in := observer.Intent{Move: f.Move, Look: f.Look}
		for i := 0; i < max(f.Repeat, 1); i++ {
			events := w.Step(in, f.DT)
			res.Events = append(res.Events, events...)

			cam := compositor.NewCamera(w.Player.Pose())
			if fovy > 0 {
				cam.Fovy = fovy
			}
			res.Rendered += comp.Compose(w.Player, cam).Rendered

			fold(d, w)
			res.Frames++
		}
	}
	if s, ok := w.Scene(w.Player.Scene()); ok {
		res.LastScene = s.Name
	}
	res.Digest = d.Sum64()
	log.Info("replay finished",
		zap.Int("frames", res.Frames),
		zap.Int("teleports", len(res.Events)),
		zap.String("scene", res.LastScene),
		zap.String("digest", fmt.Sprintf("%016x", res.Digest)),
	)
	return res, nil
}

// fold writes the player's pose and scene name and every portal's crossing state.
// Scene ids are random per build, so names stand in for them.
func fold(d *xxhash.Digest, w *world.World) {
	var buf [8]byte
	f64 := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	p := w.Player.Pose()
	for _, v := range p.Position {
		f64(v)
	}
	q := p.Orientation
	if q.W < 0 {
		q = q.Scale(-1)
	}
	f64(q.W)
	for _, v := range q.V {
		f64(v)
	}
	if s, ok := w.Scene(w.Player.Scene()); ok {
		_, _ = d.WriteString(s.Name)
	}
	for _, s := range w.Portals.All() {
		_, _ = d.WriteString(s.ID)
		flags := byte(s.PreviousSide())
		if s.TeleportEnabled() {
			flags |= 1 << 4
		}
		if s.Visible() {
			flags |= 1 << 5
		}
		_, _ = d.Write([]byte{flags})
		f64(float64(s.Cooldown()))
	}
}

type nullTarget string

func (t nullTarget) Portal() string { return string(t) }

// nullRenderer culls like a real renderer and draws nothing.
type nullRenderer struct{}

func (nullRenderer) SetRenderTarget(compositor.Target) {}
func (nullRenderer) Render(portal.SceneID, compositor.Camera) {}
func (nullRenderer) Target(id string) compositor.Target { return nullTarget(id) }
func (nullRenderer) BindScreen(string, compositor.Target) {}
func (nullRenderer) Visible(g portal.ScreenGeometry, cam compositor.Camera) bool { return compositor.InFrustum(g, cam) }
