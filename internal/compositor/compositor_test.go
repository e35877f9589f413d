package compositor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portal-engine/internal/portal"
	"portal-engine/internal/pose"
)

type fakeTarget string

func (t fakeTarget) Portal() string { return string(t) }

type renderCall struct {
	scene portal.SceneID
	cam   Camera
	into  Target
}

// recorder is a Renderer that keeps every call for inspection.
type recorder struct {
	current Target
	targets map[string]Target
	renders []renderCall
	bound   map[string]Target
	ops     []string
}

func newRecorder() *recorder {
	return &recorder{targets: map[string]Target{}, bound: map[string]Target{}}
}

func (r *recorder) SetRenderTarget(t Target) {
	r.current = t
	if t == nil {
		r.ops = append(r.ops, "screen")
		return
	}
	r.ops = append(r.ops, "target:"+t.Portal())
}

func (r *recorder) Render(scene portal.SceneID, cam Camera) {
	r.renders = append(r.renders, renderCall{scene: scene, cam: cam, into: r.current})
	r.ops = append(r.ops, "render")
}

func (r *recorder) Visible(g portal.ScreenGeometry, cam Camera) bool { return InFrustum(g, cam) }

func (r *recorder) Target(id string) Target {
	t, ok := r.targets[id]
	if !ok {
		t = fakeTarget(id)
		r.targets[id] = t
	}
	return t
}

func (r *recorder) BindScreen(id string, t Target) {
	r.bound[id] = t
	r.ops = append(r.ops, "bind:"+id)
}

type observer struct {
	p     pose.Pose
	scene portal.SceneID
}

func (o *observer) Pose() pose.Pose { return o.p }
func (o *observer) SetPose(p pose.Pose) { o.p = p }
func (o *observer) Scene() portal.SceneID { return o.scene }
func (o *observer) SetScene(s portal.SceneID) { o.scene = s }

type fixture struct {
	reg       *portal.Registry
	a, b      *portal.Surface
	home      portal.SceneID
	elsewhere portal.SceneID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{reg: portal.NewRegistry(nil), home: uuid.New(), elsewhere: uuid.New()}
	var err error
	f.a, err = f.reg.Add(portal.Config{ID: "A", Shape: portal.KindDisc, Size: 50}, f.home)
	require.NoError(t, err)
	f.b, err = f.reg.Add(portal.Config{ID: "B", Shape: portal.KindDisc, Size: 50, Position: mgl64.Vec3{1000, 0, 0}}, f.elsewhere)
	require.NoError(t, err)
	require.NoError(t, f.reg.Pair("A", "B"))
	return f
}

func TestCompose_RendersPartnerSceneIntoPortalTarget(t *testing.T) {
	f := newFixture(t)
	r := newRecorder()
	c := New(f.reg, r, nil)
	obs := &observer{p: pose.New(mgl64.Vec3{0, 0, 20}, mgl64.QuatIdent()), scene: f.home}

	st := c.Compose(obs, NewCamera(obs.Pose()))
	assert.Equal(t, Stats{Portals: 1, Visible: 1, Rendered: 1}, st)
	assert.Equal(t, st, c.Last())
	assert.Equal(t, []string{"target:A", "render", "screen", "bind:A"}, r.ops)

	require.Len(t, r.renders, 1)
	call := r.renders[0]
	assert.Equal(t, f.elsewhere, call.scene)
	assert.Equal(t, fakeTarget("A"), call.into)
	assert.True(t, call.cam.HidePortalScreens)
	assert.True(t, pose.ApproxEqual(portal.Mirror(f.a, f.b, obs.Pose()), call.cam.Pose, 1e-12))
	assert.Equal(t, DefaultFovy, call.cam.Fovy)
	assert.Equal(t, fakeTarget("A"), r.bound["A"])
}

func TestCompose_CullsPortalBehindCamera(t *testing.T) {
	f := newFixture(t)
	r := newRecorder()
	c := New(f.reg, r, nil)
	// looking away from A along +z
	obs := &observer{p: pose.New(mgl64.Vec3{0, 0, 200}, mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0})), scene: f.home}

	st := c.Compose(obs, NewCamera(obs.Pose()))
	assert.Equal(t, Stats{Portals: 1, Culled: 1}, st)
	assert.Empty(t, r.renders)
	assert.Empty(t, r.bound)
}

func TestCompose_SkipsHiddenAndUnlinked(t *testing.T) {
	f := newFixture(t)
	_, err := f.reg.Add(portal.Config{ID: "lone", Shape: portal.KindSquare, Size: 5, Position: mgl64.Vec3{0, 0, -5}}, f.home)
	require.NoError(t, err)
	r := newRecorder()
	c := New(f.reg, r, nil)
	obs := &observer{p: pose.New(mgl64.Vec3{0, 0, 20}, mgl64.QuatIdent()), scene: f.home}

	f.a.Hide()
	st := c.Compose(obs, NewCamera(obs.Pose()))
	assert.Equal(t, Stats{Portals: 1, Hidden: 1}, st)
	assert.Empty(t, r.ops)
}

func TestCompose_OnlyObserverScene(t *testing.T) {
	f := newFixture(t)
	r := newRecorder()
	c := New(f.reg, r, nil)
	// in B's scene, looking at B from its front
	obs := &observer{p: pose.New(mgl64.Vec3{1000, 0, 30}, mgl64.QuatIdent()), scene: f.elsewhere}

	st := c.Compose(obs, NewCamera(obs.Pose()))
	assert.Equal(t, 1, st.Rendered)
	require.Len(t, r.renders, 1)
	assert.Equal(t, f.home, r.renders[0].scene)
	assert.Contains(t, r.bound, "B")
	assert.NotContains(t, r.bound, "A")
}

func TestFrustum(t *testing.T) {
	cam := NewCamera(pose.Identity())
	f := cam.Frustum()

	tests := []struct {
		name   string
		center mgl64.Vec3
		radius float64
		want   bool
	}{
		{"ahead", mgl64.Vec3{0, 0, -10}, 0, true},
		{"behind", mgl64.Vec3{0, 0, 10}, 0, false},
		{"behind but large", mgl64.Vec3{0, 0, 10}, 15, true},
		{"beyond far", mgl64.Vec3{0, 0, -DefaultFar - 10}, 1, false},
		{"inside far", mgl64.Vec3{0, 0, -900}, 1, true},
		{"past the window's far clip", mgl64.Vec3{0, 0, -1500}, 1, false},
		{"far left", mgl64.Vec3{-100, 0, -10}, 1, false},
		{"above", mgl64.Vec3{0, 100, -10}, 1, false},
		{"edge of view", mgl64.Vec3{0, 7, -10}, 0, true},
	}
	for _, c := range tests {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, f.IntersectsSphere(c.center, c.radius))
		})
	}
	assert.True(t, f.ContainsPoint(mgl64.Vec3{0, 0, -1}))
}

func TestFrustum_PlanesAreNormalised(t *testing.T) {
	cam := NewCamera(pose.FromEuler(mgl64.Vec3{3, 4, 5}, mgl64.Vec3{0.2, 1.1, 0}))
	for i, p := range cam.Frustum() {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-9, "plane %d", i)
	}
}

func TestCamera_ProjectionFallsBackToDefaults(t *testing.T) {
	zero := Camera{Pose: pose.Identity()}
	assert.True(t, zero.Projection().ApproxEqual(NewCamera(pose.Identity()).Projection()))

	v := NewCamera(pose.Identity()).Virtual(pose.New(mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent()))
	assert.True(t, v.HidePortalScreens)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, v.Pose.Position)
	assert.True(t, pose.Near(v.Target(), mgl64.Vec3{1, 2, 2}, 1e-12))
}
