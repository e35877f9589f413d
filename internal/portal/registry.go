package portal

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry is the sole owner of all portal surfaces in a world. Surfaces link to each
// other by id; every lookup goes through the registry.
type Registry struct {
	log      *zap.Logger
	surfaces map[string]*Surface
	order    []string
}

// NewRegistry returns an empty registry. A nil logger discards output.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:      log.Named("portal"),
		surfaces: make(map[string]*Surface),
	}
}

// Add creates a surface from cfg inside scene. An empty cfg.ID gets a random uuid.
func (r *Registry) Add(cfg Config, scene SceneID) (*Surface, error) {
	if !(cfg.Size > 0) {
		return nil, fmt.Errorf("portal: add %q (size %v): %w", cfg.ID, cfg.Size, ErrInvalidSize)
	}
	shape, err := ShapeOf(cfg.Shape)
	if err != nil {
		return nil, err
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if _, ok := r.surfaces[cfg.ID]; ok {
		return nil, fmt.Errorf("portal: add %q: %w", cfg.ID, ErrDuplicatePortal)
	}
	s := newSurface(cfg, shape, scene)
	r.surfaces[s.ID] = s
	r.order = append(r.order, s.ID)
	r.log.Debug("portal registered",
		zap.String("id", s.ID),
		zap.String("shape", string(cfg.Shape)),
		zap.Float64("size", cfg.Size),
		zap.Stringer("scene", scene),
	)
	return s, nil
}

// Get looks a surface up by id.
func (r *Registry) Get(id string) (*Surface, bool) {
	s, ok := r.surfaces[id]
	return s, ok
}

// Partner resolves s's partner.
func (r *Registry) Partner(s *Surface) (*Surface, bool) {
	if s == nil || s.partner == "" {
		return nil, false
	}
	return r.Get(s.partner)
}

// All returns the surfaces in registration order.
func (r *Registry) All() []*Surface {
	out := make([]*Surface, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.surfaces[id])
	}
	return out
}

// Len is the number of registered surfaces.
func (r *Registry) Len() int { return len(r.order) }

// InScene returns the surfaces owned by scene, in registration order.
func (r *Registry) InScene(scene SceneID) []*Surface {
	var out []*Surface
	for _, id := range r.order {
		if s := r.surfaces[id]; s.Scene == scene {
			out = append(out, s)
		}
	}
	return out
}

// Pair links a and b in both directions. Previous links of either side are dropped so
// the relation stays symmetric. Differing sizes are allowed and only logged.
func (r *Registry) Pair(a, b string) error {
	if a == b {
		return fmt.Errorf("portal: pair %q: %w", a, ErrSelfPair)
	}
	sa, ok := r.surfaces[a]
	if !ok {
		return fmt.Errorf("portal: pair %q: %w", a, ErrUnknownPortal)
	}
	sb, ok := r.surfaces[b]
	if !ok {
		return fmt.Errorf("portal: pair %q: %w", b, ErrUnknownPortal)
	}
	if sa.partner == b && sb.partner == a {
		return nil
	}
	r.unlink(sa)
	r.unlink(sb)
	sa.partner = b
	sb.partner = a

	if sa.Size != sb.Size {
		r.log.Warn("portal sizes differ",
			zap.String("a", a),
			zap.Float64("size_a", sa.Size),
			zap.String("b", b),
			zap.Float64("size_b", sb.Size),
		)
	}
	return nil
}

// Unpair removes the link of id and its partner.
func (r *Registry) Unpair(id string) error {
	s, ok := r.surfaces[id]
	if !ok {
		return fmt.Errorf("portal: unpair %q: %w", id, ErrUnknownPortal)
	}
	r.unlink(s)
	return nil
}

// RemoveScene drops every surface owned by scene and unlinks their partners.
// It returns the number of surfaces removed.
func (r *Registry) RemoveScene(scene SceneID) int {
	kept := r.order[:0]
	removed := 0
	for _, id := range r.order {
		s := r.surfaces[id]
		if s.Scene != scene {
			kept = append(kept, id)
			continue
		}
		r.unlink(s)
		delete(r.surfaces, id)
		removed++
	}
	r.order = kept
	return removed
}

// unlink clears s's partnership on both ends and releases any lock they shared.
func (r *Registry) unlink(s *Surface) {
	p, ok := r.Partner(s)
	s.partner = ""
	release(s)
	if ok {
		p.partner = ""
		release(p)
	}
}

func release(s *Surface) {
	s.teleportEnabled = true
	s.cooldown = 0
	s.visible = true
}
