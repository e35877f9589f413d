package portal

import (
	"time"

	"go.uber.org/zap"
)

// System runs the crossing and teleport pass of one frame. It is not safe for
// concurrent use; the frame loop is its only caller.
type System struct {
	reg      *Registry
	teleport *Teleporter
	log      *zap.Logger
	tick     uint64
	total    uint64
}

// NewSystem wires a registry and a teleporter into a per-frame pass.
func NewSystem(reg *Registry, tp *Teleporter, log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	return &System{reg: reg, teleport: tp, log: log}
}

// Registry returns the owned registry.
func (s *System) Registry() *Registry { return s.reg }

// Teleporter returns the teleporter.
func (s *System) Teleporter() *Teleporter { return s.teleport }

// Ticks is the number of completed ticks.
func (s *System) Ticks() uint64 { return s.tick }

// Teleports is the number of teleports executed since creation.
func (s *System) Teleports() uint64 { return s.total }

// Tick advances cooldowns by dt (the time since the previous frame), then runs crossing
// detection on every linked portal and teleports obs for each trigger. It must run after
// the observer update and before compositing.
func (s *System) Tick(dt time.Duration, obs Observer) []Event {
	s.tick++
	s.teleport.Advance(dt)

	var events []Event
	for _, p := range s.reg.All() {
		if !p.HasPartner() {
			continue
		}
		c := Detect(p, obs)
		if !c.Fired {
			continue
		}
		ev, ok := s.teleport.Teleport(p, obs)
		if !ok {
			continue
		}
		ev.Tick = s.tick
		events = append(events, ev)
		s.total++
	}

	s.teleport.CheckLocks()
	return events
}
