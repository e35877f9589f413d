package portal

import (
	"time"

	"go.uber.org/zap"
	"portal-engine/internal/pose"
)

// DefaultCooldown is how long a pair stays locked after a teleport.
const DefaultCooldown = 150 * time.Millisecond

// Event records one executed teleport.
type Event struct {
	Tick      uint64
	From, To  string
	FromScene SceneID
	ToScene   SceneID
	Before    pose.Pose
	After     pose.Pose
}

// Teleporter relocates the observer through a portal and owns the mutual re-entry lock.
type Teleporter struct {
	reg      *Registry
	log      *zap.Logger
	cooldown time.Duration
}

// NewTeleporter returns a Teleporter over reg. A cooldown <= 0 selects DefaultCooldown.
func NewTeleporter(reg *Registry, cooldown time.Duration, log *zap.Logger) *Teleporter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Teleporter{reg: reg, log: log.Named("teleport"), cooldown: cooldown}
}

// Cooldown is the configured lock duration.
func (t *Teleporter) Cooldown() time.Duration { return t.cooldown }

// SetCooldown changes the lock duration for future teleports. Running locks keep their
// remaining time. d <= 0 selects DefaultCooldown.
func (t *Teleporter) SetCooldown(d time.Duration) {
	if d <= 0 {
		d = DefaultCooldown
	}
	t.cooldown = d
}

// Teleport moves obs from p to p's partner. It does nothing and returns false when p
// has no partner or either side is still locked; such triggers are not queued.
func (t *Teleporter) Teleport(p *Surface, obs Observer) (Event, bool) {
	dst, ok := t.reg.Partner(p)
	if !ok {
		return Event{}, false
	}
	if !p.teleportEnabled || !dst.teleportEnabled {
		t.log.Debug("teleport dropped during cooldown", zap.String("from", p.ID), zap.String("to", dst.ID))
		return Event{}, false
	}

	before := obs.Pose()
	after := Mirror(p, dst, before)
	obs.SetPose(after)
	obs.SetScene(dst.Scene)

	p.teleportEnabled, dst.teleportEnabled = false, false
	p.cooldown, dst.cooldown = t.cooldown, t.cooldown
	dst.Hide()

	t.log.Info("teleport",
		zap.String("from", p.ID),
		zap.String("to", dst.ID),
		zap.Stringer("scene", dst.Scene),
	)
	return Event{
		From:      p.ID,
		To:        dst.ID,
		FromScene: p.Scene,
		ToScene:   dst.Scene,
		Before:    before,
		After:     after,
	}, true
}

// Advance counts every running cooldown down by dt. A pair whose countdown has run out
// is unlocked and both screens are shown again, in the same step.
func (t *Teleporter) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	for _, s := range t.reg.All() {
		if s.teleportEnabled {
			continue
		}
		s.cooldown -= dt
	}
	for _, s := range t.reg.All() {
		if s.teleportEnabled || s.cooldown > 0 {
			continue
		}
		partner, ok := t.reg.Partner(s)
		release(s)
		if ok {
			release(partner)
		}
	}
}

// CheckLocks panics with an *InvariantError when a linked pair disagrees on its lock,
// or an unlinked surface is locked.
func (t *Teleporter) CheckLocks() {
	for _, s := range t.reg.All() {
		partner, ok := t.reg.Partner(s)
		if !ok {
			if s.partner != "" {
				panic(&InvariantError{Portal: s.ID, Partner: s.partner, Reason: "partner not registered"})
			}
			if !s.teleportEnabled {
				panic(&InvariantError{Portal: s.ID, Reason: "unlinked surface is locked"})
			}
			continue
		}
		if partner.partner != s.ID {
			panic(&InvariantError{Portal: s.ID, Partner: partner.ID, Reason: "asymmetric link"})
		}
		if s.teleportEnabled != partner.teleportEnabled {
			panic(&InvariantError{Portal: s.ID, Partner: partner.ID, Reason: "lock flags diverge"})
		}
	}
}
