package physics

import (
	"math"
	"sort"

	"game-sim/internal/vec"
)

// step advances the world by dtMs milliseconds and returns the new world plus
// the collision events it resolved. The input world is cloned first, so the
// caller's value is never touched.
//
// Order within a step is fixed: actions, integration, boundary resolution,
// pairwise resolution, tick/time advance. The pairwise pass visits bodies in
// ascending id order, so results do not depend on the input array order.
func step(world WorldState, actions []Action, dtMs float64) (WorldState, []CollisionEvent) {
	w := world.Clone()
	dt := dtMs / 1000.0

	applyActions(&w, actions, dt)
	integrate(&w, dt)
	events := resolveBounds(&w)
	events = append(events, resolvePairs(&w)...)

	w.Tick++
	w.ElapsedMs += dtMs
	return w, events
}

// applyActions applies the action list in order. Targeted actions against a
// missing or static body are ignored; spawn is ignored for empty or duplicate
// ids; remove is a no-op for absent ids.
func applyActions(w *WorldState, actions []Action, dt float64) {
	byID := make(map[string]*Body, len(w.Bodies))
	for i := range w.Bodies {
		byID[w.Bodies[i].ID] = &w.Bodies[i]
	}

	for _, a := range actions {
		switch act := a.(type) {
		case SpawnBody:
			id := act.Body.ID
			if id == "" {
				continue
			}
			if _, taken := byID[id]; taken {
				continue
			}
			w.Bodies = append(w.Bodies, cloneBody(act.Body))
			// Appending may reallocate the slice, so rebuild every pointer.
			byID = make(map[string]*Body, len(w.Bodies))
			for i := range w.Bodies {
				byID[w.Bodies[i].ID] = &w.Bodies[i]
			}
		case RemoveBody:
			if _, ok := byID[act.BodyID]; !ok {
				continue
			}
			delete(byID, act.BodyID)
			for i := range w.Bodies {
				if w.Bodies[i].ID == act.BodyID {
					w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
					break
				}
			}
			byID = make(map[string]*Body, len(w.Bodies))
			for i := range w.Bodies {
				byID[w.Bodies[i].ID] = &w.Bodies[i]
			}
		case ApplyImpulse:
			if b := dynamicTarget(byID, act.BodyID); b != nil {
				b.Velocity = b.Velocity.Add(act.Impulse.Scale(b.InverseMass()))
			}
		case ApplyForce:
			if b := dynamicTarget(byID, act.BodyID); b != nil {
				b.Velocity = b.Velocity.Add(act.Force.Scale(b.InverseMass() * dt))
			}
		case SetVelocity:
			if b := dynamicTarget(byID, act.BodyID); b != nil {
				b.Velocity = act.Velocity
			}
		case Teleport:
			if b := dynamicTarget(byID, act.BodyID); b != nil {
				b.Position = act.Position
			}
		}
	}
}

// dynamicTarget looks up an action target, filtering out static bodies. Static
// bodies also report inverse mass 0, so they are doubly protected.
func dynamicTarget(byID map[string]*Body, id string) *Body {
	b, ok := byID[id]
	if !ok || b.IsStatic {
		return nil
	}
	return b
}

// integrate applies gravity, damping decay, and position update to every
// dynamic body. Static bodies are untouched.
func integrate(w *WorldState, dt float64) {
	for i := range w.Bodies {
		b := &w.Bodies[i]
		if b.IsStatic {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt))
		damping := b.dampingOr(w.DefaultLinearDamping)
		decay := 1.0 - damping*dt
		if decay < 0 {
			decay = 0
		} else if decay > 1 {
			decay = 1
		}
		b.Velocity = b.Velocity.Scale(decay)
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
}

// resolveBounds pushes dynamic bodies back inside the world rectangle. Sides
// are checked in fixed order (left, right, top, bottom). A penetrating side
// always produces a positional correction and an event; the velocity is
// reflected only when it still points out of the world. Friction on a bounce
// damps the axis orthogonal to the impact, not the impact axis.
func resolveBounds(w *WorldState) []CollisionEvent {
	var events []CollisionEvent
	for i := range w.Bodies {
		b := &w.Bodies[i]
		if b.IsStatic {
			continue
		}
		e := b.restitutionOr(w.DefaultRestitution)
		fr := b.frictionOr(w.DefaultFriction)

		// Left wall.
		if depth := w.Bounds.Min.X - (b.Position.X - b.HalfSize.X); depth > 0 {
			speed := math.Abs(b.Velocity.X)
			b.Position.X += depth
			if b.Velocity.X < 0 {
				b.Velocity.X = -b.Velocity.X * e
				b.Velocity.Y *= 1 - fr
			}
			events = append(events, boundaryEvent(b.ID, vec.Vector2{X: 1, Y: 0}, depth, speed))
		}
		// Right wall.
		if depth := (b.Position.X + b.HalfSize.X) - w.Bounds.Max.X; depth > 0 {
			speed := math.Abs(b.Velocity.X)
			b.Position.X -= depth
			if b.Velocity.X > 0 {
				b.Velocity.X = -b.Velocity.X * e
				b.Velocity.Y *= 1 - fr
			}
			events = append(events, boundaryEvent(b.ID, vec.Vector2{X: -1, Y: 0}, depth, speed))
		}
		// Top wall.
		if depth := w.Bounds.Min.Y - (b.Position.Y - b.HalfSize.Y); depth > 0 {
			speed := math.Abs(b.Velocity.Y)
			b.Position.Y += depth
			if b.Velocity.Y < 0 {
				b.Velocity.Y = -b.Velocity.Y * e
				b.Velocity.X *= 1 - fr
			}
			events = append(events, boundaryEvent(b.ID, vec.Vector2{X: 0, Y: 1}, depth, speed))
		}
		// Bottom wall.
		if depth := (b.Position.Y + b.HalfSize.Y) - w.Bounds.Max.Y; depth > 0 {
			speed := math.Abs(b.Velocity.Y)
			b.Position.Y -= depth
			if b.Velocity.Y > 0 {
				b.Velocity.Y = -b.Velocity.Y * e
				b.Velocity.X *= 1 - fr
			}
			events = append(events, boundaryEvent(b.ID, vec.Vector2{X: 0, Y: -1}, depth, speed))
		}
	}
	return events
}

func boundaryEvent(id string, normal vec.Vector2, depth, speed float64) CollisionEvent {
	return CollisionEvent{
		AID:           id,
		BID:           WorldBoundaryID,
		Normal:        normal,
		Depth:         depth,
		RelativeSpeed: speed,
	}
}

// resolvePairs tests every unordered body pair with at least one dynamic
// member for AABB overlap and resolves contacts with an impulse. Bodies are
// visited in ascending id order so the result is independent of input order.
func resolvePairs(w *WorldState) []CollisionEvent {
	order := make([]*Body, len(w.Bodies))
	for i := range w.Bodies {
		order[i] = &w.Bodies[i]
	}
	sort.Slice(order, func(i, j int) bool { return order[i].ID < order[j].ID })

	var events []CollisionEvent
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, b := order[i], order[j]
			if a.IsStatic && b.IsStatic {
				continue
			}
			if ev, hit := resolvePair(w, a, b); hit {
				events = append(events, ev)
			}
		}
	}
	return events
}

// resolvePair resolves one potentially colliding pair. Positional correction
// is applied on any overlap; the impulse and the event only when the bodies
// are approaching along the contact normal.
func resolvePair(w *WorldState, a, b *Body) (CollisionEvent, bool) {
	delta := b.Position.Sub(a.Position)
	overlapX := a.HalfSize.X + b.HalfSize.X - math.Abs(delta.X)
	if overlapX <= 0 {
		return CollisionEvent{}, false
	}
	overlapY := a.HalfSize.Y + b.HalfSize.Y - math.Abs(delta.Y)
	if overlapY <= 0 {
		return CollisionEvent{}, false
	}

	// Minimum-translation axis: the smaller overlap wins, X checked first.
	var normal vec.Vector2
	var depth float64
	if overlapX < overlapY {
		depth = overlapX
		if delta.X >= 0 {
			normal = vec.Vector2{X: 1, Y: 0}
		} else {
			normal = vec.Vector2{X: -1, Y: 0}
		}
	} else {
		depth = overlapY
		if delta.Y >= 0 {
			normal = vec.Vector2{X: 0, Y: 1}
		} else {
			normal = vec.Vector2{X: 0, Y: -1}
		}
	}

	invA := a.InverseMass()
	invB := b.InverseMass()
	invSum := invA + invB

	// Split the separation in proportion to inverse mass; a static body
	// takes none of it.
	a.Position = a.Position.Sub(normal.Scale(depth * invA / invSum))
	b.Position = b.Position.Add(normal.Scale(depth * invB / invSum))

	relVel := b.Velocity.Sub(a.Velocity)
	velAlongNormal := relVel.Dot(normal)
	if velAlongNormal >= 0 {
		return CollisionEvent{}, false
	}

	e := math.Min(a.restitutionOr(w.DefaultRestitution), b.restitutionOr(w.DefaultRestitution))
	j := -(1 + e) * velAlongNormal / invSum
	impulse := normal.Scale(j)
	a.Velocity = a.Velocity.Sub(impulse.Scale(invA))
	b.Velocity = b.Velocity.Add(impulse.Scale(invB))

	applyPairFriction(w, a, b, normal, j, invSum)

	return CollisionEvent{
		AID:           a.ID,
		BID:           b.ID,
		Normal:        normal,
		Depth:         depth,
		RelativeSpeed: math.Abs(velAlongNormal),
	}, true
}

// applyPairFriction applies a Coulomb-cone tangential impulse after the normal
// impulse. Relative velocity is re-read post-impulse; a near-zero tangential
// component normalizes to the zero vector and produces no friction.
func applyPairFriction(w *WorldState, a, b *Body, normal vec.Vector2, j, invSum float64) {
	mu := math.Sqrt(a.frictionOr(w.DefaultFriction) * b.frictionOr(w.DefaultFriction))
	if mu <= 0 {
		return
	}
	relVel := b.Velocity.Sub(a.Velocity)
	tangent := relVel.Sub(normal.Scale(relVel.Dot(normal))).Normalize()
	if tangent.X == 0 && tangent.Y == 0 {
		return
	}
	jt := -relVel.Dot(tangent) / invSum
	limit := math.Abs(j * mu)
	if jt > limit {
		jt = limit
	} else if jt < -limit {
		jt = -limit
	}
	frictionImpulse := tangent.Scale(jt)
	a.Velocity = a.Velocity.Sub(frictionImpulse.Scale(a.InverseMass()))
	b.Velocity = b.Velocity.Add(frictionImpulse.Scale(b.InverseMass()))
}
