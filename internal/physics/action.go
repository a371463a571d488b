package physics

import (
	"encoding/json"
	"fmt"

	"game-sim/internal/vec"
)

// Action is one mutation request applied to the world before integration.
// The set of implementations is closed; the stepper switches exhaustively
// over the concrete types.
type Action interface {
	// ActionType returns the wire discriminator (e.g. "applyImpulse").
	ActionType() string
}

// ApplyImpulse adds an instantaneous velocity change to a dynamic body,
// scaled by its inverse mass.
type ApplyImpulse struct {
	BodyID  string
	Impulse vec.Vector2
}

// ApplyForce changes a dynamic body's velocity by force * inverseMass * dt.
type ApplyForce struct {
	BodyID string
	Force  vec.Vector2
}

// SetVelocity overwrites a dynamic body's velocity.
type SetVelocity struct {
	BodyID   string
	Velocity vec.Vector2
}

// Teleport overwrites a dynamic body's position without touching velocity.
type Teleport struct {
	BodyID   string
	Position vec.Vector2
}

// SpawnBody inserts a new body. Ignored if the id is empty or already taken.
type SpawnBody struct {
	Body Body
}

// RemoveBody deletes a body by id. No-op if absent.
type RemoveBody struct {
	BodyID string
}

func (ApplyImpulse) ActionType() string { return "applyImpulse" }
func (ApplyForce) ActionType() string   { return "applyForce" }
func (SetVelocity) ActionType() string  { return "setVelocity" }
func (Teleport) ActionType() string     { return "teleport" }
func (SpawnBody) ActionType() string    { return "spawnBody" }
func (RemoveBody) ActionType() string   { return "removeBody" }

// actionEnvelope is the JSON wire shape of an action: a "type" discriminator
// plus the union of per-variant fields.
type actionEnvelope struct {
	Type     string       `json:"type"`
	ID       string       `json:"id,omitempty"`
	Impulse  *vec.Vector2 `json:"impulse,omitempty"`
	Force    *vec.Vector2 `json:"force,omitempty"`
	Velocity *vec.Vector2 `json:"velocity,omitempty"`
	Position *vec.Vector2 `json:"position,omitempty"`
	Body     *Body        `json:"body,omitempty"`
}

// MarshalActions encodes actions into their wire envelopes.
func MarshalActions(actions []Action) ([]byte, error) {
	envs := make([]actionEnvelope, 0, len(actions))
	for _, a := range actions {
		env := actionEnvelope{Type: a.ActionType()}
		switch act := a.(type) {
		case ApplyImpulse:
			env.ID = act.BodyID
			v := act.Impulse
			env.Impulse = &v
		case ApplyForce:
			env.ID = act.BodyID
			v := act.Force
			env.Force = &v
		case SetVelocity:
			env.ID = act.BodyID
			v := act.Velocity
			env.Velocity = &v
		case Teleport:
			env.ID = act.BodyID
			v := act.Position
			env.Position = &v
		case SpawnBody:
			b := cloneBody(act.Body)
			env.Body = &b
		case RemoveBody:
			env.ID = act.BodyID
		default:
			return nil, fmt.Errorf("unsupported action type %T", a)
		}
		envs = append(envs, env)
	}
	return json.Marshal(envs)
}

// UnmarshalActions decodes wire envelopes into typed actions. Used by the
// trusted endpoint, so an unknown type is an error rather than a repair.
func UnmarshalActions(data []byte) ([]Action, error) {
	var envs []actionEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, err
	}
	actions := make([]Action, 0, len(envs))
	for i, env := range envs {
		a, err := env.action()
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (env actionEnvelope) action() (Action, error) {
	vecOr := func(p *vec.Vector2) vec.Vector2 {
		if p == nil {
			return vec.Vector2{}
		}
		return *p
	}
	switch env.Type {
	case "applyImpulse":
		return ApplyImpulse{BodyID: env.ID, Impulse: vecOr(env.Impulse)}, nil
	case "applyForce":
		return ApplyForce{BodyID: env.ID, Force: vecOr(env.Force)}, nil
	case "setVelocity":
		return SetVelocity{BodyID: env.ID, Velocity: vecOr(env.Velocity)}, nil
	case "teleport":
		return Teleport{BodyID: env.ID, Position: vecOr(env.Position)}, nil
	case "spawnBody":
		if env.Body == nil {
			return nil, fmt.Errorf("spawnBody requires a body")
		}
		return SpawnBody{Body: cloneBody(*env.Body)}, nil
	case "removeBody":
		return RemoveBody{BodyID: env.ID}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
}
