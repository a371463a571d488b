package physics

import (
	"reflect"
	"strings"
	"testing"

	"game-sim/internal/vec"
)

func TestActionCodecRoundTrip(t *testing.T) {
	in := []Action{
		ApplyImpulse{BodyID: "a", Impulse: vec.New(1, -2)},
		ApplyForce{BodyID: "b", Force: vec.New(0, 9.8)},
		SetVelocity{BodyID: "c", Velocity: vec.New(3, 0)},
		Teleport{BodyID: "d", Position: vec.New(5, 5)},
		SpawnBody{Body: Body{ID: "e", Position: vec.New(1, 1), HalfSize: vec.New(0.5, 0.5), Mass: 2, Tag: "coin"}},
		RemoveBody{BodyID: "f"},
	}

	data, err := MarshalActions(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := UnmarshalActions(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\nin  %+v\nout %+v", in, out)
	}
}

func TestUnmarshalActionsRejectsUnknownType(t *testing.T) {
	_, err := UnmarshalActions([]byte(`[{"type":"explode","id":"a"}]`))
	if err == nil {
		t.Fatalf("expected error for unknown action type")
	}
	if !strings.Contains(err.Error(), `"explode"`) {
		t.Fatalf("error %q does not name the unknown type", err)
	}
}

func TestUnmarshalActionsRejectsSpawnWithoutBody(t *testing.T) {
	_, err := UnmarshalActions([]byte(`[{"type":"spawnBody"}]`))
	if err == nil {
		t.Fatalf("expected error for spawnBody without body")
	}
}

func TestUnmarshalActionsDefaultsMissingVectors(t *testing.T) {
	out, err := UnmarshalActions([]byte(`[{"type":"applyImpulse","id":"a"}]`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	imp, ok := out[0].(ApplyImpulse)
	if !ok {
		t.Fatalf("got %T, want ApplyImpulse", out[0])
	}
	if imp.Impulse != (vec.Vector2{}) {
		t.Fatalf("impulse = %+v, want zero vector", imp.Impulse)
	}
}
