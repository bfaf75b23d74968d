package turtlescript

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestOperationJSON(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{PlotOp(1, 2, HSV{H: 3, S: 4, V: 5}), `{"op":"plot","x":1,"y":2,"color":{"h":3,"s":4,"v":5}}`},
		{MoveOp(-1, 7), `{"op":"move","x":-1,"y":7}`},
		{TurnOp(90), `{"op":"turn","heading":90}`},
		{PenOp(true), `{"op":"pen","down":true}`},
		{HSVOp(HSV{H: 200, S: 80, V: 90}), `{"op":"hsv","color":{"h":200,"s":80,"v":90}}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.op)
		if err != nil {
			t.Errorf("Marshal(%v) failed: %v", tt.op, err)
			continue
		}
		if string(data) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.op, data, tt.want)
		}
	}
}

func TestOperationYAML(t *testing.T) {
	data, err := yaml.Marshal([]Operation{TurnOp(90), PenOp(false)})
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	var decoded []map[string]interface{}
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("Expected 2 entries, got %d:\n%s", len(decoded), data)
	}
	if decoded[0]["op"] != "turn" || decoded[0]["heading"] != 90 {
		t.Errorf("Unexpected turn entry %v", decoded[0])
	}
	if decoded[1]["op"] != "pen" || decoded[1]["down"] != false {
		t.Errorf("Unexpected pen entry %v", decoded[1])
	}
}

func TestOperationString(t *testing.T) {
	if s := MoveOp(3, 4).String(); s != "move(3, 4)" {
		t.Errorf("Unexpected String(): %s", s)
	}
	if s := PenOp(false).String(); s != "pen(up)" {
		t.Errorf("Unexpected String(): %s", s)
	}
	if s := PlotOp(0, 1, HSV{H: 10, S: 20, V: 30}).String(); s != "plot(0, 1, hsv(10, 20, 30))" {
		t.Errorf("Unexpected String(): %s", s)
	}
}
