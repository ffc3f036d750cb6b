package tabletop

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Key    string  `json:"key,omitempty"`
	Text   string  `json:"text,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// inputScript is the top-level JSON structure for an input script.
type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

// LoadInputScript parses a JSON input script and returns a ScriptedInput with
// every step queued. Supported actions: click, rightclick, move, drag, key,
// type, wait.
//
//	{"steps": [
//		{"action": "click", "x": 100, "y": 200},
//		{"action": "drag", "fromX": 10, "fromY": 10, "toX": 300, "toY": 40, "frames": 8},
//		{"action": "key", "key": "r"},
//		{"action": "type", "text": "Hi!"},
//		{"action": "wait", "frames": 3}
//	]}
func LoadInputScript(jsonData []byte) (*ScriptedInput, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("tabletop: parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("tabletop: parse input script: no steps")
	}
	in := NewScriptedInput()
	for i, st := range script.Steps {
		switch st.Action {
		case "click":
			in.Click(st.X, st.Y)
		case "rightclick":
			in.RightClick(st.X, st.Y)
		case "move":
			in.Move(st.X, st.Y)
		case "drag":
			in.Drag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
		case "key":
			if st.Key == "" {
				return nil, fmt.Errorf("tabletop: parse input script: step %d: key action without key", i)
			}
			in.Key(st.Key)
		case "type":
			if st.Text == "" {
				return nil, fmt.Errorf("tabletop: parse input script: step %d: type action without text", i)
			}
			in.Type(st.Text)
		case "wait":
			in.Wait(max(st.Frames, 1))
		default:
			return nil, fmt.Errorf("tabletop: parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return in, nil
}
