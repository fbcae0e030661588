package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fbgain/internal/dynamo"
)

// Data is the self-contained JSON form of a design and its simulated run.
type Data struct {
	Model      string             `json:"model"`
	Poles      []string           `json:"poles"`
	Gain       []float64          `json:"gain"`
	Prescale   float64            `json:"prescale"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Outputs    [][]float64        `json:"outputs,omitempty"`
	Controls   [][]float64        `json:"controls"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Attach copies the trace of result into d.
func (d *Data) Attach(result *dynamo.Result) {
	d.Steps = result.StepsTaken
	d.Times = result.Times
	d.Metrics = result.Metrics
	d.Outputs = result.Outputs
	d.States = make([][]float64, len(result.States))
	for i, s := range result.States {
		d.States[i] = s
	}
	d.Controls = make([][]float64, len(result.Controls))
	for i, c := range result.Controls {
		d.Controls[i] = c
	}
}

func WriteJSON(w io.Writer, d *Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
