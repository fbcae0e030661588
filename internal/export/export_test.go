package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fbgain/internal/dynamo"
)

func TestResponsePlotSave(t *testing.T) {
	s := Series{Name: "vc", X: []float64{0, 0.1, 0.2}, Y: []float64{1, 0.5, 0.1}}
	p, err := ResponsePlot("response", "volts", s)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}

	for _, name := range []string{"out.png", "out.svg"} {
		path := filepath.Join(t.TempDir(), name)
		if err := Save(p, path, 0, 0); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	if err := Save(p, filepath.Join(t.TempDir(), "out.bmp"), 0, 0); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestResponsePlotErrors(t *testing.T) {
	if _, err := ResponsePlot("empty", "y"); err == nil {
		t.Error("expected error with no series")
	}
	bad := Series{Name: "bad", X: []float64{0, 1}, Y: []float64{1}}
	if _, err := ResponsePlot("bad", "y", bad); err == nil {
		t.Error("expected error for mismatched series")
	}
}

func TestPoleMap(t *testing.T) {
	p, err := PoleMap([]complex128{-50 + 312i, -50 - 312i}, []complex128{-20 + 10i, -20 - 10i})
	if err != nil {
		t.Fatalf("pole map: %v", err)
	}
	path := filepath.Join(t.TempDir(), "poles.png")
	if err := Save(p, path, 0, 0); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	result := &dynamo.Result{
		States:     []dynamo.State{{0, 1e-4}, {0.1, 0.9e-4}},
		Controls:   []dynamo.Control{{0.5}},
		Times:      []float64{0, 1e-4},
		Metrics:    map[string]float64{"control_effort": 0.25},
		StepsTaken: 1,
	}
	d := &Data{Model: "rlc", Gain: []float64{-6, -9950}}
	d.Attach(result)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, d); err != nil {
		t.Fatal(err)
	}

	var decoded Data
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Steps != 1 || len(decoded.States) != 2 || decoded.Gain[1] != -9950 {
		t.Errorf("unexpected decoded data: %+v", decoded)
	}
}
