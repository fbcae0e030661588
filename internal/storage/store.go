package storage

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/fbgain/internal/dynamo"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// ErrRunNotFound is returned when no run directory matches an ID.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one simulated design. Poles are kept in their
// textual form so the file stays readable.
type RunMetadata struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Timestamp   time.Time          `json:"timestamp"`
	Fingerprint string             `json:"fingerprint"`
	Poles       []string           `json:"poles"`
	Achieved    []string           `json:"achieved"`
	Gain        []float64          `json:"gain"`
	Prescale    float64            `json:"prescale"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Integrator  string             `json:"integrator"`
	Controller  string             `json:"controller"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Fingerprint hashes the YAML encoding of a design configuration so runs of
// the same design can be grouped.
func Fingerprint(cfg any) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}

// Save writes metadata and the trace under a new run directory and returns
// the run ID. ID and Timestamp in meta are overwritten.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Model, uuid.NewString()[:8])
	meta.Timestamp = time.Now().UTC()
	if meta.Metrics == nil {
		meta.Metrics = result.Metrics
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeStates(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(result.States) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	numOutputs := 0
	if len(result.Outputs) > 0 {
		numOutputs = len(result.Outputs[0])
		for i := 0; i < numOutputs; i++ {
			header = append(header, fmt.Sprintf("y%d", i))
		}
	}
	numControls := 0
	if len(result.Controls) > 0 {
		numControls = len(result.Controls[0])
		for i := 0; i < numControls; i++ {
			header = append(header, fmt.Sprintf("u%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := []string{formatFloat(result.Times[i])}
		for _, v := range result.States[i] {
			row = append(row, formatFloat(v))
		}
		for j := 0; j < numOutputs; j++ {
			v := 0.0
			if i < len(result.Outputs) && j < len(result.Outputs[i]) {
				v = result.Outputs[i][j]
			}
			row = append(row, formatFloat(v))
		}
		// the final sample has no control applied after it
		for j := 0; j < numControls; j++ {
			v := 0.0
			if i < len(result.Controls) && j < len(result.Controls[i]) {
				v = result.Controls[i][j]
			}
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// Trace is a stored run's samples, column-major by name.
type Trace struct {
	Header  []string
	Times   []float64
	Columns map[string][]float64
}

// Column returns the named series, or nil.
func (t *Trace) Column(name string) []float64 {
	return t.Columns[name]
}

// LoadStates reads a run's CSV trace. Rows that fail to parse are skipped.
func (s *Store) LoadStates(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	trace := &Trace{Columns: make(map[string][]float64)}
	if len(records) == 0 {
		return trace, nil
	}
	trace.Header = records[0][1:]

	for _, record := range records[1:] {
		if len(record) != len(records[0]) {
			continue
		}
		vals := make([]float64, len(record))
		ok := true
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		trace.Times = append(trace.Times, vals[0])
		for j, name := range trace.Header {
			trace.Columns[name] = append(trace.Columns[name], vals[j+1])
		}
	}
	return trace, nil
}
