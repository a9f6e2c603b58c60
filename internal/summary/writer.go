package summary

import (
	"encoding/json"
	"os"
	"time"
)

// New creates an empty summary with defaults.
func New(preset string, targetBytes int64) *Summary {
	return &Summary{
		Version:     SupportedSummaryVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Preset:      preset,
		TargetBytes: targetBytes,
		Entries:     make(map[string]Entry),
	}
}

// ComputeStats recalculates aggregate statistics from entries.
func (s *Summary) ComputeStats() {
	var st Stats
	st.TotalImages = len(s.Entries)
	for _, e := range s.Entries {
		if e.Error != "" {
			st.Failed++
			continue
		}
		if e.Met() {
			st.TargetMet++
		}
		st.TotalInputBytes += e.OriginalBytes
		st.TotalOutputBytes += e.OptimizedBytes
		st.TotalProbes += e.Probes
	}
	s.Stats = st
}

// WriteJSON serializes the summary to a JSON file.
func WriteJSON(s *Summary, path string) error {
	s.ComputeStats()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
