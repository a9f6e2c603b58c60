package summary

// Summary is the top-level record of an imgfit batch run.
type Summary struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Preset      string           `json:"preset"`
	TargetBytes int64            `json:"target_bytes"`
	Entries     map[string]Entry `json:"entries"`
	Stats       Stats            `json:"stats"`
}

// Entry describes the outcome for a single source image.
type Entry struct {
	Input          string  `json:"input"`
	Output         string  `json:"output,omitempty"`
	Format         string  `json:"format,omitempty"`
	OriginalBytes  int64   `json:"original_bytes"`
	OriginalWidth  int     `json:"original_width"`
	OriginalHeight int     `json:"original_height"`
	OptimizedBytes int64   `json:"optimized_bytes"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Quality        int     `json:"quality"`
	Scale          float64 `json:"scale"`
	Probes         int     `json:"probes"`
	Reason         string  `json:"reason,omitempty"` // terminal search outcome
	Hash           string  `json:"hash,omitempty"`   // first 16 hex chars of xxhash64
	Error          string  `json:"error,omitempty"`
}

// Met reports whether this entry came in under the byte budget.
func (e Entry) Met() bool { return e.Reason == "target-met" }

// Stats aggregates batch metrics.
type Stats struct {
	TotalImages      int   `json:"total_images"`
	TargetMet        int   `json:"target_met"`
	Failed           int   `json:"failed"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalProbes      int   `json:"total_probes"`
}

// SupportedSummaryVersion is the current schema version.
const SupportedSummaryVersion = 1
