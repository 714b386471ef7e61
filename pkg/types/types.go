package types

// ProgressUpdate is one incremental compilation status notification emitted
// by the moss backend. The bridge forwards these without interpreting them;
// the fields below are the backend's, described here for display purposes.
type ProgressUpdate struct {
	Stage   string  `json:"stage"`             // e.g. "scanning", "rendering", "serving"
	Message string  `json:"message,omitempty"` // Human-readable detail
	File    string  `json:"file,omitempty"`    // File currently being processed
	Percent float64 `json:"percent"`           // Overall completion, 0-100
}

// SystemStatus describes the backend process and its integrations.
type SystemStatus struct {
	Version             string `json:"version"`
	Platform            string `json:"platform"`
	FinderIntegration   bool   `json:"finder_integration"`
	PreviewServerActive bool   `json:"preview_server_active"`
	PreviewServerURL    string `json:"preview_server_url,omitempty"`
}

// Status values carried by every Result envelope.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Result is the envelope every backend command resolves with. Exactly one
// of Data/Error is meaningful, selected by Status.
type Result[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Ok wraps a successful payload in a Result envelope.
func Ok[T any](data T) Result[T] {
	return Result[T]{Status: StatusOK, Data: data}
}

// Err wraps a backend error message in a Result envelope.
func Err[T any](message string) Result[T] {
	return Result[T]{Status: StatusError, Error: message}
}
