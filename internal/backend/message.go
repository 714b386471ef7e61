package backend

import "encoding/json"

// Command names understood by the moss backend.
const (
	cmdCompileFolder            = "compile_folder"
	cmdSystemStatus             = "get_system_status"
	cmdInstallFinderIntegration = "install_finder_integration"
)

// Event names the backend attaches to mid-call notifications.
const (
	eventProgress = "progress"
	eventClosed   = "closed"
)

// channelTokenLength is the size of the token labelling one progress channel.
const channelTokenLength = 8

// request is one framed command sent to the backend. Channel is set only
// for commands that stream progress.
type request struct {
	ID      uint64          `json:"id"`
	Command string          `json:"command"`
	Channel string          `json:"channel,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// frame is anything the backend sends back. A response to a request
// carries ID and Result; a notification carries Channel and Event, plus
// Data when the event is a progress update.
type frame struct {
	ID      uint64          `json:"id,omitempty"`
	Channel string          `json:"channel,omitempty"`
	Event   string          `json:"event,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}
