package bridge

import (
	"context"

	"moss/pkg/types"
)

// CompileRequest carries the parameters of one compileFolder invocation.
type CompileRequest struct {
	FolderPath string `json:"folder_path"`
	AutoServe  bool   `json:"auto_serve"`
	Watch      bool   `json:"watch"`
}

// Commander is the backend command surface the bridge wraps.
//
// A non-nil error return is a transport failure (backend unreachable,
// connection lost); a Result with status "error" is a structured backend
// error. Implementations must deliver progress updates on the supplied
// channel in emission order, and must close the channel on every path once
// the invocation's stream ends: right after the call settles for plain
// compiles, when the backend stops emitting for watch compiles.
type Commander interface {
	CompileFolder(ctx context.Context, req CompileRequest, progress chan<- types.ProgressUpdate) (types.Result[string], error)
	SystemStatus(ctx context.Context) (types.Result[types.SystemStatus], error)
	InstallFinderIntegration(ctx context.Context) (types.Result[struct{}], error)
}
