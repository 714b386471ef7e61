package bridge

import (
	"context"
	"errors"

	"moss/pkg/types"
)

// progressBuffer bounds how far the backend can run ahead of a slow
// progress callback before delivery blocks.
const progressBuffer = 16

// CompileOptions configures a single compilation.
type CompileOptions struct {
	FolderPath string
	AutoServe  bool // Start the local preview server once compiled
	Watch      bool // Keep recompiling (and emitting progress) on file changes
	// OnProgress is invoked once per backend progress notification, in
	// emission order. May be nil.
	OnProgress func(types.ProgressUpdate)
}

// DefaultCompileOptions returns compile options with auto-serve enabled,
// matching the backend's default behavior when the caller says nothing.
func DefaultCompileOptions(folderPath string) CompileOptions {
	return CompileOptions{
		FolderPath: folderPath,
		AutoServe:  true,
	}
}

// Bridge exposes a typed surface over the backend command surface. It
// unwraps the Result envelope into value-or-error and forwards progress
// notifications to caller-supplied callbacks. Construct one with New and
// pass it to consumers; there is no package-level instance.
type Bridge struct {
	commander Commander
}

// New creates a bridge over the given commander.
func New(commander Commander) *Bridge {
	return &Bridge{commander: commander}
}

// Compile asks the backend to compile a folder into a website and resolves
// with the backend-reported output identifier (a path or URL). The folder
// path is not validated here; the backend enforces its own constraints and
// its error message is the contract.
//
// Each invocation gets its own progress channel; every notification the
// backend emits before the call settles reaches OnProgress exactly once, in
// order. With Watch set, the call still resolves after the initial build
// and OnProgress keeps receiving updates until the backend closes the
// stream. Concurrent Compile calls proceed independently; the bridge never
// serializes them.
func (b *Bridge) Compile(ctx context.Context, opts CompileOptions) (string, error) {
	progressCh := make(chan types.ProgressUpdate, progressBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if opts.OnProgress != nil {
				opts.OnProgress(update)
			}
		}
	}()

	req := CompileRequest{
		FolderPath: opts.FolderPath,
		AutoServe:  opts.AutoServe,
		Watch:      opts.Watch,
	}
	res, err := b.commander.CompileFolder(ctx, req, progressCh)
	if !opts.Watch {
		// Drain the stream so updates emitted before the result are
		// delivered before the caller sees it.
		<-done
	}
	if err != nil {
		return "", err
	}
	return unwrap(res)
}

// SystemStatus fetches the backend's status report.
func (b *Bridge) SystemStatus(ctx context.Context) (types.SystemStatus, error) {
	res, err := b.commander.SystemStatus(ctx)
	if err != nil {
		return types.SystemStatus{}, err
	}
	return unwrap(res)
}

// InstallFinderIntegration asks the backend to install its Finder context
// menu item. Idempotency is the backend's business, not guaranteed here.
func (b *Bridge) InstallFinderIntegration(ctx context.Context) error {
	res, err := b.commander.InstallFinderIntegration(ctx)
	if err != nil {
		return err
	}
	_, err = unwrap(res)
	return err
}

// unwrap converts the Result envelope into value-or-error. The error
// message is the backend's, verbatim.
func unwrap[T any](res types.Result[T]) (T, error) {
	if res.Status != types.StatusOK {
		var zero T
		return zero, errors.New(res.Error)
	}
	return res.Data, nil
}
