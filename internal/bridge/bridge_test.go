package bridge

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"moss/pkg/types"
)

// fakeCommander implements Commander with pluggable behavior per command.
type fakeCommander struct {
	compileFn func(ctx context.Context, req CompileRequest, progress chan<- types.ProgressUpdate) (types.Result[string], error)
	statusFn  func(ctx context.Context) (types.Result[types.SystemStatus], error)
	installFn func(ctx context.Context) (types.Result[struct{}], error)
}

func (f *fakeCommander) CompileFolder(ctx context.Context, req CompileRequest, progress chan<- types.ProgressUpdate) (types.Result[string], error) {
	return f.compileFn(ctx, req, progress)
}

func (f *fakeCommander) SystemStatus(ctx context.Context) (types.Result[types.SystemStatus], error) {
	return f.statusFn(ctx)
}

func (f *fakeCommander) InstallFinderIntegration(ctx context.Context) (types.Result[struct{}], error) {
	return f.installFn(ctx)
}

// emitting returns a compile function that delivers the given updates,
// closes the stream and settles with the given result.
func emitting(updates []types.ProgressUpdate, res types.Result[string], err error) func(context.Context, CompileRequest, chan<- types.ProgressUpdate) (types.Result[string], error) {
	return func(ctx context.Context, req CompileRequest, progress chan<- types.ProgressUpdate) (types.Result[string], error) {
		for _, u := range updates {
			progress <- u
		}
		close(progress)
		return res, err
	}
}

func TestCompile(t *testing.T) {
	t.Run("forwards progress and resolves output", func(t *testing.T) {
		updates := []types.ProgressUpdate{
			{Stage: "scanning", Percent: 10},
			{Stage: "rendering", File: "index.md", Percent: 80},
		}
		b := New(&fakeCommander{
			compileFn: emitting(updates, types.Ok("https://example.moss.pub"), nil),
		})

		var got []types.ProgressUpdate
		out, err := b.Compile(context.Background(), CompileOptions{
			FolderPath: "~/notes",
			AutoServe:  true,
			OnProgress: func(u types.ProgressUpdate) { got = append(got, u) },
		})
		require.NoError(t, err)
		require.Equal(t, "https://example.moss.pub", out)
		require.Equal(t, updates, got)
	})

	t.Run("forwards many updates exactly once in order", func(t *testing.T) {
		var updates []types.ProgressUpdate
		for i := 0; i < 100; i++ {
			updates = append(updates, types.ProgressUpdate{Stage: fmt.Sprintf("step-%03d", i), Percent: float64(i)})
		}
		b := New(&fakeCommander{
			compileFn: emitting(updates, types.Ok("/tmp/site"), nil),
		})

		var got []types.ProgressUpdate
		_, err := b.Compile(context.Background(), CompileOptions{
			FolderPath: "~/notes",
			OnProgress: func(u types.ProgressUpdate) { got = append(got, u) },
		})
		require.NoError(t, err)
		require.Equal(t, updates, got)
	})

	t.Run("backend error surfaces verbatim", func(t *testing.T) {
		b := New(&fakeCommander{
			compileFn: emitting(nil, types.Err[string]("folder does not exist"), nil),
		})

		_, err := b.Compile(context.Background(), DefaultCompileOptions("~/missing"))
		require.EqualError(t, err, "folder does not exist")
	})

	t.Run("transport failure propagates unchanged", func(t *testing.T) {
		b := New(&fakeCommander{
			compileFn: emitting(nil, types.Result[string]{}, errors.New("Backend connection failed")),
		})

		_, err := b.Compile(context.Background(), DefaultCompileOptions("~/notes"))
		require.EqualError(t, err, "Backend connection failed")
	})

	t.Run("empty folder path is left to the backend", func(t *testing.T) {
		var got CompileRequest
		b := New(&fakeCommander{
			compileFn: func(ctx context.Context, req CompileRequest, progress chan<- types.ProgressUpdate) (types.Result[string], error) {
				got = req
				close(progress)
				return types.Err[string]("folder path must not be empty"), nil
			},
		})

		_, err := b.Compile(context.Background(), CompileOptions{})
		require.Equal(t, "", got.FolderPath)
		require.EqualError(t, err, "folder path must not be empty")
	})

	t.Run("request carries the options", func(t *testing.T) {
		var got CompileRequest
		b := New(&fakeCommander{
			compileFn: func(ctx context.Context, req CompileRequest, progress chan<- types.ProgressUpdate) (types.Result[string], error) {
				got = req
				close(progress)
				return types.Ok("/tmp/site"), nil
			},
		})

		_, err := b.Compile(context.Background(), CompileOptions{
			FolderPath: "~/notes",
			AutoServe:  true,
			Watch:      true,
		})
		require.NoError(t, err)
		require.Equal(t, CompileRequest{FolderPath: "~/notes", AutoServe: true, Watch: true}, got)
	})

	t.Run("nil progress callback is allowed", func(t *testing.T) {
		b := New(&fakeCommander{
			compileFn: emitting([]types.ProgressUpdate{{Stage: "rendering"}}, types.Ok("/tmp/site"), nil),
		})

		out, err := b.Compile(context.Background(), DefaultCompileOptions("~/notes"))
		require.NoError(t, err)
		require.Equal(t, "/tmp/site", out)
	})

	t.Run("watch keeps forwarding after resolution", func(t *testing.T) {
		received := make(chan types.ProgressUpdate, 4)
		release := make(chan struct{})
		b := New(&fakeCommander{
			compileFn: func(ctx context.Context, req CompileRequest, progress chan<- types.ProgressUpdate) (types.Result[string], error) {
				progress <- types.ProgressUpdate{Stage: "building"}
				go func() {
					<-release
					progress <- types.ProgressUpdate{Stage: "rebuilding"}
					close(progress)
				}()
				return types.Ok("file:///tmp/site"), nil
			},
		})

		out, err := b.Compile(context.Background(), CompileOptions{
			FolderPath: "~/notes",
			Watch:      true,
			OnProgress: func(u types.ProgressUpdate) { received <- u },
		})
		require.NoError(t, err)
		require.Equal(t, "file:///tmp/site", out)

		select {
		case u := <-received:
			require.Equal(t, "building", u.Stage)
		case <-time.After(time.Second):
			t.Fatal("initial progress update never arrived")
		}

		close(release)
		select {
		case u := <-received:
			require.Equal(t, "rebuilding", u.Stage)
		case <-time.After(time.Second):
			t.Fatal("no progress after resolution in watch mode")
		}
	})
}

func TestSystemStatus(t *testing.T) {
	t.Run("ok data passes through unmodified", func(t *testing.T) {
		want := types.SystemStatus{
			Version:             "1.4.2",
			Platform:            "darwin-arm64",
			FinderIntegration:   true,
			PreviewServerActive: true,
			PreviewServerURL:    "http://localhost:1924",
		}
		b := New(&fakeCommander{
			statusFn: func(ctx context.Context) (types.Result[types.SystemStatus], error) {
				return types.Ok(want), nil
			},
		})

		got, err := b.SystemStatus(context.Background())
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("backend error surfaces verbatim", func(t *testing.T) {
		b := New(&fakeCommander{
			statusFn: func(ctx context.Context) (types.Result[types.SystemStatus], error) {
				return types.Err[types.SystemStatus]("disk full"), nil
			},
		})

		_, err := b.SystemStatus(context.Background())
		require.EqualError(t, err, "disk full")
	})

	t.Run("transport failure propagates unchanged", func(t *testing.T) {
		b := New(&fakeCommander{
			statusFn: func(ctx context.Context) (types.Result[types.SystemStatus], error) {
				return types.Result[types.SystemStatus]{}, errors.New("Backend connection failed")
			},
		})

		_, err := b.SystemStatus(context.Background())
		require.EqualError(t, err, "Backend connection failed")
	})
}

func TestInstallFinderIntegration(t *testing.T) {
	t.Run("ok resolves", func(t *testing.T) {
		b := New(&fakeCommander{
			installFn: func(ctx context.Context) (types.Result[struct{}], error) {
				return types.Ok(struct{}{}), nil
			},
		})
		require.NoError(t, b.InstallFinderIntegration(context.Background()))
	})

	t.Run("backend error surfaces verbatim", func(t *testing.T) {
		b := New(&fakeCommander{
			installFn: func(ctx context.Context) (types.Result[struct{}], error) {
				return types.Err[struct{}]("permission denied"), nil
			},
		})
		err := b.InstallFinderIntegration(context.Background())
		require.EqualError(t, err, "permission denied")
	})

	t.Run("transport failure propagates unchanged", func(t *testing.T) {
		b := New(&fakeCommander{
			installFn: func(ctx context.Context) (types.Result[struct{}], error) {
				return types.Result[struct{}]{}, errors.New("Backend connection failed")
			},
		})
		err := b.InstallFinderIntegration(context.Background())
		require.EqualError(t, err, "Backend connection failed")
	})
}

func TestDefaultCompileOptions(t *testing.T) {
	opts := DefaultCompileOptions("~/notes")
	require.Equal(t, "~/notes", opts.FolderPath)
	require.True(t, opts.AutoServe)
	require.False(t, opts.Watch)
	require.Nil(t, opts.OnProgress)
}
