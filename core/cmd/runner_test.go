package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/magnitronlab/preorder-bot/core/config"
	coretelegram "github.com/magnitronlab/preorder-bot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type fakeApp struct {
	closed bool
	opts   coretelegram.RunOptions
}

func (a *fakeApp) TelegramRunOptions() (coretelegram.RunOptions, error) { return a.opts, nil }
func (a *fakeApp) Close() error                                         { a.closed = true; return nil }

func TestRunWiresLifecycleHooks(t *testing.T) {
	t.Setenv("PREORDER_TEST_CONFIG", "")
	var loadedPath = "unset"
	var hooks []string
	app := &fakeApp{opts: coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error { hooks = append(hooks, "start"); return nil },
		OnStop:  func(context.Context, coretelegram.Runtime) error { hooks = append(hooks, "stop"); return nil },
	}}

	err := Run(Options{
		ConfigEnvVar:      "PREORDER_TEST_CONFIG",
		DefaultConfigPath: "does-not-exist.yaml",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loadedPath = path
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(context.Context, ConfigCarrier) (TelegramApp, error) { return app, nil },
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			require.NoError(t, opts.OnStart(ctx, coretelegram.Runtime{}))
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "", loadedPath)
	assert.Equal(t, []string{"start", "stop"}, hooks)
	assert.True(t, app.closed)
}

func TestRunPropagatesBootstrapFailure(t *testing.T) {
	boom := errors.New("boom")
	err := Run(Options{
		LoadConfig: func(string) (ConfigCarrier, error) { return carrier{cfg: &coreconfig.Config{}}, nil },
		Bootstrap:  func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, boom },
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunRequiresCallbacks(t *testing.T) {
	assert.Error(t, Run(Options{}))
}
