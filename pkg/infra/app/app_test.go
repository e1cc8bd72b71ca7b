package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreeshail-sp/docsearch/pkg/app/cliflag"
	"github.com/Shreeshail-sp/docsearch/pkg/infra/config"
)

type retrievalOptions struct {
	TopK    int    `mapstructure:"top-k"`
	DataDir string `mapstructure:"data-dir"`
}

type testOptions struct {
	Docsearch retrievalOptions `mapstructure:"docsearch"`
	completed bool
}

func (o *testOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("docsearch")
	fs.IntVar(&o.Docsearch.TopK, "docsearch.top-k", 5, "results per query")
	fs.StringVar(&o.Docsearch.DataDir, "docsearch.data-dir", "data", "data directory")
	return fss
}

func (o *testOptions) Complete() error {
	o.completed = true
	return nil
}

func (o *testOptions) Validate() error {
	if o.Docsearch.TopK < 1 || o.Docsearch.TopK > 100 {
		return fmt.Errorf("docsearch.top-k must be between 1 and 100, got %d", o.Docsearch.TopK)
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runApp(t *testing.T, opts *testOptions, extra []Option, args ...string) (bool, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	ran := false
	all := append([]Option{
		WithName("docsearch-test"),
		WithOptions(opts),
		WithSilence(),
		WithRunFunc(func() error {
			ran = true
			return nil
		}),
	}, extra...)
	a := NewApp(all...)
	a.Command().SetArgs(args)
	return ran, a.Command().Execute()
}

func TestApp_LoadsConfigFileAndExpandsEnv(t *testing.T) {
	t.Setenv("DOCSEARCH_TEST_HOME", "/srv/docsearch")
	path := writeConfig(t, "docsearch:\n  top-k: 7\n  data-dir: ${DOCSEARCH_TEST_HOME}/data\n")

	opts := &testOptions{}
	ran, err := runApp(t, opts, nil, "-c", path)
	require.NoError(t, err)

	assert.True(t, ran)
	assert.True(t, opts.completed)
	assert.Equal(t, 7, opts.Docsearch.TopK)
	assert.Equal(t, "/srv/docsearch/data", opts.Docsearch.DataDir)
}

func TestApp_FlagsOverrideConfigFile(t *testing.T) {
	path := writeConfig(t, "docsearch:\n  top-k: 7\n")

	opts := &testOptions{}
	_, err := runApp(t, opts, nil, "-c", path, "--docsearch.top-k=9")
	require.NoError(t, err)
	assert.Equal(t, 9, opts.Docsearch.TopK)
}

func TestApp_EnvironmentOverridesConfigFile(t *testing.T) {
	t.Setenv("DOCSEARCH_TEST_DOCSEARCH_TOP_K", "12")
	path := writeConfig(t, "docsearch:\n  top-k: 7\n")

	opts := &testOptions{}
	_, err := runApp(t, opts, nil, "-c", path)
	require.NoError(t, err)
	assert.Equal(t, 12, opts.Docsearch.TopK)
}

func TestApp_ValidationErrorStopsRun(t *testing.T) {
	opts := &testOptions{}
	ran, err := runApp(t, opts, nil, "--docsearch.top-k=500")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top-k")
	assert.False(t, ran)
}

func TestApp_MissingExplicitConfigFails(t *testing.T) {
	opts := &testOptions{}
	_, err := runApp(t, opts, nil, "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestApp_WatchConfig(t *testing.T) {
	path := writeConfig(t, "docsearch:\n  top-k: 3\n")

	var watcher *config.Watcher
	opts := &testOptions{}
	_, err := runApp(t, opts, []Option{WithWatchFunc(func(w *config.Watcher) {
		w.Subscribe("noop", func(*viper.Viper) error { return nil })
		watcher = w
	})}, "-c", path, "--watch-config")
	require.NoError(t, err)

	require.NotNil(t, watcher)
	assert.True(t, watcher.IsWatching())
	assert.Equal(t, 1, watcher.HandlerCount())
	watcher.Stop()
}

func TestApp_NoWatchWithoutFlag(t *testing.T) {
	path := writeConfig(t, "docsearch:\n  top-k: 3\n")

	called := false
	_, err := runApp(t, &testOptions{}, []Option{WithWatchFunc(func(*config.Watcher) { called = true })}, "-c", path)
	require.NoError(t, err)
	assert.False(t, called)
}
