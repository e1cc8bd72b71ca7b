package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retrievalSection struct {
	TopK int `mapstructure:"top-k"`
}

type mockReloadable struct {
	mu    sync.Mutex
	calls int
	last  any
	err   error
}

func (m *mockReloadable) OnConfigChange(newConfig any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.last = newConfig
	return m.err
}

func (m *mockReloadable) snapshot() (int, any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.last
}

func newYAMLViper(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))
	return v
}

func TestWatcher_SubscribeUnsubscribe(t *testing.T) {
	w := NewWatcher(viper.New())
	assert.Equal(t, 0, w.HandlerCount())

	w.Subscribe("log", func(*viper.Viper) error { return nil })
	w.Subscribe("log", func(*viper.Viper) error { return nil })
	w.Subscribe("docsearch", func(*viper.Viper) error { return nil })
	assert.Equal(t, 2, w.HandlerCount())

	w.Unsubscribe("log")
	w.Unsubscribe("missing")
	assert.Equal(t, 1, w.HandlerCount())
}

func TestWatcher_NotifyRunsEveryHandler(t *testing.T) {
	w := NewWatcher(newYAMLViper(t, "docsearch:\n  top-k: 7\n"))

	var order []string
	w.Subscribe("b", func(*viper.Viper) error {
		order = append(order, "b")
		return errors.New("rejected")
	})
	w.Subscribe("a", func(v *viper.Viper) error {
		order = append(order, "a")
		assert.Equal(t, 7, v.GetInt("docsearch.top-k"))
		return nil
	})

	assert.Equal(t, 0, w.notify(), "not watching yet")
	assert.Empty(t, order)

	w.watching = true
	assert.Equal(t, 1, w.notify())
	assert.Equal(t, []string{"a", "b"}, order)

	w.Stop()
	assert.False(t, w.IsWatching())
}

func TestReloadableSubscriber_Handler(t *testing.T) {
	v := newYAMLViper(t, "docsearch:\n  top-k: 9\n")

	comp := &mockReloadable{}
	target := &retrievalSection{}
	handler := NewReloadableSubscriber(comp, "docsearch", target).Handler()
	require.NoError(t, handler(v))

	calls, last := comp.snapshot()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 9, last.(*retrievalSection).TopK)

	comp.err = errors.New("bad value")
	err := handler(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "component rejected config change")
}

func TestWatcher_FileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("docsearch:\n  top-k: 5\n"), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var seen atomic.Int64
	w := NewWatcher(v)
	w.Subscribe("docsearch", func(v *viper.Viper) error {
		seen.Store(int64(v.GetInt("docsearch.top-k")))
		return nil
	})
	w.Start()
	w.Start()
	defer w.Stop()
	assert.True(t, w.IsWatching())

	require.NoError(t, os.WriteFile(path, []byte("docsearch:\n  top-k: 11\n"), 0o644))
	assert.Eventually(t, func() bool { return seen.Load() == 11 }, 5*time.Second, 20*time.Millisecond)
}
