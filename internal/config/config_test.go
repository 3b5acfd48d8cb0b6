package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("KV_REST_API_URL", "")
	t.Setenv("KV_REST_API_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, 200, cfg.UsedWindow)
	assert.Equal(t, 15*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, StoreFile, cfg.StoreBackend)
	assert.Equal(t, GeneratorDeterministic, cfg.GeneratorBackend)
	assert.False(t, cfg.ModelConfigured())
}

func TestResolveDefaults_Auto(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantStore StoreBackend
		wantGen   GeneratorBackend
	}{
		{
			name:      "remote when kv configured",
			cfg:       Config{KVURL: "https://kv.example", KVToken: "t", OpenAIKey: "sk"},
			wantStore: StoreRemote,
			wantGen:   GeneratorExternal,
		},
		{
			name:      "memory when no data dir",
			cfg:       Config{},
			wantStore: StoreMemory,
			wantGen:   GeneratorDeterministic,
		},
		{
			name:      "static stays static",
			cfg:       Config{StoreBackend: StoreMemory, GeneratorBackend: GeneratorStatic},
			wantStore: StoreMemory,
			wantGen:   GeneratorStatic,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			require.NoError(t, cfg.ResolveDefaults())
			assert.Equal(t, tt.wantStore, cfg.StoreBackend)
			assert.Equal(t, tt.wantGen, cfg.GeneratorBackend)
			assert.Equal(t, 200, cfg.UsedWindow)
		})
	}
}

func TestResolveDefaults_FileWhenWritable(t *testing.T) {
	cfg := Config{DataDir: t.TempDir()}
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, StoreFile, cfg.StoreBackend)
}

func TestResolveDefaults_Errors(t *testing.T) {
	bad := []Config{
		{StoreBackend: StoreRemote},
		{StoreBackend: "etcd"},
		{StoreBackend: StoreMemory, GeneratorBackend: GeneratorExternal},
		{StoreBackend: StoreMemory, GeneratorBackend: "oracle"},
	}
	for _, cfg := range bad {
		c := cfg
		assert.Error(t, c.ResolveDefaults(), "%+v", cfg)
	}
}

func TestHTTPAddr(t *testing.T) {
	cfg := Config{Port: 9000}
	assert.Equal(t, ":9000", cfg.HTTPAddr())
}
