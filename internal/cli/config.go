package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/savedobjects/internal/paths"
	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "SAVEDOBJECTS"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyNamespace    = "namespace"
	cfgKeyLogLevel     = "log_level"
	cfgKeyListen       = "listen"
	cfgKeySyncStrategy = "sync_strategy"
	cfgKeyTypes        = "types"

	defaultListen   = "127.0.0.1:5601"
	defaultLogLevel = "warn"
)

// defaultTypes is the registry used when config.yaml lists no types.
var defaultTypes = []types.TypeDefinition{
	{Name: "config", NamespaceType: types.NamespaceTypeAgnostic},
	{Name: "dashboard", NamespaceType: types.NamespaceTypeSingle},
	{Name: "visualization", NamespaceType: types.NamespaceTypeSingle},
	{Name: "search", NamespaceType: types.NamespaceTypeSingle},
	{Name: "index-pattern", NamespaceType: types.NamespaceTypeMultiple},
}

// settings is the resolved configuration of one invocation.
type settings struct {
	Backend      string                 `mapstructure:"backend"`
	DataDir      string                 `mapstructure:"data_dir"`
	Namespace    string                 `mapstructure:"namespace"`
	LogLevel     string                 `mapstructure:"log_level"`
	Listen       string                 `mapstructure:"listen"`
	SyncStrategy string                 `mapstructure:"sync_strategy"`
	Types        []types.TypeDefinition `mapstructure:"types"`

	configDir string
}

// newViper returns a viper instance with defaults and SAVEDOBJECTS_* env
// bindings, reading config.yaml from configDir.
func newViper(configDir string) *viper.Viper {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyNamespace, "")
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyListen, defaultListen)
	v.SetDefault(cfgKeySyncStrategy, types.SyncImmediate)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// loadSettings reads config.yaml from configDir. A missing file is not an
// error; defaults apply.
func loadSettings(configDir string) (settings, error) {
	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config %s: %w", filepath.Join(configDir, configFileExt), err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("decode config: %w", err)
	}
	if len(s.Types) == 0 {
		s.Types = defaultTypes
	}
	return s, nil
}

// registry builds the type registry from the configured types.
func (s settings) registry() (*types.Registry, error) {
	r := types.NewRegistry()
	for _, def := range s.Types {
		if err := r.Register(def); err != nil {
			return nil, fmt.Errorf("config type %q: %w", def.Name, err)
		}
	}
	return r, nil
}

// backendConfig resolves the data directory and returns the Attach config.
func (s settings) backendConfig(dataDirFlag string) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(dataDirFlag, s.DataDir)
	if err != nil {
		return types.Config{}, sysErrorf("resolve data dir: %w", err)
	}
	cfg := types.Config{
		Backend:      s.Backend,
		DataDir:      dataDir,
		SyncStrategy: s.SyncStrategy,
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
