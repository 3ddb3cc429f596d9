package settings

import (
	"bytes"
	"fmt"

	"github.com/hoppxi/svgpatch/config"
	"github.com/hoppxi/svgpatch/internal/patcher"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "SVGPATCH"

// Settings is the resolved job plus run options. Later sources win:
// built-in defaults, job file, SVGPATCH_* environment, flags.
type Settings struct {
	Path         string `mapstructure:"path"`
	Marker       string `mapstructure:"marker"`
	Fragment     string `mapstructure:"fragment"`
	FragmentFile string `mapstructure:"fragment_file"`
	Target       string `mapstructure:"target"`
	Replacement  string `mapstructure:"replacement"`
	Backup       bool   `mapstructure:"backup"`
	DryRun       bool   `mapstructure:"dry_run"`
	Verbose      bool   `mapstructure:"verbose"`
}

// File is the on-disk shape of a job file.
type File struct {
	Path         string   `yaml:"path"`
	Marker       string   `yaml:"marker"`
	Fragment     Fragment `yaml:"fragment,omitempty"`
	FragmentFile string   `yaml:"fragment_file"`
	Target       string   `yaml:"target"`
	Replacement  string   `yaml:"replacement"`
	Backup       bool     `yaml:"backup"`
}

// Fragment is written double-quoted. A block scalar would drop the leading
// newline of the built-in gradient.
type Fragment string

func (f Fragment) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: string(f),
	}, nil
}

// flag name -> settings key
var flagKeys = map[string]string{
	"marker":        "marker",
	"target":        "target",
	"replacement":   "replacement",
	"fragment-file": "fragment_file",
	"backup":        "backup",
	"dry-run":       "dry_run",
	"verbose":       "verbose",
}

type Loader struct {
	Fs afero.Fs
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{Fs: fs}
}

func (l *Loader) defaults() (*viper.Viper, error) {
	v := viper.New()
	v.SetFs(l.Fs)
	v.SetConfigType("yaml")
	v.SetDefault("fragment", config.Gradient())

	if err := v.ReadConfig(bytes.NewReader(config.DefaultJob())); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}
	return v, nil
}

// Defaults returns the built-in job only. Environment and flags are ignored.
func (l *Loader) Defaults() (*Settings, error) {
	v, err := l.defaults()
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &s, nil
}

// Load resolves settings. cfgFile may be empty; flags may be nil.
func (l *Loader) Load(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	v, err := l.defaults()
	if err != nil {
		return nil, err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range []string{"dry_run", "verbose"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if s.FragmentFile != "" {
		data, err := afero.ReadFile(l.Fs, s.FragmentFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read fragment file: %w", err)
		}
		s.Fragment = string(data)
	}

	return &s, nil
}

func (s *Settings) Job() patcher.Job {
	return patcher.Job{
		Path:        s.Path,
		Marker:      s.Marker,
		Fragment:    s.Fragment,
		Target:      s.Target,
		Replacement: s.Replacement,
	}
}

func (s *Settings) Options() patcher.Options {
	return patcher.Options{DryRun: s.DryRun, Backup: s.Backup}
}

// File drops the per-run options. The fragment is written inline only when it
// is neither the built-in gradient nor read from a fragment file.
func (s *Settings) File() File {
	f := File{
		Path:         s.Path,
		Marker:       s.Marker,
		FragmentFile: s.FragmentFile,
		Target:       s.Target,
		Replacement:  s.Replacement,
		Backup:       s.Backup,
	}
	if s.FragmentFile == "" && s.Fragment != config.Gradient() {
		f.Fragment = Fragment(s.Fragment)
	}
	return f
}
