package config

import (
	"github.com/spf13/pflag"
)

// ReplayConfig holds configuration for the replay command.
type ReplayConfig struct {
	Config
	In      string
	Out     string
	Errors  string
	Summary string
	Append  bool
}

// LoadReplay merges config file, environment variables, and flags into ReplayConfig.
func LoadReplay(cfgFile string, flags *pflag.FlagSet) (ReplayConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ReplayConfig{}, err
	}
	v.SetDefault("out", "./data/executions.jsonl")
	v.SetDefault("errors", "./data/exec_errors.jsonl")
	v.SetDefault("summary", "./data/activity.jsonl")
	v.SetDefault("append", false)

	shared, err := fromViper(v)
	if err != nil {
		return ReplayConfig{}, err
	}
	return ReplayConfig{
		Config:  shared,
		In:      v.GetString("in"),
		Out:     v.GetString("out"),
		Errors:  v.GetString("errors"),
		Summary: v.GetString("summary"),
		Append:  v.GetBool("append"),
	}, nil
}
