package config

import (
	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
	"github.com/je4/utils/v2/pkg/checksum"
	configutil "github.com/je4/utils/v2/pkg/config"
	"github.com/je4/utils/v2/pkg/stashconfig"
	"golang.org/x/exp/slices"
	"os"
	"strings"
)

// StatInfos are the sections the stat command can show.
var StatInfos = []string{"kinds", "files", "digests", "spine", "orphans"}

type StageConfig struct {
	Title    string `toml:"title"`
	Cover    string `toml:"cover"`
	Manifest string `toml:"manifest"`
	Nav      string `toml:"nav"`
}

type StatConfig struct {
	Info []string `toml:"info"`
}

type GOBOOKConfig struct {
	TempDir        configutil.EnvString     `toml:"tempdir"`
	KeepStaging    bool                     `toml:"keepstaging"`
	Digest         checksum.DigestAlgorithm `toml:"digest"`
	Sanitize       bool                     `toml:"sanitize"`
	DeleteOnRemove bool                     `toml:"deleteonremove"`
	Stage          *StageConfig             `toml:"Stage"`
	Stat           *StatConfig              `toml:"Stat"`
	Log            stashconfig.Config       `toml:"Log"`
}

func LoadGOBOOKConfig(data string) (*GOBOOKConfig, error) {
	var conf = &GOBOOKConfig{
		Log: stashconfig.Config{
			Level: "ERROR",
		},
		TempDir:        configutil.EnvString(os.TempDir()),
		KeepStaging:    false,
		Digest:         checksum.DigestSHA512,
		Sanitize:       false,
		DeleteOnRemove: true,
		Stage: &StageConfig{
			Title: "Unknown",
		},
		Stat: &StatConfig{
			Info: []string{"kinds", "files"},
		},
	}

	if _, err := toml.Decode(data, conf); err != nil {
		return nil, errors.Wrap(err, "Error on loading config")
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return conf, nil
}

// Validate normalizes the values which came from file or command line.
func (conf *GOBOOKConfig) Validate() error {
	conf.Digest = checksum.DigestAlgorithm(strings.ToLower(strings.TrimSpace(string(conf.Digest))))
	if conf.Digest != "" {
		if _, err := checksum.GetHash(conf.Digest); err != nil {
			return errors.Wrapf(err, "unknown digest '%s'", conf.Digest)
		}
	}
	for i, info := range conf.Stat.Info {
		info = strings.ToLower(strings.TrimSpace(info))
		if !slices.Contains(StatInfos, info) {
			return errors.Errorf("unknown stat info '%s' please use %v", info, StatInfos)
		}
		conf.Stat.Info[i] = info
	}
	return nil
}
