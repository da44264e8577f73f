package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Version is the current sift version.
var Version = "0.3.1"

// RCFileName is looked up in the user's home directory when --rc is not
// given.
const RCFileName = ".siftrc"

// Options are the stream-level settings: formats, separators, and the
// numeric output format applied to doubles. Flag values win over rc-file
// values, which win over the defaults.
type Options struct {
	InputFormat  string `yaml:"ifmt"`
	OutputFormat string `yaml:"ofmt_records"`
	Ofmt         string `yaml:"ofmt"`
	IFS          string `yaml:"ifs"`
	OFS          string `yaml:"ofs"`
	FromTable    string `yaml:"-"`
}

func Default() Options {
	return Options{
		InputFormat:  "dkvp",
		OutputFormat: "dkvp",
		Ofmt:         "%f",
		IFS:          ",",
		OFS:          ",",
	}
}

// LoadRC layers the rc file (if present) over the defaults. An absent file
// is not an error; a malformed one is.
func LoadRC(path string) (Options, error) {
	opts := Default()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return opts, nil
		}
		path = filepath.Join(home, RCFileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, errors.Wrapf(err, "reading %s", path)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrapf(err, "parsing %s", path)
	}
	return opts, nil
}
