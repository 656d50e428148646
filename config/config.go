// Package config holds the settings of an evaluation run, read from an
// optional YAML file and overridden by command-line flags.
package config

import (
	"flag"
	"strconv"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/aquasecurity/cvrf-eval/oval"
	"github.com/aquasecurity/cvrf-eval/utils"
)

const PlatformEnv = "CVRF_EVAL_PLATFORM"

type Config struct {
	Platform    string `yaml:"platform"`
	Input       string `yaml:"input"`
	Index       string `yaml:"index"`
	Results     string `yaml:"results"`
	Definitions string `yaml:"definitions"`
	Namespace   string `yaml:"namespace"`
	StatusAware bool   `yaml:"status-aware"`
	Since       string `yaml:"since"`
	Incremental bool   `yaml:"incremental"`
	Progress    bool   `yaml:"progress"`
	Retry       int    `yaml:"retry"`
}

func Default() Config {
	return Config{
		Namespace: oval.DefaultNamespace,
		Retry:     5,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(fs afero.Fs, path string) (Config, error) {
	c := Default()
	b, err := utils.NewFs(fs).ReadFile(path)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to load config: %w", err)
	}
	if err = yaml.UnmarshalStrict(b, &c); err != nil {
		return Config{}, xerrors.Errorf("unable to parse yaml %s: %w", path, err)
	}
	return c, nil
}

// Register defines one flag per setting on fs.
func Register(fs *flag.FlagSet) {
	d := Default()
	fs.String("config", "", "YAML config file")
	fs.String("platform", "", "platform to evaluate, e.g. \"Red Hat Enterprise Linux Server (v. 7)\" (env "+PlatformEnv+")")
	fs.String("input", "", "CVRF advisory file or URL")
	fs.String("index", "", "directory, index file, listing URL or archive of CVRF advisories")
	fs.String("results", "", "write the results document to this file")
	fs.String("definitions", "", "write OVAL definitions to this file (.xml or .json)")
	fs.String("namespace", d.Namespace, "namespace of synthesized OVAL ids")
	fs.Bool("status-aware", false, "report FIXED only for products under a Fixed or First Fixed status")
	fs.String("since", "", "only evaluate advisories released on or after this date")
	fs.Bool("incremental", false, "only evaluate advisories released since the last run for the platform")
	fs.Bool("progress", false, "show a progress bar")
	fs.Int("retry", d.Retry, "number of retries of remote fetches")
}

// Apply overrides c with the flags explicitly set on fs.
func (c *Config) Apply(fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		v := f.Value.String()
		switch f.Name {
		case "platform":
			c.Platform = v
		case "input":
			c.Input = v
		case "index":
			c.Index = v
		case "results":
			c.Results = v
		case "definitions":
			c.Definitions = v
		case "namespace":
			c.Namespace = v
		case "since":
			c.Since = v
		case "status-aware":
			c.StatusAware, err = strconv.ParseBool(v)
		case "incremental":
			c.Incremental, err = strconv.ParseBool(v)
		case "progress":
			c.Progress, err = strconv.ParseBool(v)
		case "retry":
			c.Retry, err = strconv.Atoi(v)
		}
		if err != nil {
			err = xerrors.Errorf("invalid -%s: %w", f.Name, err)
		}
	})
	if err != nil {
		return err
	}
	if c.Platform == "" {
		c.Platform = utils.LookupEnv(PlatformEnv, "")
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Platform == "":
		return xerrors.New("no platform given")
	case c.Input == "" && c.Index == "":
		return xerrors.New("either -input or -index is required")
	case c.Input != "" && c.Index != "":
		return xerrors.New("-input and -index are mutually exclusive")
	case c.Since != "" && c.Incremental:
		return xerrors.New("-since and -incremental are mutually exclusive")
	case c.Retry < 0:
		return xerrors.Errorf("invalid retry: %d", c.Retry)
	}
	return nil
}
