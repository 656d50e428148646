package main

import (
	"flag"
	"log"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf-eval/config"
	"github.com/aquasecurity/cvrf-eval/eval"
	"github.com/aquasecurity/cvrf-eval/oval"
	"github.com/aquasecurity/cvrf-eval/source"
	"github.com/aquasecurity/cvrf-eval/utils"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	config.Register(flag.CommandLine)
	flag.Parse()

	appFs := afero.NewOsFs()
	cfg := config.Default()
	if path := flag.Lookup("config").Value.String(); path != "" {
		var err error
		if cfg, err = config.Load(appFs, path); err != nil {
			return err
		}
	}
	if err := cfg.Apply(flag.CommandLine); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Printf("platform: %s", cfg.Platform)
	session := eval.NewSession(
		eval.WithPlatform(cfg.Platform),
		eval.WithNamespace(cfg.Namespace),
		eval.WithStatusAware(cfg.StatusAware),
		eval.WithProgress(cfg.Progress),
	)
	src := source.NewConfig(source.WithFs(appFs), source.WithRetry(cfg.Retry))

	var (
		defs *oval.DefinitionModel
		err  error
	)
	if cfg.Input != "" {
		defs, err = evaluateAdvisory(appFs, session, src, cfg)
	} else {
		defs, err = evaluateIndex(appFs, session, src, cfg)
	}
	if err != nil {
		return err
	}

	if cfg.Definitions != "" {
		if err = defs.Validate(); err != nil {
			return xerrors.Errorf("inconsistent OVAL definitions: %w", err)
		}
		if err = eval.ExportDefinitions(appFs, defs, cfg.Definitions); err != nil {
			return xerrors.Errorf("failed to export OVAL definitions: %w", err)
		}
		log.Printf("%d OVAL definitions written to %s", defs.Len(), cfg.Definitions)
	}
	return nil
}

func evaluateAdvisory(appFs afero.Fs, session *eval.Session, src source.Config, cfg config.Config) (*oval.DefinitionModel, error) {
	m, err := src.LoadModel(cfg.Input)
	if err != nil {
		return nil, xerrors.Errorf("failed to load advisory: %w", err)
	}

	var r *eval.Report
	if cfg.Results != "" {
		r, err = session.ExportResults(appFs, m, cfg.Results)
	} else {
		r, err = session.Evaluate(m)
	}
	if err != nil {
		return nil, err
	}
	logReport(r)
	return r.Definitions, nil
}

func evaluateIndex(appFs afero.Fs, session *eval.Session, src source.Config, cfg config.Config) (*oval.DefinitionModel, error) {
	index, err := src.LoadIndex(cfg.Index)
	if err != nil {
		return nil, xerrors.Errorf("failed to load index: %w", err)
	}
	log.Printf("%d advisories loaded from %s", len(index.Models), cfg.Index)

	fs := utils.NewFs(appFs)
	switch {
	case cfg.Since != "":
		since, err := dateparse.ParseAny(cfg.Since)
		if err != nil {
			return nil, xerrors.Errorf("invalid -since %q: %w", cfg.Since, err)
		}
		index = index.Since(since)
	case cfg.Incremental:
		since, err := fs.GetLastUpdatedDate(utils.LastUpdatedPath(), cfg.Platform)
		if err != nil {
			return nil, xerrors.Errorf("failed to get last updated date: %w", err)
		}
		log.Printf("advisories released since %s", since.Format(time.RFC3339))
		index = index.Since(since)
	}

	var ir *eval.IndexReport
	if cfg.Results != "" {
		ir, err = session.ExportIndexResults(appFs, index, cfg.Results)
	} else {
		ir, err = session.EvaluateIndex(index)
	}
	if err != nil {
		return nil, err
	}
	for _, r := range ir.Reports {
		logReport(r)
	}
	log.Printf("%d advisories evaluated, %d skipped", len(ir.Reports), len(ir.Skipped))

	if cfg.Incremental {
		if latest, ok := latestRelease(ir); ok {
			if err = fs.SetLastUpdatedDate(utils.LastUpdatedPath(), cfg.Platform, latest); err != nil {
				return nil, err
			}
		}
	}
	return ir.Definitions, nil
}

func latestRelease(ir *eval.IndexReport) (time.Time, bool) {
	var latest time.Time
	for _, r := range ir.Reports {
		if t, err := r.Model.ReleaseDate(); err == nil && t.After(latest) {
			latest = t
		}
	}
	return latest, !latest.IsZero()
}

func logReport(r *eval.Report) {
	s := r.Summary()
	log.Printf("%s: %d products, %d vulnerabilities", s.Advisory, len(r.ProductIDs), len(s.Vulnerabilities))
	for _, v := range s.Vulnerabilities {
		log.Printf("  %s (%s): %d fixed, %d vulnerable", v.CVE, v.Severity, v.Fixed, v.Vulnerable)
	}
	if r.Filter.Errors != nil {
		log.Printf("  %s", r.Filter.Errors)
	}
	if r.Warnings != nil {
		log.Printf("  %s", r.Warnings)
	}
}
