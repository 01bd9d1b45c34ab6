package main

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-autoload/autoload"
	"github.com/go-autoload/autoload/importparser"
	"github.com/go-autoload/autoload/internal/config"
	"github.com/go-autoload/autoload/internal/logging"
	"github.com/go-autoload/autoload/scanner"
	"github.com/go-autoload/autoload/yaegihost"
)

// rootSpec parses a "--root" flag value of the form "path" or
// "path=topLevel".
type rootSpec struct {
	path     string
	topLevel string
}

func parseRootSpec(value string) rootSpec {
	if idx := strings.IndexByte(value, '='); idx >= 0 {
		return rootSpec{path: value[:idx], topLevel: value[idx+1:]}
	}
	return rootSpec{path: value}
}

// buildEngine assembles an Engine from the root command's persistent flags
// and optional configuration file, wiring the yaegi host adapter as the
// concrete execution environment.
func buildEngine() (*autoload.Engine, error) {
	if err := config.LoadEnv(rootConfiguration.envFile); err != nil {
		return nil, err
	}

	fileConfig, err := config.Load(rootConfiguration.configFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load configuration file")
	}

	level := rootConfiguration.logLevel
	if level == "" {
		level = fileConfig.LogLevel
	}
	if level != "" {
		parsed, ok := logging.NameToLevel(level)
		if !ok {
			return nil, errors.Errorf("invalid log level %q", level)
		}
		logging.SetLevel(parsed)
	}
	if config.DebugEnabled() {
		logging.SetLevel(logging.LevelDebug)
	}

	scanConfig := scanner.Config{
		SourceExtensions:    []string{rootConfiguration.extension},
		InitializerBasename: rootConfiguration.initializer,
		Ignore:              append(append([]string{}, fileConfig.Ignore...), rootConfiguration.ignore...),
	}

	var parser importparser.Parser = importparser.NewTextParser()
	if rootConfiguration.extension == ".go" {
		parser = yaegihost.NewGoParser()
	}

	runtime := yaegihost.New()
	e := autoload.New(runtime, yaegihost.Exec,
		autoload.WithScanConfig(scanConfig),
		autoload.WithParser(parser),
	)

	if len(fileConfig.Inflect) > 0 {
		e.Inflect(fileConfig.Inflect)
	}

	for _, root := range fileConfig.Roots {
		path := root.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(rootConfiguration.configFile), path)
		}
		e.AddRoot(path, root.TopLevel)
	}
	for _, value := range rootConfiguration.roots {
		spec := parseRootSpec(value)
		e.AddRoot(spec.path, spec.topLevel)
	}

	return e, nil
}
