package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/chrissnell/tsdiagram/internal/app"
	"github.com/chrissnell/tsdiagram/internal/log"
	"github.com/chrissnell/tsdiagram/internal/profile"
	"github.com/chrissnell/tsdiagram/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source:\n\t\t\t  YAML: config.yaml\n\t\t\t  SQLite: config.db\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	renderOut := flag.String("render", "", "Render the CSV files given as arguments to this image (.png, .svg or .pdf) and exit")
	lang := flag.String("lang", "", "Override the label language (en, ko)")
	quantity := flag.String("quantity", "", "Override the plotted quantity (specific_gravity, anomaly, density)")
	invert := flag.Bool("invert", false, "Draw temperature decreasing upward; -invert=false overrides the config")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [-config config.yaml] [-config-backend yaml|sqlite]\n  %s -render out.png [-lang ko] profile.csv...\n\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("tsdiagram %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *renderOut != "" {
		code := renderOnce(*cfgFile, *cfgBackend, *renderOut, *lang, *quantity, *invert)
		log.Sync()
		os.Exit(code)
	}

	provider, err := newProvider(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	defer provider.Close()

	// Create and run the application
	application := app.New(provider, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

// renderOnce draws the positional CSV arguments into out. The configuration
// file is optional here: without one the built-in defaults are used.
func renderOnce(cfgFile, cfgBackend, out, lang, quantity string, invert bool) int {
	if flag.NArg() == 0 {
		log.Errorf("no CSV files given to render")
		return 2
	}

	cfgData := &config.ConfigData{}
	if flagSet("config") {
		provider, err := newProvider(cfgFile, cfgBackend)
		if err != nil {
			log.Errorf("Failed to load configuration: %v", err)
			return 1
		}
		cfgData, err = app.New(provider, log.GetSugaredLogger()).LoadConfig()
		provider.Close()
		if err != nil {
			log.Errorf("Failed to load configuration: %v", err)
			return 1
		}
	}
	cfgData.ApplyDefaults()

	if lang != "" {
		cfgData.Diagram.Language = lang
	}
	if quantity != "" {
		cfgData.Diagram.Quantity = quantity
		cfgData.Diagram.LevelPolicy = ""
	}
	applyInvert(cfgData, invert, flagSet("invert"))

	diags, err := app.RenderFiles(cfgData, flag.Args(), out)
	for _, d := range diags {
		switch d.Severity {
		case profile.SeverityError:
			log.Errorw(d.Message, "file", d.File, "kind", d.Kind)
		case profile.SeverityWarning:
			log.Warnw(d.Message, "file", d.File, "kind", d.Kind)
		default:
			log.Infow(d.Message, "file", d.File, "kind", d.Kind)
		}
	}
	if err != nil {
		log.Errorf("Render failed: %v", err)
		return 1
	}

	log.Infof("Wrote %s", out)
	return 0
}

// applyInvert overrides the configured axis orientation only when -invert
// was given on the command line, in either direction.
func applyInvert(cfgData *config.ConfigData, invert, given bool) {
	if given {
		cfgData.Diagram.InvertTemperature = invert
	}
}

// flagSet reports whether the named flag was given on the command line.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func newProvider(cfgFile, cfgBackend string) (config.ConfigProvider, error) {
	filename, _ := filepath.Abs(cfgFile)

	switch cfgBackend {
	case "yaml":
		return config.NewYAMLProvider(filename), nil
	case "sqlite":
		provider, err := config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
}
