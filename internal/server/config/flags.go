package config

import (
	"flag"
	"fmt"
	"io"
)

// flagValues holds the parsed command line. Only flags the user actually
// passed override lower layers.
type flagValues struct {
	set        map[string]bool
	configFile string
	envFile    string
	addr       string
	dbPath     string
	logLevel   string
	logFormat  string
	publicURL  string
}

// parseFlags parses the server flags:
//
//	-config string     YAML config file
//	-env-file string   .env file (default ".env")
//	-a string          HTTP listen address
//	-d string          SQLite database path
//	-log-level string  debug, info, warn or error
//	-log-format string json or text
//	-public-url string base URL used in reset links
//
// Usage and parse errors are written to output. -h yields flag.ErrHelp.
func parseFlags(args []string, output io.Writer) (*flagValues, error) {
	v := &flagValues{set: make(map[string]bool)}

	fs := flag.NewFlagSet("microblog-server", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&v.configFile, "config", "", "YAML config file")
	fs.StringVar(&v.envFile, "env-file", ".env", ".env file")
	fs.StringVar(&v.addr, "a", "", "HTTP listen address")
	fs.StringVar(&v.dbPath, "d", "", "SQLite database path")
	fs.StringVar(&v.logLevel, "log-level", "", "log level")
	fs.StringVar(&v.logFormat, "log-format", "", "log format")
	fs.StringVar(&v.publicURL, "public-url", "", "public base URL")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	fs.Visit(func(f *flag.Flag) { v.set[f.Name] = true })
	return v, nil
}

func (v *flagValues) apply(cfg *Config) {
	if v.set["a"] {
		cfg.HTTP.Addr = v.addr
	}
	if v.set["d"] {
		cfg.Database.Path = v.dbPath
	}
	if v.set["log-level"] {
		cfg.Log.Level = v.logLevel
	}
	if v.set["log-format"] {
		cfg.Log.Format = v.logFormat
	}
	if v.set["public-url"] {
		cfg.HTTP.PublicURL = v.publicURL
	}
}
