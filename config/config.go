// Package config loads server settings from flags, environment
// variables, and an optional JSON file, in that order of increasing
// precedence (env overrides flag defaults; the JSON file, if given,
// overrides both).
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/buger/jsonparser"
	"github.com/spf13/cast"
)

// Settings holds everything the lottery server needs to start.
type Settings struct {
	Port             int    // TCP listen port
	ListenBacklog    int    // requested accept backlog
	ExpectedAgencies int    // AGENCY_CLOSING_NUMBER: agencies to wait for
	WinnerNumber     uint16 // LOTTERY_WINNER_NUMBER
	BetsFile         string // path to the append-only CSV store
	AcceptRate       int    // accepted connections/sec ceiling, 0 = unlimited
}

// Default settings, matching the observed production defaults.
var Default = Settings{
	Port:             12345,
	ListenBacklog:    5,
	ExpectedAgencies: 5,
	WinnerNumber:     7574,
	BetsFile:         "./bets.csv",
	AcceptRate:       0,
}

// Load parses args (normally os.Args[1:]) as flags seeded from Default,
// then overrides with environment variables, then with a JSON config
// file if -config was given.
func Load(args []string) (Settings, error) {
	s := Default

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.IntVar(&s.Port, "port", s.Port, "TCP listen port")
	fs.IntVar(&s.ListenBacklog, "listen-backlog", s.ListenBacklog, "requested accept backlog")
	fs.IntVar(&s.ExpectedAgencies, "agencies", s.ExpectedAgencies, "number of agencies to wait for")
	var winner int
	fs.IntVar(&winner, "winner-number", int(s.WinnerNumber), "winning lottery number")
	fs.StringVar(&s.BetsFile, "bets-file", s.BetsFile, "path to the bets CSV store")
	fs.IntVar(&s.AcceptRate, "accept-rate", s.AcceptRate, "accepted connections/sec ceiling, 0 = unlimited")
	configPath := fs.String("config", "", "optional JSON config file overriding flags/env")
	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}
	s.WinnerNumber = uint16(winner)

	applyEnv(&s)

	if *configPath != "" {
		if err := applyJSONFile(&s, *configPath); err != nil {
			return Settings{}, fmt.Errorf("config file %s: %w", *configPath, err)
		}
	}

	return s, nil
}

// applyEnv overrides s with any of the recognized environment variables,
// using cast to coerce the string values to the right numeric types --
// the same trade the original ini+env-based config makes, ported to Go.
func applyEnv(s *Settings) {
	if v, ok := os.LookupEnv("SERVER_PORT"); ok {
		if n, err := cast.ToIntE(v); err == nil {
			s.Port = n
		}
	}
	if v, ok := os.LookupEnv("LISTEN_BACKLOG"); ok {
		if n, err := cast.ToIntE(v); err == nil {
			s.ListenBacklog = n
		}
	}
	if v, ok := os.LookupEnv("AGENCY_CLOSING_NUMBER"); ok {
		if n, err := cast.ToIntE(v); err == nil {
			s.ExpectedAgencies = n
		}
	}
	if v, ok := os.LookupEnv("LOTTERY_WINNER_NUMBER"); ok {
		if n, err := cast.ToUint16E(v); err == nil {
			s.WinnerNumber = n
		}
	}
	if v, ok := os.LookupEnv("BETS_FILE"); ok {
		s.BetsFile = v
	}
}

// applyJSONFile overrides s with whatever keys are present in path,
// read with jsonparser rather than unmarshalled into a struct -- this
// is a small flat document and a purpose-built extraction avoids paying
// for a generic reflection-based decode.
func applyJSONFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if v, err := jsonparser.GetInt(data, "port"); err == nil {
		s.Port = int(v)
	}
	if v, err := jsonparser.GetInt(data, "listen_backlog"); err == nil {
		s.ListenBacklog = int(v)
	}
	if v, err := jsonparser.GetInt(data, "agencies"); err == nil {
		s.ExpectedAgencies = int(v)
	}
	if v, err := jsonparser.GetInt(data, "winner_number"); err == nil {
		s.WinnerNumber = uint16(v)
	}
	if v, err := jsonparser.GetString(data, "bets_file"); err == nil {
		s.BetsFile = v
	}
	if v, err := jsonparser.GetInt(data, "accept_rate"); err == nil {
		s.AcceptRate = int(v)
	}
	return nil
}
