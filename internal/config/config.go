package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Source kinds for ROSTER_SOURCE.
const (
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceSQLite = "sqlite"
)

type Config struct {
	// Roster
	RosterSource string
	RosterPath   string
	RosterURL    string
	RosterToken  string
	RosterDB     string

	// Report
	ReportWorkers int
	LogLevel      string

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool
}

func Load() Config {
	return Config{
		// Roster
		RosterSource: strings.ToLower(getenv("ROSTER_SOURCE", SourceFile)),
		RosterPath:   getenv("ROSTER_PATH", "roster.json"),
		RosterURL:    os.Getenv("ROSTER_URL"),
		RosterToken:  os.Getenv("ROSTER_TOKEN"),
		RosterDB:     getenv("ROSTER_DB", "roster.db"),

		// Report
		ReportWorkers: getenvInt("REPORT_WORKERS", 10),
		LogLevel:      getenv("LOG_LEVEL", "info"),

		// SFTP
		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPKnownHosts:            getenv("SFTP_KNOWN_HOSTS", defaultKnownHosts()),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}

func getenvBool(k string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}

func defaultKnownHosts() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh", "known_hosts")
}
