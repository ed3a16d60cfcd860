// Command qualreport evaluates every person on the roster against their
// titles and writes the qualification report as CSV and/or XML.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"cert-roster/internal/config"
	"cert-roster/internal/domain"
	"cert-roster/internal/export"
	"cert-roster/internal/logging"
	"cert-roster/internal/report"
	"cert-roster/internal/sftpclient"
	"cert-roster/internal/source"
)

type options struct {
	csvPath  string
	xmlPath  string
	xmlCerts bool
	upload   bool
	workers  int
	statuses []domain.PersonStatus
}

func main() {
	var (
		csvPath  = flag.String("out-csv", "QUALIFICATIONS.csv", "output csv path (empty to skip)")
		xmlPath  = flag.String("out-xml", "", "output xml path (empty to skip)")
		xmlCerts = flag.Bool("xml-certs", false, "include certification history in the xml")
		upload   = flag.Bool("sftp", false, "upload the generated files via SFTP")
		workers  = flag.Int("workers", 0, "parallel evaluations (0 = REPORT_WORKERS)")
		status   = flag.String("status", "", "comma-separated person statuses to include (empty = all)")
	)
	flag.Parse()

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	statuses, err := parseStatuses(*status)
	if err != nil {
		logger.Fatal("invalid -status", zap.Error(err))
	}

	opts := options{
		csvPath:  *csvPath,
		xmlPath:  *xmlPath,
		xmlCerts: *xmlCerts,
		upload:   *upload,
		workers:  *workers,
		statuses: statuses,
	}
	if opts.workers <= 0 {
		opts.workers = cfg.ReportWorkers
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := run(ctx, logger, cfg, opts); err != nil {
		logger.Fatal("qualreport failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, cfg config.Config, opts options) error {
	if opts.csvPath == "" && opts.xmlPath == "" {
		return errors.New("nothing to write: both -out-csv and -out-xml are empty")
	}

	src, err := source.New(cfg)
	if err != nil {
		return err
	}
	snap, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load roster from %s: %w", src.Name(), err)
	}
	idx, err := snap.Index()
	if err != nil {
		return err
	}
	logger.Info("roster loaded",
		zap.String("source", src.Name()),
		zap.Int("people", len(snap.People)),
		zap.Int("titles", len(snap.Titles)),
		zap.Int("certifications", len(snap.Certifications)),
	)

	rep, err := report.Build(ctx, idx, report.Options{
		Workers:  opts.workers,
		Statuses: opts.statuses,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	var written []string
	if opts.csvPath != "" {
		if err := writeCSV(opts.csvPath, rep); err != nil {
			return err
		}
		written = append(written, opts.csvPath)
	}
	if opts.xmlPath != "" {
		if err := ensureDir(opts.xmlPath); err != nil {
			return err
		}
		if err := export.WriteQualificationXML(opts.xmlPath, rep, export.XMLConfig{IncludeCertifications: opts.xmlCerts}); err != nil {
			return err
		}
		written = append(written, opts.xmlPath)
	}
	logger.Info("report written", zap.String("report_id", rep.ID.String()), zap.Strings("files", written))

	if !opts.upload {
		return nil
	}

	upCfg := sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		KnownHosts:            cfg.SFTPKnownHosts,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}
	for _, local := range written {
		upCtx, upCancel := context.WithTimeout(ctx, 5*time.Minute)
		name := remoteName(local, rep.ID.String())
		err := sftpclient.UploadFile(upCtx, upCfg, local, name)
		upCancel()
		if err != nil {
			return err
		}
		logger.Info("uploaded",
			zap.String("host", upCfg.Host),
			zap.Int("port", upCfg.Port),
			zap.String("remote", upCfg.RemoteDir+"/"+name),
		)
	}
	return nil
}

func writeCSV(path string, rep *report.Report) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteQualificationCSV(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

// parseStatuses accepts "Active, Leave of Absence" style lists.
func parseStatuses(s string) ([]domain.PersonStatus, error) {
	var out []domain.PersonStatus
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		st, err := domain.ParsePersonStatus(part)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// remoteName stamps the report id into the uploaded file name so repeated
// runs never overwrite each other: QUALIFICATIONS.csv -> QUALIFICATIONS_<id>.csv.
func remoteName(localPath, reportID string) string {
	base := filepath.Base(localPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + reportID + ext
}
