package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/config"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/report"
)

func main() {
	kabupaten := flag.String("kabupaten", "", "kabupaten/kota filter")
	jenis := flag.String("jenis", "", "jenis buku filter (Ismuba or Mipa)")
	start := flag.String("start", "", "start date (YYYY-MM-DD), default 30 days ago")
	end := flag.String("end", "", "end date (YYYY-MM-DD), default today")
	status := flag.String("status", "", "payment status filter")
	jenjang := flag.String("jenjang", "", "school level filter (SD, SMP, SMA)")
	formatName := flag.String("format", report.FormatXLSX, "one of "+strings.Join(report.Formats(), ", "))
	out := flag.String("out", ".", "output directory")
	flag.Parse()

	cfg := config.Load()
	slog.SetDefault(logger.New(os.Stderr, cfg.LogLevel))

	if cfg.BackendURL == "" {
		fmt.Fprintln(os.Stderr, "BACKEND_URL not set; export BACKEND_URL and retry")
		os.Exit(2)
	}
	endpoints := backend.NewMemoryEndpointStore(cfg.BackendURL)
	if _, err := endpoints.Get(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "BACKEND_URL is not a valid http(s) url: %s\n", cfg.BackendURL)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout+5*time.Second)
	defer cancel()

	service := report.NewService(backend.NewClient(endpoints, cfg.BackendTimeout))
	rep, err := service.Load(ctx, report.Query{
		Kabupaten: *kabupaten,
		Jenis:     *jenis,
		StartDate: *start,
		EndDate:   *end,
		Status:    *status,
		Jenjang:   *jenjang,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "load report: %s\n", backend.Message(err, err.Error()))
		os.Exit(1)
	}

	file, err := rep.Export(*formatName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export %s: %v\n", *formatName, err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", *out, err)
		os.Exit(1)
	}
	path := filepath.Join(*out, file.Name)
	if err := os.WriteFile(path, file.Body, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d rows, %d books, total %d -> %s\n",
		rep.Title(), rep.Summary.TotalPesanan, rep.Summary.TotalBuku, rep.Summary.TotalNilai, path)
}
