package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/observatorio-cat/observatorio/pkg/dataset"
	"github.com/observatorio-cat/observatorio/pkg/geo"
	"github.com/observatorio-cat/observatorio/pkg/loader"
	"github.com/observatorio-cat/observatorio/pkg/roles"
	"github.com/observatorio-cat/observatorio/pkg/table"
)

// cmdInspect loads the source once, prints the per-file report and the
// column profile, and optionally writes the enriched table to a CSV file.
func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	out := fs.String("o", "", "write the enriched table to this CSV file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg := loadConfig(*cfgPath, logger)

	opts, err := loaderOptions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}

	munic, err := geo.OpenMunicipios(cfg.Sidecar, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro no mapa de municípios: %v\n", err)
		os.Exit(1)
	}

	var (
		tbl     *table.Table
		reports []loader.FileReport
	)
	if cfg.Dir {
		tbl, reports, err = loader.LoadDir(cfg.Source, opts, logger)
	} else {
		var res loader.Result
		tbl, res, err = loader.Load(cfg.Source, opts)
		if err == nil {
			reports = []loader.FileReport{{
				File: cfg.Source, Rows: tbl.NumRows(), Cols: tbl.NumCols(),
				Encoding: res.Encoding, Delimiter: res.Delimiter,
			}}
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Arquivos carregados:")
	for _, r := range reports {
		if r.Err != "" {
			fmt.Printf("  %-40s  ERRO: %s\n", r.File, r.Err)
			continue
		}
		fmt.Printf("  %-40s  %7d linhas  %3d colunas  %-9s  sep=%q\n",
			r.File, r.Rows, r.Cols, r.Encoding, r.Delimiter)
	}
	fmt.Println()

	ds, err := dataset.Build(tbl, dataset.Options{
		Resolver:   fixedResolver(cfg.Columns),
		Municipios: munic,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Colunas detectadas:")
	for _, role := range roles.All {
		if col, ok := ds.Mapping[role]; ok {
			fmt.Printf("  %-20s -> %s\n", role, col)
		}
	}
	fmt.Println()

	fmt.Println("Perfil:")
	for _, p := range ds.Table.Profile() {
		fmt.Printf("  %-30s  %-7s  nulos=%6d (%5.1f%%)  distintos=%d\n",
			p.Column, p.Dtype, p.Nulls, p.NullPct, p.Distinct)
	}
	fmt.Println()

	fmt.Printf("Datas interpretadas: %d/%d\n", ds.Diag.DatesParsed, ds.Diag.DatesTotal)
	fmt.Printf("UFs resolvidas:      %d/%d\n", ds.Diag.UFResolved, ds.Diag.UFTotal)

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := ds.Table.WriteCSV(f); err != nil {
			fmt.Fprintf(os.Stderr, "Erro na exportação: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exportado para %s (%d linhas)\n", *out, ds.Table.NumRows())
	}
}
