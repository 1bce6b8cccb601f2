package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joeydtaylor/condenser/pkg/builder"
)

func main() {
	dir := flag.String("dir", builder.EnvOr("CONDENSER_PEBBLE_DIR", "./condenser-history"), "pebble history directory")
	codecName := flag.String("codec", builder.EnvOr("CONDENSER_STORAGE_CODEC", "zstd"), "storage codec the history was written with")
	out := flag.String("out", "history.parquet", "parquet output file")
	flag.Parse()

	codec, err := builder.ParseCodec(*codecName)
	if err != nil {
		log.Fatalf("codec: %v", err)
	}
	store, err := builder.OpenPebbleHistory(*dir, codec)
	if err != nil {
		log.Fatalf("open history: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	recs, err := store.List(ctx, 0)
	if err != nil {
		log.Fatalf("list: %v", err)
	}
	stats := builder.ComputeStats(recs)
	fmt.Printf("files:   %d\n", stats.TotalFiles)
	fmt.Printf("average: %.1f%%\n", stats.AverageRatio)
	fmt.Printf("saved:   %d of %d bytes (%.0f%%)\n", stats.TotalSpaceSaved, stats.TotalOriginalSize, stats.SavedPercent)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	n, err := builder.ExportHistory(ctx, store, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	fmt.Printf("exported %d records to %s\n", n, *out)
}
