package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/oxbow-labs/diagraph/pkg/assemble"
	"github.com/oxbow-labs/diagraph/pkg/detect"
	"github.com/oxbow-labs/diagraph/pkg/export"
	"github.com/oxbow-labs/diagraph/pkg/graph"
	"github.com/oxbow-labs/diagraph/pkg/pipeline"
	"github.com/oxbow-labs/diagraph/pkg/validate"
)

func main() {
	input := flag.String("input", "", "Path to detections JSON file (required)")
	outDir := flag.String("out", ".", "Output directory")
	format := flag.String("format", "json", "Output format: json, csv, or both")
	tagRadius := flag.Float64("tag-radius", assemble.DefaultOptions().TagRadius, "Text association radius in pixels")
	connectRadius := flag.Float64("connect-radius", assemble.DefaultOptions().ConnectRadius, "Endpoint connect radius in pixels")
	mergeRadius := flag.Float64("merge-radius", assemble.DefaultOptions().MergeRadius, "Junction merge radius in pixels")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *format != "json" && *format != "csv" && *format != "both" {
		log.Fatalf("Unknown format %q, want json, csv, or both", *format)
	}

	set, err := detect.Load(*input)
	if err != nil {
		log.Fatalf("Failed to load detections: %v", err)
	}

	runner := pipeline.NewRunner(pipeline.Options{
		Assemble: assemble.Options{
			TagRadius:     *tagRadius,
			ConnectRadius: *connectRadius,
			MergeRadius:   *mergeRadius,
		},
		Validate: validate.DefaultOptions(),
	})

	res, err := runner.Run(context.Background(), set)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	log.Printf("✅ Assembled %d nodes, %d edges (%d junctions) in %v",
		res.Stats.Nodes, res.Stats.Edges, res.Stats.Junctions, res.Stats.Duration)
	reportIssues(res.Graph)

	base := strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input))
	if *format == "json" || *format == "both" {
		data, err := export.JSON(res.Document)
		if err != nil {
			log.Fatalf("JSON export failed: %v", err)
		}
		path := filepath.Join(*outDir, base+".graph.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("📄 Wrote %s", path)
	}
	if *format == "csv" || *format == "both" {
		data, err := export.ZipBundle(res.Document)
		if err != nil {
			log.Fatalf("CSV export failed: %v", err)
		}
		path := filepath.Join(*outDir, base+".tables.zip")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("📦 Wrote %s", path)
	}
}

func reportIssues(g *graph.Graph) {
	if len(g.Issues) == 0 {
		log.Printf("✨ No validation issues")
		return
	}
	counts := map[graph.Severity]int{}
	for _, issue := range g.Issues {
		counts[issue.Severity]++
	}
	log.Printf("⚠️  %d issues (%d error, %d warning, %d info)",
		len(g.Issues), counts[graph.SeverityError], counts[graph.SeverityWarning], counts[graph.SeverityInfo])
	for _, issue := range g.Issues {
		target := issue.TargetID
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(os.Stderr, "  [%s] %s: %s\n", issue.Severity, target, issue.Message)
	}
}
