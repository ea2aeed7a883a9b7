package main

import (
	"bufio"
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type BenchmarkResult struct {
	Name       string  `json:"name"`
	Framework  string  `json:"framework"`
	Category   string  `json:"category"`
	Scenario   string  `json:"scenario"`
	Iterations int64   `json:"iterations"`
	NsPerOp    float64 `json:"nsPerOp"`
	BytesPerOp int64   `json:"bytesPerOp"`
	AllocsOp   int64   `json:"allocsPerOp"`
}

type CategoryResults struct {
	Category string
	Results  []BenchmarkResult
}

var frameworkColors = map[string]text.Colors{
	"Ioc": {text.FgGreen, text.Bold},
	"Do":  {text.FgYellow},
	"Dig": {text.FgMagenta},
	"Fx":  {text.FgBlue},
}

var categoryOrder = []string{
	"Register_Simple", "Register_Chain",
	"Resolve_Singleton", "Resolve_Chain", "Resolve_PerRequest",
	"Lifecycle_Chain",
}

var categoryTitles = map[string]string{
	"Register_Simple":    "Registration (single value)",
	"Register_Chain":     "Registration (six-level dependency chain)",
	"Resolve_Singleton":  "Resolution (cached singleton)",
	"Resolve_Chain":      "Resolution (singleton chain)",
	"Resolve_PerRequest": "Resolution (per-request chain)",
	"Lifecycle_Chain":    "Build, warm up and close",
}

func main() {
	benchDir := ".."
	exportResults := false
	for _, arg := range os.Args[1:] {
		if arg == "--json" {
			exportResults = true
			continue
		}
		benchDir = arg
	}

	fmt.Println(text.Bold.Sprint("ioc benchmark suite"))
	fmt.Println(text.Faint.Sprint("Running benchmarks..."))
	fmt.Println()

	cmd := exec.Command("go", "test", "-run=^$", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = benchDir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Benchmark failed: %s\n", string(exitErr.Stderr))
		}
		os.Exit(1)
	}

	results := parseResults(output)
	grouped := groupByCategory(results)

	for _, cat := range grouped {
		printCategory(cat)
	}
	printSummary(grouped)

	if exportResults {
		if err := exportJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	}
}

var (
	benchPattern = regexp.MustCompile(`^Benchmark(\w+)-\d+\s+(\d+)\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)
	namePattern  = regexp.MustCompile(`^([^_]+)_([^_]+)_(\w+)$`)
)

// parseResults averages repeated runs of the same benchmark.
func parseResults(output []byte) []BenchmarkResult {
	seen := make(map[string][]BenchmarkResult)
	var names []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		m := benchPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		r := BenchmarkResult{Name: m[1]}
		r.Iterations, _ = strconv.ParseInt(m[2], 10, 64)
		r.NsPerOp, _ = strconv.ParseFloat(m[3], 64)
		r.BytesPerOp, _ = strconv.ParseInt(m[4], 10, 64)
		r.AllocsOp, _ = strconv.ParseInt(m[5], 10, 64)

		if parts := namePattern.FindStringSubmatch(r.Name); parts != nil {
			r.Category, r.Scenario, r.Framework = parts[1], parts[2], parts[3]
		} else {
			r.Category, r.Framework = r.Name, "?"
		}

		if _, ok := seen[r.Name]; !ok {
			names = append(names, r.Name)
		}
		seen[r.Name] = append(seen[r.Name], r)
	}

	results := make([]BenchmarkResult, 0, len(names))
	for _, name := range names {
		runs := seen[name]
		avg := runs[0]
		var totalNs float64
		var totalBytes, totalAllocs int64
		for _, r := range runs {
			totalNs += r.NsPerOp
			totalBytes += r.BytesPerOp
			totalAllocs += r.AllocsOp
		}
		n := int64(len(runs))
		avg.NsPerOp = totalNs / float64(n)
		avg.BytesPerOp = totalBytes / n
		avg.AllocsOp = totalAllocs / n
		results = append(results, avg)
	}
	return results
}

func groupByCategory(results []BenchmarkResult) []CategoryResults {
	groups := make(map[string][]BenchmarkResult)
	var keys []string
	for _, r := range results {
		key := r.Category
		if r.Scenario != "" {
			key += "_" + r.Scenario
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}

	rank := func(key string) int {
		if i := slices.Index(categoryOrder, key); i >= 0 {
			return i
		}
		return len(categoryOrder)
	}
	slices.SortStableFunc(keys, func(a, b string) int { return cmp.Compare(rank(a), rank(b)) })

	ordered := make([]CategoryResults, 0, len(keys))
	for _, key := range keys {
		rs := groups[key]
		slices.SortFunc(rs, func(a, b BenchmarkResult) int { return cmp.Compare(a.NsPerOp, b.NsPerOp) })
		ordered = append(ordered, CategoryResults{Category: key, Results: rs})
	}
	return ordered
}

func printCategory(cat CategoryResults) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title(cat.Category))
	t.AppendHeader(table.Row{"Framework", "Time/op", "B/op", "Allocs/op", "Relative"})
	t.SetColumnConfigs(
		[]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		},
	)

	fastest := cat.Results[0].NsPerOp
	for i, r := range cat.Results {
		relative := "fastest"
		if i > 0 && fastest > 0 {
			relative = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}
		t.AppendRow(
			table.Row{
				colorize(r.Framework),
				formatNs(r.NsPerOp),
				r.BytesPerOp,
				r.AllocsOp,
				relative,
			},
		)
	}

	t.Render()
	fmt.Println()
}

func title(category string) string {
	if t, ok := categoryTitles[category]; ok {
		return t
	}
	return strings.ReplaceAll(category, "_", " ")
}

func colorize(framework string) string {
	if colors, ok := frameworkColors[framework]; ok {
		return colors.Sprint(framework)
	}
	return framework
}

func formatNs(ns float64) string {
	switch {
	case ns >= 1_000_000:
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	case ns >= 1_000:
		return fmt.Sprintf("%.2f µs", ns/1_000)
	default:
		return fmt.Sprintf("%.0f ns", ns)
	}
}

func printSummary(groups []CategoryResults) {
	wins := make(map[string]int)
	for _, cat := range groups {
		wins[cat.Results[0].Framework]++
	}

	frameworks := make([]string, 0, len(wins))
	for name := range wins {
		frameworks = append(frameworks, name)
	}
	slices.SortFunc(
		frameworks, func(a, b string) int {
			if c := cmp.Compare(wins[b], wins[a]); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		},
	)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Summary")
	t.AppendHeader(table.Row{"Framework", "Fastest in"})
	for _, name := range frameworks {
		t.AppendRow(table.Row{colorize(name), fmt.Sprintf("%d/%d", wins[name], len(groups))})
	}
	t.Render()

	fmt.Println()
	fmt.Println(text.Faint.Sprint("Frameworks compared:"))
	fmt.Println("  Ioc  - this library (github.com/pikciu/ioc)")
	fmt.Println("  Do   - generics-based DI (github.com/samber/do)")
	fmt.Println("  Dig  - reflection-based DI (go.uber.org/dig)")
	fmt.Println("  Fx   - application framework (go.uber.org/fx)")
}

func exportJSON(results []BenchmarkResult) error {
	data, err := json.MarshalIndent(struct {
		Benchmarks []BenchmarkResult `json:"benchmarks"`
	}{Benchmarks: results}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile("benchmark_results.json", data, 0o644); err != nil {
		return err
	}
	fmt.Println(text.Faint.Sprint("Results exported to benchmark_results.json"))
	return nil
}
