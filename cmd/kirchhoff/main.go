package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"kirchhoff/pkg/analysis"
	"kirchhoff/pkg/netlist"
	"kirchhoff/pkg/util"
)

func main() {
	netlistFile := flag.String("i", "", "YAML netlist file")
	plotFile := flag.String("plot", "", "write a PNG plot of wire currents to this path")
	maxRows := flag.Int("rows", 20, "maximum number of table rows to print")
	flag.Parse()

	if *netlistFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*netlistFile)
	if err != nil {
		log.Fatalf("reading netlist: %v", err)
	}

	nl, ckt, err := netlist.Parse(data)
	if err != nil {
		log.Fatalf("parsing netlist: %v", err)
	}

	stop, err := netlist.ParseValue(nl.Tran.Stop)
	if err != nil {
		log.Fatalf("transient stop time: %v", err)
	}

	fmt.Printf("Circuit: %s\n", ckt.Name())

	tr := analysis.NewTransient(stop, nl.Tran.Points)
	if err := tr.Setup(ckt); err != nil {
		log.Fatalf("transient setup: %v", err)
	}
	if err := tr.Execute(); err != nil {
		log.Fatalf("transient analysis: %v", err)
	}

	printResults(tr.Results(), *maxRows)

	if *plotFile != "" {
		if err := writePlot(*plotFile, ckt.Name(), tr.Results()); err != nil {
			log.Fatalf("writing plot: %v", err)
		}
		fmt.Printf("\nPlot written to %s\n", *plotFile)
	}
}

func sortedKeys(results map[string][]float64) []string {
	keys := make([]string, 0, len(results))
	for k := range results {
		if k != "TIME" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func printResults(results map[string][]float64, maxRows int) {
	times := results["TIME"]
	if len(times) == 0 {
		fmt.Println("No samples produced.")
		return
	}
	keys := sortedKeys(results)

	fmt.Println("\nTransient Results:")
	fmt.Println("==================")
	fmt.Printf("%-14s", "TIME")
	for _, k := range keys {
		fmt.Printf("%-18s", k)
	}
	fmt.Println()

	stride := 1
	if maxRows > 0 && len(times) > maxRows {
		stride = len(times) / maxRows
	}
	for i := 0; i < len(times); i += stride {
		fmt.Printf("%-14s", util.FormatValueFactor(times[i], "s"))
		for _, k := range keys {
			fmt.Printf("%-18s", util.FormatValueFactor(results[k][i], unitFor(k)))
		}
		fmt.Println()
	}
}

func unitFor(key string) string {
	switch {
	case strings.HasPrefix(key, "I("):
		return "A"
	case strings.HasPrefix(key, "V("):
		return "V"
	case strings.HasPrefix(key, "Q("):
		return "C"
	}
	return ""
}

func writePlot(path, title string, results map[string][]float64) error {
	times := results["TIME"]

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "I (A)"

	var lines []interface{}
	for _, key := range sortedKeys(results) {
		if !strings.HasPrefix(key, "I(") {
			continue
		}
		pts := make(plotter.XYs, len(times))
		for i := range times {
			pts[i].X = times[i]
			pts[i].Y = results[key][i]
		}
		lines = append(lines, key, pts)
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
