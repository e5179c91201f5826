package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/docketworks/platform"
	"github.com/docketworks/platform/clocks"
	"github.com/docketworks/platform/dynlib"
	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/proc"
	"github.com/docketworks/platform/random"
	"github.com/docketworks/platform/resource"
	"github.com/docketworks/platform/sockets"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func main() {
	var (
		libFile     = flag.String("lib", "", "Load a library and list its exports")
		selftest    = flag.Bool("selftest", false, "Run the loopback self-test suite")
		interactive = flag.Bool("i", false, "Interactive probe dashboard")
		verbose     = flag.Bool("v", false, "Log resource and library lifecycle events")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		resource.SetLogger(log)
		sockets.SetLogger(log)
		dynlib.SetLogger(log)
	}

	var err error
	switch {
	case *libFile != "":
		err = inspectLibrary(os.Stdout, *libFile)
	case *selftest:
		err = runSelftest(os.Stdout)
	case *interactive:
		err = runInteractive()
	default:
		err = report(os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// report prints the host facts the layer can observe without touching
// the network.
func report(w io.Writer) error {
	hostname, err := proc.Hostname()
	if err != nil {
		return err
	}
	wd, err := proc.WorkingDir()
	if err != nil {
		return err
	}
	exe, err := proc.Executable()
	if err != nil {
		return err
	}
	now := clocks.FormatTime(clocks.WallMillis()/1000, true)
	token, err := random.Hex(16)
	if err != nil {
		return err
	}

	rows := [][2]string{
		{"version", platform.Version},
		{"hostname", hostname},
		{"pid", strconv.Itoa(proc.PID())},
		{"cpus", strconv.Itoa(proc.NumCPU())},
		{"working dir", wd},
		{"executable", exe},
		{"time (utc)", now},
		{"uptime", fmt.Sprintf("%dms", clocks.Monotonic()/1e6)},
		{"random", token},
		{"terminal", strconv.FormatBool(proc.StdoutIsTerminal())},
	}

	stats, err := proc.Memory()
	switch {
	case err == nil:
		rows = append(rows, [2]string{
			"memory", fmt.Sprintf("%s free of %s", formatBytes(stats.Available), formatBytes(stats.Total)),
		})
	case errors.CodeOf(err) != errors.CodeNotSupported:
		return err
	}

	fmt.Fprintln(w, titleStyle.Render("platform probe"))
	fmt.Fprintln(w)
	for _, r := range rows {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", r[0])), r[1])
	}

	live := resource.Default().LiveByKind()
	if len(live) > 0 {
		kinds := make([]string, 0, len(live))
		for kind := range live {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)

		fmt.Fprintln(w)
		fmt.Fprintln(w, labelStyle.Render("live resources"))
		for _, kind := range kinds {
			fmt.Fprintf(w, "  %-8s %d\n", kind, live[resource.Kind(kind)])
		}
	}
	return nil
}

// inspectLibrary loads a module and lists what it exports.
func inspectLibrary(w io.Writer, path string) error {
	ctx := context.Background()

	lib, err := dynlib.Load(ctx, path)
	if err != nil {
		return err
	}
	defer lib.Unload(ctx)

	fmt.Fprintln(w, titleStyle.Render("library"), lib.Name())

	syms := lib.Symbols()
	if len(syms) == 0 {
		fmt.Fprintln(w, helpStyle.Render("no exported functions"))
		return nil
	}
	fmt.Fprintf(w, "\nExported functions:\n")
	for _, name := range syms {
		fmt.Fprintf(w, "  %s\n", funcStyle.Render(name))
	}
	return nil
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
