package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kianyew1/ecgquality/pkg/ecgquality"
	"github.com/kianyew1/ecgquality/pkg/logger"
)

var version = "1.0.0"

// CLI defines the command-line interface
type CLI struct {
	DB      string           `help:"Path to the SQLite database file" env:"ECG_DB_PATH" default:"ecgquality.sqlite3"`
	Rate    int              `help:"Default sampling rate in Hz for text recordings" default:"500"`
	Version kong.VersionFlag `short:"v" help:"Show version information"`

	Analyze AnalyzeCmd `cmd:"" help:"Analyze an ECG recording (.txt or .wav)"`
	List    ListCmd    `cmd:"" help:"List stored analyses"`
	Show    ShowCmd    `cmd:"" help:"Show one stored analysis with its full report"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a stored analysis"`
}

func (c *CLI) createService() (ecgquality.Service, error) {
	return ecgquality.NewService(
		ecgquality.WithDBPath(c.DB),
		ecgquality.WithSamplingRate(c.Rate),
	)
}

// AnalyzeCmd runs the full quality assessment on one recording
type AnalyzeCmd struct {
	File     string  `arg:"" help:"Recording to analyze" type:"existingfile"`
	Duration float64 `help:"Limit analysis to the first N seconds (0 = whole recording)" default:"0"`
	Channels string  `help:"Comma-separated ADS1298 channel preference" default:"CH2,CH3,CH4"`
	JSON     bool    `help:"Print the full result as JSON instead of a table"`
}

func (a *AnalyzeCmd) Run(cli *CLI) error {
	log := logger.GetLogger()

	svc, err := cli.createService()
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	var channels []string
	for _, ch := range strings.Split(a.Channels, ",") {
		if ch = strings.TrimSpace(ch); ch != "" {
			channels = append(channels, strings.ToUpper(ch))
		}
	}

	log.Infof("Analyzing recording: %s", a.File)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := svc.AnalyzeRecording(ctx, a.File, ecgquality.AnalyzeOptions{
		DurationSeconds: a.Duration,
		Channels:        channels,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if a.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

func printResult(result *ecgquality.AnalysisResult) {
	report := result.Report
	meta := result.Metadata

	fmt.Printf("\nRecording: %.1f s at %d Hz", meta.DurationSeconds, meta.SamplingRate)
	if meta.ProcessedChannel != "" {
		fmt.Printf(" (channel %s)", meta.ProcessedChannel)
	}
	fmt.Println()
	if result.Statistics.PeakCount > 0 {
		fmt.Printf("Heart rate: %.0f bpm (min %.0f, max %.0f) from %d beats\n",
			result.Statistics.HeartRateMean, result.Statistics.HeartRateMin,
			result.Statistics.HeartRateMax, result.Statistics.PeakCount)
	}

	if len(report.Windows) > 0 {
		fmt.Println("\nWindow | mSQI  | kSQI   | HR  | SDNN | Tier")
		fmt.Println("-------+-------+--------+-----+------+---------------------")
		for _, w := range report.Windows {
			fmt.Printf("%6d | %.3f | %6.2f | %3.0f | %4.0f | %s\n",
				w.Window, w.MSQI, w.KSQI, w.HeartRate, w.SDNN, w.Tier)
		}
	}

	fmt.Printf("\nStatus: %s\n", report.Summary.Status)
	if report.Summary.Reason != "" {
		fmt.Printf("Reason: %s\n", report.Summary.Reason)
	}
	fmt.Printf("Windows: %d total, %d good (%.1f%%), %d rejected, %d unreliable\n",
		report.Summary.TotalWindows, report.Summary.GoodWindows, report.Summary.GoodPercentage,
		report.Summary.RejectedWindows, report.Summary.UnreliableWindows)
	fmt.Printf("Best segment: %.1f s - %.1f s\n",
		report.BestSegment.StartTime, report.BestSegment.EndTime)
	if len(report.RejectedSegments) > 0 {
		fmt.Printf("Rejected ranges: %d\n", len(report.RejectedSegments))
	}
	fmt.Printf("\nAnalysis ID: %s\n", result.ID)
}

// ListCmd prints the stored analysis history
type ListCmd struct{}

func (l *ListCmd) Run(cli *CLI) error {
	svc, err := cli.createService()
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	analyses, err := svc.ListAnalyses()
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}

	if len(analyses) == 0 {
		fmt.Println("No analyses in database")
		return nil
	}

	fmt.Printf("Found %d analysis(es):\n\n", len(analyses))
	for i, a := range analyses {
		fmt.Printf("%d. %s (%s)\n", i+1, a.Filename, a.ID)
		fmt.Printf("   %s | %.1f s | %d/%d good windows (%.1f%%) | %s\n",
			a.Status, a.DurationSeconds, a.GoodWindows, a.TotalWindows,
			a.GoodPercentage, a.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// ShowCmd prints one analysis including the persisted report
type ShowCmd struct {
	ID string `arg:"" help:"Analysis ID"`
}

func (s *ShowCmd) Run(cli *CLI) error {
	svc, err := cli.createService()
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	record, err := svc.GetAnalysisByID(s.ID)
	if err != nil {
		return fmt.Errorf("analysis %s not found: %w", s.ID, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}

// DeleteCmd removes one analysis from the history
type DeleteCmd struct {
	ID string `arg:"" help:"Analysis ID"`
}

func (d *DeleteCmd) Run(cli *CLI) error {
	log := logger.GetLogger()

	svc, err := cli.createService()
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	record, err := svc.GetAnalysisByID(d.ID)
	if err != nil {
		return fmt.Errorf("analysis %s not found: %w", d.ID, err)
	}

	if err := svc.DeleteAnalysis(d.ID); err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	log.Infof("Deleted analysis %s (%s)", record.ID, record.Filename)
	fmt.Printf("Deleted analysis %s (%s)\n", record.ID, record.Filename)
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("ecgquality"),
		kong.Description("Ambulatory ECG signal quality assessment"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err := ctx.Run(cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
