package commands

import (
	"context"
	"fmt"
	"os"
	"vlr-scraper/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(upcomingCmd, eventCmd, teamCmd, matchCmd)
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Ingests every match in the homepage's upcoming list.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrawl(cmd, func(ctx context.Context, d deps) error {
			report, err := d.crawler.CrawlUpcoming(ctx)
			return printReport(report, err)
		})
	},
}

var eventCmd = &cobra.Command{
	Use:   "event <event url>",
	Short: "Ingests an event's stages and every match it lists.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrawl(cmd, func(ctx context.Context, d deps) error {
			report, err := d.crawler.CrawlEvent(ctx, args[0])
			return printReport(report, err)
		})
	},
}

var teamCmd = &cobra.Command{
	Use:   "team <team url>",
	Short: "Ingests a team, its roster and its recent matches.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrawl(cmd, func(ctx context.Context, d deps) error {
			report, err := d.crawler.CrawlTeam(ctx, args[0])
			return printReport(report, err)
		})
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <match url>",
	Short: "Ingests one match and whatever it references.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrawl(cmd, func(ctx context.Context, d deps) error {
			if err := d.crawler.CrawlMatch(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "ingested %s\n", args[0])
			return nil
		})
	},
}

func printReport(report *service.Report, err error) error {
	if report == nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Total", "Ingested", "Failed"})
	t.AppendRow(table.Row{report.Total, report.Ingested, len(report.Failures)})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(report.Failures) > 0 {
		f := table.NewWriter()
		f.SetOutputMirror(os.Stdout)
		f.AppendHeader(table.Row{"URL", "Error"})
		for _, failure := range report.Failures {
			f.AppendRow(table.Row{failure.URL, failure.Err.Error()})
		}
		f.SetStyle(table.StyleRounded)
		f.Render()
	}

	if err != nil {
		return err
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d of %d matches failed", len(report.Failures), report.Total)
	}
	return nil
}
