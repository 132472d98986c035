package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/kherington/reportcrew/internal/models"
	"github.com/kherington/reportcrew/pkg/config"
	"github.com/kherington/reportcrew/pkg/crew"
	"github.com/kherington/reportcrew/pkg/images"
	"github.com/kherington/reportcrew/pkg/llm"
	"github.com/kherington/reportcrew/pkg/report"
	"github.com/kherington/reportcrew/pkg/store"
	"github.com/kherington/reportcrew/server"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runCommand(os.Args[2:])
	case "list":
		err = listCommand(os.Args[2:])
	case "serve":
		err = serveCommand(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		color.Red("unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: reportcrew <command> [flags]

Commands:
  run    [flags] <topic>   Generate a research report on a topic
  list   [flags]           List previously generated reports
  serve  [flags]           Serve generated reports over HTTP

Run "reportcrew <command> -h" for command flags.`)
}

// parseTopicArgs collects the positional topic words while accepting flags
// on either side of them, so "run Solar Energy --backend ollama" works the
// same as "run --backend ollama Solar Energy".
func parseTopicArgs(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}

	var words []string
	rest := fs.Args()
	for len(rest) > 0 {
		if strings.HasPrefix(rest[0], "-") && len(rest[0]) > 1 {
			if err := fs.Parse(rest); err != nil {
				return "", err
			}
			next := fs.Args()
			if len(next) == len(rest) {
				words = append(words, rest[0])
				rest = rest[1:]
				continue
			}
			rest = next
			continue
		}
		words = append(words, rest[0])
		rest = rest[1:]
	}
	return strings.TrimSpace(strings.Join(words, " ")), nil
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	backend := fs.String("backend", "", "LLM backend: openai or ollama (default from config)")
	outputDir := fs.String("output-dir", "", "Directory for generated reports")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	topic, err := parseTopicArgs(fs, args)
	if err != nil {
		return err
	}
	if topic == "" {
		return fmt.Errorf("a topic is required, e.g.: reportcrew run \"Solar Energy\"")
	}

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.Crew.Backend = *backend
	}
	if *outputDir != "" {
		cfg.Report.OutputDir = *outputDir
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("  %s: %s\n", e.Field, e.Message)
		}
		return fmt.Errorf("configuration is invalid")
	}

	backendCfg := llm.FromConfig(cfg, cfg.Crew.Backend)
	if err := llm.CheckAvailability(backendCfg); err != nil {
		return err
	}

	model, err := llm.NewWithConfig(backendCfg)
	if err != nil {
		return err
	}

	color.Blue("\nGenerating research report on %q using %s\n", topic, backendCfg.Backend)

	var spinner *progressbar.ProgressBar
	c, err := crew.NewWithConfig(crew.CrewConfig{
		Model:       model,
		Temperature: cfg.Crew.Temperature,
		OnProgress: func(stage string) {
			if spinner != nil {
				spinner.Finish()
				fmt.Println()
			}
			spinner = getSpinner(" " + stage)
		},
	})
	if err != nil {
		return err
	}

	raw, err := c.Kickoff(context.Background(), topic)
	if spinner != nil {
		spinner.Finish()
		fmt.Println()
	}
	if err != nil {
		return err
	}
	color.Green("✓ Crew finished\n")

	searcher := images.NewWithConfig(images.ClientConfig{
		UnsplashAccessKey: cfg.Images.UnsplashAccessKey,
		PexelsAPIKey:      cfg.Images.PexelsAPIKey,
		RateLimit:         cfg.Images.RateLimit,
	})

	assembleSpinner := getSpinner(" Assembling report...")
	doc := report.Assemble(context.Background(), raw, topic, searcher)
	assembleSpinner.Finish()
	fmt.Println()

	htmlPath, mdPath, err := report.Save(doc, cfg.Report.OutputDir, backendCfg.Backend)
	if err != nil {
		return err
	}

	color.Green("✓ Report saved\n")
	fmt.Printf("  HTML: %s\n", htmlPath)
	fmt.Printf("  Markdown: %s\n", mdPath)

	archiveRun(cfg, models.ReportRun{
		Topic:    topic,
		Backend:  backendCfg.Backend,
		HTMLPath: htmlPath,
		MDPath:   mdPath,
	})

	return nil
}

// archiveRun records the run in the database when one is configured. The
// archive is optional, a failure never fails the report run itself.
func archiveRun(cfg *config.Config, run models.ReportRun) {
	if cfg.Database.URL == "" {
		return
	}

	archive, err := store.NewWithConfig(store.ArchiveConfig{
		ConnString: cfg.Database.URL,
		TableName:  cfg.Database.TableName,
	})
	if err != nil {
		logrus.Warnf("report archive unavailable: %v", err)
		return
	}
	defer archive.Close()

	if err := archive.Insert(context.Background(), run); err != nil {
		logrus.Warnf("failed to archive report run: %v", err)
	}
}

func listCommand(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	fs.Parse(args)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("no database configured, set DATABASE_URL or database.url in the config file")
	}

	archive, err := store.NewWithConfig(store.ArchiveConfig{
		ConnString: cfg.Database.URL,
		TableName:  cfg.Database.TableName,
	})
	if err != nil {
		return err
	}
	defer archive.Close()

	runs, err := archive.List(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		color.Yellow("No report runs recorded yet.\n")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-8s  %s\n", run.CreatedAt, run.Backend, run.Topic)
		fmt.Printf("%20s  %s\n", "", run.HTMLPath)
	}
	return nil
}

func serveCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	port := fs.Int("port", 8000, "Port to listen on")
	reportsDir := fs.String("reports-dir", "", "Directory with generated reports")
	fs.Parse(args)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	dir := cfg.Report.OutputDir
	if *reportsDir != "" {
		dir = *reportsDir
	}

	s := server.NewWithConfig(server.Config{
		Port:       *port,
		ReportsDir: dir,
	})
	return s.Run()
}
