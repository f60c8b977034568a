// Command photocore is the CLI surface over the scan/dedup/file-ops
// engine: scanning directories for duplicate photos, applying the
// smart-select rules, and moving or trashing the results. Command
// dispatch follows the teacher's main.go (a fixed set of named
// subcommands over one shared Context), rebuilt on urfave/cli/v3 the
// way Starford96-kenaz's cmd/app/main.go wires its own command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"photocore/internal/appconfig"
	"photocore/internal/fileops"
	"photocore/internal/logging"
	"photocore/internal/models"
	"photocore/internal/orchestrator"
	"photocore/internal/progress"
	"photocore/internal/smartselect"
	"photocore/internal/uiconfig"
)

// AppVersion is bumped by hand on release, mirroring the teacher's own
// var AppVersion string constant.
var AppVersion = "1.0"

func main() {
	cmd := &cli.Command{
		Name:  "photocore",
		Usage: "Scan directories for duplicate photos and clean them up",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "photocore.yaml",
				Usage: "path to the engine's operational config",
			},
			&cli.StringFlag{
				Name:  "ui-config",
				Value: "config.json",
				Usage: "path to the UI collaborator's config.json",
			},
		},
		Commands: []*cli.Command{
			scanCommand(),
			moveCommand(),
			trashCommand(),
			renameCommand(),
			mkdirCommand(),
			revealCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadContext(cmd *cli.Command) (*appconfig.Config, *uiconfig.Config, error) {
	cfg, err := appconfig.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}

	if err := logging.Setup(cfg.LogFilePath); err != nil {
		return nil, nil, err
	}

	ui, err := uiconfig.Load(cmd.String("ui-config"))
	if err != nil {
		return nil, nil, err
	}

	return cfg, ui, nil
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan the configured directories for duplicate photos",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "smart-select", Usage: "print the smart-select delete recommendation"},
			&cli.BoolFlag{Name: "delete-recommended", Usage: "trash the smart-select recommendation (implies --smart-select)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, ui, err := loadContext(cmd)
			if err != nil {
				return err
			}

			roots := ui.EnabledRoots()
			if len(roots) == 0 {
				return fmt.Errorf("no enabled directories in %s", cmd.String("ui-config"))
			}

			color.HiCyan("Photocore version %s. Batches of %s", AppVersion, humanize.Comma(cfg.BatchSize))

			orch := orchestrator.New(cfg)
			bar := attachProgressBar(orch.Progress)

			start := time.Now()
			photos, err := orch.Scan(roots)
			bar.Finish()
			if err != nil {
				return err
			}

			var duplicates int
			for _, p := range photos {
				if p.IsDuplicate {
					duplicates++
				}
			}

			fmt.Printf("Found %s photos across %s directories (%s duplicates), took %s\n",
				humanize.Comma(int64(len(photos))), humanize.Comma(int64(len(roots))),
				humanize.Comma(int64(duplicates)), time.Since(start).Round(time.Millisecond))

			if cmd.Bool("smart-select") || cmd.Bool("delete-recommended") {
				groups := orch.LastDuplicateGroups()
				recommended := printSmartSelect(groups)

				if cmd.Bool("delete-recommended") {
					deleteRecommended(recommended)
				}
			}

			return nil
		},
	}
}

// printSmartSelect prints the smart-select recommendation and returns the
// recommended LogicalPhotos, for callers that go on to act on them.
func printSmartSelect(groups []models.DuplicateGroup) []*models.LogicalPhoto {
	if len(groups) == 0 {
		return nil
	}

	toDelete := smartselect.Select(groups)
	color.HiYellow("Smart select recommends removing %s files:", humanize.Comma(int64(len(toDelete))))

	var recommended []*models.LogicalPhoto
	for _, group := range groups {
		for _, member := range group.Members {
			if toDelete[member.ID] {
				fmt.Printf("  %s\n", member.Primary.Path)
				recommended = append(recommended, member)
			}
		}
	}
	return recommended
}

// deleteRecommended trashes every recommended photo's primary file plus
// its related sidecars/previews, so a deleted RAW never leaves an
// orphaned .xmp or preview JPEG behind.
func deleteRecommended(photos []*models.LogicalPhoto) {
	var paths []string
	for _, p := range photos {
		paths = append(paths, fileops.ExpandWithRelated(p)...)
	}

	if len(paths) == 0 {
		return
	}

	ops := fileops.New(progress.NewReporter(), func() int64 { return time.Now().UnixMilli() })
	result := ops.Trash(paths)

	fmt.Printf("Deleted %s (%s), %s failed\n",
		humanize.Comma(int64(result.DeletedCount)), humanize.Bytes(result.TotalBytes),
		humanize.Comma(int64(result.FailedCount)))
}

func attachProgressBar(reporter *progress.Reporter) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
	)

	_, events, _ := reporter.Subscribe()
	go func() {
		for ev := range events {
			if ev.Total > 0 {
				bar.ChangeMax(ev.Total)
			}
			_ = bar.Set(ev.Current)
			bar.Describe(string(ev.Phase))
		}
	}()

	return bar
}

func moveCommand() *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Move files into a destination directory",
		ArgsUsage: "<dest> <path> [path...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) < 2 {
				return fmt.Errorf("move requires a destination and at least one path")
			}

			ops := fileops.New(progress.NewReporter(), func() int64 { return time.Now().UnixMilli() })
			moved, err := ops.Move(args[1:], args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Moved %s\n", humanize.Comma(int64(len(moved))))
			return nil
		},
	}
}

func trashCommand() *cli.Command {
	return &cli.Command{
		Name:      "trash",
		Usage:     "Send files to the OS trash",
		ArgsUsage: "<path> [path...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return fmt.Errorf("trash requires at least one path")
			}

			ops := fileops.New(progress.NewReporter(), func() int64 { return time.Now().UnixMilli() })
			result := ops.Trash(args)

			fmt.Printf("Deleted %s (%s), %s failed\n",
				humanize.Comma(int64(result.DeletedCount)), humanize.Bytes(result.TotalBytes),
				humanize.Comma(int64(result.FailedCount)))
			return nil
		},
	}
}

func renameCommand() *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a file in place",
		ArgsUsage: "<path> <new-name>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 2 {
				return fmt.Errorf("rename requires a path and a new name")
			}

			ops := fileops.New(progress.NewReporter(), nil)
			return ops.Rename(args[0], args[1])
		},
	}
}

func mkdirCommand() *cli.Command {
	return &cli.Command{
		Name:      "mkdir",
		Usage:     "Create a folder, including parents",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("mkdir requires exactly one path")
			}

			ops := fileops.New(progress.NewReporter(), nil)
			return ops.CreateFolder(args[0])
		},
	}
}

func revealCommand() *cli.Command {
	return &cli.Command{
		Name:      "reveal",
		Usage:     "Reveal a file in the platform file manager",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("reveal requires exactly one path")
			}

			ops := fileops.New(progress.NewReporter(), nil)
			return ops.Reveal(args[0])
		},
	}
}
