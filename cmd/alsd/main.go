// Package main is the entry point for the alsd CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/alsd/pkg/api"
	"github.com/james-see/alsd/pkg/converter"
	"github.com/james-see/alsd/pkg/liveset"
	"github.com/james-see/alsd/pkg/report"
	"github.com/james-see/alsd/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile   string
	trackNumber  int
	clipNumber   int
	showDevices  bool
	showClips    bool
	reportFormat string
	serverPort   int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "alsd",
	Short: "Dump the contents of Ableton Live sets",
	Long: `alsd reads Ableton Live set (.als) files and lists their tracks,
devices and MIDI clips. Clips can be exported as Standard MIDI Files.

Examples:
  alsd dump song.als -D -C
  alsd dump song.als -t 2 -f json
  alsd export song.als -t 1 -c 2 -o riff.mid
  alsd convert song.als -o song.yaml
  alsd tui song.als
  alsd serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file.als>...",
	Short: "Print tracks, devices and clips",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDump,
}

var exportCmd = &cobra.Command{
	Use:   "export <file.als>",
	Short: "Export a track's clips as a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var convertCmd = &cobra.Command{
	Use:   "convert <file.als>",
	Short: "Convert a set to .mid, .json, .yaml or .txt by output extension",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var tuiCmd = &cobra.Command{
	Use:   "tui [file.als]",
	Short: "Launch interactive terminal UI",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// dump command
	dumpCmd.Flags().IntVarP(&trackNumber, "track", "t", 0, "The track number to display")
	dumpCmd.Flags().BoolVarP(&showDevices, "show-devices", "D", false, "List devices for each track")
	dumpCmd.Flags().BoolVarP(&showClips, "show-clips", "C", false, "List clips for each track")
	dumpCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "Output format (text, json, yaml)")

	// export command
	exportCmd.Flags().IntVarP(&trackNumber, "track", "t", 0, "Track number to export (required)")
	exportCmd.Flags().IntVarP(&clipNumber, "clip", "c", 0, "Clip number within the track (default: every clip)")
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")
	_ = exportCmd.MarkFlagRequired("track")

	// convert command
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	convertCmd.Flags().IntVarP(&trackNumber, "track", "t", 0, "Track number")
	convertCmd.Flags().IntVarP(&clipNumber, "clip", "c", 0, "Clip number for MIDI output")
	convertCmd.Flags().BoolVarP(&showDevices, "show-devices", "D", false, "List devices in text output")
	convertCmd.Flags().BoolVarP(&showClips, "show-clips", "C", false, "List clips in text output")
	_ = convertCmd.MarkFlagRequired("output")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func runDump(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return err
	}
	opts := report.Options{
		Format:      format,
		Track:       trackNumber,
		ShowDevices: showDevices,
		ShowClips:   showClips,
	}
	if cmd.Flags().Changed("track") && trackNumber < 1 {
		return fmt.Errorf("track number must be at least 1, got %d", trackNumber)
	}

	sets, err := liveset.LoadMany(cmd.Context(), args...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, set := range sets {
		if len(sets) > 1 && format == report.FormatText {
			fmt.Fprintf(out, "%s:\n", set.Path)
		}
		if err := report.Render(out, set, opts); err != nil {
			return err
		}
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, fmt.Sprintf("-track%d.mid", trackNumber))

	set, err := liveset.Load(input)
	if err != nil {
		return err
	}

	conv := converter.New(converter.Options{Track: trackNumber, Clip: clipNumber})
	if clipNumber != 0 {
		clip, err := conv.SelectedClip(set)
		if err != nil {
			return err
		}
		if err := converter.MIDIConverterFor(set).WriteMIDIFile(clip, output); err != nil {
			return err
		}
	} else {
		result, err := conv.SetToMIDI(set)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, result, 0644); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s -> %s\n", input, output)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	conv := converter.New(converter.Options{
		Track:       trackNumber,
		Clip:        clipNumber,
		ShowDevices: showDevices,
		ShowClips:   showClips,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Converting %s -> %s\n", input, outputFile)
	if err := conv.ConvertFile(input, outputFile); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Conversion complete!")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	return tui.Run(path)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
