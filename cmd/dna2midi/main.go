// Package main is the entry point for dna2midi CLI
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/james-see/dna2midi/pkg/api"
	"github.com/james-see/dna2midi/pkg/config"
	"github.com/james-see/dna2midi/pkg/dna"
	"github.com/james-see/dna2midi/pkg/pipeline"
	"github.com/james-see/dna2midi/pkg/render"
	"github.com/james-see/dna2midi/pkg/score"
	"github.com/james-see/dna2midi/pkg/theory"
	"github.com/james-see/dna2midi/pkg/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile   string
	inputFile    string
	outputFormat string

	// settings resolved from defaults, config file, environment and flags
	cfg *config.Config
)

// flagKeys maps command line flags onto their settings keys
var flagKeys = map[string]string{
	"output":   "output",
	"verbose":  "verbose",
	"tonic":    "song.tonic",
	"mode":     "song.mode",
	"tempo":    "song.tempo",
	"velocity": "midi.velocity",
	"program":  "midi.program",
	"port":     "server.port",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dna2midi",
	Short: "Turn DNA open reading frames into songs",
	Long: `dna2midi finds the first open reading frame of a DNA sequence and
plays it: every codon becomes a note or a rest over the tonic chord of
the chosen key, written out as a standard MIDI file.

Examples:
  dna2midi generate ATGGCTGATCGTAGTTGGGCAGACCGCAGCTAA -t A -m minor
  dna2midi generate -f gene.fasta -o gene.mid --tempo 96
  dna2midi score -f gene.fasta --format yaml
  dna2midi inspect gene.mid
  dna2midi tui
  dna2midi serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

var generateCmd = &cobra.Command{
	Use:   "generate [sequence]",
	Short: "Render a sequence as a song",
	Long: `Locates the open reading frame of the sequence, composes it in the
requested key and writes the result. The output extension picks the
format: .mid, .json or .yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var scoreCmd = &cobra.Command{
	Use:   "score [sequence]",
	Short: "Print the assembled score",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScore,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.mid>",
	Short: "List the notes of a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var tonicsCmd = &cobra.Command{
	Use:   "tonics",
	Short: "List the supported keys and their tonic chords",
	Args:  cobra.NoArgs,
	RunE:  runTonics,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print the codon trace")

	// Song flags
	for _, cmd := range []*cobra.Command{generateCmd, scoreCmd, tuiCmd} {
		cmd.Flags().StringP("tonic", "t", "C", "Tonic of the key (C D E F G A B)")
		cmd.Flags().StringP("mode", "m", "major", "Mode of the key (major or minor)")
		cmd.Flags().Int("tempo", 120, "Tempo in beats per minute")
	}
	generateCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the sequence from a FASTA file")
	scoreCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the sequence from a FASTA file")

	// Output flags
	generateCmd.Flags().StringP("output", "o", render.DefaultMIDIFile, "Output file path")
	generateCmd.Flags().Uint8("velocity", render.DefaultVelocity, "MIDI note velocity")
	generateCmd.Flags().Uint8("program", render.DefaultProgram, "General MIDI program")
	tuiCmd.Flags().StringP("output", "o", render.DefaultMIDIFile, "Output file for typed sequences")
	scoreCmd.Flags().StringVar(&outputFormat, "format", string(render.FormatJSON), "Output format (json or yaml)")

	// serve command
	serveCmd.Flags().IntP("port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(tonicsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig layers the flags of cmd over the config file and environment
func loadConfig(cmd *cobra.Command, args []string) error {
	v, err := config.New(configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err = config.Load(v)
	return err
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// readSequence takes the sequence from the argument or the --file flag
func readSequence(args []string) (string, error) {
	switch {
	case len(args) == 1 && inputFile != "":
		return "", errors.New("pass a sequence or --file, not both")
	case len(args) == 1:
		return args[0], nil
	case inputFile != "":
		return dna.ReadSequenceFile(inputFile)
	default:
		return "", errors.New("no sequence given: pass one as an argument or use --file")
	}
}

func request(args []string) (*pipeline.Request, error) {
	seq, err := readSequence(args)
	if err != nil {
		return nil, err
	}
	req := &pipeline.Request{
		Sequence: seq,
		Tonic:    theory.Note(cfg.Song.Tonic),
		Mode:     theory.Mode(cfg.Song.Mode),
		Tempo:    cfg.Song.Tempo,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// tracingRenderer prints the codon trace of each score before rendering it
type tracingRenderer struct {
	render.Renderer
	w io.Writer
}

func (t *tracingRenderer) Render(s *score.Score, tempo int) error {
	printTrace(t.w, s)
	return t.Renderer.Render(s, tempo)
}

func printTrace(w io.Writer, s *score.Score) {
	fmt.Fprintf(w, "ORF (%d codons): %s\n", len(s.ORF)/dna.CodonLength, s.ORF)
	fmt.Fprintf(w, "Tonic chord: %s %s %v\n", s.Tonic, s.Mode, s.Chord)
	for i, step := range s.Steps {
		fmt.Fprintf(w, "  %3d  %s  %-8s  %s\n", i+1, step.Codon, step.Class, step.Degree)
	}
	c := s.Count()
	fmt.Fprintf(w, "Notes: %d  Rests: %d  Bar markers: %d  Beats: %g\n", c.Notes, c.Rests, c.Markers, s.Beats())
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := request(args)
	if err != nil {
		return err
	}

	var r render.Renderer
	r, err = render.ForPath(cfg.Output, cfg.MIDIOptions())
	if err != nil {
		return err
	}
	if cfg.Verbose {
		r = &tracingRenderer{Renderer: r, w: cmd.OutOrStdout()}
	}

	msg, err := pipeline.Process(req.Sequence, req.Tonic, req.Mode, req.Tempo, r)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", msg, cfg.Output)
	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	format := render.Format(strings.ToLower(outputFormat))
	if format == render.FormatMIDI {
		return errors.New("score prints json or yaml; use generate for MIDI")
	}
	enc, err := render.EncoderFor(format, cfg.MIDIOptions())
	if err != nil {
		return err
	}

	req, err := request(args)
	if err != nil {
		return err
	}

	s, err := pipeline.Compose(req.Sequence, req.Tonic, req.Mode)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printTrace(cmd.ErrOrStderr(), s)
	}

	data, err := enc.Encode(s, req.Tempo)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runInspect(cmd *cobra.Command, args []string) error {
	p, err := render.ReadMIDIFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Tempo: %g bpm  Resolution: %d ticks/quarter  Bar markers: %d\n",
		p.Tempo, p.TicksPerQuarter, p.Markers)
	for _, n := range p.Notes {
		fmt.Fprintf(out, "  %-4s key=%-3d vel=%-3d %7.3fs -> %7.3fs\n", n.Name, n.Key, n.Velocity, n.Start, n.End)
	}
	fmt.Fprintf(out, "%d notes\n", len(p.Notes))
	return nil
}

func runTonics(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, mode := range []theory.Mode{theory.Major, theory.Minor} {
		fmt.Fprintf(out, "%s:\n", mode)
		for _, tonic := range theory.Tonics {
			chord, err := theory.ChordFor(tonic, mode)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %s  %s %s %s\n", tonic, chord.Root(), chord.Third(), chord.Fifth())
		}
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(*cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", cfg.Server.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Server.Port)
	return api.StartServer(cfg.Server.Port, cfg.MIDIOptions())
}
