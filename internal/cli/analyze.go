package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/config"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/pgn"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/position"
)

type analyzeFlags struct {
	analysis string
	fen      string
	white    string
	black    string
	save     bool
}

func newAnalyzeCommand(root *rootFlags) *cobra.Command {
	flags := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze [moves...]",
		Short: "Annotate a game from an engine run and print it as PGN",
		Long: `analyze plays the given moves (SAN or UCI) as the mainline, merges the engine
run from --analysis (one entry per position, the root first) and prints the
annotated game. With --save the study is also stored as a new tab.`,
		Example: `  study analyze --analysis run.yaml e4 e5 Nf3
  study analyze --analysis run.json --save "e4 c5 Nf3 d6"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, flags, args)
		},
	}
	cmd.Flags().StringVar(&flags.analysis, "analysis", "", "engine analysis file (YAML or JSON)")
	cmd.Flags().StringVar(&flags.fen, "fen", "", "starting position (default: standard)")
	cmd.Flags().StringVar(&flags.white, "white", "", "White player")
	cmd.Flags().StringVar(&flags.black, "black", "", "Black player")
	cmd.Flags().BoolVar(&flags.save, "save", false, "store the annotated study as a tab")
	_ = cmd.MarkFlagRequired("analysis")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootFlags, flags *analyzeFlags, args []string) error {
	e, err := setup(root, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer e.Close()

	entries, err := config.LoadAnalysis(flags.analysis)
	if err != nil {
		return err
	}
	if flags.fen != "" {
		if _, err := position.New().Status(flags.fen); err != nil {
			return err
		}
	}

	s := e.registry.Open(flags.fen)
	moves := strings.Fields(strings.Join(args, " "))
	if n := s.MakeMoves(moves, true, true); n != len(moves) {
		return fmt.Errorf("move %d (%s) cannot be played", n+1, moves[n])
	}
	if flags.white != "" || flags.black != "" {
		h := s.Headers()
		h.White, h.Black = flags.white, flags.black
		s.SetHeaders(h)
	}
	s.AddAnalysis(entries)

	st := s.State()
	fmt.Fprint(cmd.OutOrStdout(), pgn.Render(st.Root, st.Headers, pgn.DefaultOptions()))

	// tabs are only written by Flush
	if !flags.save {
		return nil
	}
	if err := e.registry.Flush(commandContext(cmd)); err != nil {
		return err
	}
	e.logger.Info("study saved", slog.String("tab", s.ID()), slog.Int("plies", len(moves)))
	fmt.Fprintf(cmd.ErrOrStderr(), "saved tab %s\n", s.ID())
	return nil
}
