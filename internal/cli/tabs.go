package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/pgn"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/store"
)

func newTabsCommand(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "List saved tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTabsList(cmd, root)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <id>",
			Short: "Print a saved tab as PGN",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTabsShow(cmd, root, args[0])
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a saved tab",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTabsRemove(cmd, root, args[0])
			},
		},
	)
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runTabsList(cmd *cobra.Command, root *rootFlags) error {
	ctx := commandContext(cmd)
	e, err := setup(root, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer e.Close()

	ids, err := e.db.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHITE\tBLACK\tPLIES\tRESULT")
	for _, id := range ids {
		st, err := e.db.Load(ctx, id)
		if err != nil {
			e.logger.Warn("skipping unreadable tab", "tab", id, "error", err)
			continue
		}
		h := st.Headers
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", id, orDash(h.White), orDash(h.Black), mainlineLength(st.Root), h.Result)
	}
	return w.Flush()
}

func runTabsShow(cmd *cobra.Command, root *rootFlags, id string) error {
	e, err := setup(root, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer e.Close()

	s, err := e.registry.Restore(commandContext(cmd), id)
	if err != nil {
		return err
	}
	st := s.State()
	fmt.Fprint(cmd.OutOrStdout(), pgn.Render(st.Root, st.Headers, pgn.DefaultOptions()))
	return nil
}

func runTabsRemove(cmd *cobra.Command, root *rootFlags, id string) error {
	ctx := commandContext(cmd)
	e, err := setup(root, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer e.Close()

	if _, err := e.registry.Restore(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no saved tab %s", id)
		}
		return err
	}
	if err := e.registry.Close(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
	return nil
}

// mainlineLength counts the plies of the mainline from the root.
func mainlineLength(root *domain.TreeNode) int {
	return len(domain.MainlineEnd(root))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
