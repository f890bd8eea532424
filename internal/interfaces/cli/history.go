package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

var (
	historyLimit  int
	historyOffset int
)

// NewHistoryCmd browses the analysis history of an API server.  The history
// lives in the server's database, so every subcommand needs --server.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored analyses on an API server",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored analyses, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	}
	list.Flags().IntVar(&historyLimit, "limit", 20, "page size")
	list.Flags().IntVar(&historyOffset, "offset", 0, "rows to skip")

	get := &cobra.Command{
		Use:   "get <analysis-id>",
		Short: "Show one stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryGet,
	}

	cmd.AddCommand(list, get)
	return cmd
}

func remoteContext(cmd *cobra.Command) (*CLIContext, context.Context, context.CancelFunc, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	if cliCtx.Remote == nil {
		return nil, nil, nil, errors.New(errors.ErrCodeBadRequest, "--server is required for history commands")
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	return cliCtx, ctx, cancel, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cliCtx, ctx, cancel, err := remoteContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	page, err := cliCtx.Remote.Claims().ListAnalyses(ctx, historyLimit, historyOffset)
	if err != nil {
		return err
	}
	if cliCtx.OutputFormat == OutputJSON {
		return printJSON(cmd.OutOrStdout(), page)
	}

	rows := make([][]string, 0, len(page.Items))
	for _, it := range page.Items {
		rows = append(rows, []string{
			it.AnalysisID,
			it.Language,
			strconv.Itoa(it.TotalClaims),
			strconv.Itoa(it.IssueCount),
			it.CreatedAt.Local().Format(time.DateTime),
		})
	}
	renderTable(cmd.OutOrStdout(), []string{"ID", "Language", "Claims", "Issues", "Created"}, rows)
	return nil
}

func runHistoryGet(cmd *cobra.Command, args []string) error {
	cliCtx, ctx, cancel, err := remoteContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	res, err := cliCtx.Remote.Claims().GetAnalysis(ctx, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch cliCtx.OutputFormat {
	case OutputJSON:
		return printJSON(out, res)
	case OutputTable:
		writeAnalysisTable(out, res.AnalysisResponse)
	default:
		writeAnalysisText(out, res.AnalysisResponse, cliCtx.Verbose)
	}
	return nil
}

//Personal.AI order the ending
