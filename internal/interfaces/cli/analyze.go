package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	ptypes "github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

// defaultMaxInputBytes bounds the claim text read from a file or stdin when
// the configuration sets no body limit.
const defaultMaxInputBytes = 4 << 20

var (
	analyzeLang   string
	analyzeFailOn string
)

// NewAnalyzeCmd creates the analyze subcommand.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a claim set",
		Long: `Analyze the claims in a text file, or in stdin when the file is "-" or omitted.

Examples:
  chempatent analyze claims.txt
  chempatent analyze --lang zh -o table claims_cn.txt
  cat claims.txt | chempatent analyze -o json --fail-on error`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeLang, "lang", "l", "auto", "claim language (en, zh, auto)")
	cmd.Flags().StringVar(&analyzeFailOn, "fail-on", "none", "exit non-zero when an issue of this severity or worse is found (none, info, warning, error)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	threshold, err := parseSeverity(analyzeFailOn)
	if err != nil {
		return err
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}
	limit := cliCtx.Config.Server.MaxBodySize
	if limit <= 0 {
		limit = defaultMaxInputBytes
	}
	text, err := readClaimText(cmd, source, limit)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	var result *ptypes.AnalysisResult
	if cliCtx.Remote != nil {
		cliCtx.Logger.Debug("analyzing claim text remotely")
		result, err = cliCtx.Remote.Claims().Analyze(ctx, text, analyzeLang)
	} else {
		cliCtx.Logger.Debug("analyzing claim text")
		result, err = cliCtx.Service.Analyze(ctx, ptypes.AnalyzeRequest{Text: text, Language: analyzeLang})
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch cliCtx.OutputFormat {
	case OutputJSON:
		err = printJSON(out, result)
	case OutputTable:
		writeAnalysisTable(out, result.AnalysisResponse)
	default:
		writeAnalysisText(out, result.AnalysisResponse, cliCtx.Verbose)
	}
	if err != nil {
		return err
	}

	if n := countAtOrAbove(result.Issues, threshold); n > 0 {
		return errors.Newf(errors.ErrCodeValidation, "%d issue(s) at or above severity %q", n, analyzeFailOn)
	}
	return nil
}

// readClaimText reads at most limit bytes from the named file or from stdin.
func readClaimText(cmd *cobra.Command, source string, limit int64) (string, error) {
	var r io.Reader
	if source == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(source)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeBadRequest, "failed to open claim file").WithDetail(source)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read claim text")
	}
	if int64(len(data)) > limit {
		return "", errors.Newf(errors.ErrCodeBadRequest, "claim text exceeds %d bytes", limit)
	}
	return string(data), nil
}

var severityRank = map[string]int{
	string(patent.SeverityInfo):    1,
	string(patent.SeverityWarning): 2,
	string(patent.SeverityError):   3,
}

// parseSeverity maps a --fail-on value to a rank; 0 disables the check.
func parseSeverity(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return 0, nil
	}
	rank, ok := severityRank[s]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeBadRequest, "unknown severity %q", s)
	}
	return rank, nil
}

func countAtOrAbove(issues []ptypes.IssueDTO, threshold int) int {
	if threshold == 0 {
		return 0
	}
	n := 0
	for _, is := range issues {
		if severityRank[is.Severity] >= threshold {
			n++
		}
	}
	return n
}

func colorizeSeverity(severity string) string {
	switch severity {
	case string(patent.SeverityError):
		return color.RedString("ERROR")
	case string(patent.SeverityWarning):
		return color.YellowString("WARN")
	default:
		return color.CyanString("INFO")
	}
}

func issueTarget(is ptypes.IssueDTO) string {
	if is.ClaimNumber == nil {
		return "set"
	}
	return "claim " + strconv.Itoa(*is.ClaimNumber)
}

func joinInts(ns []int) string {
	if len(ns) == 0 {
		return "-"
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func writeAnalysisText(w io.Writer, r *ptypes.AnalysisResponse, verbose bool) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s, %d claim(s)\n", bold("Language:"), r.Language, r.TotalClaims)
	fmt.Fprintf(w, "%s %s\n", bold("Independent:"), joinInts(r.IndependentClaims))
	fmt.Fprintf(w, "%s %s\n", bold("Dependent:"), joinInts(r.DependentClaims))

	fmt.Fprintf(w, "\n%s\n", bold("Claims"))
	for _, c := range r.Claims {
		kind := "dependent on " + joinInts(c.References)
		if c.IsIndependent {
			kind = "independent"
		}
		fmt.Fprintf(w, "  %3d  %-11s  %s  words=%d clauses=%d score=%.2f\n",
			c.Number, c.Type, kind, c.WordCount, c.ClauseCount, c.ComplexityScore)
		if verbose {
			fmt.Fprintf(w, "       %s\n", truncateString(c.Text, 120))
		}
	}

	if len(r.Issues) > 0 {
		fmt.Fprintf(w, "\n%s\n", bold("Issues"))
		for _, is := range r.Issues {
			fmt.Fprintf(w, "  %s  %-9s %s: %s\n", colorizeSeverity(is.Severity), issueTarget(is), is.Kind, is.Message)
		}
	}
	if len(r.Suggestions) > 0 {
		fmt.Fprintf(w, "\n%s\n", bold("Suggestions"))
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}

	st := r.Statistics
	fmt.Fprintf(w, "\n%s\n", bold("Statistics"))
	fmt.Fprintf(w, "  words       min=%d max=%d avg=%.1f median=%d\n", st.MinWords, st.MaxWords, st.AvgWords, st.MedianWords)
	fmt.Fprintf(w, "  complexity  min=%.2f max=%.2f avg=%.2f\n", st.MinComplexity, st.MaxComplexity, st.AvgComplexity)
	fmt.Fprintf(w, "  types       %s (main: %s)\n", formatDistribution(st.TypeDistribution), st.MainProtectionType)
	fmt.Fprintf(w, "  depth       %d\n", st.MaxDependencyDepth)

	if in := r.Insights; in != nil {
		fmt.Fprintf(w, "\n%s\n", bold("Insights"))
		fmt.Fprintf(w, "  innovation  %s (score %.2f)\n", in.Innovations.Level, in.Innovations.Score)
		fmt.Fprintf(w, "  coverage    breadth=%.2f depth=%.2f\n", in.Coverage.BreadthScore, in.Coverage.DepthScore)
		fmt.Fprintf(w, "  features    %d key, %d parameter(s)\n", in.Summary.KeyFeaturesCount, len(in.TechnicalFeatures.Parameters))
		if verbose {
			for _, p := range in.TechnicalFeatures.Parameters {
				fmt.Fprintf(w, "       claim %d: %s %g %s\n", p.ClaimNumber, p.Kind, p.Value, p.Unit)
			}
		}
	}
}

func writeAnalysisTable(w io.Writer, r *ptypes.AnalysisResponse) {
	rows := make([][]string, 0, len(r.Claims))
	for _, c := range r.Claims {
		rows = append(rows, []string{
			strconv.Itoa(c.Number),
			c.Type,
			strconv.FormatBool(c.IsIndependent),
			joinInts(c.References),
			strconv.Itoa(c.WordCount),
			strconv.Itoa(c.ClauseCount),
			strconv.FormatFloat(c.ComplexityScore, 'f', 2, 64),
		})
	}
	renderTable(w, []string{"Claim", "Type", "Independent", "References", "Words", "Clauses", "Complexity"}, rows)

	if len(r.Issues) == 0 {
		fmt.Fprintln(w, "\nNo issues found.")
		return
	}
	fmt.Fprintln(w)
	issueRows := make([][]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		issueRows = append(issueRows, []string{
			colorizeSeverity(is.Severity),
			issueTarget(is),
			is.Kind,
			truncateString(is.Message, 70),
		})
	}
	renderTable(w, []string{"Severity", "Target", "Kind", "Message"}, issueRows)
}

func formatDistribution(d map[string]int) string {
	if len(d) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, d[k])
	}
	return strings.Join(parts, " ")
}

//Personal.AI order the ending
