package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/milo0914/ChemPatent-Pro/internal/intelligence/claim_analyzer"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

// NewPhrasesCmd creates the phrases subcommand, which prints the phrase
// tables in use as YAML.  The output is a valid phrase table file and can be
// edited and passed back through analysis.phrase_tables_path.
func NewPhrasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phrases [lang]",
		Short: "Print the phrase tables as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPhrases,
	}
}

func runPhrases(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	tables := cliCtx.Analyzer.PhraseTables()
	if len(args) == 1 {
		lang := strings.ToLower(strings.TrimSpace(args[0]))
		t, ok := tables[lang]
		if !ok {
			return errors.Newf(errors.ErrCodeUnsupportedLanguage, "no phrase table for language %q", args[0]).
				WithDetail("available: " + strings.Join(cliCtx.Analyzer.Languages(), ", "))
		}
		tables = map[string]*claim_analyzer.PhraseTable{lang: t}
	}

	data, err := claim_analyzer.MarshalPhraseTables(tables)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

//Personal.AI order the ending
