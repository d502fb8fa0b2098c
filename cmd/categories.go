package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/catalog"
)

var validateFile string

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Inspect and manage the category catalog",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List category names",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openCatalog(ctx, "categories")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		cats, err := st.List(ctx)
		if err != nil {
			return eris.Wrap(err, "list categories")
		}

		out := cmd.OutOrStdout()
		for _, c := range cats {
			if len(c.Aliases) > 0 {
				fmt.Fprintf(out, "%s\t%d attributes\t(%s)\n", c.Name, len(c.Attributes), strings.Join(c.Aliases, ", "))
				continue
			}
			fmt.Fprintf(out, "%s\t%d attributes\n", c.Name, len(c.Attributes))
		}
		return nil
	},
}

var categoriesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a category as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openCatalog(ctx, "categories")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		cat, err := st.Get(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "show category %q", args[0])
		}
		return writeIndented(cmd.OutOrStdout(), cat)
	},
}

var categoriesDetectCmd = &cobra.Command{
	Use:   "detect <query>",
	Short: "Resolve free text to a category name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openCatalog(ctx, "categories")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		query := strings.Join(args, " ")
		cat, err := catalog.DetectIn(ctx, st, query)
		if err != nil {
			return eris.Wrapf(err, "detect %q", query)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cat.Name)
		return nil
	},
}

var categoriesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a YAML catalog for schema errors without loading it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		n, err := validateCatalogFile(validateFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d categories ok\n", n)
		return nil
	},
}

func init() {
	categoriesValidateCmd.Flags().StringVar(&validateFile, "file", "", "path to catalog YAML (required)")
	_ = categoriesValidateCmd.MarkFlagRequired("file")

	categoriesCmd.AddCommand(categoriesListCmd, categoriesShowCmd, categoriesDetectCmd, categoriesValidateCmd)
	rootCmd.AddCommand(categoriesCmd)
}

// validateCatalogFile reports every invalid category in path, not just the
// first.
func validateCatalogFile(path string) (int, error) {
	cats, err := catalog.LoadFile(path)
	if err != nil {
		return 0, err
	}

	var problems []string
	seen := make(map[string]bool, len(cats))
	for i := range cats {
		if err := catalog.ValidateCategory(&cats[i]); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		key := catalog.Key(cats[i].Name)
		if seen[key] {
			problems = append(problems, fmt.Sprintf("duplicate category %q", cats[i].Name))
		}
		seen[key] = true
	}

	if len(problems) > 0 {
		zap.L().Warn("catalog has invalid categories",
			zap.String("file", path),
			zap.Int("invalid", len(problems)),
		)
		return 0, eris.Errorf("validate %s: %s", path, strings.Join(problems, "; "))
	}
	return len(cats), nil
}
