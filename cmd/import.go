package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/catalog"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load categories from YAML into the sqlite or postgres catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Catalog.Driver == "" || cfg.Catalog.Driver == "file" {
			return eris.New("import needs a database catalog (ELICIT_CATALOG_DRIVER=sqlite or postgres)")
		}

		cats, err := catalog.LoadFile(importFile)
		if err != nil {
			return eris.Wrap(err, "import yaml")
		}

		st, err := openCatalog(ctx, "categories")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		ws, ok := st.(catalog.WritableStore)
		if !ok {
			return catalog.ErrReadOnly
		}

		imported := 0
		for i := range cats {
			if err := ws.Put(ctx, &cats[i]); err != nil {
				return eris.Wrapf(err, "import category %q", cats[i].Name)
			}
			imported++
		}

		zap.L().Info("import complete",
			zap.Int("imported", imported),
			zap.String("file", importFile),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to catalog YAML (required)")
	_ = importCmd.MarkFlagRequired("file")
	categoriesCmd.AddCommand(importCmd)
}
