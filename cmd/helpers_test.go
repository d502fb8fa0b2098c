//go:build !integration

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const testCatalogYAML = `categories:
  - name: Headphones
    aliases: [kulaklık, earphone]
    budget_bands:
      en: ["$20-50", "$50+"]
    attributes:
      - id: wireless
        type: boolean
        weight: 0.9
        label: {en: "Wireless?", tr: "Kablosuz mu?"}
      - id: brand
        type: single_choice
        weight: 0.5
        label: {en: "Brand?", tr: "Marka?"}
        options:
          - {id: apple, label: {en: "Apple"}}
          - {id: samsung, label: {en: "Samsung"}}
  - name: Phone
    aliases: [telefon, smartphone]
    attributes:
      - id: os
        type: single_choice
        mandatory: true
        label: {en: "OS?"}
        options:
          - {id: ios, label: {en: "iOS"}}
          - {id: android, label: {en: "Android"}}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// testConfig returns a config that passes Validate for every mode and
// reads categories from a temp YAML file.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.Catalog.Driver = "file"
	c.Catalog.Path = writeFile(t, "categories.yaml", testCatalogYAML)
	c.Engine.OpenEndedMultiplier = 2
	c.Engine.MandatoryWeight = 0.9
	c.Engine.ImportanceTiers = []float64{0.6, 0.5}
	c.Engine.DefaultLocale = "en"
	c.Server.Port = 8080
	c.Server.CORSOrigins = []string{"*"}
	c.Replay.Concurrency = 4
	return c
}
