package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/elicit/internal/engine"
)

var (
	turnCategory    string
	turnAnswers     []string
	turnIDs         []string
	turnLocale      string
	turnExtra       map[string]string
	turnRequestPath string
)

var turnCmd = &cobra.Command{
	Use:   "turn",
	Short: "Evaluate one elicitation turn and print the response as JSON",
	Example: `  elicit turn --category Headphones --answer Yes --id wireless --locale en
  echo '{"category":"Headphones","answers":["Yes"],"asked_attribute_ids":["wireless"]}' | elicit turn --request -`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		req, err := buildTurnRequest(cmd.InOrStdin())
		if err != nil {
			return err
		}

		env, err := initEngine(ctx, "turn")
		if err != nil {
			return err
		}
		defer env.Close()

		resp, err := env.Engine.Turn(ctx, req)
		if err != nil {
			return eris.Wrap(err, "turn")
		}
		return writeIndented(cmd.OutOrStdout(), resp)
	},
}

func init() {
	turnCmd.Flags().StringVar(&turnCategory, "category", "", "category name")
	turnCmd.Flags().StringArrayVar(&turnAnswers, "answer", nil, "answer text, repeat once per turn in order")
	turnCmd.Flags().StringArrayVar(&turnIDs, "id", nil, "attribute id each answer was asked for, repeat in the same order")
	turnCmd.Flags().StringVar(&turnLocale, "locale", "", "locale (en or tr; default from config)")
	turnCmd.Flags().StringToStringVar(&turnExtra, "extra", nil, "extra preferences as key=value, normalized like answers")
	turnCmd.Flags().StringVar(&turnRequestPath, "request", "", "read the request as JSON from a file, or - for stdin")
	rootCmd.AddCommand(turnCmd)
}

// buildTurnRequest assembles a request from --request or the individual
// flags.
func buildTurnRequest(stdin io.Reader) (engine.Request, error) {
	var req engine.Request

	if turnRequestPath != "" {
		r := stdin
		if turnRequestPath != "-" {
			f, err := os.Open(turnRequestPath)
			if err != nil {
				return req, eris.Wrapf(err, "open request %s", turnRequestPath)
			}
			defer f.Close() //nolint:errcheck
			r = f
		}
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return req, eris.Wrap(err, "decode request")
		}
		return req, nil
	}

	if strings.TrimSpace(turnCategory) == "" {
		return req, eris.New("--category or --request is required")
	}
	req.Category = turnCategory
	req.Answers = turnAnswers
	req.AskedAttributeIDs = turnIDs
	req.Locale = turnLocale
	if len(turnExtra) > 0 {
		req.ExtraPreferences = make(map[string]any, len(turnExtra))
		for k, v := range turnExtra {
			req.ExtraPreferences[k] = v
		}
	}
	return req, nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(v), "encode output")
}
