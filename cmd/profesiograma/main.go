// Command profesiograma scores hazard factors, checks exposure limits and
// manages profile submissions from the terminal.
//
// Usage:
//
//	profesiograma score    --nd 6 --ne 3 --nc 25
//	profesiograma vlp      --classification noise --measured "92 dB"
//	profesiograma validate -f profile.json
//	profesiograma controls -f assessment.json --hazard ruido
//	profesiograma submit   -f profile.json --by USER
//	profesiograma status   WORKFLOW_ID
//	profesiograma confirm  WORKFLOW_ID --by USER
//	profesiograma decline  WORKFLOW_ID --by USER --reason R
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"

	"github.com/sgsst/profesiograma-go/internal/temporal/querier"
)

// dialFunc connects to Temporal and returns the querier plus its closer.
type dialFunc func() (querier.WorkflowQuerier, func(), error)

func dialTemporal() (querier.WorkflowQuerier, func(), error) {
	c, err := client.Dial(client.Options{})
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create Temporal client: %w", err)
	}
	return querier.New(c), c.Close, nil
}

func newRootCmd(dial dialFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "profesiograma",
		Short:         "GTC-45 risk assessment and profile submissions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newScoreCmd(),
		newVLPCmd(),
		newValidateCmd(),
		newControlsCmd(),
		newSubmitCmd(dial),
		newStatusCmd(dial),
		newConfirmCmd(dial, true),
		newConfirmCmd(dial, false),
	)
	return root
}

func main() {
	if err := newRootCmd(dialTemporal).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSON decodes the file at path into v; "-" reads stdin.
func readJSON(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
