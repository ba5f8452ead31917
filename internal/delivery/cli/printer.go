// Package cli renders service results for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang-p2p-risk/pkg/apperror"
	"golang-p2p-risk/pkg/common"
	"golang-p2p-risk/pkg/utils"

	"gopkg.in/yaml.v3"
)

type Printer struct {
	out    io.Writer
	format string
}

func NewPrinter(out io.Writer, format string) (*Printer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !utils.ContainsString(common.GetOutputFormats(), format) {
		return nil, apperror.InvalidInput("cli.NewPrinter", "unsupported output format %q (supported: %s)",
			format, strings.Join(common.GetOutputFormats(), ", "))
	}
	return &Printer{out: out, format: format}, nil
}

// Print writes v in the configured format. YAML output is derived from the
// JSON encoding so both formats share field names and custom marshalers.
func (p *Printer) Print(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if p.format == common.OUTPUT_JSON {
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("failed to convert output to yaml: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles inherited from JSON.
func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}
