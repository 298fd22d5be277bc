package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/deckx/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Outline prints or writes a deck outline in the requested format.
func (r *Runner) Outline(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	d, err := openDeck(cmd)
	if err != nil {
		return err
	}

	switch output := cmd.String("output"); output {
	case "":
		data, err := formatter.ExportOutline(d, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	case "-":
		output = ""
		fallthrough
	default:
		path, err := formatter.WriteOutlineExport(d, format, output)
		if err != nil {
			return err
		}
		r.logger.Info("outline exported", "path", path, "slides", d.Len())
		r.writePlain("✓ Outline saved to %s\n", path)
		return nil
	}
}
