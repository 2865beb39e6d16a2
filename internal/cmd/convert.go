package cmd

import (
	"fmt"
	"io"

	"github.com/harrison/jsontable/internal/display"
	"github.com/harrison/jsontable/internal/filelock"
	"github.com/harrison/jsontable/internal/limit"
	"github.com/harrison/jsontable/internal/render"
	"github.com/harrison/jsontable/internal/service"
	"github.com/spf13/cobra"
)

// NewConvertCommand creates the convert command
func NewConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Convert a JSON file or inline JSON into a table",
		Long: `Convert JSON into a table.

The source is a file resolved under the base directory, "-" for standard
input, or inline text given with --text. Paths that resolve outside the base
directory (including through symlinks) are rejected.

Without --limit, inputs larger than the default ceiling are truncated and an
advisory is printed to stderr. --limit 0 disables limiting.

Examples:
  jsontable convert users.json --header
  jsontable convert --text '[{"a":1},{"b":2}]' --header --format markdown
  curl -s https://example.com/data.json | jsontable convert - --limit 0
  jsontable convert big.json -o big.csv          # format inferred from extension
  jsontable convert legacy.json --encoding latin1 --base-dir ./data`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConvert,
	}

	cmd.Flags().String("text", "", "Inline JSON text to convert")
	cmd.Flags().String("base-dir", "", "Directory files must resolve under (overrides config)")
	cmd.Flags().Bool("header", false, "Emit a header row of object keys")
	cmd.Flags().String("limit", "", "Maximum data rows (0 = unlimited, default: config ceiling)")
	cmd.Flags().Int("ceiling", 0, "Default row ceiling applied without --limit (overrides config)")
	cmd.Flags().String("encoding", "", "Text encoding of input files (overrides config)")
	cmd.Flags().String("format", "auto", "Output format: auto, text, markdown, csv, html, json")
	cmd.Flags().StringP("output", "o", "", "Write the table to a file instead of stdout")

	return cmd
}

// runConvert implements the convert command logic
func runConvert(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	header, _ := cmd.Flags().GetBool("header")
	limitText, _ := cmd.Flags().GetString("limit")
	formatName, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if text != "" && len(args) > 0 {
		return fmt.Errorf("cannot use both a file argument and --text")
	}
	if text == "" && len(args) == 0 {
		return fmt.Errorf("a file argument, \"-\" or --text is required")
	}

	explicit, err := limit.Parse(limitText)
	if err != nil {
		return err
	}

	format, err := outputFormat(formatName, output, cmd.Flags().Changed("format"))
	if err != nil {
		return err
	}

	env, err := loadEnvironment(cmd, envOptions{console: cmd.ErrOrStderr(), openHistory: true})
	if err != nil {
		return err
	}
	defer env.Close()

	req := service.Request{IncludeHeader: header, Limit: explicit}
	switch {
	case text != "":
		req.Lines = []string{text}
	case args[0] == "-":
		data, err := readInput(cmd.InOrStdin(), env.cfg.MaxFileBytes)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		req.Data = data
		req.Label = "<stdin>"
	default:
		req.File = args[0]
	}

	svc := service.New(env.serviceConfig(), env.serviceOptions()...)
	res, err := svc.Convert(cmd.Context(), req)
	if err != nil {
		return err
	}

	display.ShowAdvisories(cmd.ErrOrStderr(), req.Source(), res.Advisories)

	return filelock.WriteOutput(cmd.Context(), output, cmd.OutOrStdout(), func(w io.Writer) error {
		return render.Write(w, res.Data, format)
	})
}

// outputFormat parses the format flag. When writing to a file and the flag
// was left at auto, the format is taken from the file extension.
func outputFormat(name, output string, explicit bool) (render.Format, error) {
	format, err := render.ParseFormat(name)
	if err != nil {
		return "", err
	}
	if format == render.FormatAuto && !explicit && output != "" && output != "-" {
		if inferred, ok := render.FormatForPath(output); ok {
			return inferred, nil
		}
	}
	return format, nil
}

// readInput reads at most limitBytes+1 bytes so the loader can still report an
// oversized input without buffering all of it.
func readInput(r io.Reader, limitBytes int64) ([]byte, error) {
	if limitBytes <= 0 {
		return io.ReadAll(r)
	}
	return io.ReadAll(io.LimitReader(r, limitBytes+1))
}
