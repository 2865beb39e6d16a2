package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/harrison/jsontable/internal/directive"
	"github.com/harrison/jsontable/internal/display"
	"github.com/harrison/jsontable/internal/filelock"
	"github.com/harrison/jsontable/internal/fileutil"
	"github.com/harrison/jsontable/internal/models"
	"github.com/harrison/jsontable/internal/watch"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/util"
)

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <document-or-directory>...",
		Short: "Render markdown documents with json-table blocks to HTML",
		Long: `Render markdown documents to HTML, replacing json-table fenced code
blocks with tables.

A block either contains inline JSON or names a file relative to the
document's directory:

  ` + "```" + `json-table header limit=50
  [{"name": "Alice"}, {"name": "Bob"}]
  ` + "```" + `

  ` + "```" + `json-table file=data/users.json encoding=latin1
  ` + "```" + `

Options: file=PATH, header, limit=N (0 = unlimited), encoding=NAME.
Blocks that fail render an error box; the rest of the document is kept.

Each document is written next to itself with an .html extension unless
--output is given (single document only).

Examples:
  jsontable render README.md
  jsontable render docs/ --recursive
  jsontable render report.md -o public/report.html --stylesheet tables.css
  jsontable render docs/*.md --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRender,
	}

	cmd.Flags().StringP("output", "o", "", "Output file (single document only, \"-\" for stdout)")
	cmd.Flags().Bool("watch", false, "Re-render when a document or a JSON file beside it changes")
	cmd.Flags().String("stylesheet", "", "Stylesheet href to link from rendered pages (overrides config)")
	cmd.Flags().BoolP("recursive", "r", false, "Scan directories recursively")
	cmd.Flags().String("encoding", "", "Default text encoding of referenced files (overrides config)")
	cmd.Flags().Int("ceiling", 0, "Default row ceiling for blocks without limit= (overrides config)")

	return cmd
}

// documentRenderer renders documents with a shared environment.
type documentRenderer struct {
	env        *environment
	stylesheet string
	// forced is set when --stylesheet was given, which beats frontmatter
	forced bool
}

// runRender implements the render command logic
func runRender(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	watchFlag, _ := cmd.Flags().GetBool("watch")
	recursive, _ := cmd.Flags().GetBool("recursive")

	docs, err := fileutil.FindDocuments(args, recursive)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no markdown documents found")
	}
	if output != "" && len(docs) > 1 {
		return fmt.Errorf("--output requires exactly one document, got %d", len(docs))
	}

	env, err := loadEnvironment(cmd, envOptions{console: cmd.ErrOrStderr(), fileLog: true, openHistory: true})
	if err != nil {
		return err
	}
	defer env.Close()

	r := &documentRenderer{env: env, stylesheet: env.cfg.Render.Stylesheet}
	if cmd.Flags().Changed("stylesheet") {
		r.stylesheet, _ = cmd.Flags().GetString("stylesheet")
		r.forced = true
	}

	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	progress := display.NewProgressIndicator(cmd.ErrOrStderr(), len(docs))
	progress.Start()

	start := time.Now()
	var records []models.ConversionRecord
	for i, doc := range docs {
		progress.Step(doc)
		recs, err := r.render(ctx, doc, outputPath(doc, output), stdout)
		records = append(records, recs...)
		if err != nil {
			progress.Fail(doc, err)
			env.log.LogError(fmt.Sprintf("Failed to render %s: %v", doc, err))
		}
		if env.console != nil && len(docs) > 1 {
			env.console.LogProgress(i+1, len(docs))
		}
	}
	progress.Complete()

	elapsed := time.Since(start)
	if env.console != nil {
		env.console.LogSummary(records, elapsed)
	}
	if env.fileLog != nil {
		env.fileLog.LogSummary(records, elapsed)
	}

	if watchFlag {
		return r.watch(ctx, docs, output, stdout)
	}
	if failed := progress.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d documents failed to render", failed, len(docs))
	}
	return nil
}

// outputPath returns the destination for doc: the explicit output when
// given, otherwise doc with its extension replaced by .html.
func outputPath(doc, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(doc, filepath.Ext(doc)) + ".html"
}

// render converts one document and writes the page. The returned records
// cover every json-table block, including failed ones.
func (r *documentRenderer) render(ctx context.Context, doc, out string, stdout io.Writer) ([]models.ConversionRecord, error) {
	content, err := os.ReadFile(doc)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	source, fm, err := directive.SplitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	absDoc, err := filepath.Abs(doc)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}

	// Files named by blocks resolve under the document's own directory
	cfg := r.env.serviceConfig()
	cfg.BaseDir = filepath.Dir(absDoc)

	title := strings.TrimSuffix(filepath.Base(doc), filepath.Ext(doc))
	stylesheet := r.stylesheet
	if fm != nil {
		if fm.Title != "" {
			title = fm.Title
		}
		if settings := fm.JSONTable; settings != nil {
			if settings.Ceiling != nil {
				cfg.Limits.DefaultCeiling = *settings.Ceiling
			}
			if settings.Encoding != "" {
				cfg.Encoding = settings.Encoding
			}
			if settings.Stylesheet != "" && !r.forced {
				stylesheet = settings.Stylesheet
			}
		}
	}

	ext := directive.New(cfg,
		directive.WithContext(ctx),
		directive.WithDocument(filepath.Base(doc)),
		directive.WithServiceOptions(r.env.serviceOptions()...),
	)
	md := goldmark.New(goldmark.WithExtensions(ext))

	var body bytes.Buffer
	if err := md.Convert(source, &body); err != nil {
		return ext.Records(), fmt.Errorf("convert markdown: %w", err)
	}

	err = filelock.WriteOutput(ctx, out, stdout, func(w io.Writer) error {
		return writePage(w, title, stylesheet, body.Bytes())
	})
	return ext.Records(), err
}

// watch re-renders documents on change until interrupted.
func (r *documentRenderer) watch(ctx context.Context, docs []string, output string, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(docs)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	// watch.Event paths are absolute; map them back to the names given
	byAbs := make(map[string]string, len(docs))
	for _, doc := range docs {
		abs, err := filepath.Abs(doc)
		if err != nil {
			abs = doc
		}
		byAbs[abs] = doc
	}

	log := r.env.log
	log.LogInfo(fmt.Sprintf("Watching %d documents (Ctrl+C to stop)", len(docs)))

	return w.Run(ctx, func(ev watch.Event) {
		doc, ok := byAbs[ev.Document]
		if !ok {
			doc = ev.Document
		}
		if ev.Op == watch.Removed {
			log.LogWarn(fmt.Sprintf("%s was removed", doc))
			return
		}

		start := time.Now()
		records, err := r.render(ctx, doc, outputPath(doc, output), stdout)
		if err != nil {
			log.LogError(fmt.Sprintf("Failed to render %s: %v", doc, err))
			return
		}
		log.LogInfo(fmt.Sprintf("Rendered %s (%d tables, %s changed) in %s",
			doc, len(records), filepath.Base(ev.Trigger), time.Since(start).Round(time.Millisecond)))
	}, func(err error) {
		log.LogWarn(fmt.Sprintf("Watcher error: %v", err))
	})
}

// writePage wraps a rendered body in a minimal HTML document.
func writePage(w io.Writer, title, stylesheet string, body []byte) error {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString("<title>")
	buf.Write(util.EscapeHTML([]byte(title)))
	buf.WriteString("</title>\n")
	if stylesheet != "" {
		buf.WriteString(`<link rel="stylesheet" href="`)
		buf.Write(util.EscapeHTML([]byte(stylesheet)))
		buf.WriteString("\">\n")
	}
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")

	_, err := w.Write(buf.Bytes())
	return err
}
