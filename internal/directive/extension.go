package directive

import (
	"context"
	"fmt"
	"sync"

	"github.com/harrison/jsontable/internal/models"
	"github.com/harrison/jsontable/internal/render"
	"github.com/harrison/jsontable/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Extension renders json-table directives. An Extension is bound to one
// document: file options resolve under its base directory and records are
// labelled with its document name.
type Extension struct {
	ctx      context.Context
	cfg      service.Config
	svcOpts  []service.Option
	document string

	mu       sync.Mutex
	services map[string]*service.TableService
	records  []models.ConversionRecord
}

// Option configures an Extension.
type Option func(*Extension)

// WithContext sets the context passed to conversions.
func WithContext(ctx context.Context) Option {
	return func(e *Extension) {
		e.ctx = ctx
	}
}

// WithDocument sets the document name used to label records.
func WithDocument(name string) Option {
	return func(e *Extension) {
		e.document = name
	}
}

// WithServiceOptions passes options to the underlying table services.
func WithServiceOptions(opts ...service.Option) Option {
	return func(e *Extension) {
		e.svcOpts = append(e.svcOpts, opts...)
	}
}

// New creates an Extension. cfg.BaseDir is the directory file options are
// resolved under, normally the document's own directory.
func New(cfg service.Config, opts ...Option) *Extension {
	e := &Extension{
		ctx:      context.Background(),
		cfg:      cfg,
		document: "document",
		services: make(map[string]*service.TableService),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&transformer{}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&nodeRenderer{ext: e}, 100),
	))
}

// Records returns the conversion records of every directive rendered so far.
func (e *Extension) Records() []models.ConversionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.ConversionRecord, len(e.records))
	copy(out, e.records)
	return out
}

// serviceFor returns the table service for an encoding, creating it on first
// use. The empty name selects the configured encoding.
func (e *Extension) serviceFor(encoding string) *service.TableService {
	e.mu.Lock()
	defer e.mu.Unlock()

	if svc, ok := e.services[encoding]; ok {
		return svc
	}
	cfg := e.cfg
	if encoding != "" {
		cfg.Encoding = encoding
	}
	svc := service.New(cfg, e.svcOpts...)
	e.services[encoding] = svc
	return svc
}

func (e *Extension) record(r models.ConversionRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = append(e.records, r)
}

func (e *Extension) fail(source string, err error) error {
	e.record(models.ConversionRecord{
		Source:    source,
		Status:    models.StatusFailed,
		ErrorKind: models.Classify(err),
		Message:   err.Error(),
	})
	return err
}

func (e *Extension) convert(n *JSONTable) (*service.Result, error) {
	source := fmt.Sprintf("%s#%d", e.document, n.Index)
	if n.Err != nil {
		return nil, e.fail(source, n.Err)
	}
	if n.Options.File != "" && n.hasBody() {
		return nil, e.fail(source, fmt.Errorf("file option and inline body are mutually exclusive"))
	}

	req := service.Request{
		File:          n.Options.File,
		IncludeHeader: n.Options.Header,
		Limit:         n.Options.Limit,
		Label:         source,
	}
	if req.File == "" {
		req.Lines = n.Body
	}

	res, err := e.serviceFor(n.Options.Encoding).Convert(e.ctx, req)
	if err != nil {
		return nil, e.fail(source, err)
	}

	e.record(res.Record)
	return res, nil
}

type nodeRenderer struct {
	ext *Extension
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindJSONTable, r.renderJSONTable)
}

func (r *nodeRenderer) renderJSONTable(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*JSONTable)

	res, err := r.ext.convert(n)
	if err != nil {
		_, _ = w.WriteString(`<div class="json-table-error">`)
		_, _ = w.Write(util.EscapeHTML([]byte(err.Error())))
		_, _ = w.WriteString("</div>\n")
		return ast.WalkSkipChildren, nil
	}

	for _, advisory := range res.Advisories {
		_, _ = w.WriteString(`<div class="json-table-advisory">`)
		_, _ = w.Write(util.EscapeHTML([]byte(advisory)))
		_, _ = w.WriteString("</div>\n")
	}
	_, _ = w.Write(render.HTML(res.Data, "json-table"))
	return ast.WalkSkipChildren, nil
}
