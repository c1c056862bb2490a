// Package printing renders invoices and shipping labels. HTML comes from
// embedded templates; PDFs come out of headless Chrome via the DevTools
// protocol.
package printing

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	apporder "github.com/rahulmuralitechnology/cartzilla-orders/internal/application/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/config"
)

const defaultRenderTimeout = 30 * time.Second

// paper sizes in inches, the unit Chrome prints in
const (
	a4Width     = 8.27
	a4Height    = 11.69
	a4Margin    = 0.4
	labelWidth  = 4.0
	labelHeight = 6.0
)

// ChromeRenderer implements the DocumentRenderer port with a shared Chrome
// allocator; each render gets its own short-lived browser context
type ChromeRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeRenderer creates a new ChromeRenderer. Call Close on shutdown to
// release the allocator.
func NewChromeRenderer(cfg config.PrintingConfig, logger *zap.Logger) *ChromeRenderer {
	timeout := cfg.RenderTimeout
	if timeout == 0 {
		timeout = defaultRenderTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromeRenderer{
		timeout:     timeout,
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// InvoiceHTML renders the invoice template to a standalone HTML document
func (r *ChromeRenderer) InvoiceHTML(data apporder.InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("printing: render invoice template: %w", err)
	}
	return buf.String(), nil
}

// InvoicePDF renders the invoice as an A4 PDF
func (r *ChromeRenderer) InvoicePDF(ctx context.Context, data apporder.InvoiceData) ([]byte, error) {
	html, err := r.InvoiceHTML(data)
	if err != nil {
		return nil, err
	}
	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(a4Width).
		WithPaperHeight(a4Height).
		WithMarginTop(a4Margin).
		WithMarginRight(a4Margin).
		WithMarginBottom(a4Margin).
		WithMarginLeft(a4Margin)
	return r.printPDF(ctx, html, params)
}

// ShippingLabelPDF renders the label as a 4x6 inch PDF with no margins
func (r *ChromeRenderer) ShippingLabelPDF(ctx context.Context, data apporder.ShippingLabelData) ([]byte, error) {
	var buf bytes.Buffer
	if err := labelTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("printing: render label template: %w", err)
	}
	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(labelWidth).
		WithPaperHeight(labelHeight).
		WithMarginTop(0).
		WithMarginRight(0).
		WithMarginBottom(0).
		WithMarginLeft(0)
	return r.printPDF(ctx, buf.String(), params)
}

// printPDF loads the HTML into a fresh browser tab and prints it
func (r *ChromeRenderer) printPDF(ctx context.Context, html string, params *page.PrintToPDFParams) ([]byte, error) {
	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	runCtx, cancel := context.WithTimeout(browserCtx, r.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("printing: render timed out after %v", r.timeout)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("printing: chromedp: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("printing: generated PDF is empty")
	}

	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)))
	return pdf, nil
}

// Close releases the Chrome allocator
func (r *ChromeRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ apporder.DocumentRenderer = (*ChromeRenderer)(nil)
