// Package pipeline orchestrates the per-document conversion flow: input
// decoding, sanitization, normalization, optimization, and layout fitting.
// A conversion never fails the batch; documents that cannot be processed
// yield a diagnostic placeholder slide instead.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/net/html/charset"

	"vectordeck/internal/emf"
	"vectordeck/internal/layout"
	"vectordeck/internal/normalize"
	"vectordeck/internal/optimize"
	"vectordeck/internal/sanitize"
)

// Sentinel errors for the conversion stages. They never escape ConvertFile;
// callers observe them only through the diagnostic placeholder result.
var (
	ErrMalformedDocument  = errors.New("文档格式错误")
	ErrOptimizationFailed = errors.New("优化失败")
	ErrEncodingFailed     = errors.New("编码失败")
)

// Kind tells the deck writer how to embed a result.
type Kind int

const (
	// KindMarkup is an inline SVG document.
	KindMarkup Kind = iota
	// KindBinary is a base64 data URI carrying an unmodified metafile.
	KindBinary
)

// InputFile is one document submitted for conversion.
type InputFile struct {
	Name string
	Data []byte
}

// Result is the conversion output for one input file. Exactly one of Markup
// and DataURI is populated, according to Kind.
type Result struct {
	Name        string      `json:"name"`
	Kind        Kind        `json:"kind"`
	Markup      string      `json:"markup,omitempty"`
	DataURI     string      `json:"data_uri,omitempty"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	AspectRatio float64     `json:"aspect_ratio"`
	Placement   layout.Rect `json:"placement"`
	Profile     string      `json:"profile,omitempty"`
}

// Converter runs the conversion flow against a fixed canvas and option set.
// It is safe for concurrent use: all per-document state is local.
type Converter struct {
	canvas layout.Canvas
	norm   *normalize.Normalizer
}

// NewConverter creates a Converter for the given canvas and normalization
// options.
func NewConverter(canvas layout.Canvas, opts normalize.Options) *Converter {
	return &Converter{
		canvas: canvas,
		norm:   normalize.New(opts),
	}
}

// ConvertFile converts one input file. It never returns an error: malformed
// or unsupported input produces a diagnostic placeholder result so a batch
// always yields one slide per file.
func (c *Converter) ConvertFile(file InputFile) Result {
	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".svg":
		res, err := c.convertMarkup(file)
		if err != nil {
			log.Printf("[Pipeline] %s: %v", file.Name, err)
			return c.placeholderResult(file.Name)
		}
		return res
	case ".emf":
		res, err := c.convertBinary(file)
		if err != nil {
			log.Printf("[Pipeline] %s: %v", file.Name, err)
			return c.placeholderResult(file.Name)
		}
		return res
	default:
		log.Printf("[Pipeline] %s: 不支持的文件类型", file.Name)
		return c.placeholderResult(file.Name)
	}
}

// ConvertBatch converts files independently and in parallel. The result
// slice preserves input order. Files not yet started when ctx is cancelled
// are reported as placeholders.
func (c *Converter) ConvertBatch(ctx context.Context, files []InputFile) []Result {
	results := make([]Result, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		if ctx.Err() != nil {
			results[i] = c.placeholderResult(file.Name)
			continue
		}
		wg.Add(1)
		go func(i int, file InputFile) {
			defer wg.Done()
			results[i] = c.ConvertFile(file)
		}(i, file)
	}
	wg.Wait()
	return results
}

// Canvas returns the canvas the converter fits documents into.
func (c *Converter) Canvas() layout.Canvas {
	return c.canvas
}

func (c *Converter) convertMarkup(file InputFile) (Result, error) {
	decoded, err := decodeMarkup(file.Data)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	filtered, err := sanitize.Filter(decoded)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	// The profile is chosen from the filtered markup, before normalization
	// removes the very constructs the heuristic keys on (clip-path
	// references, <style> blocks).
	profile := optimize.Select(filtered)

	doc, err := c.norm.Normalize(filtered)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	optimized, err := optimize.Apply(doc.Markup, profile)
	if err != nil {
		log.Printf("[Pipeline] %s: %v: %v", file.Name, ErrOptimizationFailed, err)
		optimized = doc.Markup
	}

	return Result{
		Name:        file.Name,
		Kind:        KindMarkup,
		Markup:      optimized,
		Width:       doc.Width,
		Height:      doc.Height,
		AspectRatio: doc.AspectRatio,
		Placement:   layout.Fit(doc.Width, doc.Height, c.canvas),
		Profile:     profile.Name,
	}, nil
}

func (c *Converter) convertBinary(file InputFile) (Result, error) {
	uri, err := emf.EncodeDataURI(file.Data)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	w, h := emf.ProbeSize(file.Data)
	return Result{
		Name:        file.Name,
		Kind:        KindBinary,
		DataURI:     uri,
		Width:       w,
		Height:      h,
		AspectRatio: w / h,
		Placement:   layout.Fit(w, h, c.canvas),
	}, nil
}

// decodeMarkup converts the raw upload bytes to UTF-8, honoring any charset
// declaration the document carries.
func decodeMarkup(data []byte) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func (c *Converter) placeholderResult(name string) Result {
	const w, h = 400.0, 300.0
	return Result{
		Name:        name,
		Kind:        KindMarkup,
		Markup:      Placeholder(name),
		Width:       w,
		Height:      h,
		AspectRatio: w / h,
		Placement:   layout.Fit(w, h, c.canvas),
	}
}

// Placeholder builds the diagnostic document shown for files that could not
// be converted.
func Placeholder(name string) string {
	label := filepath.Base(name)
	if label == "." || label == "/" || label == "" {
		label = "未命名文档"
	}
	return `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300" viewBox="0 0 400 300">` +
		`<rect x="1" y="1" width="398" height="298" fill="#f5f5f5" stroke="#cccccc" stroke-width="2"/>` +
		`<text x="200" y="140" text-anchor="middle" font-family="Arial" font-size="16" fill="#666666">无法转换的文档</text>` +
		`<text x="200" y="170" text-anchor="middle" font-family="Arial" font-size="12" fill="#999999">` + escapeText(label) + `</text>` +
		`</svg>`
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
