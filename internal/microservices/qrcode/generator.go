package qrcode

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"runtime"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"golang.org/x/sync/errgroup"

	"restaurant-system/internal/domain"
)

const (
	DefaultTables = 20
	defaultSize   = 256
)

// Code is a table's ordering link and its QR image as a PNG data URL.
type Code struct {
	TableNumber int    `json:"tableNumber"`
	QRCode      string `json:"qrCode"`
	URL         string `json:"url"`
	OrderURL    string `json:"orderURL"`
}

type Generator struct {
	size      int
	maxTables int
}

func New(size, maxTables int) *Generator {
	if size <= 0 {
		size = defaultSize
	}
	if maxTables <= 0 {
		maxTables = 200
	}
	return &Generator{size: size, maxTables: maxTables}
}

// TableURL is the ordering page for table on baseURL.
func TableURL(baseURL string, table int) string {
	return strings.TrimRight(baseURL, "/") + "?table=" + strconv.Itoa(table)
}

func (g *Generator) Generate(baseURL string, table int) (Code, error) {
	if table < 1 {
		return Code{}, domain.NewValidationError("tableNumber", "must be a positive integer")
	}
	link := TableURL(baseURL, table)
	img, err := g.encode(link)
	if err != nil {
		return Code{}, fmt.Errorf("qr for table %d: %w", table, err)
	}
	return Code{TableNumber: table, QRCode: img, URL: link, OrderURL: link}, nil
}

// GenerateAll renders tables 1..n, clamping n to [1, maxTables].
func (g *Generator) GenerateAll(ctx context.Context, baseURL string, n int) ([]Code, error) {
	if n < 1 {
		n = DefaultTables
	}
	n = min(n, g.maxTables)

	out := make([]Code, n)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range n {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := g.Generate(baseURL, i+1)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Generator) encode(content string) (string, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", err
	}
	code, err = barcode.Scale(code, g.size, g.size)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
