package qrcode

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-system/internal/domain"
)

func TestGenerateProducesPNGDataURL(t *testing.T) {
	g := New(128, 10)

	c, err := g.Generate("https://table.example.com/", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.TableNumber)
	assert.Equal(t, "https://table.example.com?table=4", c.OrderURL)
	assert.Equal(t, c.URL, c.OrderURL)

	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(c.QRCode, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(c.QRCode, prefix))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestGenerateRejectsBadTable(t *testing.T) {
	_, err := New(0, 0).Generate("http://localhost:3000", 0)
	assert.True(t, domain.IsValidation(err))
}

func TestGenerateAllKeepsTableOrder(t *testing.T) {
	g := New(64, 5)

	codes, err := g.GenerateAll(context.Background(), "http://localhost:3000", 12)
	require.NoError(t, err)
	require.Len(t, codes, 5)
	for i, c := range codes {
		assert.Equal(t, i+1, c.TableNumber)
	}

	codes, err = g.GenerateAll(context.Background(), "http://localhost:3000", 0)
	require.NoError(t, err)
	assert.Len(t, codes, 5)
}

func TestGenerateAllDefaultsToTwenty(t *testing.T) {
	codes, err := New(64, 200).GenerateAll(context.Background(), "http://localhost:3000", -1)
	require.NoError(t, err)
	assert.Len(t, codes, DefaultTables)
}
