package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoFixture = `{
  "items": [
    {"id": "101", "title": "Veste en cuir", "price": 40, "price_text": "40,00 €", "url": "https://www.vinted.fr/items/101"},
    {"id": "102", "title": "Baskets Nike", "price": 30, "price_text": "30,00 €", "url": "https://www.vinted.fr/items/102"},
    {"id": "103", "title": "Robe d'été", "price": 15, "price_text": "15,00 €", "url": "https://www.vinted.fr/items/103"},
    {"id": "104", "title": "Pantalon", "price": 20, "price_text": "20,00 €", "url": "https://www.vinted.fr/items/104"}
  ]
}`

func writeDemoFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo_results.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDemoListings(t *testing.T) {
	path := writeDemoFile(t, demoFixture)

	listings, err := LoadDemoListings(path)
	require.NoError(t, err)
	require.Len(t, listings, demoResultLimit)
	assert.Equal(t, "101", listings[0].ID)
	assert.Equal(t, "Veste en cuir", listings[0].Title)
}

func TestLoadDemoListings_Errors(t *testing.T) {
	_, err := LoadDemoListings(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeDemoFile(t, "{not json")
	_, err = LoadDemoListings(path)
	assert.Error(t, err)
}

func TestRunDemo(t *testing.T) {
	path := writeDemoFile(t, demoFixture)
	sender := &fakeSender{}

	sent, err := RunDemo(sender, path, "chan-default", "fr")
	require.NoError(t, err)
	assert.Equal(t, demoResultLimit, sent)
	require.Len(t, sender.channel, demoResultLimit)
	assert.Equal(t, "**[DEMO]**", sender.channel[0].content)
}

func TestRunDemo_NoChannel(t *testing.T) {
	path := writeDemoFile(t, demoFixture)

	_, err := RunDemo(&fakeSender{}, path, "", "fr")
	assert.Error(t, err)
}
