package service

import (
	"encoding/json"
	"fmt"
	"os"

	"vintedwatch/internal/external/discord"
	"vintedwatch/internal/model"
)

// demoResultLimit caps how many canned listings demo mode sends.
const demoResultLimit = 3

type demoFile struct {
	Items []model.Listing `json:"items"`
}

// LoadDemoListings reads canned listings for demo mode.
func LoadDemoListings(path string) ([]model.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo file: %w", err)
	}

	var file demoFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse demo file: %w", err)
	}

	items := file.Items
	if len(items) > demoResultLimit {
		items = items[:demoResultLimit]
	}

	return items, nil
}

// RunDemo sends the canned listings to the given channel and returns how
// many were delivered. Demo mode runs without a database, so it goes
// through the sender directly.
func RunDemo(sender Sender, path, channelID, lang string) (int, error) {
	if channelID == "" {
		return 0, fmt.Errorf("demo mode needs a notification channel")
	}

	listings, err := LoadDemoListings(path)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range listings {
		embed := discord.BuildListingEmbed(&listings[i], lang)
		if err := sender.SendEmbed(channelID, "**[DEMO]**", embed); err != nil {
			return sent, err
		}
		sent++
	}

	return sent, nil
}
