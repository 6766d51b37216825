package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Setting keys mutable at runtime by admin commands.
const (
	SettingNotificationChannel = "notification_channel_id"
	SettingScrapeInterval      = "scrape_interval_seconds"
)

// Setting is a runtime-mutable key/value configuration row.
type Setting struct {
	bun.BaseModel `bun:"table:settings"`

	Key       string    `bun:"key,pk" json:"key"`
	Value     string    `bun:"value,notnull" json:"value"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// SettingRepository persists runtime settings.
type SettingRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
}
