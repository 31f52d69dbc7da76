// Package config holds runtime settings for the Notion converter. Values come
// from flags, environment variables and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// DefaultEnvFiles are loaded by LoadDotEnv when no files are named.
// Earlier files win over later ones.
var DefaultEnvFiles = []string{".env.local", ".env"}

// Config is embedded in the CLI and parsed by kong.
type Config struct {
	Token            string        `name:"token" env:"NOTION_TOKEN" help:"Notion integration secret"`
	ParentPageID     string        `name:"parent-page-id" env:"NOTION_PARENT_PAGE_ID" help:"Default parent page for new pages"`
	BaseURL          string        `name:"base-url" env:"NOTION_BASE_URL" default:"https://api.notion.com/v1" help:"Notion API base URL"`
	APIVersion       string        `name:"api-version" env:"NOTION_VERSION" default:"2022-06-28" help:"Notion-Version header"`
	VerifyImages     bool          `name:"verify-images" env:"VERIFY_IMAGES" default:"true" negatable:"" help:"Probe image URLs before embedding"`
	ProbeTimeout     time.Duration `name:"probe-timeout" env:"PROBE_TIMEOUT" default:"10s" help:"Timeout of one image probe"`
	ArchiveOnFailure bool          `name:"archive-on-failure" env:"ARCHIVE_ON_FAILURE" help:"Archive the new page when block submission fails"`
	BatchDelay       time.Duration `name:"batch-delay" env:"BATCH_DELAY" default:"200ms" help:"Pause between append requests"`
}

// LoadDotEnv loads environment files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ValidateAPI checks settings needed to reach the Notion API. It must not be a
// kong Validate hook: preview runs without a token.
func (c *Config) ValidateAPI() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Token, validation.Required.Error("NOTION_TOKEN is required")),
		validation.Field(&c.BaseURL, validation.By(absoluteURL)),
		validation.Field(&c.APIVersion, validation.Required.Error("API version is required")),
		validation.Field(&c.ProbeTimeout,
			validation.Required.Error("probe timeout must be positive"),
			validation.Min(time.Duration(1)).Error("probe timeout must be positive"),
		),
		validation.Field(&c.BatchDelay, validation.Min(time.Duration(0)).Error("batch delay must not be negative")),
	)
}

func absoluteURL(value any) error {
	raw, _ := value.(string)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return validation.NewError("config.base_url.invalid", fmt.Sprintf("invalid base URL %q", raw))
	}
	return nil
}
