package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/harshad-dhokane/new-docx/internal/values"
)

const (
	EnvGenerationImageErrors = "GENERATION_IMAGE_ERRORS"
	EnvGenerationImageWidth  = "GENERATION_IMAGE_WIDTH"
	EnvGenerationImageHeight = "GENERATION_IMAGE_HEIGHT"
)

// GenerationConfig controls how placeholder values are normalized before rewriting.
type GenerationConfig struct {
	// ImageErrors is "abort" (fail the generation) or "marker" (substitute
	// an inline error string and continue).
	ImageErrors values.Policy `toml:"image_errors"`

	// ImageWidth and ImageHeight bound embedded images in pixels.
	ImageWidth  int `toml:"image_width"`
	ImageHeight int `toml:"image_height"`
}

func (c *GenerationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *GenerationConfig) Merge(overlay *GenerationConfig) {
	if overlay.ImageErrors != "" {
		c.ImageErrors = overlay.ImageErrors
	}
	if overlay.ImageWidth != 0 {
		c.ImageWidth = overlay.ImageWidth
	}
	if overlay.ImageHeight != 0 {
		c.ImageHeight = overlay.ImageHeight
	}
}

func (c *GenerationConfig) loadDefaults() {
	if c.ImageErrors == "" {
		c.ImageErrors = values.PolicyAbort
	}
	if c.ImageWidth == 0 {
		c.ImageWidth = values.DefaultWidth
	}
	if c.ImageHeight == 0 {
		c.ImageHeight = values.DefaultHeight
	}
}

func (c *GenerationConfig) loadEnv() {
	if v := os.Getenv(EnvGenerationImageErrors); v != "" {
		c.ImageErrors = values.Policy(v)
	}
	if v := os.Getenv(EnvGenerationImageWidth); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ImageWidth = n
		}
	}
	if v := os.Getenv(EnvGenerationImageHeight); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ImageHeight = n
		}
	}
}

func (c *GenerationConfig) validate() error {
	if err := c.ImageErrors.Validate(); err != nil {
		return err
	}
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return fmt.Errorf("image_width and image_height must be positive")
	}
	return nil
}
