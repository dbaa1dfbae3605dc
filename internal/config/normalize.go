package config

import "strings"

// normalize expands user paths and fills defaulted values before validation.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.UploadDir, err = expandPath(c.Paths.UploadDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultStoreBackend
	}

	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = defaultAllowedTypes()
	}
	for i, mediaType := range c.Upload.AllowedTypes {
		c.Upload.AllowedTypes[i] = strings.ToLower(strings.TrimSpace(mediaType))
	}

	if c.Capture.ChunkIntervalMS == 0 {
		c.Capture.ChunkIntervalMS = defaultChunkIntervalMS
	}
	if c.Capture.FrameQuality == 0 {
		c.Capture.FrameQuality = defaultFrameQuality
	}
	c.Capture.BaseURL = strings.TrimSpace(c.Capture.BaseURL)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
