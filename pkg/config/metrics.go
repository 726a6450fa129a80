package config

import (
	"fmt"
	"strings"
)

// MetricsConfig controls the Prometheus textfile written when the process exits.
// An empty Textfile disables it.
type MetricsConfig struct {
	Textfile string `koanf:"textfile"`
}

// String returns a string representation of the metrics configuration.
func (c *MetricsConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Metrics ---\n")
	b.WriteString(fmt.Sprintf("  textfile: %s\n", c.Textfile))
	return b.String()
}

func (c *MetricsConfig) Validate() error {
	if c.Textfile != "" && !strings.HasSuffix(c.Textfile, ".prom") {
		return fmt.Errorf("metrics textfile must end with .prom: %s", c.Textfile)
	}
	return nil
}
