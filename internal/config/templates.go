package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# Spread Analyzer Configuration

[market]
# Current price of the underlying
stock_price = 48.40
# Annual risk-free rate as a decimal (0.05 = 5%)
risk_free_rate = 0.0
# Assumed annual volatility in percent
volatility = 18.0
# Years to the near expiration
time_to_expiration = 0.1534
# Years to the far expiration (calendar spreads)
far_time_to_expiration = 0.3178

[chain]
# CSV files with the header strike,price,delta,gamma,theta,vega,implied_volatility.
# Leave empty to use the built-in sample chains.
expiration = ""
calls_file = ""
puts_file = ""
sample = "may"
far_expiration = ""
far_calls_file = ""
far_puts_file = ""
far_sample = "jul"

[analysis]
# Strike distance for strangles, butterflies, ratio spreads and christmas trees
range = 2.0
# Condor and iron condor body and wing distances
inner_range = 2.0
outer_range = 2.0
# Show only the best N spreads (0 = all)
top = 0
# Order: none, max-profit, max-loss, cost, reward-risk
sort = "none"

[logging]
# debug, info, warn, error
level = "warn"
# Also write a rotated log file
file = false
file_path = ""

[ui]
color_enabled = true
# table or json
output = "table"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(configTemplate), 0644)
}

// ConfigPath returns the path of config.toml in configDir.
func ConfigPath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "config.toml")
}
