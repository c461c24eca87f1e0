package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `# pngme configuration
log_level = "warn"
log_timestamp = false
format = "table" # table | json | text
no_color = false
file_mode = "0644"
# chunk type used by decode/remove when none is given, e.g. "ruSt"
default_chunk_type = ""
`
