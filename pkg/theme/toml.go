package theme

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML shape of a custom theme file.
type thTOMLTheme struct {
	Name   string       `toml:"name"`
	Base   thTOMLBase   `toml:"base"`
	Panel  thTOMLPanel  `toml:"panel"`
	Status thTOMLStatus `toml:"status"`
	Gauge  thTOMLGauge  `toml:"gauge"`
}

type thTOMLBase struct {
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLPanel struct {
	Border      string `toml:"border"`
	BorderFocus string `toml:"border_focus"`
	Title       string `toml:"title"`
}

type thTOMLStatus struct {
	OK    string `toml:"ok"`
	Warn  string `toml:"warn"`
	Error string `toml:"error"`
}

type thTOMLGauge struct {
	Filled string `toml:"filled"`
	Empty  string `toml:"empty"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Parse reads a TOML theme definition. Colors the file leaves out inherit
// from the default theme, so a custom theme only has to state what it
// changes. The name is required.
func Parse(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	if tt.Name == "" {
		return Theme{}, fmt.Errorf("theme: missing required field \"name\"")
	}

	t := thDefaultTheme()
	t.Name = tt.Name
	overlays := []struct {
		field string
		dst   *string
		val   string
	}{
		{"base.foreground", &t.Foreground, tt.Base.Foreground},
		{"base.dim", &t.Dim, tt.Base.Dim},
		{"base.accent", &t.Accent, tt.Base.Accent},
		{"panel.border", &t.Border, tt.Panel.Border},
		{"panel.border_focus", &t.BorderFocus, tt.Panel.BorderFocus},
		{"panel.title", &t.Title, tt.Panel.Title},
		{"status.ok", &t.StatusOK, tt.Status.OK},
		{"status.warn", &t.StatusWarn, tt.Status.Warn},
		{"status.error", &t.StatusError, tt.Status.Error},
		{"gauge.filled", &t.GaugeFilled, tt.Gauge.Filled},
		{"gauge.empty", &t.GaugeEmpty, tt.Gauge.Empty},
	}
	for _, o := range overlays {
		if o.val == "" {
			continue
		}
		if !thHexColorRegex.MatchString(o.val) {
			return Theme{}, fmt.Errorf("theme: invalid hex color %q for %s (expected #RRGGBB)", o.val, o.field)
		}
		*o.dst = o.val
	}
	return t, nil
}

// LoadFile parses the TOML theme at path.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	return Parse(data)
}
