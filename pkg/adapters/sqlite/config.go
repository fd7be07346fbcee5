package sqlite

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds SQLite-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Pragmas applied to every connection (e.g., journal_mode: wal).
	Pragmas map[string]string `mapstructure:"pragmas"`

	// BusyTimeoutMS is how long a writer waits for a lock. Zero uses 5000.
	BusyTimeoutMS int `mapstructure:"busy_timeout_ms"`
}

// ParseParams decodes target params into Params.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid sqlite params: %w", err)
	}
	return p, nil
}

// DSN returns the modernc.org/sqlite connection string for path.
func (p *Params) DSN(path string) string {
	timeout := p.BusyTimeoutMS
	if timeout <= 0 {
		timeout = 5000
	}

	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", timeout))

	names := make([]string, 0, len(p.Pragmas))
	for name := range p.Pragmas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", name, p.Pragmas[name]))
	}
	return path + "?" + q.Encode()
}
