package sanyo

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"controlling_aircon/internal/appliance"
	"controlling_aircon/internal/ir"
)

//go:embed tables/cool.toml
var tables embed.FS

// Entry holds the recorded codes for one temperature. Up is missing at the
// bottom of the ladder and Down at the top.
type Entry struct {
	Up   []uint32 `toml:"up" yaml:"up"`
	Down []uint32 `toml:"down" yaml:"down"`
	On   []uint32 `toml:"on" yaml:"on"`
	Off  []uint32 `toml:"off" yaml:"off"`
}

func (e Entry) pulses(trigger appliance.Trigger) []uint32 {
	switch trigger {
	case appliance.TriggerUp:
		return e.Up
	case appliance.TriggerDown:
		return e.Down
	case appliance.TriggerOn:
		return e.On
	case appliance.TriggerOff:
		return e.Off
	default:
		return nil
	}
}

// Table is a codebook of recorded remote codes keyed by mode and target
// temperature. It is read-only after loading.
type Table struct {
	entries map[appliance.Mode]map[int]Entry
}

var _ appliance.Codebook = (*Table)(nil)

func (t *Table) Sequence(mode appliance.Mode, temperature int, trigger appliance.Trigger) (ir.Sequence, error) {
	byTemp, ok := t.entries[mode]
	if !ok {
		return nil, fmt.Errorf("%w: no codes recorded for %s", appliance.ErrUnknownMode, mode)
	}
	e, ok := byTemp[temperature]
	if !ok {
		return nil, fmt.Errorf("%w: no codes recorded for %s at %d", appliance.ErrNoSequence, mode, temperature)
	}
	pulses := e.pulses(trigger)
	if len(pulses) == 0 {
		return nil, fmt.Errorf("%w: no %s code for %s at %d", appliance.ErrNoSequence, trigger, mode, temperature)
	}
	return ir.SequenceFromMicros(pulses), nil
}

// Modes lists the modes the table has codes for.
func (t *Table) Modes() []appliance.Mode {
	var out []appliance.Mode
	for _, m := range appliance.Modes() {
		if _, ok := t.entries[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// DefaultTable returns the built-in cool-mode table.
func DefaultTable() (*Table, error) {
	raw, err := tables.ReadFile("tables/cool.toml")
	if err != nil {
		return nil, fmt.Errorf("read built-in table: %w", err)
	}
	return LoadTOML(bytes.NewReader(raw))
}

// LoadFile reads a table from a .toml, .yaml or .yml file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open code table: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(f)
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported code table format %q", filepath.Ext(path))
	}
}

// LoadTOML reads tables shaped as [cool.16] sections.
func LoadTOML(r io.Reader) (*Table, error) {
	var raw map[string]map[string]Entry
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode toml code table: %w", err)
	}
	entries := make(map[appliance.Mode]map[int]Entry, len(raw))
	for modeKey, byTemp := range raw {
		mode, err := appliance.ParseMode(modeKey)
		if err != nil {
			return nil, err
		}
		entries[mode] = make(map[int]Entry, len(byTemp))
		for tempKey, e := range byTemp {
			temp, err := strconv.Atoi(tempKey)
			if err != nil {
				return nil, fmt.Errorf("temperature key %q under %s: %w", tempKey, modeKey, err)
			}
			entries[mode][temp] = e
		}
	}
	return newTable(entries)
}

// LoadYAML reads tables shaped as cool: {16: {on: [...], ...}}.
func LoadYAML(r io.Reader) (*Table, error) {
	var raw map[string]map[int]Entry
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode yaml code table: %w", err)
	}
	entries := make(map[appliance.Mode]map[int]Entry, len(raw))
	for modeKey, byTemp := range raw {
		mode, err := appliance.ParseMode(modeKey)
		if err != nil {
			return nil, err
		}
		entries[mode] = byTemp
	}
	return newTable(entries)
}

func newTable(entries map[appliance.Mode]map[int]Entry) (*Table, error) {
	for mode, byTemp := range entries {
		for temp, e := range byTemp {
			if !Ladder.Contains(temp) {
				return nil, fmt.Errorf("%w: %s table has %d", appliance.ErrTemperatureRange, mode, temp)
			}
			if len(e.On) == 0 || len(e.Off) == 0 {
				return nil, fmt.Errorf("%s table at %d: on and off codes are required", mode, temp)
			}
		}
	}
	return &Table{entries: entries}, nil
}
