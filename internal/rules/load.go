package rules

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML rules file and overlays it onto the defaults. Keys absent from
// the file keep their default values; lists present in the file replace the default list.
func LoadFile(path string) (Rules, error) {
	r := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return r, eris.Wrapf(err, "rules: read %s", path)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, eris.Wrapf(err, "rules: parse %s", path)
	}
	return r, nil
}

// MarshalYAML renders r as YAML.
func MarshalYAML(r Rules) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, eris.Wrap(err, "rules: marshal yaml")
	}
	return data, nil
}
