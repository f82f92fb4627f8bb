// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package board

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is a document file format.
//
type Format int

// Supported formats.
//
const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatOf returns the format of a file based on its extension. Files with an
// extension other than .yaml or .yml are JSON.
//
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Marshal encodes d in the given format.
//
func Marshal(d *Document, f Format) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch f {
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(d); err == nil {
			err = enc.Close()
		}
		b = buf.Bytes()
	default:
		b, err = json.MarshalIndent(d, "", "  ")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s document", f)
	}
	return b, nil
}

// Unmarshal decodes and validates a document.
//
func Unmarshal(data []byte, f Format) (*Document, error) {
	d := new(Document)
	var err error
	switch f {
	case YAML:
		if err = yaml.Unmarshal(data, d); err == nil {
			for _, c := range d.Components {
				for k, v := range c.Settings {
					c.Settings[k] = yamlNumbers(v)
				}
			}
		}
	default:
		err = json.Unmarshal(data, d)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s document", f)
	}
	if err = d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// yamlNumbers converts the integers produced by the YAML decoder to float64 so
// that settings decode to the same types as from JSON.
//
func yamlNumbers(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case map[string]any:
		for k, e := range x {
			x[k] = yamlNumbers(e)
		}
	case []any:
		for i, e := range x {
			x[i] = yamlNumbers(e)
		}
	}
	return v
}

// LoadFile reads a document from a JSON or YAML file.
//
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load document")
	}
	d, err := Unmarshal(data, FormatOf(path))
	return d, errors.Wrap(err, path)
}

// SaveFile writes d to a JSON or YAML file.
//
func SaveFile(path string, d *Document) error {
	data, err := Marshal(d, FormatOf(path))
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "save document")
}

// EncodeShare returns a compact share code for d: its JSON form, snappy
// compressed and base64url encoded without padding.
//
func EncodeShare(d *Document) (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", errors.Wrap(err, "encode share code")
	}
	return base64.RawURLEncoding.EncodeToString(snappy.Encode(nil, b)), nil
}

// DecodeShare decodes and validates a share code produced by EncodeShare.
//
func DecodeShare(code string) (*Document, error) {
	z, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(code))
	if err != nil {
		return nil, errors.Wrap(err, "decode share code")
	}
	b, err := snappy.Decode(nil, z)
	if err != nil {
		return nil, errors.Wrap(err, "decode share code")
	}
	return Unmarshal(b, JSON)
}
