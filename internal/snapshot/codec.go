package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"mandala-cli/internal/chart"
	"mandala-cli/internal/model"
)

// Format is a file encoding for exported charts.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

var ErrUnknownFormat = errors.New("unknown file format")

// FormatFor picks the format from a file name's extension. Names without an
// extension are JSON.
func FormatFor(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case "", ".json", ".jsonc":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".cbor":
		return CBOR, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(name))
	}
}

// Ext returns the canonical file extension, including the dot.
func (f Format) Ext() string { return "." + string(f) }

var cborEnc cbor.EncMode
var cborDec cbor.DecMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	// Every chart level costs two CBOR nesting levels (snapshot map, subCharts array),
	// so the library default of 32 would cap imports at about 15 levels.
	cborDec, err = cbor.DecOptions{MaxNestedLevels: 65535}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v. JSON is indented with two spaces and ends with a newline.
func Marshal(f Format, v any) ([]byte, error) {
	switch f {
	case JSON, "":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CBOR:
		return cborEnc.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// Unmarshal decodes data into v. JSON input may carry comments and trailing commas.
func Unmarshal(f Format, data []byte, v any) error {
	switch f {
	case JSON, "":
		return json.Unmarshal(jsonc.ToJSON(data), v)
	case YAML:
		return yaml.Unmarshal(data, v)
	case CBOR:
		return cborDec.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// EncodeFile renders a single named chart as an export file.
func EncodeFile(f Format, name string, t chart.Tree) ([]byte, error) {
	return Marshal(f, model.ExportFile{Name: name, Data: Encode(t)})
}

// DecodeFile parses and validates an export file. Every failure is a FormatError.
func DecodeFile(f Format, data []byte) (string, chart.Tree, error) {
	var file model.ExportFile
	if err := Unmarshal(f, data, &file); err != nil {
		return "", chart.Tree{}, FormatError{Reason: "cannot decode " + string(f), Err: err}
	}
	if err := Validate(file); err != nil {
		return "", chart.Tree{}, err
	}
	t, err := Decode(file.Data)
	if err != nil {
		return "", chart.Tree{}, err
	}
	return file.Name, t, nil
}
