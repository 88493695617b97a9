package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/liamcoop/attrition/features"
)

// readAttributes decodes one employee from a YAML or JSON file, or stdin
// when path is "-". Unknown keys are rejected.
func readAttributes(path string, stdin io.Reader) (features.RawAttributes, error) {
	var attrs features.RawAttributes

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return attrs, fmt.Errorf("failed to read attributes: %w", err)
	}

	// JSON is valid YAML, so one decoder serves both
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&attrs); err != nil {
		if errors.Is(err, io.EOF) {
			return attrs, fmt.Errorf("attributes file %s is empty", path)
		}
		return attrs, fmt.Errorf("failed to parse attributes %s: %w", path, err)
	}
	return attrs, nil
}

// validationReport renders a validation error one field per line
func validationReport(err *features.ValidationError) string {
	keys := make([]string, 0, len(err.Fields))
	for k := range err.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", k, err.Fields[k])
	}
	return b.String()
}
