package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/liamcoop/attrition/features"
)

const fixtureModel = "../../model/testdata/tiny_xgb.json"

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func exampleYAML(t *testing.T) string {
	t.Helper()
	out, _, err := run(t, "", "example")
	if err != nil {
		t.Fatalf("example failed: %v", err)
	}
	return out
}

// --- example ---

func TestExampleYAMLRoundTrip(t *testing.T) {
	path := writeFile(t, "employee.yaml", exampleYAML(t))

	got, err := readAttributes(path, nil)
	if err != nil {
		t.Fatalf("readAttributes() failed: %v", err)
	}
	if got != features.Example() {
		t.Errorf("round trip = %+v, want the example", got)
	}
}

func TestExampleJSON(t *testing.T) {
	out, _, err := run(t, "", "example", "--format", "json")
	if err != nil {
		t.Fatalf("example failed: %v", err)
	}

	var got features.RawAttributes
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got != features.Example() {
		t.Errorf("example = %+v", got)
	}
}

func TestExampleUnsupportedFormat(t *testing.T) {
	if _, _, err := run(t, "", "example", "--format", "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

// --- readAttributes ---

func TestReadAttributesJSONFile(t *testing.T) {
	data, err := json.Marshal(features.Example())
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "employee.json", string(data))

	got, err := readAttributes(path, nil)
	if err != nil {
		t.Fatalf("readAttributes() failed: %v", err)
	}
	if got != features.Example() {
		t.Errorf("got %+v", got)
	}
}

func TestReadAttributesErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"unknown key", "age: 30\nsalary: 100\n", "salary"},
		{"unknown label", "department: Dep_Finance\n", "unknown department"},
		{"not a number", "age: old\n", "failed to parse"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeFile(t, "employee.yaml", c.content)
			_, err := readAttributes(path, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, c.wantErr)
			}
		})
	}
}

func TestReadAttributesMissingFile(t *testing.T) {
	if _, err := readAttributes(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for a missing file")
	}
}

// --- predict ---

func TestPredictPretty(t *testing.T) {
	path := writeFile(t, "employee.yaml", exampleYAML(t))

	out, _, err := run(t, "", "predict", "--model", fixtureModel, "-f", path)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if !strings.Contains(out, "The prediction is that the employee") || !strings.Contains(out, "WILL NOT CHURN") {
		t.Errorf("output = %q", out)
	}
}

func TestPredictJSONFromStdin(t *testing.T) {
	attrs := features.Example()
	attrs.Age = 25
	attrs.MonthlyIncome = 2000
	data, err := json.Marshal(attrs)
	if err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, string(data), "predict", "--model", fixtureModel, "-f", "-", "--json", "--features")
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}

	var res predictOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !res.WillChurn || res.Label != "WILL CHURN" || res.VectorLength != 2079 {
		t.Errorf("result = %+v", res)
	}
	if res.Features["Age"] != 25 || len(res.Features) != 63 {
		t.Errorf("features = %v", res.Features)
	}
}

func TestPredictValidationError(t *testing.T) {
	attrs := features.Example()
	attrs.JobLevel = 9
	data, err := json.Marshal(attrs)
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "employee.json", string(data))

	_, stderr, err := run(t, "", "predict", "--model", fixtureModel, "-f", path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(stderr, "jobLevel:") {
		t.Errorf("stderr = %q, want the failing field", stderr)
	}
}

func TestPredictMissingModel(t *testing.T) {
	path := writeFile(t, "employee.yaml", exampleYAML(t))

	_, _, err := run(t, "", "predict", "--model", filepath.Join(t.TempDir(), "absent.json"), "-f", path)
	if err == nil {
		t.Fatal("expected error for a missing model")
	}
}

func TestPredictRequiresFile(t *testing.T) {
	if _, _, err := run(t, "", "predict", "--model", fixtureModel); err == nil {
		t.Error("expected error without --file")
	}
}

// --- features ---

func TestFeaturesTable(t *testing.T) {
	path := writeFile(t, "employee.yaml", exampleYAML(t))

	out, _, err := run(t, "", "features", "-f", path)
	if err != nil {
		t.Fatalf("features failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "FEATURE") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Age") || !strings.HasSuffix(lines[1], "41") {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.Contains(out, "63 named features, 2079 after degree-2 expansion") {
		t.Errorf("summary missing:\n%s", out)
	}
}
