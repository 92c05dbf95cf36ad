package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs, bag := braceCase("Test.cs")

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeFixes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "BRACE1" {
		t.Errorf("severity/code = %s/%s", d.Severity, d.Code)
	}
	if d.Location.File != "Test.cs" || d.Location.StartByte != 6 || d.Location.EndByte != 8 {
		t.Errorf("location = %+v", d.Location)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 7 {
		t.Errorf("position = %d:%d, want 1:7", d.Location.StartLine, d.Location.StartCol)
	}
	if d.Original == nil || *d.Original != " {" || d.Replacement == nil || *d.Replacement != "\n{" {
		t.Errorf("original/replacement = %v/%v", d.Original, d.Replacement)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("Expected 1 fix, got %d", len(d.Fixes))
	}
	fix := d.Fixes[0]
	if fix.Kind != "quickfix" || fix.Applicability != "always-safe" || fix.Title != "Brace must be on newline" {
		t.Errorf("fix = %+v", fix)
	}
	if len(fix.Edits) != 1 || fix.Edits[0].OldText != " {" || fix.Edits[0].NewText != "\n{" {
		t.Errorf("edits = %+v", fix.Edits)
	}
}

// TestJSONWithoutPositions проверяет JSON без позиций строк/колонок
func TestJSONWithoutPositions(t *testing.T) {
	fs, bag := braceCase("Test.cs")

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if strings.Contains(buf.String(), "start_line") {
		t.Errorf("positions present without IncludePositions:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), `"fixes"`) {
		t.Errorf("fixes present without IncludeFixes:\n%s", buf.String())
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("Test.cs", []byte("class A { }"))

	bag := diag.NewBag(10)
	for i := range 5 {
		d := diag.New(diag.SevError, "INDENT1", source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "This token is not indented correctly.")
		bag.Add(&d)
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 3}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got %d", output.Count)
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs, bag := braceCase("Test.cs")

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	edit := output.Diagnostics[0].Fixes[0].Edits[0]
	if len(edit.BeforeLines) != 1 || edit.BeforeLines[0] != "if (x) {" {
		t.Errorf("before = %q", edit.BeforeLines)
	}
	if len(edit.AfterLines) != 2 || edit.AfterLines[0] != "if (x)" || edit.AfterLines[1] != "{" {
		t.Errorf("after = %q", edit.AfterLines)
	}
}

func TestRunJSON(t *testing.T) {
	fs, bag := braceCase("Test.cs")
	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if err != nil {
		t.Fatal(err)
	}
	var run RunOutput
	run.Add(FileOutput{Path: "Test.cs", DiagnosticsOutput: out})
	run.Add(FileOutput{Path: "Broken.cs", Error: "tree producer failed", DiagnosticsOutput: DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}})

	var buf bytes.Buffer
	if err := RunJSON(&buf, run); err != nil {
		t.Fatal(err)
	}
	var back RunOutput
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if back.Count != 1 || back.Failed != 1 || len(back.Files) != 2 {
		t.Fatalf("run = %+v", back)
	}
	if back.Files[0].Diagnostics[0].Code != "BRACE1" {
		t.Fatalf("embedded diagnostics lost: %+v", back.Files[0])
	}
}

func TestSarif(t *testing.T) {
	fs, bag := braceCase("Test.cs")
	fs.SetBaseDir(".")
	rules := []RuleMeta{
		{ID: "INDENT1", Name: "Indentation is incorrect", Severity: diag.SevError},
		{ID: "BRACE1", Name: "Brace must be on newline", Severity: diag.SevError},
	}
	var buf bytes.Buffer
	if err := Sarif(&buf, bag.Items(), fs, rules, SarifRunMeta{ToolName: "cstyle", ToolVersion: "0.1.0"}); err != nil {
		t.Fatal(err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					Physical struct {
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
				Fixes []struct {
					Changes []struct {
						Replacements []struct {
							Inserted struct {
								Text string `json:"text"`
							} `json:"insertedContent"`
						} `json:"replacements"`
					} `json:"artifactChanges"`
				} `json:"fixes"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "cstyle" || len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "BRACE1" {
		t.Fatalf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Results) != 1 {
		t.Fatalf("results = %+v", run.Results)
	}
	r := run.Results[0]
	if r.RuleID != "BRACE1" || r.Level != "error" {
		t.Fatalf("result = %+v", r)
	}
	if reg := r.Locations[0].Physical.Region; reg.StartLine != 1 || reg.StartColumn != 7 {
		t.Fatalf("region = %+v", reg)
	}
	if r.Fixes[0].Changes[0].Replacements[0].Inserted.Text != "\n{" {
		t.Fatalf("fix = %+v", r.Fixes)
	}
}

func TestShort(t *testing.T) {
	fs, bag := braceCase("Test.cs")
	fs.SetBaseDir(".")
	var buf bytes.Buffer
	if err := Short(&buf, bag.Items(), fs); err != nil {
		t.Fatal(err)
	}
	want := "error BRACE1 Test.cs:1:7 Opening brace should be on a new line\n"
	if buf.String() != want {
		t.Fatalf("Short = %q, want %q", buf.String(), want)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPretty, "JSON": FormatJSON, "sarif": FormatSarif, " short ": FormatShort} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml accepted")
	}
}
