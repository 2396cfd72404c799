package output

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gemops/vmdash/internal/api"
)

func sampleVMs() []api.VirtualMachine {
	return []api.VirtualMachine{
		{
			ID:          "1",
			Name:        "web-1",
			ZoneRegion:  "us-1",
			IPExternal:  "1.2.3.4",
			IPInternal:  "10.0.0.1",
			MachineType: "e2-small",
			Status:      api.StatusRunning,
		},
		{
			ID:          "2",
			Name:        "web-2",
			ZoneRegion:  "us-2",
			IPInternal:  "10.0.0.2",
			MachineType: "e2-medium",
			Status:      api.StatusStopped,
		},
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  Format
		wantErr bool
	}{
		{FormatTable, false},
		{FormatYAML, false},
		{FormatJSON, false},
		{Format("xml"), true},
	}

	for _, tt := range tests {
		_, err := NewFormatter(Options{Format: tt.format})
		if (err != nil) != tt.wantErr {
			t.Errorf("NewFormatter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	for _, valid := range []string{"table", "yaml", "json"} {
		if err := ValidateFormat(valid); err != nil {
			t.Errorf("expected %q to validate, got: %v", valid, err)
		}
	}
	if err := ValidateFormat("csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTableFormatter(t *testing.T) {
	f := &TableFormatter{}
	result, err := f.FormatVMList(sampleVMs())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !strings.Contains(result, "NAME") || !strings.Contains(result, "EXTERNAL IP") {
		t.Errorf("expected header row, got:\n%s", result)
	}
	if !strings.Contains(result, "web-1") || !strings.Contains(result, "web-2") {
		t.Errorf("expected both VM rows, got:\n%s", result)
	}
	if !strings.Contains(result, "Running") || !strings.Contains(result, "Stopped") {
		t.Errorf("expected statuses, got:\n%s", result)
	}

	// web-2 has no external IP; the column shows a dash.
	for _, line := range strings.Split(result, "\n") {
		if strings.HasPrefix(line, "web-2") && !strings.Contains(line, "-") {
			t.Errorf("expected dash for absent external IP, got: %s", line)
		}
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	f := &TableFormatter{NoHeaders: true}
	result, err := f.FormatVMList(sampleVMs())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if strings.Contains(result, "NAME") {
		t.Errorf("expected no header row, got:\n%s", result)
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	f := &TableFormatter{}
	result, err := f.FormatVMList(nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result != "No VMs found\n" {
		t.Errorf("unexpected empty-list output: %q", result)
	}
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{}
	result, err := f.FormatVMList(sampleVMs())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	var decoded []api.VirtualMachine
	if err := json.Unmarshal([]byte(result), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Name != "web-1" {
		t.Errorf("unexpected decoded content: %+v", decoded)
	}

	// Absent external IP is omitted, not emitted as an empty string.
	if strings.Contains(result, `"ipExternal": ""`) {
		t.Error("expected omitempty for absent external IP")
	}
}

func TestJSONFormatter_Empty(t *testing.T) {
	f := &JSONFormatter{}
	result, err := f.FormatVMList(nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", result)
	}
}

func TestYAMLFormatter(t *testing.T) {
	f := &YAMLFormatter{}
	result, err := f.FormatVMList(sampleVMs())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !strings.Contains(result, "---") {
		t.Error("expected document separator between VMs")
	}

	var first api.VirtualMachine
	doc := strings.SplitN(result, "---", 2)[0]
	if err := yaml.Unmarshal([]byte(doc), &first); err != nil {
		t.Fatalf("first document is not valid YAML: %v", err)
	}
	if first.Name != "web-1" {
		t.Errorf("unexpected first document: %+v", first)
	}
}

func TestFormatVM_SingleRecord(t *testing.T) {
	vm := sampleVMs()[0]

	table, err := (&TableFormatter{}).FormatVM(vm)
	if err != nil || !strings.Contains(table, "web-1") {
		t.Errorf("unexpected table output: %q (err %v)", table, err)
	}

	jsonOut, err := (&JSONFormatter{}).FormatVM(vm)
	if err != nil || !strings.Contains(jsonOut, `"name": "web-1"`) {
		t.Errorf("unexpected JSON output: %q (err %v)", jsonOut, err)
	}

	yamlOut, err := (&YAMLFormatter{}).FormatVM(vm)
	if err != nil || !strings.Contains(yamlOut, "name: web-1") {
		t.Errorf("unexpected YAML output: %q (err %v)", yamlOut, err)
	}
}
