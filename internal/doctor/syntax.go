package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/pkgselect/internal/errors"
)

// ConfigSyntaxCheck parses the catalog, the staged catalog and the settings
// file by extension.
type ConfigSyntaxCheck struct {
	files []string
}

var _ Check = (*ConfigSyntaxCheck)(nil)

// NewConfigSyntaxCheck creates a check over files.
func NewConfigSyntaxCheck(files ...string) *ConfigSyntaxCheck {
	return &ConfigSyntaxCheck{files: files}
}

// Name returns the unique identifier for this check.
func (c *ConfigSyntaxCheck) Name() string {
	return "config-syntax"
}

// Category returns the grouping for this check.
func (c *ConfigSyntaxCheck) Category() string {
	return "config"
}

// syntaxFileResult represents the validation result for a single file.
type syntaxFileResult struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Run parses each file.
func (c *ConfigSyntaxCheck) Run(context.Context) *CheckResult {
	var results []syntaxFileResult
	var errCount, passCount int
	for _, f := range c.files {
		fr := validateFile(f)
		switch fr.Status {
		case "pass":
			passCount++
		case "error":
			errCount++
		case "info":
			continue
		}
		results = append(results, fr)
	}

	var res *CheckResult
	switch {
	case errCount > 0:
		res = newResult(c, SeverityError, "%d config file(s) have syntax errors", errCount)
		res.FixHint = "fix the syntax, or restore with: pkgselect backup restore"
	case passCount > 0:
		res = newResult(c, SeverityPass, "%d config file(s) parsed successfully", passCount)
	default:
		res = newResult(c, SeverityInfo, "no config files found to validate")
	}
	res.Details = map[string]any{"files": results}
	return res
}

func validateFile(path string) syntaxFileResult {
	fr := syntaxFileResult{Path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fr.Status = "info"
		fr.Message = "file does not exist"
		return fr
	case err != nil:
		fr.Status = "error"
		fr.Message = fmt.Sprintf("read error: %v", err)
		return fr
	}

	var v any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &v); err != nil {
			fr.Status = "error"
			fr.Message = "YAML error: " + err.Error()
			return fr
		}
	case ".toml":
		if err := toml.Unmarshal(data, &v); err != nil {
			fr.Status = "error"
			fr.Message = formatTOMLError(err)
			return fr
		}
	default:
		if err := json.Unmarshal(data, &v); err != nil {
			fr.Status = "error"
			fr.Message = formatJSONError(err, data)
			return fr
		}
	}
	fr.Status = "pass"
	return fr
}

// formatJSONError extracts position information from JSON syntax errors.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}
	return fmt.Sprintf("JSON error: %v", err)
}

// formatTOMLError extracts position information from TOML decode errors.
func formatTOMLError(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}
	return fmt.Sprintf("TOML error: %v", err)
}

// offsetToLineCol converts a byte offset to 1-indexed line and column.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = min(max(offset, 0), len(data))
	line, start := 1, 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, offset - start + 1
}
