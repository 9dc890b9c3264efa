package validator

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Report(t *testing.T) {
	result := &Result{Checked: 2}
	result.Issues = append(result.Issues, Issue{
		Severity: SeverityError, Category: "java", Package: "jdk-21",
		Message: "binder path is invalid", Value: "/opt/jdk-21/bin/java",
	})
	result.AddWarning("", "staged edits pending")

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewReporter(&buf, FormatText).Report(result))

		out := buf.String()
		assert.Contains(t, out, "✗ java/jdk-21: binder path is invalid [/opt/jdk-21/bin/java]")
		assert.Contains(t, out, "⚠ staged edits pending")
		assert.Contains(t, out, "Validation failed: 1 error(s), 1 warning(s)")
		assert.NotContains(t, out, "catalog valid")
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewReporter(&buf, FormatJSON).Report(result))

		var decoded Result
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Issues, 2)
		assert.Equal(t, SeverityError, decoded.Issues[0].Severity)
		assert.Equal(t, "jdk-21", decoded.Issues[0].Package)
		assert.Equal(t, SeverityWarning, decoded.Issues[1].Severity)
		assert.Equal(t, 2, decoded.Checked)
	})

	t.Run("clean result", func(t *testing.T) {
		var buf bytes.Buffer
		clean := &Result{Checked: 3, HashUpdated: true}
		clean.AddInfo("staged edits are not validated")
		require.NoError(t, NewReporter(&buf, FormatText).Report(clean))

		out := buf.String()
		assert.Contains(t, out, "✓ catalog valid, 3 alias(es) checked")
		assert.Contains(t, out, "catalog hash refreshed")
		assert.Contains(t, out, "staged edits are not validated")
	})

	t.Run("warnings only still pass", func(t *testing.T) {
		var buf bytes.Buffer
		res := &Result{}
		res.AddWarning("java", "no default")
		require.NoError(t, NewReporter(&buf, FormatText).Report(res))
		assert.Contains(t, buf.String(), "⚠ java: no default")
		assert.Contains(t, buf.String(), "catalog valid")
	})

	t.Run("nil result", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewReporter(&buf, FormatText).Report(nil))
		assert.Empty(t, buf.String())
	})
}

func TestPrintIssue_TruncatesLongValues(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, FormatText)
	long := "/" + string(bytes.Repeat([]byte("a"), 100))
	r.printIssue(Issue{Message: "bad", Value: long}, "✗")
	assert.Contains(t, buf.String(), "...]")
	assert.Less(t, len(buf.String()), 90)
}
