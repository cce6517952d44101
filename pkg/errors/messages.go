package errors

import (
	"fmt"
	"strings"
)

// FormatUserError returns a user-friendly error message with actionable guidance.
// It examines the error chain and provides context-appropriate help text.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var configErr *ConfigError
	if As(err, &configErr) {
		return formatConfigError(configErr)
	}

	var scanErr *ScanError
	if As(err, &scanErr) {
		return formatScanError(scanErr)
	}

	// Default: return the error message as-is
	return err.Error()
}

// formatConfigError formats a ConfigError with actionable guidance.
func formatConfigError(err *ConfigError) string {
	var b strings.Builder

	if err.Field != "" {
		fmt.Fprintf(&b, "Configuration error in '%s': %s\n", err.Field, err.Message)
	} else {
		fmt.Fprintf(&b, "Configuration error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Check your config file: ~/.config/census/config.toml\n")
	b.WriteString("  • Check a workspace-local .census.toml in the current directory\n")
	b.WriteString("  • Run 'census config show' to inspect the effective configuration\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatScanError formats a ScanError with actionable guidance.
func formatScanError(err *ScanError) string {
	var b strings.Builder

	switch err.Op {
	case OpOpenRoot:
		fmt.Fprintf(&b, "Cannot scan %s\n", err.Path)
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Ensure the path exists and is a directory\n")
		b.WriteString("  • Check that you have read permission on it\n")
	default:
		fmt.Fprintf(&b, "Scan of %s failed during %s\n", err.Path, err.Op)
		b.WriteString("\nTo troubleshoot:\n")
		b.WriteString("  • Run with --verbose for more details\n")
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}
