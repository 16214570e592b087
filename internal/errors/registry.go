package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be parsed",
		Detail:   "hashroute.json must contain a single JSON object.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A value in hashroute.json is out of range or malformed.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be written",
		Detail:   "Saving hashroute.json failed. Check permissions of the project directory.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
		Detail:   "hashroute.json exists but could not be opened.",
	},

	// ============================================
	// Protocol Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryProtocol,
		Message:  "Invalid message",
		Detail:   `WebSocket messages must be JSON objects like {"type":"hashchange","href":"#/a"}.`,
	},
	"E201": {
		Category: CategoryValidation,
		Message:  "Invalid encode request",
		Detail:   `The request body must set exactly one of "path" and "joined".`,
	},
	"E202": {
		Category: CategoryValidation,
		Message:  "Invalid request body",
		Detail:   "The request body is not valid JSON.",
	},

	// ============================================
	// CLI Errors (E300-E319)
	// ============================================

	"E300": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command-line argument could not be interpreted.",
	},
	"E301": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
