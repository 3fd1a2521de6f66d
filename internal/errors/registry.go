package errors

// Template defines a registered error code.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]Template{
	// Configuration (P100-P119)
	"P100": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "pageglue.json could not be read or is not valid JSON.",
	},
	"P101": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The server port must be between 1 and 65535.",
	},
	"P102": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Durations use Go syntax such as \"5s\" or \"150ms\".",
	},
	"P103": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "The log level must be one of debug, info, warn or error.",
	},
	"P104": {
		Category: CategoryConfig,
		Message:  "Invalid base URL",
		Detail:   "request.baseUrl must be an absolute http or https URL.",
	},
	"P105": {
		Category: CategoryConfig,
		Message:  "Configuration not saved",
		Detail:   "pageglue.json could not be written.",
	},

	// Command line (P120-P139)
	"P120": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
	},
	"P121": {
		Category: CategoryCLI,
		Message:  "Cannot read input",
		Detail:   "The input file could not be opened or parsed as HTML.",
	},

	// Server (P140-P159)
	"P140": {
		Category: CategoryServer,
		Message:  "Server failed",
		Detail:   "The live page server stopped with an error.",
	},

	// Requests (P160-P179)
	"P160": {
		Category: CategoryRequest,
		Message:  "Request failed",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
