package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// Error codes.
const (
	ConfigNotFound    = "G100"
	ConfigInvalid     = "G101"
	ConfigValue       = "G102"
	ConfigFormat      = "G103"
	UnknownDemo       = "G120"
	InvalidFlag       = "G121"
	InspectorFailed   = "G140"
	ArchiveMisconfig  = "G141"
	AWSConfigFailed   = "G142"
	DefinitionRefused = "G160"
)

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (G100-G119)
	ConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "Neither guise.json nor guise.yaml exists in the project directory.",
	},
	ConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
	},
	ConfigValue: {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or inconsistent with another setting.",
	},
	ConfigFormat: {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json, .yaml or .yml.",
	},

	// CLI (G120-G139)
	UnknownDemo: {
		Category: CategoryCLI,
		Message:  "Unknown demo",
		Detail:   "The available demos are counter and todo.",
	},
	InvalidFlag: {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
	},

	// Inspector (G140-G159)
	InspectorFailed: {
		Category: CategoryInspect,
		Message:  "Inspector server failed",
	},
	ArchiveMisconfig: {
		Category: CategoryInspect,
		Message:  "Archive is enabled without a bucket",
		Detail:   "Snapshot archiving uploads to S3 and needs archive.bucket to be set.",
	},
	AWSConfigFailed: {
		Category: CategoryInspect,
		Message:  "AWS configuration could not be loaded",
		Detail:   "The S3 archiver uses the default AWS configuration chain.",
	},

	// Components (G160-G179)
	DefinitionRefused: {
		Category: CategoryComponent,
		Message:  "Component definition rejected",
	},
}

// Codes returns all registered error codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
