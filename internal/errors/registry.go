package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// Registered error codes.
const (
	CodeUnsupportedPatchTarget = "R001"
	CodeTypeMismatch           = "R002"
	CodeIndexOutOfRange        = "R003"
	CodePatchBatchAborted      = "R004"

	CodeMalformedFrame   = "P001"
	CodeUnknownPatchKind = "P002"
	CodeDepthExceeded    = "P003"

	CodeUnsupportedInput = "I001"
	CodeParseFailed      = "I002"

	CodeConfigMissing = "C001"
	CodeConfigInvalid = "C002"

	CodeSnapshotNotFound = "S001"
	CodeSnapshotIO       = "S002"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (R001-R099)
	// ============================================

	CodeUnsupportedPatchTarget: {
		Category: CategoryRender,
		Message:  "Unsupported patch target",
		Detail:   "The renderer cannot build or patch a node of this kind. The tag is not in the renderer's supported set, or the patch does not apply to the addressed node.",
		DocURL:   "https://vango.dev/docs/vtree/errors/R001",
	},
	CodeTypeMismatch: {
		Category: CategoryRender,
		Message:  "Type mismatch",
		Detail:   "The patch does not fit the addressed node, such as text changes on an element or attribute changes on a text node, or an attribute value has a kind the renderer cannot convert.",
		DocURL:   "https://vango.dev/docs/vtree/errors/R002",
	},
	CodeIndexOutOfRange: {
		Category: CategoryRender,
		Message:  "Patch index out of range",
		Detail:   "A patch addresses a traversal index that does not exist in the live tree. The patch list was computed against a different tree.",
		DocURL:   "https://vango.dev/docs/vtree/errors/R003",
	},
	CodePatchBatchAborted: {
		Category: CategoryRender,
		Message:  "Patch batch aborted",
		Detail:   "Applying a patch batch failed part way. The live tree may no longer match the retained tree.",
		DocURL:   "https://vango.dev/docs/vtree/errors/R004",
	},

	// ============================================
	// Protocol Errors (P001-P099)
	// ============================================

	CodeMalformedFrame: {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "A binary frame or payload could not be decoded.",
		DocURL:   "https://vango.dev/docs/vtree/errors/P001",
	},
	CodeUnknownPatchKind: {
		Category: CategoryProtocol,
		Message:  "Unknown patch kind",
		Detail:   "The encoded patch list contains an operation this decoder does not know.",
		DocURL:   "https://vango.dev/docs/vtree/errors/P002",
	},
	CodeDepthExceeded: {
		Category: CategoryProtocol,
		Message:  "Tree depth exceeded",
		Detail:   "An encoded tree is nested deeper than the decoder allows.",
		DocURL:   "https://vango.dev/docs/vtree/errors/P003",
	},

	// ============================================
	// Input Errors (I001-I099)
	// ============================================

	CodeUnsupportedInput: {
		Category: CategoryInput,
		Message:  "Unsupported input format",
		Detail:   "Trees can be read from .html, .htm, .yaml, .yml, .json and .vt files.",
		DocURL:   "https://vango.dev/docs/vtree/errors/I001",
	},
	CodeParseFailed: {
		Category: CategoryInput,
		Message:  "Failed to parse tree",
		Detail:   "The input file is not a valid tree document.",
		DocURL:   "https://vango.dev/docs/vtree/errors/I002",
	},

	// ============================================
	// Configuration Errors (C001-C099)
	// ============================================

	CodeConfigMissing: {
		Category: CategoryConfig,
		Message:  "Missing vtree.json",
		Detail:   "No vtree.json configuration file was found in the current directory or any parent directory.",
		DocURL:   "https://vango.dev/docs/vtree/errors/C001",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The vtree.json file contains invalid JSON or values out of range.",
		DocURL:   "https://vango.dev/docs/vtree/errors/C002",
	},

	// ============================================
	// Storage Errors (S001-S099)
	// ============================================

	CodeSnapshotNotFound: {
		Category: CategoryStorage,
		Message:  "Snapshot not found",
		Detail:   "No snapshot is stored under this key.",
		DocURL:   "https://vango.dev/docs/vtree/errors/S001",
	},
	CodeSnapshotIO: {
		Category: CategoryStorage,
		Message:  "Snapshot storage failed",
		Detail:   "Reading from or writing to the snapshot store failed.",
		DocURL:   "https://vango.dev/docs/vtree/errors/S002",
	},
}

// GetAllCodes returns all registered error codes, sorted.
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

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
