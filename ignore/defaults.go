package ignore

// DefaultIncludeExtensions are the file extensions indexed when none are configured.
var DefaultIncludeExtensions = []string{
	".js",
	".cjs",
	".mjs",
	".jsx",
	".ts",
	".tsx",
	".json",
	".md",
}

// DefaultExcludePatterns are substrings that exclude any path containing them,
// relative to the project root.
var DefaultExcludePatterns = []string{
	// Version control
	".git",

	// Dependencies
	"node_modules",

	// Build output
	"dist",
	"build",

	// Coverage
	"coverage",

	// Cache
	".next",
	".cache",
}
