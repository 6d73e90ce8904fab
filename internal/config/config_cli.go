package config

// GetCLIConfig loads the node configuration for command-line tools, which
// own their flag set. Sources, earlier ones winning for non-zero fields:
//  1. Environment variables
//  2. The JSON file at jsonPath, or the one named by CONFIG when jsonPath
//     is empty
//  3. Built-in defaults
func GetCLIConfig(jsonPath string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withJSONPath(jsonPath).
		withJSON().
		withDefaults().
		build()
}
