// Package v1 holds the configuration file format of the bindle CLI.
//
// The file format is YAML. Every field is optional; the type is checked only
// when present:
//
//	type: config.bindle.dev/v1
//	server: https://bindle.example.com/v1
//	username: deployer
//	password: some-token
//	insecure: false
//	concurrency: 4
//
// Values from the environment (see [EnvironmentKeys]) take precedence over
// values read from files.
package v1
