package cmd

const (
	// ServerFlag Flag to specify the base URL of the bindle API, e.g. https://bindle.example.com/v1.
	ServerFlag = "server"
	// InsecureFlag Flag to disable TLS certificate verification of the bindle server.
	InsecureFlag = "insecure"
	// UsernameFlag Flag to specify the username for basic authentication. Only used together with PasswordFlag.
	UsernameFlag = "username"
	// PasswordFlag Flag to specify the password for basic authentication. Only used together with UsernameFlag.
	PasswordFlag = "password"
	// ConcurrencyLimitFlag Flag to specify the maximum amount of parallel requests to the bindle server.
	ConcurrencyLimitFlag = "concurrency-limit"
	// ConcurrencyLimitDefault Default amount of parallel requests to the bindle server.
	ConcurrencyLimitDefault = 4
	// OutputFlag Flag to specify the output format of a command.
	OutputFlag = "output"
)
