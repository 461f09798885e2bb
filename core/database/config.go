package database

// Config holds configuration for one database side.
type Config struct {
	// Driver selects the database engine (oracle, mysql, postgres).
	Driver string `mapstructure:"driver" default:"oracle"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"1521"`
	// User is the database user.
	User string `mapstructure:"user" default:""`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database, service or SID name.
	Name string `mapstructure:"name" default:""`
	// SSLMode is the postgres sslmode parameter.
	SSLMode string `mapstructure:"ssl_mode" default:"disable"`
	// TimeoutSeconds is the connection and I/O timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxOpenConns bounds the pool; it should stay above the audit
	// worker count so workers never starve each other.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"16"`
}
