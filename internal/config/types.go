// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package config

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	// Environment is "production" or "development"; it selects cookie
	// naming and the Secure cookie attribute.
	Environment string    `mapstructure:"environment" validate:"omitempty,oneof=production development"`
	API         API       `mapstructure:"api"         mask:"struct"`
	NATS        NATS      `mapstructure:"nats"`
	Redis       Redis     `mapstructure:"redis"       mask:"struct"`
	OTP         OTP       `mapstructure:"otp"`
	Telemetry   Telemetry `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// Production reports whether the configured environment is production.
func (c *Config) Production() bool {
	return c.Environment == EnvironmentProduction
}

// Environment names.
const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Defaults to "/metrics" when empty.
	Path string `mapstructure:"path"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter: "stdout" or "otlp".
	Exporter string `mapstructure:"exporter" validate:"omitempty,oneof=stdout otlp"`
	// OTLPEndpoint is the gRPC endpoint for the OTLP exporter (e.g., "localhost:4317").
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// SampleRatio is the fraction of root spans sampled. Zero samples all.
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

// NATSAuth holds client-side authentication settings for connecting to NATS.
type NATSAuth struct {
	// Type is the auth method: "none", "user_pass", or "nkey".
	Type string `mapstructure:"type"      validate:"omitempty,oneof=none user_pass nkey"`
	// Username for user_pass auth.
	Username string `mapstructure:"username"`
	// Password for user_pass auth.
	Password string `mapstructure:"password"  mask:"password"`
	// NKeyFile path to the NKey seed file for nkey auth.
	NKeyFile string `mapstructure:"nkey_file"`
}

// NATSServerUser represents an allowed username/password pair for the NATS server.
type NATSServerUser struct {
	// Username for the user.
	Username string `mapstructure:"username"`
	// Password for the user.
	Password string `mapstructure:"password" mask:"password"`
}

// NATSServerAuth holds server-side authentication settings for the embedded NATS server.
type NATSServerAuth struct {
	// Type is the auth method: "none" or "user_pass".
	Type string `mapstructure:"type" validate:"omitempty,oneof=none user_pass"`
	// Users allowed to connect (for user_pass auth).
	Users []NATSServerUser `mapstructure:"users"`
}

// NATS configuration settings.
type NATS struct {
	Server  NATSServer `mapstructure:"server,omitempty"`
	Actors  NATSBucket `mapstructure:"actors,omitempty"`
	Content NATSBucket `mapstructure:"content,omitempty"`
	Audit   NATSBucket `mapstructure:"audit,omitempty"`
}

// NATSBucket configuration for a JetStream KeyValue bucket.
type NATSBucket struct {
	// Bucket is the KV bucket name.
	Bucket   string `mapstructure:"bucket"    validate:"required"`
	TTL      string `mapstructure:"ttl"` // e.g. "720h"; empty keeps entries forever
	MaxBytes int64  `mapstructure:"max_bytes"`
	Storage  string `mapstructure:"storage"   validate:"omitempty,oneof=file memory"`
	Replicas int    `mapstructure:"replicas"`
}

// NATSServer configuration settings for the embedded NATS server.
type NATSServer struct {
	// Embedded starts the server inside `serve` instead of connecting to
	// an external one.
	Embedded bool `mapstructure:"embedded"`
	// Host the server will bind to.
	Host string `mapstructure:"host"`
	// Port the server will bind to.
	Port int `mapstructure:"port"`
	// StoreDir the directory for JetStream file storage.
	StoreDir string `mapstructure:"store_dir"`
	// Auth holds server-side authentication configuration.
	Auth NATSServerAuth `mapstructure:"auth,omitempty"`
}

// NATSConnection is a reusable NATS connection configuration block.
type NATSConnection struct {
	// Host the NATS server hostname.
	Host string `mapstructure:"host"`
	// Port the NATS server port.
	Port int `mapstructure:"port"`
	// ClientName the NATS client name for identification.
	ClientName string `mapstructure:"client_name"`
	// Namespace is prefixed to every bucket name used by this client.
	Namespace string `mapstructure:"namespace"`
	// Auth holds client-side authentication configuration.
	Auth NATSAuth `mapstructure:"auth,omitempty"`
}

// Redis configuration for the one-time code store.
type Redis struct {
	// Addr is host:port of the Redis server.
	Addr     string `mapstructure:"addr"     validate:"required"`
	Password string `mapstructure:"password" mask:"password"`
	DB       int    `mapstructure:"db"`
}

// OTP configuration for one-time login codes.
type OTP struct {
	// TTL is how long an issued code stays valid, e.g. "5m".
	TTL string `mapstructure:"ttl"`
	// Digits is the code length.
	Digits int `mapstructure:"digits" validate:"omitempty,min=4,max=10"`
	// MaxAttempts is how many verifications a code allows before it is
	// discarded.
	MaxAttempts int `mapstructure:"max_attempts" validate:"omitempty,min=1"`
}

// API configuration settings.
type API struct {
	Server `mask:"struct"`
}

// Server configuration settings.
type Server struct {
	// Port the server will bind to.
	Port int `mapstructure:"port"`
	// NATS connection settings for the API server.
	NATS NATSConnection `mapstructure:"nats"`
	// Security contains security-related configuration for the server, such as CORS and tokens.
	Security ServerSecurity `mapstructure:"security" mask:"struct"`
	// Session controls session cookie naming.
	Session Session `mapstructure:"session"`
	// Routes are the guarded page prefixes and redirect targets.
	Routes Routes `mapstructure:"routes"`
	// GuardReads requires the view permission on administrative list and
	// get endpoints. Reads are open to any caller when false.
	GuardReads bool `mapstructure:"guard_reads"`
}

// Session cookie settings.
type Session struct {
	// CookieName is the base cookie name; production prefixes it with
	// "__Secure-".
	CookieName string `mapstructure:"cookie_name"`
	// CookieAlternates are additional names accepted when reading.
	CookieAlternates []string `mapstructure:"cookie_alternates"`
}

// Routes configures the edge guard.
type Routes struct {
	AdminPrefix   string `mapstructure:"admin_prefix"`
	AccountPrefix string `mapstructure:"account_prefix"`
	LoginPath     string `mapstructure:"login_path"`
	PublicRoot    string `mapstructure:"public_root"`
}

// ServerSecurity represents security-related settings for the server.
type ServerSecurity struct {
	// CORS Cross-Origin Resource Sharing (CORS) settings for the server.
	CORS CORS `mapstructure:"cors"`
	// SigningKey is the key used for signing or validating tokens. The
	// AUTH_SECRET and SESSION_SECRET environment variables take precedence.
	SigningKey string `mapstructure:"signing_key" validate:"required" mask:"password"`
}

// CORS represents the CORS (Cross-Origin Resource Sharing) settings.
type CORS struct {
	// List of origins allowed to access the server (e.g., "foo").
	AllowOrigins []string `mapstructure:"allow_origins,omitempty"`
}
