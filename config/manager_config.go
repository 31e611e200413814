package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	FilePath string `mapstructure:"file_path"`
}

type ManageConfig struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
	Key     KeyConfig     `mapstructure:"key"`
	Account AccountConfig `mapstructure:"account"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

type MongoDBConfig struct {
	Database string      `mapstructure:"database"`
	CAPem    SecretValue `mapstructure:"ca_pem"`
	User     string      `mapstructure:"user"`
	Password SecretValue `mapstructure:"password"`
	Port     string      `mapstructure:"port"`
	Host     string      `mapstructure:"host"`
}

// URI builds the connection string, authenticating against the admin
// database.
func (c MongoDBConfig) URI() string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password.Value())
	}
	u.RawQuery = url.Values{"authSource": []string{"admin"}}.Encode()
	return u.String()
}

// TLSConfig trusts the ca_pem bundle. It is nil when no bundle is configured,
// which leaves the connection in plaintext.
func (c MongoDBConfig) TLSConfig() (*tls.Config, error) {
	if c.CAPem.Value() == "" {
		return nil, nil
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(c.CAPem.Value())) {
		return nil, errors.New("mongodb ca_pem contains no certificate")
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

type KeyConfig struct {
	RsaPrivateKeyPem SecretValue `mapstructure:"rsa_private_key_pem"`
}

type AccountConfig struct {
	AdminEmail    string      `mapstructure:"admin_email"`
	AdminPassword SecretValue `mapstructure:"admin_password"`
	// DemoEmail, when set, seeds a manager account for demos.
	DemoEmail    string      `mapstructure:"demo_email"`
	DemoPassword SecretValue `mapstructure:"demo_password"`
}

type AuthConfig struct {
	TokenDurationHr int `mapstructure:"token_duration_hr"`
	// RoleCacheTTLSec bounds how long a role change takes to reach existing
	// sessions.
	RoleCacheTTLSec int `mapstructure:"role_cache_ttl_sec"`
	// AuditAllowed also records granted checks, not only denials.
	AuditAllowed bool `mapstructure:"audit_allowed"`
}

func (c AuthConfig) TokenDuration() time.Duration {
	if c.TokenDurationHr <= 0 {
		return 3 * time.Hour
	}
	return time.Duration(c.TokenDurationHr) * time.Hour
}

func (c AuthConfig) RoleCacheTTL() time.Duration {
	if c.RoleCacheTTLSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RoleCacheTTLSec) * time.Second
}

var (
	managerCfg *ManageConfig
)

func GetConfig() *ManageConfig {
	return managerCfg
}

func InitManagerConfig(configName string, configPath string) (ManageConfig, error) {
	var cfg ManageConfig
	v := viper.New()
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	if configName == "" {
		configName = "manager_config"
	}
	v.AddConfigPath(GetAbsPath("config"))
	v.SetConfigName(strings.TrimSuffix(configName, ".toml"))
	v.SetConfigType("toml")
	v.SetEnvPrefix("MANAGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("server.host", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("auth.token_duration_hr", 3)
	v.SetDefault("auth.role_cache_ttl_sec", 30)
	err := v.ReadInConfig()
	if err != nil {
		return cfg, err
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return cfg, err
	}
	managerCfg = &cfg
	return cfg, nil
}

// GetAbsPath joins paths onto the module root, located from this file so it
// resolves the same from any package's tests.
func GetAbsPath(paths ...string) string {
	_, filePath, _, _ := runtime.Caller(0)
	basePath := filepath.Dir(filePath)
	rootPath := filepath.Join(basePath, "..")
	return filepath.Join(rootPath, filepath.Join(paths...))
}
