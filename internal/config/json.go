package config

import (
	"encoding/json"
	"os"

	"github.com/mkalvans/buttervault/internal/flagx"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	DatasourceType string `json:"datasource_type"`
	VaultPath      string `json:"vault_path"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3Endpoint     string `json:"s3_endpoint"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	DatabaseDSN    string `json:"database_dsn"`
}

// parseJson loads configuration from the JSON file named by the -c/-config
// flags. When no file is given nothing is loaded; an unreadable or invalid
// file panics, since starting with half-applied configuration helps nobody.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatasourceType != "" {
		config.DatasourceType = c.DatasourceType
	}
	if c.VaultPath != "" {
		config.VaultPath = c.VaultPath
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3Endpoint != "" {
		config.S3Endpoint = c.S3Endpoint
	}
	if c.S3AccessKey != "" {
		config.S3AccessKey = c.S3AccessKey
	}
	if c.S3SecretKey != "" {
		config.S3SecretKey = c.S3SecretKey
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
}
