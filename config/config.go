package config

import (
	"fmt"
	"os"
	"strconv"

	"album-shuffle/pkg/models"

	"gopkg.in/yaml.v2"
)

// Backup settings mirror the supported providers; exactly one bucket
// or container is expected when backup is enabled.
type Backup struct {
	Provider string `yaml:"provider"` // "aws", "gcp" or "azure"
	Enabled  bool   `yaml:"enabled"`
	GCP      struct {
		Bucket    string `yaml:"bucket"`
		ProjectID string `yaml:"projectID"`
	} `yaml:"gcp"`
	AWS struct {
		Bucket string `yaml:"bucket"`
		Region string `yaml:"region"`
	} `yaml:"aws"`
	Azure struct {
		StorageAccount string `yaml:"storageAccount"`
		Container      string `yaml:"container"`
	} `yaml:"azure"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	App struct {
		Title string `yaml:"title"`
	} `yaml:"app"`

	Feed struct {
		BatchSize int `yaml:"batchSize"`
	} `yaml:"feed"`

	Storage struct {
		ImagesDir       string `yaml:"imagesDir"`
		DataDir         string `yaml:"dataDir"`
		WriteDebounceMs int    `yaml:"writeDebounceMs"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Users  []models.User `yaml:"users"`
	Backup Backup        `yaml:"backup"`
}

type Secrets struct {
	// AWS credentials
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// GCP credentials
	GCPCredentialsFile string

	// Azure credentials
	AzureStorageAccountKey string
}

// LoadConfig loads configuration from a YAML file, then applies
// environment-variable overrides and defaults.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	loadConfigFromEnv(config)
	applyDefaults(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 3000
	}
	if config.App.Title == "" {
		config.App.Title = "Album Shuffle"
	}
	if config.Feed.BatchSize == 0 {
		config.Feed.BatchSize = 10
	}
	if config.Storage.ImagesDir == "" {
		config.Storage.ImagesDir = "images"
	}
	if config.Storage.DataDir == "" {
		config.Storage.DataDir = "data"
	}
	if config.Storage.WriteDebounceMs == 0 {
		config.Storage.WriteDebounceMs = 1000
	}
}

// loadConfigFromEnv applies environment-variable overrides.
func loadConfigFromEnv(config *Config) {
	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Server.Port = port
		}
	}

	if imagesDir := os.Getenv("IMAGES_DIR"); imagesDir != "" {
		config.Storage.ImagesDir = imagesDir
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		config.Storage.DataDir = dataDir
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		config.Logging.Format = logFormat
	}

	if provider := os.Getenv("BACKUP_PROVIDER"); provider != "" {
		config.Backup.Provider = provider
	}
	if enabled := os.Getenv("BACKUP_ENABLED"); enabled != "" {
		config.Backup.Enabled = enabled == "true"
	}

	// GCP backup config
	if gcpBucket := os.Getenv("GCP_BUCKET"); gcpBucket != "" {
		config.Backup.GCP.Bucket = gcpBucket
	}
	if gcpProjectID := os.Getenv("GCP_PROJECT_ID"); gcpProjectID != "" {
		config.Backup.GCP.ProjectID = gcpProjectID
	}

	// AWS backup config
	if awsBucket := os.Getenv("AWS_BUCKET"); awsBucket != "" {
		config.Backup.AWS.Bucket = awsBucket
	}
	if awsRegion := os.Getenv("AWS_REGION"); awsRegion != "" {
		config.Backup.AWS.Region = awsRegion
	}

	// Azure backup config
	if azureAccount := os.Getenv("AZURE_STORAGE_ACCOUNT"); azureAccount != "" {
		config.Backup.Azure.StorageAccount = azureAccount
	}
	if azureContainer := os.Getenv("AZURE_CONTAINER"); azureContainer != "" {
		config.Backup.Azure.Container = azureContainer
	}
}

// IsValidUser reports whether the id belongs to a configured user.
func (c *Config) IsValidUser(userID string) bool {
	for _, u := range c.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// LoadSecrets loads cloud credentials from environment variables.
func LoadSecrets() *Secrets {
	secrets := &Secrets{}

	// AWS secrets
	secrets.AWSAccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	secrets.AWSSecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	// GCP secrets
	secrets.GCPCredentialsFile = os.Getenv("GCP_CREDENTIALS_FILE")

	// Azure secrets
	secrets.AzureStorageAccountKey = os.Getenv("AZURE_STORAGE_ACCOUNT_KEY")

	return secrets
}
