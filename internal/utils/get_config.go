package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	UploadFolder string `yaml:"UPLOAD_FOLDER"`

	// Detection history
	HistoryDriver string `yaml:"HISTORY_DRIVER"`
	HistoryFile   string `yaml:"HISTORY_FILE"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Detector configuration
	DetectorBackend  string `yaml:"DETECTOR_BACKEND"`
	InferenceURL     string `yaml:"INFERENCE_URL"`
	InferenceTimeout string `yaml:"INFERENCE_TIMEOUT"`

	// Image storage and AWS configuration
	ImageStorage string `yaml:"IMAGE_STORAGE"`
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Camera trigger over MQTT
	MQTTBroker       string `yaml:"MQTT_BROKER"`
	MQTTClientID     string `yaml:"MQTT_CLIENT_ID"`
	MQTTCaptureTopic string `yaml:"MQTT_CAPTURE_TOPIC"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`
	NotifyEmail      string `yaml:"NOTIFY_EMAIL"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		AppPort:          "5000",
		UploadFolder:     "static",
		HistoryDriver:    "file",
		HistoryFile:      "database.json",
		DetectorBackend:  "inference",
		InferenceURL:     "http://localhost:8000/detect",
		InferenceTimeout: "60s",
		ImageStorage:     "local",
		MQTTClientID:     "smart-fridge-backend",
		MQTTCaptureTopic: "fridge/camera/capture",
		SMTPPort:         "587",
	}
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"APP_PORT":           &c.AppPort,
		"APP_URL":            &c.AppURL,
		"UPLOAD_FOLDER":      &c.UploadFolder,
		"HISTORY_DRIVER":     &c.HistoryDriver,
		"HISTORY_FILE":       &c.HistoryFile,
		"DB_USER":            &c.DBUser,
		"DB_NAME":            &c.DBName,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_PORT":            &c.DBPort,
		"DB_HOST":            &c.DBHost,
		"DETECTOR_BACKEND":   &c.DetectorBackend,
		"INFERENCE_URL":      &c.InferenceURL,
		"INFERENCE_TIMEOUT":  &c.InferenceTimeout,
		"IMAGE_STORAGE":      &c.ImageStorage,
		"AWS_S3_BUCKET":      &c.AWSS3Bucket,
		"AWS_S3_REGION":      &c.AWSS3Region,
		"AWS_ACCESS_KEY":     &c.AWSAccessKey,
		"AWS_SECRET_KEY":     &c.AWSSecretKey,
		"MQTT_BROKER":        &c.MQTTBroker,
		"MQTT_CLIENT_ID":     &c.MQTTClientID,
		"MQTT_CAPTURE_TOPIC": &c.MQTTCaptureTopic,
		"SMTP_HOST":          &c.SMTPHost,
		"SMTP_PORT":          &c.SMTPPort,
		"SMTP_SENDER_NAME":   &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &c.SMTPAuthPassword,
		"NOTIFY_EMAIL":       &c.NotifyEmail,
	}
}

// LoadConfig reads .env and config.yaml. Environment variables win over yaml values.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	config = defaultConfig()

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Warnf("Error reading YAML file: %s", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Errorf("Error parsing YAML file: %s", err)
	}

	for key, value := range config.fields() {
		if env, ok := os.LookupEnv(key); ok && env != "" {
			*value = env
		}
	}

	// AWS SDK default credential chain reads these.
	if config.AWSAccessKey != "" {
		os.Setenv("AWS_ACCESS_KEY_ID", config.AWSAccessKey)
		os.Setenv("AWS_SECRET_ACCESS_KEY", config.AWSSecretKey)
	}
	if config.AWSS3Region != "" {
		os.Setenv("AWS_REGION", config.AWSS3Region)
	}
}

func GetConfig(key string) string {
	if value, ok := config.fields()[key]; ok {
		return *value
	}
	return ""
}

func GetDurationConfig(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(GetConfig(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func GetIntConfig(key string, fallback int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return n
}
