package config

import (
	"github.com/spf13/viper"
)

// Runtime configuration comes from environment variables. Defaults target
// the local docker-compose + LocalStack setup.

type Config struct {
	DBHost            string `mapstructure:"DB_HOST"`
	DBPort            string `mapstructure:"DB_PORT"`
	DBUser            string `mapstructure:"DB_USER"`
	DBPassword        string `mapstructure:"DB_PASSWORD"`
	DBName            string `mapstructure:"DB_NAME"`
	ServerPort        string `mapstructure:"SERVER_PORT"`
	AWSRegion         string `mapstructure:"AWS_REGION"`
	AWSEndpoint       string `mapstructure:"AWS_ENDPOINT"`
	NotifySQSQueueURL string `mapstructure:"NOTIFY_SQS_QUEUE_URL"`
	FotosBucket       string `mapstructure:"FOTOS_BUCKET"`
	FotosBaseURL      string `mapstructure:"FOTOS_BASE_URL"`
	EmailRemitente    string `mapstructure:"EMAIL_REMITENTE"`
	EmailDominio      string `mapstructure:"EMAIL_DOMINIO"`
	ZonaHoraria       string `mapstructure:"ZONA_HORARIA"`
	WorkerConcurrency int    `mapstructure:"WORKER_CONCURRENCY"`
	IsLocalDev        bool   `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "checador_db")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("NOTIFY_SQS_QUEUE_URL", "http://localstack:4566/000000000000/notify-queue")
	viper.SetDefault("FOTOS_BUCKET", "registros-fotos")
	viper.SetDefault("FOTOS_BASE_URL", "http://localstack:4566/registros-fotos")
	viper.SetDefault("EMAIL_REMITENTE", "checador@checador-qr.com")
	viper.SetDefault("EMAIL_DOMINIO", "checador-qr.com")
	// The tablets and the stored wall-clock timestamps all live in one zone.
	viper.SetDefault("ZONA_HORARIA", "America/Mazatlan")
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
