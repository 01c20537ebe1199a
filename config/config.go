package config

import (
	"os"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is loaded once at startup and treated as immutable afterwards.
// The admin credential lives here and is handed to the auth gate at
// construction; nothing mutates it at process scope.
type Config struct {
	Debug         bool          `envconfig:"debug"`
	Port          int           `envconfig:"port" default:"3000"`
	Env           string        `envconfig:"env"`
	JWTSecret     string        `envconfig:"jwt_secret" default:"dev_secret_changeme"`
	AdminUser     string        `envconfig:"admin_user" default:"admin"`
	AdminPass     string        `envconfig:"admin_pass" default:"IAMADMIN"`
	DataDir       string        `envconfig:"data_dir" default:"data"`
	UploadDir     string        `envconfig:"upload_dir" default:"data/uploads"`
	AWSBucket     string        `envconfig:"aws_bucket"`
	AWSRegion     string        `envconfig:"aws_region" default:"us-east-1"`
	ServerBaseURL string        `envconfig:"server_base_url" default:"http://localhost:3000"`
	SyncTimeout   time.Duration `envconfig:"sync_timeout" default:"5s"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Debugf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("wildsight", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
