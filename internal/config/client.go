package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Client configures the headless member client.
type Client struct {
	APIURL             string        `envconfig:"API_URL" default:"http://localhost:8081"`
	WSURL              string        `envconfig:"WS_URL" default:"ws://localhost:8081/ws"`
	Topic              string        `envconfig:"TOPIC" default:"/topic/appointments"`
	ReconnectDelay     time.Duration `envconfig:"RECONNECT_DELAY" default:"5s"`
	Heartbeat          time.Duration `envconfig:"HEARTBEAT" default:"4s"`
	RefetchOnReconnect bool          `envconfig:"REFETCH_ON_RECONNECT" default:"true"`
	SessionFile        string        `envconfig:"SESSION_FILE" default:".gymhub-session.json"`
	Email              string        `envconfig:"EMAIL"`
	Password           string        `envconfig:"PASSWORD"`
}

// LoadClient reads GYMHUB_* variables.
func LoadClient() (Client, error) {
	_ = godotenv.Load()

	var c Client
	err := envconfig.Process("gymhub", &c)
	return c, err
}
