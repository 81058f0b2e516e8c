package devops

import (
	"encoding/base64"
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type MailConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	To       []string `yaml:"to"`
}

type SlackConfig struct {
	BotToken       string `yaml:"botToken"`
	IncidentChanID string `yaml:"incidentChannelId"`
}

type Config struct {
	ListenAddr    string      `yaml:"listenAddr"`
	DSN           string      `yaml:"dsn"`
	MaxConns      int         `yaml:"maxConns"`
	SigningSecret string      `yaml:"signingSecret"` // base64
	UploadDir     string      `yaml:"uploadDir"`
	WorkbookPath  string      `yaml:"workbookPath"`
	ImageBucket   string      `yaml:"imageBucket"` // optional S3 archive
	Mail          MailConfig  `yaml:"mail"`
	Slack         SlackConfig `yaml:"slack"`
}

var (
	once    sync.Once
	cfg     *Config
	loadErr error
)

// Load reads the yaml config file once, after loading .env. Environment
// variables override file values so deployments can stay file-less.
func Load(path string) (*Config, error) {
	once.Do(func() {
		godotenv.Load()

		c := &Config{
			ListenAddr:   "0.0.0.0:5001",
			MaxConns:     10,
			UploadDir:    "uploads",
			WorkbookPath: "assets/attendance.xlsx",
		}

		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, c); err != nil {
				loadErr = fmt.Errorf("unmarshal config: %w", err)
				return
			}
		} else if !os.IsNotExist(err) {
			loadErr = fmt.Errorf("read config: %w", err)
			return
		}

		applyEnv(c)

		if c.DSN == "" {
			loadErr = fmt.Errorf("no DSN configured (set GUARDPOST_DSN or dsn in %s)", path)
			return
		}
		if c.SigningSecret == "" {
			loadErr = fmt.Errorf("no signing secret configured")
			return
		}

		cfg = c
	})

	return cfg, loadErr
}

func applyEnv(c *Config) {
	env := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	env("GUARDPOST_LISTEN_ADDR", &c.ListenAddr)
	env("GUARDPOST_DSN", &c.DSN)
	env("GUARDPOST_SIGNING_SECRET", &c.SigningSecret)
	env("GUARDPOST_UPLOAD_DIR", &c.UploadDir)
	env("GUARDPOST_WORKBOOK_PATH", &c.WorkbookPath)
	env("GUARDPOST_IMAGE_BUCKET", &c.ImageBucket)
	env("SLACK_BOT_TOKEN", &c.Slack.BotToken)
	env("SLACK_INCIDENT_CHANNEL", &c.Slack.IncidentChanID)
	env("MAIL_HOST", &c.Mail.Host)
	env("MAIL_USER", &c.Mail.Username)
	env("MAIL_PASS", &c.Mail.Password)
}

// DecodeSigningSecret returns the raw HMAC key bytes.
func (c *Config) DecodeSigningSecret() ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(c.SigningSecret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	return secret, nil
}
