package config

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
)

type GenAI struct {
	ApiKey            string `env:"GENAI_API_KEY,required"`
	ApiUrl            string `env:"GENAI_API_URL" envDefault:"https://api.gilas.io/v1/chat/completions"`
	Model             string `env:"GENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	PromptTokenBudget int    `env:"GENAI_PROMPT_TOKEN_BUDGET" envDefault:"512"`
}

type Firebase struct {
	Type                    string        `env:"FIREBASE_TYPE,required" json:"type"`
	ProjectId               string        `env:"FIREBASE_PROJECT_ID,required" json:"project_id"`
	PrivateKeyId            string        `env:"FIREBASE_PRIVATE_KEY_ID,required" json:"private_key_id"`
	PrivateKey              string        `env:"FIREBASE_PRIVATE_KEY,required" json:"private_key"`
	ClientEmail             string        `env:"FIREBASE_CLIENT_EMAIL,required" json:"client_email"`
	ClientId                string        `env:"FIREBASE_CLIENT_ID,required" json:"client_id"`
	AuthUri                 string        `env:"FIREBASE_AUTH_URI,required" json:"auth_uri"`
	TokenUri                string        `env:"FIREBASE_TOKEN_URI,required" json:"token_uri"`
	AuthProviderX509CertUrl string        `env:"FIREBASE_AUTH_PROVIDER_X509_CERT_URL,required" json:"auth_provider_x509_cert_url"`
	ClientX509CertUrl       string        `env:"FIREBASE_CLIENT_X509_CERT_URL,required" json:"client_x509_cert_url"`
	WriteTimeoutSecond      time.Duration `env:"FIREBASE_WRITE_TIMEOUT_SECOND"`
	WebApiKey               string        `env:"FIREBASE_WEB_API_KEY"`
}

type Server struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`
	// AuthRequired enforces bearer-token verification on the recommendation
	// endpoint. When false a present token is still verified.
	AuthRequired bool `env:"AUTH_REQUIRED" envDefault:"false"`
}

type Books struct {
	ApiKey     string `env:"BOOKS_API_KEY"`
	MaxResults int64  `env:"BOOKS_MAX_RESULTS" envDefault:"20"`
}

// Admin credentials are server configuration, never embedded in client code.
type Admin struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

type App struct {
	// Id namespaces all per-user documents under artifacts/{appId}.
	Id        string `env:"BOOKNEST_APP_ID" envDefault:"local-dev-booknest"`
	CachePath string `env:"BOOKNEST_CACHE_PATH" envDefault:".booknest-cache"`
	// FunctionUrl is where the deployed recommendation function answers.
	FunctionUrl string `env:"BOOKNEST_FUNCTION_URL" envDefault:"http://localhost:8080/generateBookRecommendation"`
}

type Config struct {
	GenAI
	Firebase
	Server
	Books
	Admin
	App
}

func LoadConfigOrPanic() Config {
	var config *Config = new(Config)
	if err := env.Parse(config); err != nil {
		panic(err)
	}

	config.normalize()
	return *config
}

func (c *Config) normalize() {

	decodedBytes, err := base64.StdEncoding.DecodeString(c.Firebase.PrivateKey)
	if err != nil {
		panic(err)
	}
	c.Firebase.PrivateKey = string(decodedBytes)
	c.Firebase.PrivateKey = strings.ReplaceAll(c.Firebase.PrivateKey, "\\n", "\n")

	if c.WriteTimeoutSecond == 0 {
		c.WriteTimeoutSecond = time.Second * 30
	}
}
