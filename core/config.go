package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
)

const (
	// Referenced from the root of the repository.
	cDevConfigPath  = "config.dev.json"
	cProdBucketName = "tracklift-config"
	cProdObjectPath = "config.prod.json"
)

type ServerMode string

const (
	ServerModeDev  ServerMode = "DEV"
	ServerModeProd ServerMode = "PROD"
)

type Config struct {
	ServerMode ServerMode `json:"serverMode"`
	Port       int        `json:"port"`

	YoutubeConfig    YoutubeConfig    `json:"youtubeConfig"`
	SpotifyConfig    SpotifyConfig    `json:"spotifyConfig"`
	AppleMusicConfig AppleMusicConfig `json:"appleMusicConfig"`
	DatabaseConfig   DatabaseConfig   `json:"databaseConfig"`
	LlmConfig        LlmConfig        `json:"llmConfig"`
}

// YoutubeConfig holds the Data API key used for comment and video reads.
// Reads are key-only; no user OAuth is involved.
type YoutubeConfig struct {
	ApiKey string `json:"apiKey"`
}

// SpotifyConfig drives both catalog search (client credentials) and playlist
// writes (the pre-provisioned refresh token; token lifecycle is out of scope).
type SpotifyConfig struct {
	ClientId     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RefreshToken string `json:"refreshToken"`
}

// AppleMusicConfig carries the developer key material used to mint ES256
// developer tokens, plus the user token for library writes.
type AppleMusicConfig struct {
	TeamId         string `json:"teamId"`
	KeyId          string `json:"keyId"`
	PrivateKeyPem  string `json:"privateKeyPem"`
	MusicUserToken string `json:"musicUserToken"`
	Storefront     string `json:"storefront"`
}

type DatabaseConfig struct {
	// DatabaseUrl enables the persistent search cache when non-empty.
	DatabaseUrl string `json:"databaseUrl"`
}

type LlmConfig struct {
	Enabled      bool   `json:"enabled"`
	GeminiApiKey string `json:"geminiApiKey"`
}

// MustGetConfig loads the application configuration.
// It prioritizes environment variables. If the key environment variables are
// not set it falls back to a local dev file, then to the production object in
// GCS.
func MustGetConfig() *Config {
	if config, loaded := tryLoadConfigFromEnv(); loaded {
		Printf("Configuration successfully loaded from environment variables.")
		return config
	}

	Warningf("Environment variables for configuration not found. Falling back to file-based methods.")

	devConfig, err := maybeGetDevConfig()
	if err == nil {
		Printf("Dev config loaded!")
		return devConfig
	}
	Warningf(
		"failed to get dev config because %s. Falling back to production config",
		err.Error(),
	)

	prodConfig, err := getProdConfig()
	if err != nil {
		Errorf("failed to get production config")
		panic(err)
	}
	return prodConfig
}

// tryLoadConfigFromEnv attempts to build the configuration from environment
// variables. The presence of YOUTUBE_API_KEY signals that this method applies.
func tryLoadConfigFromEnv() (*Config, bool) {
	if os.Getenv("YOUTUBE_API_KEY") == "" {
		return nil, false
	}

	serverMode := ServerModeProd
	if strings.ToUpper(getEnv("SERVER_MODE", "PROD")) == "DEV" {
		serverMode = ServerModeDev
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		Warningf("Could not parse PORT: %v. Using default 8080.", err)
		port = 8080
	}

	config := &Config{
		ServerMode: serverMode,
		Port:       port,
		YoutubeConfig: YoutubeConfig{
			ApiKey: getRequiredEnv("YOUTUBE_API_KEY"),
		},
		SpotifyConfig: SpotifyConfig{
			ClientId:     getRequiredEnv("SPOTIFY_CLIENT_ID"),
			ClientSecret: getRequiredEnv("SPOTIFY_CLIENT_SECRET"),
			RefreshToken: getEnv("SPOTIFY_REFRESH_TOKEN", ""),
		},
		AppleMusicConfig: AppleMusicConfig{
			TeamId:         getEnv("APPLE_TEAM_ID", ""),
			KeyId:          getEnv("APPLE_KEY_ID", ""),
			PrivateKeyPem:  getEnv("APPLE_PRIVATE_KEY", ""),
			MusicUserToken: getEnv("APPLE_MUSIC_USER_TOKEN", ""),
			Storefront:     getEnv("APPLE_STOREFRONT", "us"),
		},
		DatabaseConfig: DatabaseConfig{
			DatabaseUrl: getEnv("DATABASE_URL", ""),
		},
		LlmConfig: LlmConfig{
			Enabled:      getEnvAsBool("LLM_ENABLED", false),
			GeminiApiKey: getEnv("GEMINI_API_KEY", ""),
		},
	}

	return config, true
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getRequiredEnv retrieves an environment variable and panics if it is not set.
// This prevents the application from starting with a missing critical configuration.
func getRequiredEnv(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		errMessage := fmt.Sprintf("Required environment variable '%s' is not set", key)
		Errorf(errMessage)
		panic(errMessage)
	}
	return value
}

// getEnvAsBool reads an environment variable as a boolean, returning a fallback if not set or invalid.
func getEnvAsBool(key string, fallback bool) bool {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		Warningf("Could not parse environment variable '%s' as boolean: %v. Using default value: %v", key, err, fallback)
		return fallback
	}
	return b
}

func maybeGetDevConfig() (*Config, error) {
	bytes, err := os.ReadFile(cDevConfigPath)
	if err != nil {
		return nil, WrappedError(err, "failed to read dev config file")
	}
	config, err := parseConfigFileBytes(bytes)
	if err != nil {
		return nil, WrappedError(err, "failed to parse dev config file bytes")
	}
	return config, nil
}

func getProdConfig() (*Config, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, WrappedError(err, "failed to create GCS client")
	}
	defer client.Close()

	rc, err := client.Bucket(cProdBucketName).Object(cProdObjectPath).NewReader(ctx)
	if err != nil {
		return nil, WrappedError(err, "failed to open config file from GCS")
	}
	defer rc.Close()

	bytes, err := io.ReadAll(rc)
	if err != nil {
		return nil, WrappedError(err, "failed to read config file bytes from GCS")
	}

	config, err := parseConfigFileBytes(bytes)
	if err != nil {
		return nil, WrappedError(err, "failed to parse prod config bytes")
	}

	return config, nil
}

func parseConfigFileBytes(bytes []byte /*const*/) (*Config, error) {
	config := &Config{}
	if err := json.Unmarshal(bytes, config); err != nil {
		return nil, WrappedError(err, "failed to unmarshal config bytes")
	}
	if config.YoutubeConfig.ApiKey == "" {
		return nil, NewError("config file is missing the YouTube API key")
	}
	if config.Port == 0 {
		config.Port = 8080
	}
	return config, nil
}
