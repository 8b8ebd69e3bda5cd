package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Server struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Overpass struct {
	URL                   string   `mapstructure:"url"`
	RequestTimeoutSeconds int      `mapstructure:"requestTimeoutSeconds"`
	QueryTimeoutSeconds   int      `mapstructure:"queryTimeoutSeconds"`
	RequestsPerSecond     float64  `mapstructure:"requestsPerSecond"`
	Amenities             []string `mapstructure:"amenities"`
}

type Ollama struct {
	Host           string `mapstructure:"host"`
	Port           string `mapstructure:"port"`
	EmbeddingModel string `mapstructure:"embeddingModel"`
	ChatModel      string `mapstructure:"chatModel"`
}

func (o *Ollama) Address() string {
	return fmt.Sprintf("http://%s:%s", o.Host, o.Port)
}

// Encoder selects and tunes the embedding backend. Backend is either
// "ollama" (served model) or "onnx" (local in-process model).
type Encoder struct {
	Backend   string `mapstructure:"backend"`
	BatchSize int    `mapstructure:"batchSize"`
	Workers   int    `mapstructure:"workers"`
}

type ONNX struct {
	ModelPath     string `mapstructure:"modelPath"`
	TokenizerPath string `mapstructure:"tokenizerPath"`
	Library       string `mapstructure:"library"`
	MaxSeqLen     int    `mapstructure:"maxSeqLen"`
}

type Chat struct {
	HistoryDB      string `mapstructure:"historyDb"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

type Search struct {
	DefaultRadiusMeters float64 `mapstructure:"defaultRadiusMeters"`
	MaxRadiusMeters     float64 `mapstructure:"maxRadiusMeters"`
	DefaultTopK         int     `mapstructure:"defaultTopK"`
}

type Config struct {
	Server   Server   `mapstructure:"server"`
	Overpass Overpass `mapstructure:"overpass"`
	Ollama   Ollama   `mapstructure:"ollama"`
	Encoder  Encoder  `mapstructure:"encoder"`
	ONNX     ONNX     `mapstructure:"onnx"`
	Chat     Chat     `mapstructure:"chat"`
	Search   Search   `mapstructure:"search"`
}

func LoadConfig() *Config {
	return LoadConfigFrom("./config/config.yaml")
}

func LoadConfigFrom(path string) *Config {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	return &config
}
