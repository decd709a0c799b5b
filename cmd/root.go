package cmd

import (
	"log"

	"github.com/dvasyliev/cv-responder/internal/apify"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cv-responder"
)

type Config struct {
	Search   *SearchConfig   `mapstructure:"search"`
	Resume   *ResumeConfig   `mapstructure:"resume"`
	Contacts *ContactsConfig `mapstructure:"contacts"`
	Mail     *MailConfig     `mapstructure:"mail"`
	AI       *AIConfig       `mapstructure:"ai"`
	Delivery *DeliveryConfig `mapstructure:"delivery"`
	Exclude  *struct {
		Companies []string
	} `mapstructure:"exclude"`
}

type SearchConfig struct {
	apify.SearchParams `mapstructure:",squash"`

	TokenFile string `mapstructure:"token-file"`
}

type ResumeConfig struct {
	DocumentID         string `mapstructure:"document-id"`
	ServiceAccountFile string `mapstructure:"service-account-file"`
}

type ContactsConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

type MailConfig struct {
	From         string `mapstructure:"from"`
	Signature    string `mapstructure:"signature"`
	Username     string `mapstructure:"username"`
	PasswordFile string `mapstructure:"password-file"`
	SMTPHost     string `mapstructure:"smtp-host"`
	SMTPPort     int    `mapstructure:"smtp-port"`
	IMAPAddr     string `mapstructure:"imap-addr"`
	SentFolder   string `mapstructure:"sent-folder"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type DeliveryConfig struct {
	Stylesheet string `mapstructure:"stylesheet"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-responder is a simple cli that finds relevant job listings and emails a tailored resume to HR contacts",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"search.token-file":      "APIFY_TOKEN_FILE",
		"contacts.api-key-file":  "HUNTER_API_KEY_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"mail.password-file":     "SMTP_PASSWORD_FILE",
	}

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-responder.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
