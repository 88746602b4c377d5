package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreBackend  = "backend"
)

// Email services
const (
	EmailConsole  = "console"
	EmailSendgrid = "sendgrid"
)

type (
	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string
		Store        string // memory | postgres | backend
		Server       ServerConfig
		Database     DatabaseConfig
		Backend      BackendConfig
		Email        EmailConfig
		Features     FeatureConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		DebugHost          string
		ReadTimeout        time.Duration
		WriteTimeout       time.Duration
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DisableReqLogs     bool
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Name          string
		DisableTLS    bool
	}

	// BackendConfig points at the upstream REST API that owns lifecycle statuses.
	BackendConfig struct {
		BaseURL          string
		Token            string
		Timeout          time.Duration
		FailureThreshold uint32
		BreakerInterval  time.Duration
		BreakerTimeout   time.Duration
	}

	EmailConfig struct {
		Service         string // console | sendgrid
		SendgridApiKey  string
		FromName        string
		FromAddress     string
		FrontendBaseURL string // base of the links in notification emails
	}
)

func (ec EmailConfig) From() mail.Address {
	return mail.Address{Name: ec.FromName, Address: ec.FromAddress}
}

func (dbConf DatabaseConfig) Address() string {
	return net.JoinHostPort(dbConf.Host, strconv.Itoa(dbConf.Port))
}

func newViper() *viper.Viper {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "EMS Lifecycle")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("store", StoreMemory)

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverReadTimeout", 5*time.Second)
	v.SetDefault("serverWriteTimeout", 10*time.Second)
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("serverDisableReqLogs", false)

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbUser", "ems")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbAdminUser", "")
	v.SetDefault("dbAdminPassword", "")
	v.SetDefault("dbName", "ems")
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("backendBaseURL", "http://localhost:5000/api")
	v.SetDefault("backendToken", "")
	v.SetDefault("backendTimeout", 5*time.Second)
	v.SetDefault("backendFailureThreshold", 5)
	v.SetDefault("backendBreakerInterval", time.Minute)
	v.SetDefault("backendBreakerTimeout", 30*time.Second)

	v.SetDefault("emailService", EmailConsole)
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("emailFromName", "EMS")
	v.SetDefault("emailFromAddress", "noreply@ems.local")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")

	v.SetDefault("featureProjection", true)
	v.SetDefault("featureEntities", true)
	v.SetDefault("featureActions", true)
	v.SetDefault("featureVocabulary", true)
	return v
}

// NewConfig loads the configuration for the current ENV.
// Values come from (by priority): environment variables prefixed with ENV (eg. PROD_DBHOST),
// config/.env.<env> (if it exists) and the defaults above.
func NewConfig() *Config {
	v := newViper()

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return configFrom(v, env)
}

func configFrom(v *viper.Viper, env string) *Config {
	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Store:        strings.ToLower(v.GetString("store")),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			DebugHost:          v.GetString("serverDebugHost"),
			ReadTimeout:        v.GetDuration("serverReadTimeout"),
			WriteTimeout:       v.GetDuration("serverWriteTimeout"),
			ShutdownTimeout:    v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			DisableReqLogs:     v.GetBool("serverDisableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetInt("dbPort"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			Name:          v.GetString("dbName"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Backend: BackendConfig{
			BaseURL:          strings.TrimRight(v.GetString("backendBaseURL"), "/"),
			Token:            v.GetString("backendToken"),
			Timeout:          v.GetDuration("backendTimeout"),
			FailureThreshold: v.GetUint32("backendFailureThreshold"),
			BreakerInterval:  v.GetDuration("backendBreakerInterval"),
			BreakerTimeout:   v.GetDuration("backendBreakerTimeout"),
		},
		Email: EmailConfig{
			Service:         strings.ToLower(v.GetString("emailService")),
			SendgridApiKey:  v.GetString("sendgridApiKey"),
			FromName:        v.GetString("emailFromName"),
			FromAddress:     v.GetString("emailFromAddress"),
			FrontendBaseURL: strings.TrimRight(v.GetString("frontendBaseURL"), "/"),
		},
		Features: FeatureConfig{
			Vocabulary: v.GetBool("featureVocabulary"),
			Projection: v.GetBool("featureProjection"),
			Entities:   v.GetBool("featureEntities"),
			Actions:    v.GetBool("featureActions"),
		},
	}
}

// NewTestConfig returns the defaults with test mode on; it never reads the environment.
func NewTestConfig() *Config {
	v := newViper()
	v.Set("testMode", true)
	v.Set("debug", false)
	v.Set("secretKey", "secret")
	v.Set("jwtExpirationDelta", 10*time.Minute)
	return configFrom(v, "TEST")
}
