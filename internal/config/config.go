package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

type Config struct {
	App struct {
		Port      string `mapstructure:"port"`
		Env       string `mapstructure:"env"`
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"app"`
	DB struct {
		Driver        string `mapstructure:"driver"`
		DSN           string `mapstructure:"dsn"`
		MongoURI      string `mapstructure:"mongo_uri"`
		MongoDatabase string `mapstructure:"mongo_database"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Media struct {
		Provider       string `mapstructure:"provider"`
		URLEndpoint    string `mapstructure:"url_endpoint"`
		MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	} `mapstructure:"media"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	S3 struct {
		Bucket string `mapstructure:"bucket"`
		Region string `mapstructure:"region"`
	} `mapstructure:"s3"`
	Cache struct {
		FeedTTL time.Duration `mapstructure:"feed_ttl"`
	} `mapstructure:"cache"`
	HTTP struct {
		CORSOrigins    []string `mapstructure:"cors_origins"`
		RateLimitRPS   float64  `mapstructure:"rate_limit_rps"`
		RateLimitBurst int      `mapstructure:"rate_limit_burst"`

		// Set only behind a proxy that overwrites X-Forwarded-For.
		TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
	} `mapstructure:"http"`
	Backup struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"backup"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Tracing struct {
		OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
		SampleRatio  float64 `mapstructure:"sample_ratio"`
	} `mapstructure:"tracing"`
}

// LoadConfig reads .env, an optional config.yaml under path, then the
// environment. Later sources win.
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()

	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.public_url", "APP_PUBLIC_URL")
	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.mongo_uri", "MONGODB_URI")
	v.BindEnv("db.mongo_database", "MONGODB_DATABASE")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	v.BindEnv("media.provider", "MEDIA_PROVIDER")
	v.BindEnv("media.url_endpoint", "MEDIA_URL_ENDPOINT")
	v.BindEnv("media.max_upload_bytes", "MEDIA_MAX_UPLOAD_BYTES")
	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("s3.bucket", "S3_BUCKET_NAME")
	v.BindEnv("s3.region", "AWS_REGION")

	v.BindEnv("cache.feed_ttl", "CACHE_FEED_TTL")
	v.BindEnv("http.cors_origins", "HTTP_CORS_ORIGINS")
	v.BindEnv("http.rate_limit_rps", "HTTP_RATE_LIMIT_RPS")
	v.BindEnv("http.rate_limit_burst", "HTTP_RATE_LIMIT_BURST")
	v.BindEnv("http.trust_proxy_headers", "HTTP_TRUST_PROXY_HEADERS")
	v.BindEnv("backup.interval", "BACKUP_INTERVAL")
	v.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")
	v.BindEnv("tracing.sample_ratio", "TRACING_SAMPLE_RATIO")
	v.BindEnv("log.level", "LOG_LEVEL")

	err = v.Unmarshal(&cfg)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.public_url", "http://localhost:8080")
	v.SetDefault("db.driver", DriverMongo)
	v.SetDefault("db.mongo_database", "vidshare")
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("media.provider", ProviderCloudinary)
	v.SetDefault("media.max_upload_bytes", int64(100<<20))
	v.SetDefault("cache.feed_ttl", 30*time.Second)
	v.SetDefault("http.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("http.rate_limit_rps", 5.0)
	v.SetDefault("http.rate_limit_burst", 10)
	v.SetDefault("http.trust_proxy_headers", false)
	v.SetDefault("tracing.sample_ratio", 1.0)
}
