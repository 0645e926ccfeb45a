package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tokenscope/memebot/utils/logger"
)

// one database one instance
type PostgresqlConfig struct {
	Host       string
	Port       int64
	Account    string
	Password   string
	DBName     string
	SchemaName string
}

type RedisConfig struct {
	Host         string `mapstructure:"Host"`
	DB           int64  `mapstructure:"DB"`
	Password     string `mapstructure:"Password"`
	MinIdleConns int64  `mapstructure:"MinIdleConns"`
}

type KafkaConfig struct {
	Host           string
	CandidateTopic string
	CandidateGroup string
	Protocol       string
	Username       string
	Password       string
	CAPath         string
	Enabled        bool
}

type TelegramConfig struct {
	BotToken    string
	ChatID      int64
	AdminChatID int64
}

type APIConfig struct {
	DexScreenerURL string
	BirdeyeURL     string
	BirdeyeAPIKey  string
	GoPlusURL      string
	SolanaRPCURL   string
	TwitterURL     string
	TwitterBearer  string
	LLMURL         string
	LLMAPIKey      string
	LLMModel       string
	TimeoutSec     int
}

// ScanConfig carries the evaluation policy. Gate thresholds that are part of
// the filter contract live as constants next to the filter itself.
type ScanConfig struct {
	TickIntervalSec int
	BatchSize       int
	BatchPauseMs    int

	MinMarketCap float64
	MaxMarketCap float64
	MinLiquidity float64

	WeakScoreMin     int
	CombinedScoreMin int
	TechFactor       float64
	VibeFactor       float64

	CooldownMinutes  int
	ReAlertScoreMin  int
	MaxAlertsPerHour int

	CacheMaxEntries int

	Blacklist []string
	Watchlist []string
}

// struct decode must has tag
type Config struct {
	PostgresqlConfig PostgresqlConfig `mapstructure:"PostgresqlConfig"`
	RedisConf        RedisConfig      `mapstructure:"RedisConfig"`
	KafkaConf        KafkaConfig      `mapstructure:"KafkaConfig"`
	TelegramConf     TelegramConfig   `mapstructure:"TelegramConfig"`
	APIConf          APIConfig        `mapstructure:"APIConfig"`
	ScanConf         ScanConfig       `mapstructure:"ScanConfig"`
}

var (
	configMutex = sync.RWMutex{}
	config      Config

	configViper     *viper.Viper
	configFlyChange []chan bool
)

func RegistConfChange(c chan bool) {
	configFlyChange = append(configFlyChange, c)
}

func notifyConfChange() {
	for i := 0; i < len(configFlyChange); i++ {
		configFlyChange[i] <- true
	}
}

func watchConfig(c *viper.Viper) error {
	c.WatchConfig()
	cfn := func(e fsnotify.Event) {
		logger.Logrus.WithFields(logrus.Fields{"change": e.String()}).Info("config change and reload it")
		reloadConfig(c)
		notifyConfChange()
	}

	c.OnConfigChange(cfn)
	return nil
}

func LoadConf(configFilePath string) error {
	config = Config{}
	configMutex.Lock()
	defer configMutex.Unlock()

	configViper = viper.New()
	configViper.SetConfigName("config")
	configViper.AddConfigPath(configFilePath) //endwith "/"
	configViper.SetConfigType("yaml")

	if err := configViper.ReadInConfig(); err != nil {
		return err
	}
	if err := configViper.Unmarshal(&config); err != nil {
		return err
	}

	ApplyScanDefaults(&config.ScanConf)

	logger.Logrus.WithFields(logrus.Fields{"Config": config}).Info("Load config success")

	if err := watchConfig(configViper); err != nil {
		return err
	}
	return nil
}

func reloadConfig(c *viper.Viper) {
	configMutex.Lock()
	defer configMutex.Unlock()

	if err := c.ReadInConfig(); err != nil {
		logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err.Error()}).Error("config ReLoad failed")
	}

	if err := configViper.Unmarshal(&config); err != nil {
		logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err.Error()}).Error("unmarshal config failed")
	}

	ApplyScanDefaults(&config.ScanConf)

	logger.Logrus.WithFields(logrus.Fields{"config": config}).Info("Config ReLoad Success")
}

// ApplyScanDefaults fills zero-valued policy fields so a partially
// specified (or absent) scan section still yields a sane policy.
func ApplyScanDefaults(c *ScanConfig) {
	if c.TickIntervalSec <= 0 {
		c.TickIntervalSec = 60
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 2
	}
	if c.BatchPauseMs <= 0 {
		c.BatchPauseMs = 500
	}
	if c.MinMarketCap <= 0 {
		c.MinMarketCap = 20000
	}
	if c.MaxMarketCap <= 0 {
		c.MaxMarketCap = 100000
	}
	if c.MinLiquidity <= 0 {
		c.MinLiquidity = 5000
	}
	if c.WeakScoreMin <= 0 {
		c.WeakScoreMin = 5
	}
	if c.CombinedScoreMin <= 0 {
		c.CombinedScoreMin = 60
	}
	if c.TechFactor <= 0 {
		c.TechFactor = 3
	}
	if c.VibeFactor <= 0 {
		c.VibeFactor = 0.5
	}
	if c.CooldownMinutes <= 0 {
		c.CooldownMinutes = 120
	}
	if c.ReAlertScoreMin <= 0 {
		c.ReAlertScoreMin = 80
	}
	if c.MaxAlertsPerHour <= 0 {
		c.MaxAlertsPerHour = 6
	}
	if c.CacheMaxEntries <= 0 {
		c.CacheMaxEntries = 1000
	}
	if len(c.Blacklist) == 0 {
		c.Blacklist = []string{"test", "rug", "scam", "presale", "airdrop", "faucet"}
	}
}

func GetPostgresqlConfig() PostgresqlConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.PostgresqlConfig
}

func GetRedisConfig() RedisConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.RedisConf
}

func GetKafkaConfig() KafkaConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.KafkaConf
}

func GetTelegramConfig() TelegramConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.TelegramConf
}

func GetAPIConfig() APIConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.APIConf
}

func GetScanConfig() ScanConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.ScanConf
}
