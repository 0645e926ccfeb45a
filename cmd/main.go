package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/tokenscope/memebot/config"
	"github.com/tokenscope/memebot/core/db"
	"github.com/tokenscope/memebot/core/engine"
	"github.com/tokenscope/memebot/core/feed"
	"github.com/tokenscope/memebot/core/notify"
	"github.com/tokenscope/memebot/core/redis"
	"github.com/tokenscope/memebot/core/social"
	"github.com/tokenscope/memebot/core/web"
	"github.com/tokenscope/memebot/utils/logger"
)

func main() {
	configPath := flag.String("config_path", "./", "config file")
	logicLogFile := flag.String("logic_log_file", "./log/memebot.log", "logic log file")
	flag.Parse()

	//init logic logger
	logger.Init(*logicLogFile)

	//set log level
	logger.SetLogLevel("debug")

	err := config.LoadConf(*configPath)
	if err != nil {
		log.Fatal("load config failed:", err)
	}

	database := db.NewDB(config.GetPostgresqlConfig())

	redisClient, err := redis.NewClient(config.GetRedisConfig())
	if err != nil {
		log.Fatal("init redis failed:", err)
	}

	apiCfg := config.GetAPIConfig()
	timeout := time.Duration(apiCfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	feeds := []engine.Discovery{
		feed.NewDexScreenerClient(apiCfg.DexScreenerURL, timeout),
	}

	kafkaCfg := config.GetKafkaConfig()
	if kafkaCfg.Enabled {
		kafkaFeed, err := feed.NewKafkaFeed(kafkaCfg)
		if err != nil {
			log.Fatal("init kafka feed failed:", err)
		}
		if err := kafkaFeed.Start(); err != nil {
			log.Fatal("start kafka feed failed:", err)
		}
		defer kafkaFeed.Close()
		feeds = append(feeds, kafkaFeed)
	}

	details := feed.NewBirdeyeClient(apiCfg.BirdeyeURL, apiCfg.BirdeyeAPIKey, timeout, redisClient)
	security := feed.NewSecurityService(
		feed.NewGoPlusClient(apiCfg.GoPlusURL, timeout),
		feed.NewChainClient(apiCfg.SolanaRPCURL),
		redisClient,
	)
	tweets := social.NewTwitterClient(apiCfg.TwitterURL, apiCfg.TwitterBearer, timeout)
	scorer := social.NewLLMScorer(apiCfg.LLMURL, apiCfg.LLMAPIKey, apiCfg.LLMModel, 30*time.Second)

	tgCfg := config.GetTelegramConfig()
	notifier, err := notify.NewTelegramNotifier(tgCfg.BotToken, tgCfg.ChatID, tgCfg.AdminChatID)
	if err != nil {
		log.Fatal("init telegram failed:", err)
	}

	scanCfg := config.GetScanConfig()
	store := engine.NewTokenStore(database)
	cooldown := engine.NewCooldownManager(store, scanCfg.MaxAlertsPerHour, scanCfg.CooldownMinutes, scanCfg.ReAlertScoreMin)
	cache := engine.NewRetryCache(scanCfg.CacheMaxEntries)
	filter := engine.NewHardFilter(scanCfg.Blacklist)
	scoring := engine.NewScoringEngine(scanCfg.MinMarketCap, scanCfg.MaxMarketCap, scanCfg.MinLiquidity)
	phases := engine.NewPhaseDetector(scanCfg.MinMarketCap, scanCfg.MaxMarketCap)

	scan := engine.NewScanService(feeds, details, security, tweets, scorer, store, cooldown, cache, filter, scoring, phases, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scan.Start(ctx)

	web.Run(scan)
}
