package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/syncroom/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	chanlogDir = configVar[string]{
		envKey:       "SERVER_CHANLOG_DIR",
		flagKey:      "chanlog-dir",
		defaultValue: "chanlogs",
	}
	store = configVar[string]{
		envKey:       "SERVER_STORE",
		flagKey:      "store",
		defaultValue: app.StoreRedis,
	}
	sqlitePath = configVar[string]{
		envKey:       "SQLITE_PATH",
		flagKey:      "sqlite-path",
		defaultValue: "data/syncroom.db",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
	roomExpire = configVar[time.Duration]{
		envKey:       "ROOM_EXPIRE",
		flagKey:      "room-expire",
		defaultValue: 14 * 24 * time.Hour,
	}
	youtubeAPIKey = configVar[string]{
		envKey:       "YOUTUBE_API_KEY",
		flagKey:      "youtube-api-key",
		defaultValue: "",
	}
	soundcloudClientID = configVar[string]{
		envKey:       "SOUNDCLOUD_CLIENT_ID",
		flagKey:      "soundcloud-client-id",
		defaultValue: "",
	}
	resolverTimeout = configVar[time.Duration]{
		envKey:       "RESOLVER_TIMEOUT",
		flagKey:      "resolver-timeout",
		defaultValue: 15 * time.Second,
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(chanlogDir.flagKey, chanlogDir.defaultValue, "Directory for per-room logs, empty to disable")
	pflag.String(store.flagKey, store.defaultValue, "Persistence store (redis or sqlite)")
	pflag.String(sqlitePath.flagKey, sqlitePath.defaultValue, "SQLite database path")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Duration(roomExpire.flagKey, roomExpire.defaultValue, "Expiry of saved room snapshots in redis")
	pflag.String(youtubeAPIKey.flagKey, youtubeAPIKey.defaultValue, "YouTube Data API key")
	pflag.String(soundcloudClientID.flagKey, soundcloudClientID.defaultValue, "SoundCloud client id")
	pflag.Duration(resolverTimeout.flagKey, resolverTimeout.defaultValue, "Timeout of one media metadata lookup")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(chanlogDir.flagKey, chanlogDir.envKey)
	viper.BindEnv(store.flagKey, store.envKey)
	viper.BindEnv(sqlitePath.flagKey, sqlitePath.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)
	viper.BindEnv(roomExpire.flagKey, roomExpire.envKey)
	viper.BindEnv(youtubeAPIKey.flagKey, youtubeAPIKey.envKey)
	viper.BindEnv(soundcloudClientID.flagKey, soundcloudClientID.envKey)
	viper.BindEnv(resolverTimeout.flagKey, resolverTimeout.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(chanlogDir.flagKey, chanlogDir.defaultValue)
	viper.SetDefault(store.flagKey, store.defaultValue)
	viper.SetDefault(sqlitePath.flagKey, sqlitePath.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)
	viper.SetDefault(roomExpire.flagKey, roomExpire.defaultValue)
	viper.SetDefault(youtubeAPIKey.flagKey, youtubeAPIKey.defaultValue)
	viper.SetDefault(soundcloudClientID.flagKey, soundcloudClientID.defaultValue)
	viper.SetDefault(resolverTimeout.flagKey, resolverTimeout.defaultValue)

	config := &app.AppConfig{
		Host:               viper.GetString(host.flagKey),
		Port:               viper.GetInt(port.flagKey),
		LogLevel:           viper.GetString(logLevel.flagKey),
		ChanlogDir:         viper.GetString(chanlogDir.flagKey),
		Store:              viper.GetString(store.flagKey),
		SqlitePath:         viper.GetString(sqlitePath.flagKey),
		RedisPort:          viper.GetInt(redisPort.flagKey),
		RedisHost:          viper.GetString(redisHost.flagKey),
		RedisPassword:      viper.GetString(redisPassword.flagKey),
		RoomExpire:         viper.GetDuration(roomExpire.flagKey),
		YouTubeAPIKey:      viper.GetString(youtubeAPIKey.flagKey),
		SoundCloudClientID: viper.GetString(soundcloudClientID.flagKey),
		ResolverTimeout:    viper.GetDuration(resolverTimeout.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
