// Package config loads engine configuration from yaml with environment
// overrides (VELA_HTTP_ADDR overrides http.addr, and so on).
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	WAL struct {
		Dir         string `mapstructure:"dir"`
		SegmentSize int64  `mapstructure:"segment_size"`
		Codec       string `mapstructure:"codec"`
	} `mapstructure:"wal"`

	Snapshot struct {
		Dir      string        `mapstructure:"dir"`
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"snapshot"`

	Outbox struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"outbox"`

	Kafka struct {
		Brokers       []string      `mapstructure:"brokers"`
		TradeTopic    string        `mapstructure:"trade_topic"`
		DepthTopic    string        `mapstructure:"depth_topic"`
		DrainInterval time.Duration `mapstructure:"drain_interval"`
		DepthInterval time.Duration `mapstructure:"depth_interval"`
	} `mapstructure:"kafka"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("vela")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("VELA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// A missing file is fine: defaults plus env cover a dev run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("wal.dir", "./data/wal")
	v.SetDefault("wal.segment_size", 4<<20)
	v.SetDefault("wal.codec", "json")
	v.SetDefault("snapshot.dir", "./data/snapshot")
	v.SetDefault("snapshot.interval", time.Minute)
	v.SetDefault("outbox.dir", "./data/outbox")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.trade_topic", "vela.trades")
	v.SetDefault("kafka.depth_topic", "vela.depth")
	v.SetDefault("kafka.drain_interval", 250*time.Millisecond)
	v.SetDefault("kafka.depth_interval", time.Second)
}
