package config

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/consul/api"
)

// DefaultConsulKVKey 约定的配置存放位置（rental-service 单二进制，一个 key 即可）。
const DefaultConsulKVKey = "easywheels/rental-service/config"

// LoadConfigFromConsulKV 从 Consul KV 读取配置并解析为 Config。
//
// value 必须是与 configs/rental-service.json 同构的 JSON：
// server/database/consul/jaeger/auth/rental/log 各段缺省时落到零值，
// 由各消费方自行兜底（如 session_max_age<=0 用默认 7 天）。
// 只做一次性“读取 + 解析”，不 watch；改配置后重启生效。
func LoadConfigFromConsulKV(consulHost string, consulPort int, key string) (*Config, error) {
	if key == "" {
		key = DefaultConsulKVKey
	}

	c, err := api.NewClient(&api.Config{
		Address: fmt.Sprintf("%s:%d", consulHost, consulPort),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	pair, _, err := c.KV().Get(key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get consul kv key=%s: %w", key, err)
	}
	if pair == nil || len(pair.Value) == 0 {
		return nil, fmt.Errorf("consul kv key=%s is empty or not found", key)
	}

	cfg := &Config{}
	if err := json.Unmarshal(pair.Value, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal consul kv json key=%s: %w", key, err)
	}
	if cfg.Server.Name == "" {
		cfg.Server.Name = "rental-service"
	}
	return cfg, nil
}
