package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ByLCY/typeline/layout"
)

// Config 描述 CLI 的 TOML 配置：字体资源与缺省布局参数。
//
//	[fonts]
//	Body = "assets/fonts/Inter-Regular.ttf"
//
//	[defaults]
//	max_width = "60mm"
//	max_lines = 4
//	line_spacing = "2mm"
//
//	[defaults.style]
//	font = "Body"
//	size = "12pt"
type Config struct {
	Fonts    map[string]string `toml:"fonts"`
	Defaults DefaultsSection   `toml:"defaults"`
}

// DefaultsSection 是 DSL 未显式声明时的缺省值。
type DefaultsSection struct {
	MaxWidth    string            `toml:"max_width"`
	MaxLines    int               `toml:"max_lines"`
	LineSpacing string            `toml:"line_spacing"`
	Style       map[string]string `toml:"style"`
}

// Load 读取并解析 TOML 配置文件。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 TOML 配置内容。
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return &cfg, nil
}

// Constraints 将缺省约束解析为布局约束（未设置的字段保持零值，
// 由布局入口在缺失时拒绝）。
func (c *Config) Constraints() layout.Constraints {
	if c == nil {
		return layout.Constraints{}
	}
	return layout.Constraints{
		MaxWidth: layout.ParseLength(c.Defaults.MaxWidth).ToMM(),
		MaxLines: c.Defaults.MaxLines,
	}
}

// LineSpacing 返回缺省行距（mm）。
func (c *Config) LineSpacing() float64 {
	if c == nil {
		return 0
	}
	return layout.ParseLength(c.Defaults.LineSpacing).ToMM()
}

// StyleDefaults 返回缺省样式键值（可能为 nil）。
func (c *Config) StyleDefaults() map[string]string {
	if c == nil {
		return nil
	}
	return c.Defaults.Style
}
