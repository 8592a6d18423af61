package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体来自 Go 字体家族（golang.org/x/image/font/gofont），
// 随二进制一起分发，测量后端在没有外部字体时以 go-regular 兜底。
var builtins = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-italic":  goitalic.TTF,
	"go-mono":    gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:go-regular" 或直接 "go-regular"。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(name, "embed:")
	data, ok := builtins[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未注册", key)
	}
	return data, nil
}

// Names 返回全部内置字体名，便于 CLI 的提示输出。
func Names() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
