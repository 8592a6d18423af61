package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ByLCY/typeline/config"
	"github.com/ByLCY/typeline/dsl"
	"github.com/ByLCY/typeline/job"
	canvasmeasure "github.com/ByLCY/typeline/measure/canvas"
	"github.com/ByLCY/typeline/measure/fixedfont"
)

func main() {
	input := flag.String("in", "examples/demo.typeline", "DSL 文件路径")
	output := flag.String("out", "output/layout.json", "布局结果 JSON 输出路径")
	cfgPath := flag.String("config", "", "TOML 配置路径（字体资源与缺省约束）")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	watch := flag.Bool("watch", false, "监听输入文件变化并自动重新布局")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	var cfg *config.Config
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
		cfg = loaded
	}

	opts, err := buildOptions(cfg, *cfgPath)
	if err != nil {
		log.Fatalf("初始化测量后端失败: %v", err)
	}

	if err := run(*input, *output, inputData, opts); err != nil {
		log.Fatalf("布局失败: %v", err)
	}
	fmt.Printf("已生成布局结果：%s\n", *output)

	if *watch {
		if err := watchLoop(*input, *output, inputData, opts); err != nil {
			log.Fatalf("监听失败: %v", err)
		}
	}
}

// buildOptions 根据配置选择测量后端：声明了字体资源时使用 canvas 后端，
// 否则退到零资源的内置字体后端。
func buildOptions(cfg *config.Config, cfgPath string) (job.BuildOptions, error) {
	opts := job.BuildOptions{
		Defaults: job.Defaults{
			Style:       cfg.StyleDefaults(),
			Constraints: cfg.Constraints(),
			LineSpacing: cfg.LineSpacing(),
		},
	}

	if cfg != nil && len(cfg.Fonts) > 0 {
		resources := make(map[string]canvasmeasure.Resource, len(cfg.Fonts))
		for name, path := range cfg.Fonts {
			resources[name] = canvasmeasure.Resource{Path: path}
		}
		opts.Measurer = canvasmeasure.NewWithOptions(canvasmeasure.Options{
			BaseDir: filepath.Dir(cfgPath),
			Fonts:   resources,
		})
		return opts, nil
	}

	m, err := fixedfont.New()
	if err != nil {
		return job.BuildOptions{}, err
	}
	opts.Measurer = m
	return opts, nil
}

// run 串联解析、布局与结果输出。
func run(inputPath, outputPath string, data any, opts job.BuildOptions) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	result, err := job.Build(doc, data, opts)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := job.WriteDebugJSON(result, outputPath); err != nil {
		return fmt.Errorf("写入布局 JSON 失败: %w", err)
	}
	return nil
}

// watchLoop 监听输入文件所在目录，文件被写入或替换时重新布局。
// 单次布局失败只记录日志，不退出监听。
func watchLoop(inputPath, outputPath string, data any, opts job.BuildOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 监听目录而非文件：编辑器保存时常以重命名替换文件
	if err := watcher.Add(filepath.Dir(inputPath)); err != nil {
		return err
	}
	target, err := filepath.Abs(inputPath)
	if err != nil {
		return err
	}
	log.Printf("监听 %s，按 Ctrl+C 退出", inputPath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := run(inputPath, outputPath, data, opts); err != nil {
				log.Printf("重新布局失败: %v", err)
				continue
			}
			log.Printf("已更新布局结果：%s", outputPath)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("监听错误: %v", err)
		}
	}
}
