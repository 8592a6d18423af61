package canvasmeasure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/typeline/fonts"
	"github.com/ByLCY/typeline/layout"
)

// Measurer 基于 github.com/tdewolff/canvas 的字体面实现 layout.Measurer。
// 它解释 StyleAttrs 中的 font/src/style/size 四个键（其余键忽略）：
//   - font:  注入或注册过的字体资源名（缺省 "Body"）
//   - src:   字体来源，支持 built-in:<name>、embed:<path> 与文件路径
//   - style: 字重/斜体描述（如 "Bold Italic"）
//   - size:  字号（带单位的长度，缺省 12pt）
//
// 宽高单位沿用 canvas 的 mm 约定；字体面创建按 pt，在边界做换算。
type Measurer struct {
	baseDir string

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var _ layout.Measurer = (*Measurer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas measurer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // fonts accessible via built-in:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// New creates a canvas-based measurer rooted at baseDir for resolving font paths.
func New(baseDir string) *Measurer { return NewWithOptions(Options{BaseDir: baseDir}) }

// NewWithOptions creates a measurer with injected font resources and optional baseDir.
func NewWithOptions(opts Options) *Measurer {
	m := &Measurer{
		baseDir:      opts.BaseDir,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			m.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // ignore error here; will be caught when actually used
			if len(data) > 0 {
				m.fontBlobs[name] = data
			}
		}
	}
	return m
}

// fontSpec 描述一次测量所使用的字体，由 StyleAttrs 解析得到。
type fontSpec struct {
	name  string
	src   string
	style string
}

// Measure 实现 layout.Measurer：为整批文本解析一次字体面，
// 逐条返回 TextWidth 与字体行高。结果与输入等长、同序。
func (m *Measurer) Measure(texts []string, attrs layout.StyleAttrs) ([]layout.Extent, error) {
	spec := specFromAttrs(attrs)
	sizePt := 12.0
	if l := layout.ParseLength(attrs["size"]); !l.IsZero() {
		sizePt = l.ToPT()
	}
	face, err := m.fontFace(spec, sizePt)
	if err != nil {
		return nil, err
	}
	height := face.Metrics().LineHeight

	out := make([]layout.Extent, len(texts))
	for i, t := range texts {
		out[i] = layout.Extent{Width: face.TextWidth(t), Height: height}
	}
	return out, nil
}

func specFromAttrs(attrs layout.StyleAttrs) fontSpec {
	spec := fontSpec{
		name:  attrs["font"],
		src:   attrs["src"],
		style: attrs["style"],
	}
	if spec.name == "" {
		spec.name = "Body"
	}
	if spec.src == "" {
		if strings.ContainsRune(spec.name, ':') {
			// font 直接写成 embed:/built-in: 来源时视同 src
			spec.src = spec.name
		} else {
			// 按资源名查注入的字体；没有命中时走回退字体
			spec.src = "built-in:" + spec.name
		}
	}
	return spec
}

func (m *Measurer) fontFace(spec fontSpec, sizePt float64) (*canvas.FontFace, error) {
	family, style, err := m.ensureFontFamily(spec)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, canvas.Black, style, canvas.FontNormal), nil
}

func (m *Measurer) ensureFontFamily(spec fontSpec) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fmt.Sprintf("%s|%s|%s", spec.name, spec.src, spec.style)
	m.fontMu.Lock()
	defer m.fontMu.Unlock()

	if entry, ok := m.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(spec.style)
	family := canvas.NewFontFamily(spec.name)

	data, err := m.loadFontBytes(spec)
	if err == nil {
		err = family.LoadFont(data, 0, style)
	}
	if err != nil {
		fallback, fbErr := m.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		m.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
		return fallback, canvas.FontRegular, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	m.fontFamilies[key] = entry
	return family, style, nil
}

func (m *Measurer) loadFontBytes(spec fontSpec) ([]byte, error) {
	src := spec.src
	if src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", spec.name)
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := m.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(strings.TrimPrefix(src, "embed:"))
	}
	// path based
	path := src
	if m.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.baseDir, path)
	}
	return os.ReadFile(path)
}

func (m *Measurer) fallback() (*canvas.FontFamily, error) {
	if m.fallbackFamily != nil {
		return m.fallbackFamily, nil
	}
	data, err := fonts.Load("go-regular")
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("typeline-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	m.fallbackFamily = family
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
