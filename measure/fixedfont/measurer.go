package fixedfont

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/typeline/fonts"
	"github.com/ByLCY/typeline/layout"
)

// Measurer 是零外部资源的测量后端：基于 golang.org/x/image/font/opentype
// 对单一字体做确定性度量，作为 CLI 在没有配置字体时的缺省实现，
// 也便于测试。仅解释 StyleAttrs 的 size 键（缺省 12pt），
// 宽高换算为 mm 返回，与 canvas 后端保持同一单位约定。
type Measurer struct {
	otf *sfnt.Font

	mu    sync.Mutex
	faces map[float64]font.Face // by size in pt
}

var _ layout.Measurer = (*Measurer)(nil)

// New 构造使用内置 go-regular 字体的测量后端。
func New() (*Measurer, error) {
	data, err := fonts.Load("go-regular")
	if err != nil {
		return nil, err
	}
	return NewFromBytes(data)
}

// NewFromBytes 从 TTF/OTF 字节构造测量后端。
func NewFromBytes(data []byte) (*Measurer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	return &Measurer{otf: f, faces: map[float64]font.Face{}}, nil
}

// Measure 实现 layout.Measurer。
func (m *Measurer) Measure(texts []string, attrs layout.StyleAttrs) ([]layout.Extent, error) {
	sizePt := 12.0
	if l := layout.ParseLength(attrs["size"]); !l.IsZero() {
		sizePt = l.ToPT()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	face, err := m.face(sizePt)
	if err != nil {
		return nil, err
	}
	// 72 DPI 下像素即 pt，统一换算为 mm
	height := fixedToFloat(face.Metrics().Height) * layout.PtToMm

	out := make([]layout.Extent, len(texts))
	for i, t := range texts {
		w := fixedToFloat(font.MeasureString(face, t)) * layout.PtToMm
		out[i] = layout.Extent{Width: w, Height: height}
	}
	return out, nil
}

func (m *Measurer) face(sizePt float64) (font.Face, error) {
	if face, ok := m.faces[sizePt]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(m.otf, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 %gpt 字体面失败: %w", sizePt, err)
	}
	m.faces[sizePt] = face
	return face, nil
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
