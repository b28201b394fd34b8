package chart

// Palette 按序列首次出现的顺序分配颜色，序列数超过颜色数时循环使用
// Palette assigns colors by first-come ordinal, cycling when there are more keys than colors.
type Palette struct {
	colors []string
	index  map[string]int
}

// NewPalette assigns colors to keys in the given order. Duplicate keys keep their first slot.
func NewPalette(colors []string, keys ...string) Palette {
	p := Palette{
		colors: colors,
		index:  make(map[string]int, len(keys)),
	}
	for _, key := range keys {
		if _, ok := p.index[key]; !ok {
			p.index[key] = len(p.index)
		}
	}
	return p
}

// Color returns the color of key. Unknown keys get the color the next new key would receive.
func (p Palette) Color(key string) string {
	if len(p.colors) == 0 {
		return ""
	}
	ordinal, ok := p.index[key]
	if !ok {
		ordinal = len(p.index)
	}
	return p.colors[ordinal%len(p.colors)]
}
