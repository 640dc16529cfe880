package mealplan

import "strings"

// Rice texture choices.
const (
	RiceNormal   = "일반밥"
	RicePorridge = "일반죽"
	RiceMashed   = "갈죽"
)

// Side-dish texture choices.
const (
	SideNormal = "일반찬"
	SideMinced = "다진찬"
	SideMashed = "갈찬"
)

var textureAliases = map[string]string{
	"normal-rice":     RiceNormal,
	"normal-porridge": RicePorridge,
	"mashed-porridge": RiceMashed,
	"normal-side":     SideNormal,
	"minced-side":     SideMinced,
	"mashed-side":     SideMashed,
}

// Option is the texture policy applied to a selected menu.
type Option struct {
	// SideSuffix is appended to main, side and kimchi menu names.
	SideSuffix string `json:"sideSuffix"`
	// SoupSuffix is appended to the soup menu name.
	SoupSuffix string `json:"soupSuffix"`
	// RiceSubstitution replaces rice menu names; nil when rice is served as is.
	RiceSubstitution map[string]string `json:"riceSubstitution,omitempty"`
}

// IsNoop reports whether applying the option leaves menu names unchanged.
func (o Option) IsNoop() bool {
	return o.SideSuffix == "" && o.SoupSuffix == "" && len(o.RiceSubstitution) == 0
}

// ResolveOption maps a rice and side texture choice to its policy. Only four
// combinations carry a policy; any other pairing yields the zero Option.
func ResolveOption(rice, side string) Option {
	rice, side = normalizeTexture(rice), normalizeTexture(side)
	switch {
	case rice == RiceNormal && side == SideNormal:
		return Option{}
	case rice == RiceNormal && side == SideMinced:
		return Option{SideSuffix: "_다진찬", SoupSuffix: "_건더기잘게"}
	case rice == RicePorridge && side == SideMinced:
		return Option{
			SideSuffix:       "_다진찬",
			SoupSuffix:       "_건더기잘게",
			RiceSubstitution: map[string]string{"잡곡밥": "야채죽", "쌀밥": "야채죽"},
		}
	case rice == RiceMashed && side == SideMashed:
		return Option{
			SideSuffix:       "_갈찬",
			SoupSuffix:       "_건더기갈음",
			RiceSubstitution: map[string]string{"잡곡밥": "야채죽_갈죽", "쌀밥": "야채죽_갈죽"},
		}
	default:
		return Option{}
	}
}

func normalizeTexture(raw string) string {
	s := strings.TrimSpace(raw)
	if alias, ok := textureAliases[strings.ToLower(s)]; ok {
		return alias
	}
	return s
}
