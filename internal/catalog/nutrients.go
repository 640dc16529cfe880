package catalog

import "strings"

// Nutrient names a tracked nutrient column.
type Nutrient string

const (
	Weight       Nutrient = "총 중량"
	Energy       Nutrient = "에너지"
	Carbohydrate Nutrient = "탄수화물"
	Sugar        Nutrient = "당류"
	Fiber        Nutrient = "식이섬유"
	Protein      Nutrient = "단백질"
	Fat          Nutrient = "지방"
	SaturatedFat Nutrient = "포화지방"
	Sodium       Nutrient = "나트륨"
	Calcium      Nutrient = "칼슘"
	Cholesterol  Nutrient = "콜레스테롤"
	Potassium    Nutrient = "칼륨"
)

// Column pairs a nutrient with its header in menu catalog sheets.
type Column struct {
	Nutrient Nutrient
	Header   string
}

// Columns lists nutrient columns in sheet order.
var Columns = []Column{
	{Weight, "총 중량"},
	{Energy, "에너지(kcal)"},
	{Carbohydrate, "탄수화물(g)"},
	{Sugar, "당류(g)"},
	{Fiber, "식이섬유(g)"},
	{Protein, "단백질(g)"},
	{Fat, "지방(g)"},
	{SaturatedFat, "포화지방(g)"},
	{Sodium, "나트륨(mg)"},
	{Calcium, "칼슘(mg)"},
	{Cholesterol, "콜레스테롤"},
	{Potassium, "칼륨(mg)"},
}

// Nutrients is the nutrient vector of one menu row or a meal total.
type Nutrients struct {
	Weight       float64 `json:"weight"`
	Energy       float64 `json:"energy"`
	Carbohydrate float64 `json:"carbohydrate"`
	Sugar        float64 `json:"sugar"`
	Fiber        float64 `json:"fiber"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	SaturatedFat float64 `json:"saturatedFat"`
	Sodium       float64 `json:"sodium"`
	Calcium      float64 `json:"calcium"`
	Cholesterol  float64 `json:"cholesterol"`
	Potassium    float64 `json:"potassium"`
}

// Get returns the value for n. Unknown nutrients report false.
func (v Nutrients) Get(n Nutrient) (float64, bool) {
	if p := v.field(n); p != nil {
		return *p, true
	}
	return 0, false
}

// Set assigns the value for n and reports whether n is tracked.
func (v *Nutrients) Set(n Nutrient, value float64) bool {
	p := v.field(n)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (v *Nutrients) field(n Nutrient) *float64 {
	switch n {
	case Weight:
		return &v.Weight
	case Energy:
		return &v.Energy
	case Carbohydrate:
		return &v.Carbohydrate
	case Sugar:
		return &v.Sugar
	case Fiber:
		return &v.Fiber
	case Protein:
		return &v.Protein
	case Fat:
		return &v.Fat
	case SaturatedFat:
		return &v.SaturatedFat
	case Sodium:
		return &v.Sodium
	case Calcium:
		return &v.Calcium
	case Cholesterol:
		return &v.Cholesterol
	case Potassium:
		return &v.Potassium
	}
	return nil
}

// Add returns the element-wise sum.
func (v Nutrients) Add(o Nutrients) Nutrients {
	out := v
	for _, c := range Columns {
		a, _ := v.Get(c.Nutrient)
		b, _ := o.Get(c.Nutrient)
		out.Set(c.Nutrient, a+b)
	}
	return out
}

// Scale returns every column multiplied by factor.
func (v Nutrients) Scale(factor float64) Nutrients {
	out := v
	for _, c := range Columns {
		a, _ := v.Get(c.Nutrient)
		out.Set(c.Nutrient, a*factor)
	}
	return out
}

// ParseNutrient maps a sheet header such as "나트륨(mg)" or "에너지" to its
// nutrient. Unit suffixes in parentheses and surrounding spaces are ignored.
func ParseNutrient(header string) (Nutrient, bool) {
	name := strings.TrimSpace(header)
	if i := strings.IndexAny(name, "(（"); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	for _, c := range Columns {
		if name == string(c.Nutrient) || strings.TrimSpace(header) == c.Header {
			return c.Nutrient, true
		}
	}
	if name == "중량" || name == "총중량" {
		return Weight, true
	}
	return "", false
}
